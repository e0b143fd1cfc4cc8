package enrichment

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"mangabook/pkg/listmap"
)

const (
	batchSize    = 2
	requestDelay = 500 * time.Millisecond
	batchDelay   = time.Second
)

// Progress reports batch completion so callers can render partial results.
type Progress func(done, total int)

// Enricher fills in covers for entries that still show the placeholder
// image. Entries are processed in small batches with delays between requests
// and batches to stay polite toward the catalog API. A failed lookup is
// non-fatal: the entry keeps its placeholder and the batch moves on.
type Enricher struct {
	client *Client
	logger *zap.Logger
}

func NewEnricher(client *Client, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{client: client, logger: logger}
}

// candidate pairs an entry id with the title to look up.
type candidate struct {
	entryID string
	title   string
}

// Covers maps entry id to the cover url found for it.
type Covers map[string]string

// Enrich looks up covers for every entry in the map whose image is empty or
// the placeholder. It returns the found covers without touching the map;
// applying them is the caller's mutation.
func (e *Enricher) Enrich(ctx context.Context, m *listmap.Map, progress Progress) (Covers, error) {
	var candidates []candidate
	for _, category := range m.Categories() {
		for _, entry := range category.Entries {
			if entry.ImageURL == "" || entry.ImageURL == listmap.PlaceholderImage {
				candidates = append(candidates, candidate{entryID: entry.ID, title: entry.Name})
			}
		}
	}

	covers := make(Covers)
	total := len(candidates)
	if total == 0 {
		return covers, nil
	}

	var mu sync.Mutex
	done := 0

	for start := 0; start < total; start += batchSize {
		if err := ctx.Err(); err != nil {
			return covers, err
		}

		end := start + batchSize
		if end > total {
			end = total
		}
		batch := candidates[start:end]

		// Requests inside a batch run together with staggered starts; one
		// failure never blocks its siblings.
		var wg sync.WaitGroup
		for i, cand := range batch {
			wg.Add(1)
			go func(delay time.Duration, cand candidate) {
				defer wg.Done()
				if delay > 0 {
					select {
					case <-time.After(delay):
					case <-ctx.Done():
						return
					}
				}
				manga, err := e.client.Search(ctx, cand.title)
				if err != nil {
					e.logger.Debug("cover lookup failed",
						zap.String("title", cand.title), zap.Error(err))
					return
				}
				if manga.ImageURL == "" {
					return
				}
				mu.Lock()
				covers[cand.entryID] = manga.ImageURL
				mu.Unlock()
			}(time.Duration(i)*requestDelay, cand)
		}
		wg.Wait()

		done += len(batch)
		if progress != nil {
			progress(done, total)
		}

		if end < total {
			select {
			case <-time.After(batchDelay):
			case <-ctx.Done():
				return covers, ctx.Err()
			}
		}
	}

	return covers, nil
}
