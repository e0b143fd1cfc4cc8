// Package sync holds the client-side engine that owns the in-session
// category map and keeps it consistent with user edits, file imports, server
// round-trips and enrichment results.
//
// Saves are fire-and-forget: every mutation is applied locally first, then
// the whole map is pushed to the server in the background. A failed push
// surfaces an error notification but does not roll the local state back, and
// there is no retry queue: two rapid edits can race and the last response
// wins. The server keeps no version token, so stale saves are not detected.
package sync

import (
	"context"
	"errors"
	"fmt"
	stdsync "sync"

	"go.uber.org/zap"

	"mangabook/pkg/listmap"
)

// State is the session lifecycle of the engine.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateReady
	StateSaving
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSaving:
		return "saving"
	default:
		return "unknown"
	}
}

// ErrNotReady is returned for mutations attempted before a list is loaded.
var ErrNotReady = errors.New("no list loaded")

// API is the slice of the backend the engine talks to.
type API interface {
	GetList(ctx context.Context) (*listmap.Map, error)
	ReplaceList(ctx context.Context, m *listmap.Map) (*listmap.Map, error)
}

// Engine owns the authoritative in-session category map.
type Engine struct {
	api      API
	notifier Notifier
	logger   *zap.Logger

	mu    stdsync.Mutex
	state State
	list  *listmap.Map

	saves stdsync.WaitGroup
}

func NewEngine(api API, notifier Notifier, logger *zap.Logger) *Engine {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		api:      api,
		notifier: notifier,
		logger:   logger,
		state:    StateUnauthenticated,
		list:     listmap.New(),
	}
}

// State returns the current session state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Snapshot returns a deep copy of the current map.
func (e *Engine) Snapshot() *listmap.Map {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Clone()
}

// Load fetches the server's category map after authentication. An empty map
// means a fresh account: the engine shows getting-started state and never
// creates default categories client-side; those exist only server-side.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	e.state = StateLoading
	e.mu.Unlock()

	e.notifier.Notify(LevelInfo, "Loading your manga data...")
	m, err := e.api.GetList(ctx)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = StateUnauthenticated
		e.notifier.Notify(LevelError, "Error loading your manga data")
		return err
	}
	e.list = m
	e.state = StateReady

	if m.Len() == 0 {
		e.notifier.Notify(LevelInfo, "Welcome! Start by adding a category or importing your list.")
	} else {
		e.notifier.Notify(LevelSuccess, "Manga data loaded successfully")
	}
	return nil
}

// Reset drops the session state, e.g. after logout.
func (e *Engine) Reset() {
	e.saves.Wait()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.list = listmap.New()
	e.state = StateUnauthenticated
}

// Wait blocks until all in-flight saves have completed. Tests and the CLI
// use it to settle before exiting.
func (e *Engine) Wait() {
	e.saves.Wait()
}

func (e *Engine) AddCategory(name string) error {
	return e.mutate(fmt.Sprintf("Category %q created", name), func(m *listmap.Map) error {
		return m.AddCategory(name)
	})
}

func (e *Engine) RenameCategory(oldName, newName string) error {
	return e.mutate(fmt.Sprintf("Category renamed to %q", newName), func(m *listmap.Map) error {
		return m.RenameCategory(oldName, newName)
	})
}

func (e *Engine) DeleteCategory(name string) error {
	return e.mutate(fmt.Sprintf("Category %q deleted", name), func(m *listmap.Map) error {
		return m.DeleteCategory(name)
	})
}

// MoveCategoryUp and MoveCategoryDown reorder by swapping adjacent
// categories; order is significant and drives rendering.
func (e *Engine) MoveCategoryUp(name string) error {
	return e.mutate("Category order updated", func(m *listmap.Map) error {
		return m.MoveCategoryUp(name)
	})
}

func (e *Engine) MoveCategoryDown(name string) error {
	return e.mutate("Category order updated", func(m *listmap.Map) error {
		return m.MoveCategoryDown(name)
	})
}

func (e *Engine) AddEntry(categoryName string, entry listmap.Entry) error {
	return e.mutate(fmt.Sprintf("%q added", entry.Name), func(m *listmap.Map) error {
		return m.AddEntry(categoryName, entry)
	})
}

func (e *Engine) UpdateEntry(categoryName, entryID string, patch listmap.EntryPatch) error {
	return e.mutate("Manga updated", func(m *listmap.Map) error {
		return m.UpdateEntry(categoryName, entryID, patch)
	})
}

func (e *Engine) DeleteEntry(categoryName, entryID string) error {
	return e.mutate("Manga deleted", func(m *listmap.Map) error {
		return m.DeleteEntry(categoryName, entryID)
	})
}

// ImportReplace sets the whole map from an import. Import is "set", not
// "merge": existing categories are discarded, matching the original
// behavior. Whether merging would serve users with existing data better is
// an open usability question; the literal overwrite is kept.
func (e *Engine) ImportReplace(imported *listmap.Map) error {
	return e.mutate(fmt.Sprintf("Imported %d entries", imported.TotalEntries()), func(m *listmap.Map) error {
		imported.Normalize()
		*m = *imported.Clone()
		return nil
	})
}

// ApplyCovers patches imageUrl on enriched entries and persists once.
func (e *Engine) ApplyCovers(covers map[string]string) error {
	if len(covers) == 0 {
		return nil
	}
	return e.mutate(fmt.Sprintf("Added covers for %d entries", len(covers)), func(m *listmap.Map) error {
		for entryID, imageURL := range covers {
			m.SetImage(entryID, imageURL)
		}
		return nil
	})
}

// Search runs over the in-memory map; no server round-trip.
func (e *Engine) Search(term string) []listmap.SearchResult {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.list.Search(term)
}

// mutate applies fn to the owned map and, on success, pushes the full
// document to the server in the background. Every durable mutation funnels
// through here: one entry point, one persistence path.
func (e *Engine) mutate(successMsg string, fn func(m *listmap.Map) error) error {
	e.mu.Lock()
	if e.state == StateUnauthenticated || e.state == StateLoading {
		e.mu.Unlock()
		return ErrNotReady
	}
	if err := fn(e.list); err != nil {
		e.mu.Unlock()
		return err
	}
	snapshot := e.list.Clone()
	e.state = StateSaving
	e.mu.Unlock()

	e.saves.Add(1)
	go func() {
		defer e.saves.Done()
		_, err := e.api.ReplaceList(context.Background(), snapshot)

		e.mu.Lock()
		if e.state == StateSaving {
			e.state = StateReady
		}
		e.mu.Unlock()

		if err != nil {
			// Local state stays the source of truth for the session.
			e.logger.Warn("list save failed", zap.Error(err))
			e.notifier.Notify(LevelError, "Error saving data")
			return
		}
		e.notifier.Notify(LevelSuccess, successMsg)
	}()
	return nil
}
