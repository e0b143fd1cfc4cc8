package listmap

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PlaceholderImage is the cover shown for entries that have not been enriched yet.
const PlaceholderImage = "https://shorturl.at/JpeLA"

// Reading statuses for an entry.
const (
	StatusPlanToRead = "plan-to-read"
	StatusReading    = "reading"
	StatusCompleted  = "completed"
	StatusDropped    = "dropped"
	StatusOnHold     = "on-hold"
)

const (
	MaxNameLength     = 200
	MaxChapter        = 9999
	MaxNotesLength    = 1000
	MaxSynopsisLength = 2000
)

// Entry is a single tracked manga/manhwa/manhua with progress and metadata.
type Entry struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Chapter     int       `json:"chapter"`
	ImageURL    string    `json:"imageUrl"`
	MalID       *int64    `json:"malId,omitempty"`
	Author      string    `json:"author,omitempty"`
	Status      string    `json:"status"`
	UserRating  *int      `json:"userRating,omitempty"`
	UserNotes   string    `json:"userNotes,omitempty"`
	Synopsis    string    `json:"synopsis,omitempty"`
	AddedAt     time.Time `json:"addedAt"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// NewEntry creates an entry with defaults applied and a fresh id.
func NewEntry(name string) Entry {
	now := time.Now().UTC()
	return Entry{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(name),
		Chapter:     0,
		ImageURL:    PlaceholderImage,
		Status:      StatusPlanToRead,
		AddedAt:     now,
		LastUpdated: now,
	}
}

// Validate checks the entry against the field constraints.
func (e *Entry) Validate() error {
	name := strings.TrimSpace(e.Name)
	if name == "" || len(name) > MaxNameLength {
		return fmt.Errorf("entry name must be 1-%d characters", MaxNameLength)
	}
	if e.Chapter < 0 || e.Chapter > MaxChapter {
		return fmt.Errorf("chapter must be between 0 and %d", MaxChapter)
	}
	if e.ImageURL != "" && !strings.HasPrefix(e.ImageURL, "http://") && !strings.HasPrefix(e.ImageURL, "https://") {
		return fmt.Errorf("image url must be http(s)")
	}
	if !validStatus(e.Status) {
		return fmt.Errorf("invalid status %q", e.Status)
	}
	if e.UserRating != nil && (*e.UserRating < 1 || *e.UserRating > 10) {
		return fmt.Errorf("rating must be between 1 and 10")
	}
	if len(e.UserNotes) > MaxNotesLength {
		return fmt.Errorf("notes must be at most %d characters", MaxNotesLength)
	}
	if len(e.Synopsis) > MaxSynopsisLength {
		return fmt.Errorf("synopsis must be at most %d characters", MaxSynopsisLength)
	}
	return nil
}

// normalize fills defaults for entries arriving from imports or replace payloads.
func (e *Entry) normalize(now time.Time) {
	e.Name = strings.TrimSpace(e.Name)
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.ImageURL == "" {
		e.ImageURL = PlaceholderImage
	}
	if e.Status == "" {
		e.Status = StatusPlanToRead
	}
	if e.Chapter < 0 {
		e.Chapter = 0
	}
	if e.Chapter > MaxChapter {
		e.Chapter = MaxChapter
	}
	if e.AddedAt.IsZero() {
		e.AddedAt = now
	}
	if e.LastUpdated.IsZero() {
		e.LastUpdated = now
	}
}

func validStatus(s string) bool {
	switch s {
	case StatusPlanToRead, StatusReading, StatusCompleted, StatusDropped, StatusOnHold:
		return true
	}
	return false
}

// EntryPatch is a field-level patch applied to an existing entry. Nil fields
// are left untouched.
type EntryPatch struct {
	Name       *string `json:"name,omitempty"`
	Chapter    *int    `json:"chapter,omitempty"`
	ImageURL   *string `json:"imageUrl,omitempty"`
	MalID      *int64  `json:"malId,omitempty"`
	Author     *string `json:"author,omitempty"`
	Status     *string `json:"status,omitempty"`
	UserRating *int    `json:"userRating,omitempty"`
	UserNotes  *string `json:"userNotes,omitempty"`
	Synopsis   *string `json:"synopsis,omitempty"`
}

// Apply copies the non-nil patch fields onto the entry and stamps LastUpdated.
func (p EntryPatch) Apply(e *Entry) error {
	patched := *e
	if p.Name != nil {
		patched.Name = strings.TrimSpace(*p.Name)
	}
	if p.Chapter != nil {
		patched.Chapter = *p.Chapter
	}
	if p.ImageURL != nil {
		patched.ImageURL = *p.ImageURL
	}
	if p.MalID != nil {
		patched.MalID = p.MalID
	}
	if p.Author != nil {
		patched.Author = *p.Author
	}
	if p.Status != nil {
		patched.Status = *p.Status
	}
	if p.UserRating != nil {
		patched.UserRating = p.UserRating
	}
	if p.UserNotes != nil {
		patched.UserNotes = *p.UserNotes
	}
	if p.Synopsis != nil {
		patched.Synopsis = *p.Synopsis
	}
	if err := patched.Validate(); err != nil {
		return err
	}
	patched.LastUpdated = time.Now().UTC()
	*e = patched
	return nil
}
