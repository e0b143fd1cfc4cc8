package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"mangabook/pkg/listmap"
)

// DefaultCategories are created for every new user at registration, in this
// order.
var DefaultCategories = []string{
	"Currently Reading",
	"Plan to Read",
	"Completed",
	"Dropped",
	"On Hold",
}

// Categories wraps the ordered category slice so GORM can persist it as a
// single jsonb document column. The column keeps the full category shape
// (sort order, description, color), not just the wire map.
type Categories []listmap.Category

func (c Categories) Value() (driver.Value, error) {
	if c == nil {
		c = Categories{}
	}
	return json.Marshal([]listmap.Category(c))
}

func (c *Categories) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, (*[]listmap.Category)(c))
	case string:
		return json.Unmarshal([]byte(v), (*[]listmap.Category)(c))
	case nil:
		*c = Categories{}
		return nil
	default:
		return fmt.Errorf("unsupported categories column type %T", value)
	}
}

// MangaList is the aggregate root: one row per user owning all categories and
// entries as a jsonb document.
type MangaList struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       string     `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Categories   Categories `gorm:"type:jsonb;not null" json:"categories"`
	TotalEntries int        `gorm:"default:0;not null" json:"total_entries"`
	IsPublic     bool       `gorm:"default:false;not null" json:"is_public"`
	LastActivity time.Time  `json:"last_activity"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (MangaList) TableName() string {
	return "manga_lists"
}

// Map returns the document as an ordered listmap.
func (l *MangaList) Map() *listmap.Map {
	return listmap.FromCategories(append([]listmap.Category(nil), l.Categories...))
}

// SetMap replaces the document from an ordered listmap.
func (l *MangaList) SetMap(m *listmap.Map) {
	l.Categories = Categories(m.Categories())
}

// Touch recomputes the derived fields before persistence. Explicit instead of
// a save hook so every write path goes through it deliberately.
func (l *MangaList) Touch() {
	total := 0
	for _, c := range l.Categories {
		total += len(c.Entries)
	}
	l.TotalEntries = total
	l.LastActivity = time.Now().UTC()
}

// NewDefaultList builds the list a fresh user starts with: the five default
// categories, each empty.
func NewDefaultList(userID string) *MangaList {
	categories := make(Categories, 0, len(DefaultCategories))
	for i, name := range DefaultCategories {
		categories = append(categories, listmap.Category{
			Name:      name,
			Entries:   []listmap.Entry{},
			SortOrder: i + 1,
		})
	}
	list := &MangaList{
		UserID:     userID,
		Categories: categories,
	}
	list.Touch()
	return list
}
