// Package listmap holds the ordered category-name -> entries mapping shared by
// the API server and the CLI client. Category insertion order is significant:
// it drives render and sidebar order, so the map is a slice under the hood
// rather than a Go map.
package listmap

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const MaxCategoryNameLength = 50

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryNotFound = errors.New("category not found")
	ErrEntryNotFound    = errors.New("entry not found")
)

// Category is a named, ordered bucket of entries within one user's list.
type Category struct {
	Name        string  `json:"name"`
	Entries     []Entry `json:"entries"`
	SortOrder   int     `json:"sortOrder"`
	Description string  `json:"description,omitempty"`
	Color       string  `json:"color,omitempty"`
	IsPublic    bool    `json:"isPublic"`
}

// Map is the full per-user aggregate of categories and entries.
// The zero value is an empty, usable map.
type Map struct {
	categories []Category
}

// New returns an empty map.
func New() *Map {
	return &Map{}
}

// FromCategories builds a map from an already-ordered category slice.
func FromCategories(categories []Category) *Map {
	m := &Map{categories: categories}
	m.renumber()
	return m
}

// Categories returns the ordered category slice. Callers must not mutate it.
func (m *Map) Categories() []Category {
	return m.categories
}

// Names returns the category names in order.
func (m *Map) Names() []string {
	names := make([]string, len(m.categories))
	for i, c := range m.categories {
		names[i] = c.Name
	}
	return names
}

// Len returns the number of categories.
func (m *Map) Len() int {
	return len(m.categories)
}

// TotalEntries counts entries across all categories.
func (m *Map) TotalEntries() int {
	total := 0
	for _, c := range m.categories {
		total += len(c.Entries)
	}
	return total
}

// Get returns the entries of a category. Name comparison is case-sensitive
// exact match.
func (m *Map) Get(name string) ([]Entry, bool) {
	if i := m.index(name); i >= 0 {
		return m.categories[i].Entries, true
	}
	return nil, false
}

// AddCategory appends an empty category. Duplicate names are rejected.
func (m *Map) AddCategory(name string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > MaxCategoryNameLength {
		return fmt.Errorf("category name must be 1-%d characters", MaxCategoryNameLength)
	}
	if m.index(name) >= 0 {
		return ErrCategoryExists
	}
	m.categories = append(m.categories, Category{
		Name:      name,
		Entries:   []Entry{},
		SortOrder: len(m.categories) + 1,
	})
	return nil
}

// RenameCategory renames a category in place, preserving its position and
// entry order. Renaming onto an existing name is rejected.
func (m *Map) RenameCategory(oldName, newName string) error {
	newName = strings.TrimSpace(newName)
	if newName == "" || len(newName) > MaxCategoryNameLength {
		return fmt.Errorf("category name must be 1-%d characters", MaxCategoryNameLength)
	}
	i := m.index(oldName)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if newName == oldName {
		return nil
	}
	if m.index(newName) >= 0 {
		return ErrCategoryExists
	}
	m.categories[i].Name = newName
	return nil
}

// DeleteCategory removes a category and all its entries.
func (m *Map) DeleteCategory(name string) error {
	i := m.index(name)
	if i < 0 {
		return ErrCategoryNotFound
	}
	m.categories = append(m.categories[:i], m.categories[i+1:]...)
	m.renumber()
	return nil
}

// MoveCategoryUp swaps a category with its predecessor. Moving the first
// category is a no-op.
func (m *Map) MoveCategoryUp(name string) error {
	i := m.index(name)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if i > 0 {
		m.categories[i-1], m.categories[i] = m.categories[i], m.categories[i-1]
		m.renumber()
	}
	return nil
}

// MoveCategoryDown swaps a category with its successor. Moving the last
// category is a no-op.
func (m *Map) MoveCategoryDown(name string) error {
	i := m.index(name)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if i < len(m.categories)-1 {
		m.categories[i], m.categories[i+1] = m.categories[i+1], m.categories[i]
		m.renumber()
	}
	return nil
}

// AddEntry appends an entry to a category after validation.
func (m *Map) AddEntry(categoryName string, entry Entry) error {
	i := m.index(categoryName)
	if i < 0 {
		return ErrCategoryNotFound
	}
	if err := entry.Validate(); err != nil {
		return err
	}
	m.categories[i].Entries = append(m.categories[i].Entries, entry)
	return nil
}

// UpdateEntry applies a field-level patch to an entry by id.
func (m *Map) UpdateEntry(categoryName, entryID string, patch EntryPatch) error {
	i := m.index(categoryName)
	if i < 0 {
		return ErrCategoryNotFound
	}
	for j := range m.categories[i].Entries {
		if m.categories[i].Entries[j].ID == entryID {
			return patch.Apply(&m.categories[i].Entries[j])
		}
	}
	return ErrEntryNotFound
}

// DeleteEntry removes an entry by id.
func (m *Map) DeleteEntry(categoryName, entryID string) error {
	i := m.index(categoryName)
	if i < 0 {
		return ErrCategoryNotFound
	}
	entries := m.categories[i].Entries
	for j := range entries {
		if entries[j].ID == entryID {
			m.categories[i].Entries = append(entries[:j], entries[j+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// SetImage sets the cover of the entry with the given id, wherever it lives.
// Used by enrichment, which touches imageUrl only.
func (m *Map) SetImage(entryID, imageURL string) bool {
	for i := range m.categories {
		for j := range m.categories[i].Entries {
			if m.categories[i].Entries[j].ID == entryID {
				m.categories[i].Entries[j].ImageURL = imageURL
				m.categories[i].Entries[j].LastUpdated = time.Now().UTC()
				return true
			}
		}
	}
	return false
}

// SearchResult pairs a matching entry with the category it lives in.
type SearchResult struct {
	CategoryName string
	Entry        Entry
}

// Search returns entries whose name or author contains the term,
// case-insensitively, in category order.
func (m *Map) Search(term string) []SearchResult {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return nil
	}
	var results []SearchResult
	for _, c := range m.categories {
		for _, e := range c.Entries {
			if strings.Contains(strings.ToLower(e.Name), term) ||
				(e.Author != "" && strings.Contains(strings.ToLower(e.Author), term)) {
				results = append(results, SearchResult{CategoryName: c.Name, Entry: e})
			}
		}
	}
	return results
}

// Normalize fills defaults on every entry and renumbers sort orders. Applied
// to maps arriving over the wire or from imports before persistence.
func (m *Map) Normalize() {
	now := time.Now().UTC()
	for i := range m.categories {
		if m.categories[i].Entries == nil {
			m.categories[i].Entries = []Entry{}
		}
		for j := range m.categories[i].Entries {
			m.categories[i].Entries[j].normalize(now)
		}
	}
	m.renumber()
}

// Clone returns a deep copy of the map.
func (m *Map) Clone() *Map {
	categories := make([]Category, len(m.categories))
	for i, c := range m.categories {
		entries := make([]Entry, len(c.Entries))
		copy(entries, c.Entries)
		c.Entries = entries
		categories[i] = c
	}
	return &Map{categories: categories}
}

func (m *Map) index(name string) int {
	for i, c := range m.categories {
		if c.Name == name {
			return i
		}
	}
	return -1
}

func (m *Map) renumber() {
	for i := range m.categories {
		m.categories[i].SortOrder = i + 1
	}
}
