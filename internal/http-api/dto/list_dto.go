package dto

import (
	"mangabook/pkg/listmap"
)

// CreateCategoryRequest: payload for creating a category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required,min=1,max=50"`
}

// RenameCategoryRequest: payload for renaming a category
type RenameCategoryRequest struct {
	NewName string `json:"newName" binding:"required,min=1,max=50"`
}

// MangaPayload: client-supplied entry fields. Id and addedAt are always
// assigned server-side.
type MangaPayload struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Chapter    int    `json:"chapter" binding:"min=0,max=9999"`
	ImageURL   string `json:"imageUrl"`
	MalID      *int64 `json:"malId"`
	Author     string `json:"author"`
	Status     string `json:"status"`
	UserRating *int   `json:"userRating"`
	UserNotes  string `json:"userNotes"`
	Synopsis   string `json:"synopsis"`
}

// ToEntry converts the payload into an entry shell for the service to stamp.
func (p MangaPayload) ToEntry() listmap.Entry {
	return listmap.Entry{
		Name:       p.Name,
		Chapter:    p.Chapter,
		ImageURL:   p.ImageURL,
		MalID:      p.MalID,
		Author:     p.Author,
		Status:     p.Status,
		UserRating: p.UserRating,
		UserNotes:  p.UserNotes,
		Synopsis:   p.Synopsis,
	}
}

// AddMangaRequest: payload for adding an entry to a category
type AddMangaRequest struct {
	CategoryName string       `json:"categoryName" binding:"required"`
	Manga        MangaPayload `json:"manga" binding:"required"`
}

// UpdateMangaRequest: field-level patch for an existing entry; nil fields are
// left untouched.
type UpdateMangaRequest struct {
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

// ToPatch converts the request into a listmap patch.
func (r UpdateMangaRequest) ToPatch() listmap.EntryPatch {
	return listmap.EntryPatch{
		Name:       r.Name,
		Chapter:    r.Chapter,
		ImageURL:   r.ImageURL,
		MalID:      r.MalID,
		Author:     r.Author,
		Status:     r.Status,
		UserRating: r.UserRating,
		UserNotes:  r.UserNotes,
		Synopsis:   r.Synopsis,
	}
}
