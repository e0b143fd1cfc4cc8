package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"mangabook/internal/http-api/models"
	"mangabook/pkg/listmap"
)

const testUserID = "user-123"

// storedList wires a mock repository around a single in-memory document so
// service round-trips behave like the real upsert.
func storedList(listRepo *MockListRepository, list *models.MangaList) {
	listRepo.On("FindByUserID", mock.Anything, testUserID).Return(list, nil)
	listRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.MangaList")).Return(nil)
}

func TestGetList_LazilyCreatesDefaults(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)

	listRepo.On("FindByUserID", mock.Anything, testUserID).Return(nil, gorm.ErrRecordNotFound)

	var saved *models.MangaList
	listRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.MangaList")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.MangaList)
		}).
		Return(nil)

	m, err := svc.GetList(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultCategories, m.Names())
	assert.Equal(t, 0, m.TotalEntries())

	require.NotNil(t, saved)
	assert.Equal(t, testUserID, saved.UserID)
	listRepo.AssertExpectations(t)
}

func TestGetList_ReturnsStoredDocument(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)

	list := models.NewDefaultList(testUserID)
	m := list.Map()
	require.NoError(t, m.AddEntry("Completed", listmap.NewEntry("Berserk")))
	list.SetMap(m)
	listRepo.On("FindByUserID", mock.Anything, testUserID).Return(list, nil)

	got, err := svc.GetList(context.Background(), testUserID)
	require.NoError(t, err)
	entries, ok := got.Get("Completed")
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, "Berserk", entries[0].Name)
	listRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestReplaceList_IsIdempotent(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)

	list := models.NewDefaultList(testUserID)
	m := list.Map()
	require.NoError(t, m.AddEntry("Currently Reading", listmap.NewEntry("One Piece")))
	list.SetMap(m)
	storedList(listRepo, list)

	before, err := svc.GetList(context.Background(), testUserID)
	require.NoError(t, err)

	after, err := svc.ReplaceList(context.Background(), testUserID, before.Clone())
	require.NoError(t, err)

	assert.Equal(t, before.Names(), after.Names())
	assert.Equal(t, before.TotalEntries(), after.TotalEntries())
	beforeEntries, _ := before.Get("Currently Reading")
	afterEntries, _ := after.Get("Currently Reading")
	require.Len(t, afterEntries, 1)
	assert.Equal(t, beforeEntries[0].ID, afterEntries[0].ID)
}

func TestReplaceList_CarriesOverCategoryMetadata(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)

	list := models.NewDefaultList(testUserID)
	list.Categories[0].Color = "#ff0000"
	list.Categories[0].Description = "front burner"
	storedList(listRepo, list)

	incoming := listmap.New()
	require.NoError(t, incoming.AddCategory("Currently Reading"))
	require.NoError(t, incoming.AddCategory("Brand New"))

	after, err := svc.ReplaceList(context.Background(), testUserID, incoming)
	require.NoError(t, err)

	categories := after.Categories()
	require.Len(t, categories, 2)
	assert.Equal(t, "#ff0000", categories[0].Color)
	assert.Equal(t, "front burner", categories[0].Description)
	assert.Empty(t, categories[1].Color)
}

func TestCreateCategory_Duplicate(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	_, err := svc.CreateCategory(context.Background(), testUserID, "Completed")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCreateCategory_Appends(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	m, err := svc.CreateCategory(context.Background(), testUserID, "Rereading")
	require.NoError(t, err)
	assert.Equal(t, append(append([]string{}, models.DefaultCategories...), "Rereading"), m.Names())
}

func TestRenameCategory_MissingAndDuplicate(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	_, err := svc.RenameCategory(context.Background(), testUserID, "Nope", "Other")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.RenameCategory(context.Background(), testUserID, "Completed", "Dropped")
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestDeleteCategory_MissingTargetIsNotFound(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	err := svc.DeleteCategory(context.Background(), testUserID, "Nope")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestAddEntry_AssignsServerSideIDAndTimestamps(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	submitted := listmap.Entry{
		ID:      "client-chosen-id",
		Name:    "One Piece",
		Chapter: 1100,
	}
	created, err := svc.AddEntry(context.Background(), testUserID, "Currently Reading", submitted)
	require.NoError(t, err)
	assert.NotEqual(t, "client-chosen-id", created.ID)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "One Piece", created.Name)
	assert.Equal(t, 1100, created.Chapter)
	assert.False(t, created.AddedAt.IsZero())
	assert.Equal(t, listmap.PlaceholderImage, created.ImageURL)
}

func TestAddEntry_MissingCategory(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	_, err := svc.AddEntry(context.Background(), testUserID, "Nope", listmap.Entry{Name: "One Piece"})
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestUpdateEntry_MissingEntry(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	chapter := 5
	err := svc.UpdateEntry(context.Background(), testUserID, "Completed", "nope", listmap.EntryPatch{Chapter: &chapter})
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestDeleteEntry_MissingTargets(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)
	storedList(listRepo, models.NewDefaultList(testUserID))

	assert.ErrorIs(t, svc.DeleteEntry(context.Background(), testUserID, "Nope", "id"), ErrCategoryNotFound)
	assert.ErrorIs(t, svc.DeleteEntry(context.Background(), testUserID, "Completed", "id"), ErrEntryNotFound)
}

func TestSave_RecomputesDerivedFields(t *testing.T) {
	listRepo := new(MockListRepository)
	svc := NewListService(listRepo, nil)

	list := models.NewDefaultList(testUserID)
	listRepo.On("FindByUserID", mock.Anything, testUserID).Return(list, nil)

	var saved *models.MangaList
	listRepo.On("Save", mock.Anything, mock.AnythingOfType("*models.MangaList")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*models.MangaList)
		}).
		Return(nil)

	_, err := svc.AddEntry(context.Background(), testUserID, "Completed", listmap.Entry{Name: "Berserk"})
	require.NoError(t, err)

	require.NotNil(t, saved)
	assert.Equal(t, 1, saved.TotalEntries)
	assert.False(t, saved.LastActivity.IsZero())
}
