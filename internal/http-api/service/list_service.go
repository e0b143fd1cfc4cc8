package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"mangabook/internal/http-api/models"
	"mangabook/internal/http-api/repository"
	"mangabook/pkg/listmap"
)

// Category/entry errors surface straight from the listmap package; aliased
// here so handlers depend on the service only.
var (
	ErrCategoryExists   = listmap.ErrCategoryExists
	ErrCategoryNotFound = listmap.ErrCategoryNotFound
	ErrEntryNotFound    = listmap.ErrEntryNotFound
)

// ListService is the CRUD surface over a user's list document. Every
// operation is scoped by the authenticated user id passed in by the handler;
// a client-supplied user id is never trusted.
type ListService interface {
	GetList(ctx context.Context, userID string) (*listmap.Map, error)
	ReplaceList(ctx context.Context, userID string, m *listmap.Map) (*listmap.Map, error)
	CreateCategory(ctx context.Context, userID, name string) (*listmap.Map, error)
	RenameCategory(ctx context.Context, userID, oldName, newName string) (*listmap.Map, error)
	DeleteCategory(ctx context.Context, userID, name string) error
	AddEntry(ctx context.Context, userID, categoryName string, entry listmap.Entry) (*listmap.Entry, error)
	UpdateEntry(ctx context.Context, userID, categoryName, entryID string, patch listmap.EntryPatch) error
	DeleteEntry(ctx context.Context, userID, categoryName, entryID string) error
}

type listService struct {
	listRepo repository.ListRepository
	logger   *zap.Logger
}

func NewListService(listRepo repository.ListRepository, logger *zap.Logger) ListService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &listService{listRepo: listRepo, logger: logger}
}

// GetList fetches the user's document, lazily creating it with the default
// categories when absent (covers users whose registration crashed between
// the user and list writes).
func (s *listService) GetList(ctx context.Context, userID string) (*listmap.Map, error) {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	return list.Map(), nil
}

// ReplaceList is the full-document upsert behind POST /list. Category
// metadata (description, color, visibility) is carried over by name from the
// stored document since the wire shape does not include it.
func (s *listService) ReplaceList(ctx context.Context, userID string, m *listmap.Map) (*listmap.Map, error) {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	m.Normalize()
	existing := make(map[string]listmap.Category, len(list.Categories))
	for _, c := range list.Categories {
		existing[c.Name] = c
	}
	merged := m.Categories()
	for i, c := range merged {
		if prev, ok := existing[c.Name]; ok {
			merged[i].Description = prev.Description
			merged[i].Color = prev.Color
			merged[i].IsPublic = prev.IsPublic
		}
	}

	list.SetMap(listmap.FromCategories(merged))
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return list.Map(), nil
}

func (s *listService) CreateCategory(ctx context.Context, userID, name string) (*listmap.Map, error) {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := list.Map()
	if err := m.AddCategory(name); err != nil {
		return nil, err
	}
	list.SetMap(m)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *listService) RenameCategory(ctx context.Context, userID, oldName, newName string) (*listmap.Map, error) {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	m := list.Map()
	if err := m.RenameCategory(oldName, newName); err != nil {
		return nil, err
	}
	list.SetMap(m)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *listService) DeleteCategory(ctx context.Context, userID, name string) error {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	m := list.Map()
	if err := m.DeleteCategory(name); err != nil {
		return err
	}
	list.SetMap(m)
	return s.save(ctx, list)
}

// AddEntry appends to a category with a fresh id and addedAt stamp,
// whatever the client sent for those fields.
func (s *listService) AddEntry(ctx context.Context, userID, categoryName string, entry listmap.Entry) (*listmap.Entry, error) {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	fresh := listmap.NewEntry(entry.Name)
	fresh.Chapter = entry.Chapter
	if entry.ImageURL != "" {
		fresh.ImageURL = entry.ImageURL
	}
	if entry.Status != "" {
		fresh.Status = entry.Status
	}
	fresh.MalID = entry.MalID
	fresh.Author = entry.Author
	fresh.UserRating = entry.UserRating
	fresh.UserNotes = entry.UserNotes
	fresh.Synopsis = entry.Synopsis

	m := list.Map()
	if err := m.AddEntry(categoryName, fresh); err != nil {
		return nil, err
	}
	list.SetMap(m)
	if err := s.save(ctx, list); err != nil {
		return nil, err
	}
	return &fresh, nil
}

func (s *listService) UpdateEntry(ctx context.Context, userID, categoryName, entryID string, patch listmap.EntryPatch) error {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	m := list.Map()
	if err := m.UpdateEntry(categoryName, entryID, patch); err != nil {
		return err
	}
	list.SetMap(m)
	return s.save(ctx, list)
}

func (s *listService) DeleteEntry(ctx context.Context, userID, categoryName, entryID string) error {
	list, err := s.fetchOrCreate(ctx, userID)
	if err != nil {
		return err
	}
	m := list.Map()
	if err := m.DeleteEntry(categoryName, entryID); err != nil {
		return err
	}
	list.SetMap(m)
	return s.save(ctx, list)
}

func (s *listService) fetchOrCreate(ctx context.Context, userID string) (*models.MangaList, error) {
	list, err := s.listRepo.FindByUserID(ctx, userID)
	if err == nil {
		return list, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	list = models.NewDefaultList(userID)
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}
	s.logger.Info("created default list", zap.String("user_id", userID))
	return list, nil
}

func (s *listService) save(ctx context.Context, list *models.MangaList) error {
	list.Touch()
	return s.listRepo.Save(ctx, list)
}
