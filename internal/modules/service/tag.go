package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/pkg/paging"
)

var tagConflicts = map[string]string{
	"name": "tag name already exists",
	"slug": "tag name already exists",
}

var masterSortColumns = []string{"name", "created_at", "updated_at"}

type TagService interface {
	Create(ctx context.Context, name string) (*model.Tag, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Tag], error)
	Update(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tagService struct {
	r repo.TagRepo
}

func NewTagService(r repo.TagRepo) TagService {
	return &tagService{r: r}
}

func (s *tagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Msg: "required fields missing", Fields: []string{"name"}}
	}

	slug, err := masterSlug(ctx, name, tagConflicts["name"], s.r.SlugExists)
	if err != nil {
		return nil, err
	}

	t := &model.Tag{Name: name, Slug: slug}
	if err := s.r.Create(ctx, t); err != nil {
		return nil, translateUniqueViolation(err, tagConflicts)
	}
	return t, nil
}

func (s *tagService) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	t, err := s.r.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Msg: "tag not found"}
		}
		return nil, err
	}
	return t, nil
}

func (s *tagService) List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Tag], error) {
	page = paging.Normalize(page, "name", masterSortColumns)
	items, total, err := s.r.List(ctx, page, nameFilter)
	if err != nil {
		return nil, err
	}
	return paging.NewPaged(items, page, total), nil
}

func (s *tagService) Update(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Msg: "required fields missing", Fields: []string{"name"}}
	}

	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if name == t.Name {
		return t, nil
	}

	// Slug stays stable across renames: materials reference it.
	t.Name = name
	if err := s.r.Update(ctx, t); err != nil {
		return nil, translateUniqueViolation(err, tagConflicts)
	}
	return t, nil
}

func (s *tagService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	count, err := s.r.MaterialCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Msg: "tag is in use by materials", MaterialCount: count}
	}
	return s.r.Delete(ctx, id)
}
