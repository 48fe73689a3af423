package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/pkg/paging"
)

var projectConflicts = map[string]string{
	"name": "project name already exists",
	"slug": "project name already exists",
}

type ProjectInput struct {
	Name        string
	Description *string
}

// ProjectMaterialsOutput embeds the paginated materials list in the project
// it belongs to.
type ProjectMaterialsOutput struct {
	Project   *model.Project                `json:"project"`
	Materials *paging.Paged[model.Material] `json:"materials"`
}

type ProjectService interface {
	Create(ctx context.Context, in ProjectInput) (*model.Project, error)
	// Get resolves ref as a UUID first, then as a slug.
	Get(ctx context.Context, ref string) (*model.Project, error)
	List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Project], error)
	Update(ctx context.Context, ref string, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, ref string) error

	ListMaterials(ctx context.Context, slug string, page paging.Params) (*ProjectMaterialsOutput, error)
	AttachMaterial(ctx context.Context, slug string, materialID uuid.UUID) error
	DetachMaterial(ctx context.Context, slug string, materialID uuid.UUID) error
}

type projectService struct {
	r         repo.ProjectRepo
	materials repo.MaterialRepo
}

func NewProjectService(r repo.ProjectRepo, materials repo.MaterialRepo) ProjectService {
	return &projectService{r: r, materials: materials}
}

func (s *projectService) Create(ctx context.Context, in ProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, &ValidationError{Msg: "required fields missing", Fields: []string{"name"}}
	}

	slug, err := masterSlug(ctx, in.Name, projectConflicts["name"], s.r.SlugExists)
	if err != nil {
		return nil, err
	}

	p := &model.Project{Name: in.Name, Slug: slug, Description: in.Description}
	if err := s.r.Create(ctx, p); err != nil {
		return nil, translateUniqueViolation(err, projectConflicts)
	}
	return p, nil
}

func (s *projectService) Get(ctx context.Context, ref string) (*model.Project, error) {
	var (
		p   *model.Project
		err error
	)
	if id, perr := uuid.Parse(ref); perr == nil {
		p, err = s.r.GetByID(ctx, id)
	} else {
		p, err = s.r.GetBySlug(ctx, ref)
	}
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Msg: "project not found"}
		}
		return nil, err
	}
	return p, nil
}

func (s *projectService) List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Project], error) {
	page = paging.Normalize(page, "name", masterSortColumns)
	items, total, err := s.r.List(ctx, page, nameFilter)
	if err != nil {
		return nil, err
	}
	return paging.NewPaged(items, page, total), nil
}

func (s *projectService) Update(ctx context.Context, ref string, in ProjectInput) (*model.Project, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, &ValidationError{Msg: "required fields missing", Fields: []string{"name"}}
	}

	p, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	// Slug stays stable across renames: materials reference it.
	p.Name = in.Name
	p.Description = in.Description
	if err := s.r.Update(ctx, p); err != nil {
		return nil, translateUniqueViolation(err, projectConflicts)
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, ref string) error {
	p, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}

	count, err := s.r.MaterialCount(ctx, p.ID)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Msg: "project has associated materials", MaterialCount: count}
	}
	return s.r.Delete(ctx, p.ID)
}

func (s *projectService) ListMaterials(ctx context.Context, slug string, page paging.Params) (*ProjectMaterialsOutput, error) {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return nil, err
	}

	page = paging.Normalize(page, "created_at", materialSortColumns)
	items, total, err := s.r.ListMaterials(ctx, p.ID, page)
	if err != nil {
		return nil, err
	}
	return &ProjectMaterialsOutput{
		Project:   p,
		Materials: paging.NewPaged(items, page, total),
	}, nil
}

func (s *projectService) AttachMaterial(ctx context.Context, slug string, materialID uuid.UUID) error {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}

	// Resolve-then-write: the join row only ever references an existing
	// material, never creates one.
	if _, err := s.materials.GetByID(ctx, materialID); err != nil {
		if isNotFound(err) {
			return &ValidationError{Msg: "invalid material id", Fields: []string{materialID.String()}}
		}
		return err
	}

	if err := s.r.AttachMaterial(ctx, p.ID, materialID); err != nil {
		// FK violation: the material was deleted between lookup and append.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return &ValidationError{Msg: "invalid material id", Fields: []string{materialID.String()}}
		}
		return err
	}
	return nil
}

func (s *projectService) DetachMaterial(ctx context.Context, slug string, materialID uuid.UUID) error {
	p, err := s.Get(ctx, slug)
	if err != nil {
		return err
	}
	// Detaching never deletes the material itself.
	return s.r.DetachMaterial(ctx, p.ID, materialID)
}
