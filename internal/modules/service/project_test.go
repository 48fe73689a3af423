package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/pkg/paging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestProjectService_Get_ResolvesRef(t *testing.T) {
	id := uuid.New()
	project := &model.Project{ID: id, Name: "Coastal Atlas", Slug: "coastal-atlas"}

	t.Run("by uuid", func(t *testing.T) {
		repo := &MockProjectRepo{}
		repo.On("GetByID", mock.Anything, id).Return(project, nil)

		svc := NewProjectService(repo, &MockMaterialRepo{})
		got, err := svc.Get(context.Background(), id.String())

		assert.NoError(t, err)
		assert.Equal(t, project, got)
		repo.AssertNotCalled(t, "GetBySlug", mock.Anything, mock.Anything)
	})

	t.Run("by slug", func(t *testing.T) {
		repo := &MockProjectRepo{}
		repo.On("GetBySlug", mock.Anything, "coastal-atlas").Return(project, nil)

		svc := NewProjectService(repo, &MockMaterialRepo{})
		got, err := svc.Get(context.Background(), "coastal-atlas")

		assert.NoError(t, err)
		assert.Equal(t, project, got)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("unknown", func(t *testing.T) {
		repo := &MockProjectRepo{}
		repo.On("GetBySlug", mock.Anything, "missing").Return(nil, notFoundErr())

		svc := NewProjectService(repo, &MockMaterialRepo{})
		got, err := svc.Get(context.Background(), "missing")

		assert.Nil(t, got)
		var nfe *NotFoundError
		assert.ErrorAs(t, err, &nfe)
	})
}

func TestProjectService_Create_DifferentlyCasedDuplicate(t *testing.T) {
	repo := &MockProjectRepo{}
	repo.On("SlugExists", mock.Anything, "coastal-atlas").Return(true, nil)

	svc := NewProjectService(repo, &MockMaterialRepo{})
	p, err := svc.Create(context.Background(), ProjectInput{Name: "Coastal Atlas"})

	assert.Nil(t, p)
	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "project name already exists", cerr.Msg)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProjectService_Delete_BlockedWhileMaterialsAttached(t *testing.T) {
	id := uuid.New()
	repo := &MockProjectRepo{}
	repo.On("GetBySlug", mock.Anything, "coastal-atlas").
		Return(&model.Project{ID: id, Name: "Coastal Atlas", Slug: "coastal-atlas"}, nil)
	repo.On("MaterialCount", mock.Anything, id).Return(int64(4), nil)

	svc := NewProjectService(repo, &MockMaterialRepo{})
	err := svc.Delete(context.Background(), "coastal-atlas")

	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "project has associated materials", cerr.Msg)
	assert.Equal(t, int64(4), cerr.MaterialCount)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestProjectService_AttachMaterial(t *testing.T) {
	projectID := uuid.New()
	materialID := uuid.New()
	project := &model.Project{ID: projectID, Slug: "coastal-atlas"}

	t.Run("success", func(t *testing.T) {
		repo := &MockProjectRepo{}
		materials := &MockMaterialRepo{}
		repo.On("GetBySlug", mock.Anything, "coastal-atlas").Return(project, nil)
		materials.On("GetByID", mock.Anything, materialID).
			Return(&model.Material{ID: materialID, Slug: "dawn-chorus"}, nil)
		repo.On("AttachMaterial", mock.Anything, projectID, materialID).Return(nil)

		svc := NewProjectService(repo, materials)
		assert.NoError(t, svc.AttachMaterial(context.Background(), "coastal-atlas", materialID))
		repo.AssertExpectations(t)
		materials.AssertExpectations(t)
	})

	t.Run("unknown material id writes nothing", func(t *testing.T) {
		repo := &MockProjectRepo{}
		materials := &MockMaterialRepo{}
		repo.On("GetBySlug", mock.Anything, "coastal-atlas").Return(project, nil)
		materials.On("GetByID", mock.Anything, materialID).Return(nil, notFoundErr())

		svc := NewProjectService(repo, materials)
		err := svc.AttachMaterial(context.Background(), "coastal-atlas", materialID)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "invalid material id", verr.Msg)
		assert.Equal(t, []string{materialID.String()}, verr.Fields)
		repo.AssertNotCalled(t, "AttachMaterial", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("material deleted mid-attach", func(t *testing.T) {
		repo := &MockProjectRepo{}
		materials := &MockMaterialRepo{}
		repo.On("GetBySlug", mock.Anything, "coastal-atlas").Return(project, nil)
		materials.On("GetByID", mock.Anything, materialID).
			Return(&model.Material{ID: materialID}, nil)
		repo.On("AttachMaterial", mock.Anything, projectID, materialID).
			Return(&pgconn.PgError{Code: "23503", ConstraintName: "fk_project_materials_material"})

		svc := NewProjectService(repo, materials)
		err := svc.AttachMaterial(context.Background(), "coastal-atlas", materialID)

		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
		assert.Equal(t, "invalid material id", verr.Msg)
	})
}

func TestProjectService_DetachMaterial_LeavesMaterial(t *testing.T) {
	projectID := uuid.New()
	materialID := uuid.New()
	repo := &MockProjectRepo{}
	repo.On("GetBySlug", mock.Anything, "coastal-atlas").
		Return(&model.Project{ID: projectID, Slug: "coastal-atlas"}, nil)
	repo.On("DetachMaterial", mock.Anything, projectID, materialID).Return(nil)

	svc := NewProjectService(repo, &MockMaterialRepo{})
	assert.NoError(t, svc.DetachMaterial(context.Background(), "coastal-atlas", materialID))
	repo.AssertExpectations(t)
}

func TestProjectService_ListMaterials(t *testing.T) {
	projectID := uuid.New()
	project := &model.Project{ID: projectID, Name: "Coastal Atlas", Slug: "coastal-atlas"}
	materials := []model.Material{{ID: uuid.New(), Slug: "dawn-chorus", Title: "Dawn Chorus"}}

	repo := &MockProjectRepo{}
	repo.On("GetBySlug", mock.Anything, "coastal-atlas").Return(project, nil)
	repo.On("ListMaterials", mock.Anything, projectID, mock.MatchedBy(func(p paging.Params) bool {
		return p.Page == 1 && p.Limit == 10
	})).Return(materials, int64(1), nil)

	svc := NewProjectService(repo, &MockMaterialRepo{})
	out, err := svc.ListMaterials(context.Background(), "coastal-atlas", paging.Params{})

	assert.NoError(t, err)
	assert.Equal(t, project, out.Project)
	assert.Len(t, out.Materials.Data, 1)
	assert.Equal(t, int64(1), out.Materials.Pagination.TotalItems)
}
