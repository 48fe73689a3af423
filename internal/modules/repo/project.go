package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/pkg/paging"
	"gorm.io/gorm"
)

type ProjectRepo interface {
	Create(ctx context.Context, p *model.Project) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	GetBySlug(ctx context.Context, slug string) (*model.Project, error)
	List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Project, int64, error)
	Update(ctx context.Context, p *model.Project) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	MaterialCount(ctx context.Context, id uuid.UUID) (int64, error)

	ListMaterials(ctx context.Context, projectID uuid.UUID, page paging.Params) ([]model.Material, int64, error)
	AttachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error
	DetachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error
}

type projectRepo struct{ db *gorm.DB }

func NewProjectRepo(db *gorm.DB) ProjectRepo {
	return &projectRepo{db: db}
}

func (r *projectRepo) Create(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	var p model.Project
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Project, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Project{})
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", "%"+nameFilter+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Project
	err := q.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *projectRepo) Update(ctx context.Context, p *model.Project) error {
	return r.db.WithContext(ctx).Model(p).Select("name", "slug", "description").Updates(p).Error
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Project{}, "id = ?", id).Error
}

func (r *projectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Project{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *projectRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("project_materials").Where("project_id = ?", id).Count(&count).Error
	return count, err
}

func (r *projectRepo) ListMaterials(ctx context.Context, projectID uuid.UUID, page paging.Params) ([]model.Material, int64, error) {
	base := r.db.WithContext(ctx).Model(&model.Material{}).
		Joins("JOIN project_materials pm ON pm.material_id = materials.id").
		Where("pm.project_id = ?", projectID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Material
	err := base.
		Preload("Tags").
		Preload("Equipments").
		Order("materials." + page.OrderClause()).
		Offset(page.Offset()).
		Limit(page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *projectRepo) AttachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error {
	p := model.Project{ID: projectID}
	// The material row already exists; Omit keeps Append from upserting it,
	// so only the join row is written.
	return r.db.WithContext(ctx).Model(&p).Omit("Materials.*").
		Association("Materials").Append(&model.Material{ID: materialID})
}

func (r *projectRepo) DetachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error {
	p := model.Project{ID: projectID}
	return r.db.WithContext(ctx).Model(&p).Association("Materials").Delete(&model.Material{ID: materialID})
}
