package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/pkg/paging"
	"gorm.io/gorm"
)

// MaterialListFilter narrows the materials listing. Title matches by
// case-insensitive substring; Tag matches materials carrying a tag with that
// name or slug.
type MaterialListFilter struct {
	Title string
	Tag   string
	Page  paging.Params
}

type MaterialRepo interface {
	// Create inserts the material row plus join rows for the pre-resolved
	// tag/equipment associations, without touching the related rows
	// themselves, then reloads the record with relations.
	Create(ctx context.Context, m *model.Material) error

	GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error)
	GetBySlug(ctx context.Context, slug string) (*model.Material, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, f MaterialListFilter) ([]model.Material, int64, error)

	// Update saves all scalar columns and fully replaces both relation
	// sets in one transaction (replace, not merge).
	Update(ctx context.Context, m *model.Material, tags []model.Tag, equipments []model.Equipment) error

	Delete(ctx context.Context, id uuid.UUID) error
}

type materialRepo struct{ db *gorm.DB }

func NewMaterialRepo(db *gorm.DB) MaterialRepo {
	return &materialRepo{db: db}
}

func (r *materialRepo) Create(ctx context.Context, m *model.Material) error {
	// Associated tag/equipment rows already exist; Omit keeps the insert
	// from upserting them while still writing the join rows.
	if err := r.db.WithContext(ctx).Omit("Tags.*", "Equipments.*", "Projects").Create(m).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Equipments").
		First(m, "id = ?", m.ID).Error
}

func (r *materialRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	var m model.Material
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) GetBySlug(ctx context.Context, slug string) (*model.Material, error) {
	var m model.Material
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Equipments").
		Where("slug = ?", slug).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *materialRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Material{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *materialRepo) List(ctx context.Context, f MaterialListFilter) ([]model.Material, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Material{})

	if f.Title != "" {
		q = q.Where("materials.title ILIKE ?", "%"+f.Title+"%")
	}
	if f.Tag != "" {
		q = q.Joins("JOIN material_tags mt ON mt.material_id = materials.id").
			Joins("JOIN tags t ON t.id = mt.tag_id").
			Where("t.name = ? OR t.slug = ?", f.Tag, f.Tag).
			Distinct()
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Material
	err := q.
		Preload("Tags").
		Preload("Equipments").
		Order("materials." + f.Page.OrderClause()).
		Offset(f.Page.Offset()).
		Limit(f.Page.Limit).
		Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *materialRepo) Update(ctx context.Context, m *model.Material, tags []model.Tag, equipments []model.Equipment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Tags", "Equipments", "Projects").Save(m).Error; err != nil {
			return err
		}
		if err := tx.Model(m).Association("Tags").Replace(toAnySlice(tags)...); err != nil {
			return err
		}
		return tx.Model(m).Association("Equipments").Replace(toAnySlice(equipments)...)
	})
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Equipments").
		First(m, "id = ?", m.ID).Error
}

func (r *materialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Material{}, "id = ?", id).Error
}

func toAnySlice[T any](in []T) []interface{} {
	out := make([]interface{}, len(in))
	for i := range in {
		out[i] = &in[i]
	}
	return out
}
