package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/pkg/paging"
	"gorm.io/gorm"
)

type TagRepo interface {
	Create(ctx context.Context, t *model.Tag) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error)
	GetByNames(ctx context.Context, names []string) ([]model.Tag, error)
	GetBySlug(ctx context.Context, slug string) (*model.Tag, error)
	List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Tag, int64, error)
	Update(ctx context.Context, t *model.Tag) error
	Delete(ctx context.Context, id uuid.UUID) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	MaterialCount(ctx context.Context, id uuid.UUID) (int64, error)
}

type tagRepo struct{ db *gorm.DB }

func NewTagRepo(db *gorm.DB) TagRepo {
	return &tagRepo{db: db}
}

func (r *tagRepo) Create(ctx context.Context, t *model.Tag) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tagRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) GetByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tagRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Tag, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Tag{})
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", "%"+nameFilter+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Tag
	err := q.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *tagRepo) Update(ctx context.Context, t *model.Tag) error {
	return r.db.WithContext(ctx).Model(t).Select("name", "slug").Updates(t).Error
}

func (r *tagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Tag{}, "id = ?", id).Error
}

func (r *tagRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Tag{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *tagRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("material_tags").Where("tag_id = ?", id).Count(&count).Error
	return count, err
}
