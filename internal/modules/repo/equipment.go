package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/pkg/paging"
	"gorm.io/gorm"
)

type EquipmentRepo interface {
	Create(ctx context.Context, e *model.Equipment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error)
	List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Equipment, int64, error)
	Update(ctx context.Context, e *model.Equipment) error
	Delete(ctx context.Context, id uuid.UUID) error
	MaterialCount(ctx context.Context, id uuid.UUID) (int64, error)
}

type equipmentRepo struct{ db *gorm.DB }

func NewEquipmentRepo(db *gorm.DB) EquipmentRepo {
	return &equipmentRepo{db: db}
}

func (r *equipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *equipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	var e model.Equipment
	if err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *equipmentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []model.Equipment
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *equipmentRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Equipment, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Equipment{})
	if nameFilter != "" {
		q = q.Where("name ILIKE ?", "%"+nameFilter+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Equipment
	err := q.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&items).Error
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *equipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	return r.db.WithContext(ctx).Model(e).Select("name", "type", "manufacturer", "memo").Updates(e).Error
}

func (r *equipmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Equipment{}, "id = ?", id).Error
}

func (r *equipmentRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("material_equipments").Where("equipment_id = ?", id).Count(&count).Error
	return count, err
}
