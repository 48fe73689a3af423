package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/pkg/paging"
)

var equipmentConflicts = map[string]string{
	"name": "equipment name already exists",
}

type EquipmentInput struct {
	Name         string
	Type         string
	Manufacturer *string
	Memo         *string
}

type EquipmentService interface {
	Create(ctx context.Context, in EquipmentInput) (*model.Equipment, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Equipment, error)
	List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Equipment], error)
	Update(ctx context.Context, id uuid.UUID, in EquipmentInput) (*model.Equipment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type equipmentService struct {
	r repo.EquipmentRepo
}

func NewEquipmentService(r repo.EquipmentRepo) EquipmentService {
	return &equipmentService{r: r}
}

func validateEquipment(in *EquipmentInput) error {
	in.Name = strings.TrimSpace(in.Name)
	in.Type = strings.TrimSpace(in.Type)

	var missing []string
	if in.Name == "" {
		missing = append(missing, "name")
	}
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return &ValidationError{Msg: "required fields missing", Fields: missing}
	}
	return nil
}

func (s *equipmentService) Create(ctx context.Context, in EquipmentInput) (*model.Equipment, error) {
	if err := validateEquipment(&in); err != nil {
		return nil, err
	}

	e := &model.Equipment{
		Name:         in.Name,
		Type:         in.Type,
		Manufacturer: in.Manufacturer,
		Memo:         in.Memo,
	}
	if err := s.r.Create(ctx, e); err != nil {
		return nil, translateUniqueViolation(err, equipmentConflicts)
	}
	return e, nil
}

func (s *equipmentService) Get(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	e, err := s.r.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Msg: "equipment not found"}
		}
		return nil, err
	}
	return e, nil
}

func (s *equipmentService) List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Equipment], error) {
	page = paging.Normalize(page, "name", masterSortColumns)
	items, total, err := s.r.List(ctx, page, nameFilter)
	if err != nil {
		return nil, err
	}
	return paging.NewPaged(items, page, total), nil
}

func (s *equipmentService) Update(ctx context.Context, id uuid.UUID, in EquipmentInput) (*model.Equipment, error) {
	if err := validateEquipment(&in); err != nil {
		return nil, err
	}

	e, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	e.Name = in.Name
	e.Type = in.Type
	e.Manufacturer = in.Manufacturer
	e.Memo = in.Memo
	if err := s.r.Update(ctx, e); err != nil {
		return nil, translateUniqueViolation(err, equipmentConflicts)
	}
	return e, nil
}

func (s *equipmentService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	// Same policy as tags: never cascade off a referenced master row.
	count, err := s.r.MaterialCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &ConflictError{Msg: "equipment is in use by materials", MaterialCount: count}
	}
	return s.r.Delete(ctx, id)
}
