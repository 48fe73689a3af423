package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestEquipmentService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     EquipmentInput
		setup     func(*MockEquipmentRepo)
		expectErr func(*testing.T, error)
	}{
		{
			name:  "successful creation",
			input: EquipmentInput{Name: " Zoom H6 ", Type: "recorder", Manufacturer: ptr("Zoom")},
			setup: func(r *MockEquipmentRepo) {
				r.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Equipment) bool {
					return e.Name == "Zoom H6" && e.Type == "recorder"
				})).Return(nil)
			},
		},
		{
			name:  "missing name and type",
			input: EquipmentInput{},
			setup: func(r *MockEquipmentRepo) {},
			expectErr: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.ElementsMatch(t, []string{"name", "type"}, verr.Fields)
			},
		},
		{
			name:  "duplicate name",
			input: EquipmentInput{Name: "Zoom H6", Type: "recorder"},
			setup: func(r *MockEquipmentRepo) {
				r.On("Create", mock.Anything, mock.Anything).Return(uniqueViolation("uq_equipments_name"))
			},
			expectErr: func(t *testing.T, err error) {
				var cerr *ConflictError
				assert.ErrorAs(t, err, &cerr)
				assert.Equal(t, "equipment name already exists", cerr.Msg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockEquipmentRepo{}
			tt.setup(repo)
			svc := NewEquipmentService(repo)

			eq, err := svc.Create(context.Background(), tt.input)

			if tt.expectErr != nil {
				tt.expectErr(t, err)
				assert.Nil(t, eq)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, eq)
			}
		})
	}
}

func TestEquipmentService_Delete_BlockedWhileReferenced(t *testing.T) {
	id := uuid.New()
	repo := &MockEquipmentRepo{}
	repo.On("GetByID", mock.Anything, id).Return(&model.Equipment{ID: id, Name: "Zoom H6", Type: "recorder"}, nil)
	repo.On("MaterialCount", mock.Anything, id).Return(int64(2), nil)

	svc := NewEquipmentService(repo)
	err := svc.Delete(context.Background(), id)

	var cerr *ConflictError
	assert.ErrorAs(t, err, &cerr)
	assert.Equal(t, "equipment is in use by materials", cerr.Msg)
	assert.Equal(t, int64(2), cerr.MaterialCount)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEquipmentService_Update_NotFound(t *testing.T) {
	id := uuid.New()
	repo := &MockEquipmentRepo{}
	repo.On("GetByID", mock.Anything, id).Return(nil, notFoundErr())

	svc := NewEquipmentService(repo)
	eq, err := svc.Update(context.Background(), id, EquipmentInput{Name: "Zoom H6", Type: "recorder"})

	assert.Nil(t, eq)
	var nfe *NotFoundError
	assert.ErrorAs(t, err, &nfe)
}
