package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	"github.com/phonica/phonica/internal/pkg/paging"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func notFoundErr() error { return gorm.ErrRecordNotFound }

// MockMaterialRepo is a mock implementation of repo.MaterialRepo
type MockMaterialRepo struct {
	mock.Mock
}

func (m *MockMaterialRepo) Create(ctx context.Context, mt *model.Material) error {
	args := m.Called(ctx, mt)
	return args.Error(0)
}

func (m *MockMaterialRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Material, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepo) GetBySlug(ctx context.Context, slug string) (*model.Material, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockMaterialRepo) List(ctx context.Context, f repo.MaterialListFilter) ([]model.Material, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Material), args.Get(1).(int64), args.Error(2)
}

func (m *MockMaterialRepo) Update(ctx context.Context, mt *model.Material, tags []model.Tag, equipments []model.Equipment) error {
	args := m.Called(ctx, mt, tags, equipments)
	return args.Error(0)
}

func (m *MockMaterialRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTagRepo is a mock implementation of repo.TagRepo
type MockTagRepo struct {
	mock.Mock
}

func (m *MockTagRepo) Create(ctx context.Context, t *model.Tag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTagRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepo) GetByNames(ctx context.Context, names []string) ([]model.Tag, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepo) GetBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Tag, int64, error) {
	args := m.Called(ctx, page, nameFilter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Tag), args.Get(1).(int64), args.Error(2)
}

func (m *MockTagRepo) Update(ctx context.Context, t *model.Tag) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTagRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockTagRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockEquipmentRepo is a mock implementation of repo.EquipmentRepo
type MockEquipmentRepo struct {
	mock.Mock
}

func (m *MockEquipmentRepo) Create(ctx context.Context, e *model.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Equipment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Equipment), args.Error(1)
}

func (m *MockEquipmentRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Equipment, int64, error) {
	args := m.Called(ctx, page, nameFilter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Equipment), args.Get(1).(int64), args.Error(2)
}

func (m *MockEquipmentRepo) Update(ctx context.Context, e *model.Equipment) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEquipmentRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEquipmentRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectRepo is a mock implementation of repo.ProjectRepo
type MockProjectRepo struct {
	mock.Mock
}

func (m *MockProjectRepo) Create(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) GetBySlug(ctx context.Context, slug string) (*model.Project, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *MockProjectRepo) List(ctx context.Context, page paging.Params, nameFilter string) ([]model.Project, int64, error) {
	args := m.Called(ctx, page, nameFilter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Project), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepo) Update(ctx context.Context, p *model.Project) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProjectRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	args := m.Called(ctx, slug)
	return args.Bool(0), args.Error(1)
}

func (m *MockProjectRepo) MaterialCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProjectRepo) ListMaterials(ctx context.Context, projectID uuid.UUID, page paging.Params) ([]model.Material, int64, error) {
	args := m.Called(ctx, projectID, page)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]model.Material), args.Get(1).(int64), args.Error(2)
}

func (m *MockProjectRepo) AttachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error {
	args := m.Called(ctx, projectID, materialID)
	return args.Error(0)
}

func (m *MockProjectRepo) DetachMaterial(ctx context.Context, projectID, materialID uuid.UUID) error {
	args := m.Called(ctx, projectID, materialID)
	return args.Error(0)
}

// MockUploadService is a mock implementation of UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) SaveTemp(ctx context.Context, r io.Reader, fileName string) (*TempUpload, error) {
	args := m.Called(ctx, r, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*TempUpload), args.Error(1)
}

func (m *MockUploadService) Analyze(ctx context.Context, tempFileID string) (*audioprobe.Metadata, error) {
	args := m.Called(ctx, tempFileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audioprobe.Metadata), args.Error(1)
}

func (m *MockUploadService) Verify(ctx context.Context, tempFileID string) (bool, error) {
	args := m.Called(ctx, tempFileID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUploadService) Persist(ctx context.Context, tempFileID string) (string, *TempUpload, error) {
	args := m.Called(ctx, tempFileID)
	var entry *TempUpload
	if args.Get(1) != nil {
		entry = args.Get(1).(*TempUpload)
	}
	return args.String(0), entry, args.Error(2)
}

func (m *MockUploadService) Discard(ctx context.Context, tempFileID string) error {
	args := m.Called(ctx, tempFileID)
	return args.Error(0)
}

// MockAssetCleanup is a mock implementation of AssetCleanup
type MockAssetCleanup struct {
	mock.Mock
}

func (m *MockAssetCleanup) Enqueue(ctx context.Context, path, reason string) error {
	args := m.Called(ctx, path, reason)
	return args.Error(0)
}
