package handler

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/service"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	"github.com/phonica/phonica/internal/pkg/paging"
	"github.com/stretchr/testify/mock"
)

// MockMaterialService is a mock implementation of service.MaterialService
type MockMaterialService struct {
	mock.Mock
}

func (m *MockMaterialService) Create(ctx context.Context, in service.CreateMaterialInput) (*model.Material, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialService) Update(ctx context.Context, slug string, in service.UpdateMaterialInput) (*model.Material, error) {
	args := m.Called(ctx, slug, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialService) Get(ctx context.Context, slug string) (*model.Material, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Material), args.Error(1)
}

func (m *MockMaterialService) List(ctx context.Context, in service.ListMaterialsInput) (*paging.Paged[model.Material], error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paging.Paged[model.Material]), args.Error(1)
}

func (m *MockMaterialService) Delete(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

// MockUploadService is a mock implementation of service.UploadService
type MockUploadService struct {
	mock.Mock
}

func (m *MockUploadService) SaveTemp(ctx context.Context, r io.Reader, fileName string) (*service.TempUpload, error) {
	args := m.Called(ctx, r, fileName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.TempUpload), args.Error(1)
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

func (m *MockUploadService) Persist(ctx context.Context, tempFileID string) (string, *service.TempUpload, error) {
	args := m.Called(ctx, tempFileID)
	var entry *service.TempUpload
	if args.Get(1) != nil {
		entry = args.Get(1).(*service.TempUpload)
	}
	return args.String(0), entry, args.Error(2)
}

func (m *MockUploadService) Discard(ctx context.Context, tempFileID string) error {
	args := m.Called(ctx, tempFileID)
	return args.Error(0)
}

// MockTagService is a mock implementation of service.TagService
type MockTagService struct {
	mock.Mock
}

func (m *MockTagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Get(ctx context.Context, id uuid.UUID) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) List(ctx context.Context, page paging.Params, nameFilter string) (*paging.Paged[model.Tag], error) {
	args := m.Called(ctx, page, nameFilter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paging.Paged[model.Tag]), args.Error(1)
}

func (m *MockTagService) Update(ctx context.Context, id uuid.UUID, name string) (*model.Tag, error) {
	args := m.Called(ctx, id, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
