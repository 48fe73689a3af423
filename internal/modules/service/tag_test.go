package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTagService_Create(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		setup     func(*MockTagRepo)
		expectErr func(*testing.T, error)
		check     func(*testing.T, *model.Tag)
	}{
		{
			name:  "creates with slug",
			input: "Field Recording",
			setup: func(r *MockTagRepo) {
				r.On("SlugExists", mock.Anything, "field-recording").Return(false, nil)
				r.On("Create", mock.Anything, mock.MatchedBy(func(tag *model.Tag) bool {
					return tag.Name == "Field Recording" && tag.Slug == "field-recording"
				})).Return(nil)
			},
			check: func(t *testing.T, tag *model.Tag) {
				assert.Equal(t, "field-recording", tag.Slug)
			},
		},
		{
			name:  "empty name rejected",
			input: "   ",
			setup: func(r *MockTagRepo) {},
			expectErr: func(t *testing.T, err error) {
				var verr *ValidationError
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "name")
			},
		},
		{
			name:  "duplicate name",
			input: "Birdsong",
			setup: func(r *MockTagRepo) {
				r.On("SlugExists", mock.Anything, "birdsong").Return(false, nil)
				r.On("Create", mock.Anything, mock.Anything).Return(uniqueViolation("uq_tags_name"))
			},
			expectErr: func(t *testing.T, err error) {
				var cerr *ConflictError
				assert.ErrorAs(t, err, &cerr)
				assert.Equal(t, "tag name already exists", cerr.Msg)
			},
		},
		{
			// "Nature" vs "nature": both normalize to the same slug, so
			// the differently-cased create is a conflict, not a suffixed
			// sibling.
			name:  "differently-cased duplicate rejected",
			input: "Nature",
			setup: func(r *MockTagRepo) {
				r.On("SlugExists", mock.Anything, "nature").Return(true, nil)
			},
			expectErr: func(t *testing.T, err error) {
				var cerr *ConflictError
				assert.ErrorAs(t, err, &cerr)
				assert.Equal(t, "tag name already exists", cerr.Msg)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTagRepo{}
			tt.setup(repo)
			svc := NewTagService(repo)

			tag, err := svc.Create(context.Background(), tt.input)

			if tt.expectErr != nil {
				tt.expectErr(t, err)
				assert.Nil(t, tag)
			} else {
				assert.NoError(t, err)
				if tt.check != nil {
					tt.check(t, tag)
				}
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTagService_Delete(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name      string
		setup     func(*MockTagRepo)
		expectErr func(*testing.T, error)
	}{
		{
			name: "unreferenced tag deleted",
			setup: func(r *MockTagRepo) {
				r.On("GetByID", mock.Anything, id).Return(&model.Tag{ID: id, Name: "birdsong"}, nil)
				r.On("MaterialCount", mock.Anything, id).Return(int64(0), nil)
				r.On("Delete", mock.Anything, id).Return(nil)
			},
		},
		{
			name: "referenced tag blocked",
			setup: func(r *MockTagRepo) {
				r.On("GetByID", mock.Anything, id).Return(&model.Tag{ID: id, Name: "birdsong"}, nil)
				r.On("MaterialCount", mock.Anything, id).Return(int64(3), nil)
			},
			expectErr: func(t *testing.T, err error) {
				var cerr *ConflictError
				assert.ErrorAs(t, err, &cerr)
				assert.Equal(t, int64(3), cerr.MaterialCount)
			},
		},
		{
			name: "unknown tag",
			setup: func(r *MockTagRepo) {
				r.On("GetByID", mock.Anything, id).Return(nil, notFoundErr())
			},
			expectErr: func(t *testing.T, err error) {
				var nfe *NotFoundError
				assert.ErrorAs(t, err, &nfe)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockTagRepo{}
			tt.setup(repo)
			svc := NewTagService(repo)

			err := svc.Delete(context.Background(), id)

			if tt.expectErr != nil {
				tt.expectErr(t, err)
				repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
			} else {
				assert.NoError(t, err)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestTagService_Update_KeepsSlug(t *testing.T) {
	id := uuid.New()
	repo := &MockTagRepo{}
	repo.On("GetByID", mock.Anything, id).Return(&model.Tag{ID: id, Name: "birdsong", Slug: "birdsong"}, nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(tag *model.Tag) bool {
		return tag.Name == "Bird Song" && tag.Slug == "birdsong"
	})).Return(nil)

	svc := NewTagService(repo)
	tag, err := svc.Update(context.Background(), id, "Bird Song")

	assert.NoError(t, err)
	assert.Equal(t, "birdsong", tag.Slug)
	repo.AssertExpectations(t)
}
