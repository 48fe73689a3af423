package service

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/modules/model"
	"github.com/phonica/phonica/internal/modules/repo"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	"github.com/phonica/phonica/internal/pkg/paging"
	"github.com/phonica/phonica/internal/pkg/slugify"
	"github.com/phonica/phonica/internal/telemetry"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

// materialConflicts maps unique-constraint columns to the stable messages the
// API returns. A slug collision is a lost race, not user error.
var materialConflicts = map[string]string{
	"title": "title already exists",
	"slug":  "slug generation failed, please retry",
}

var materialSortColumns = []string{"title", "recorded_at", "created_at", "rating"}

// AudioSource is one of the two supported entry styles: a raw multipart
// payload, or a temp file id from a prior staging call. Both run through
// analysis before persisting.
type AudioSource struct {
	File       io.Reader
	FileName   string
	TempFileID string
}

func (a AudioSource) present() bool { return a.File != nil || a.TempFileID != "" }

type CreateMaterialInput struct {
	Title        string
	RecordedAt   *time.Time
	Memo         *string
	TagNames     []string
	EquipmentIDs []uuid.UUID
	Latitude     *float64
	Longitude    *float64
	LocationName *string
	Rating       *int
	Audio        AudioSource
}

// UpdateMaterialInput carries the complete desired state: relation sets are
// replaced, not merged, and an absent set clears to empty.
type UpdateMaterialInput struct {
	Title        string
	RecordedAt   *time.Time
	Memo         *string
	TagNames     []string
	EquipmentIDs []uuid.UUID
	Latitude     *float64
	Longitude    *float64
	LocationName *string
	Rating       *int
	Audio        AudioSource
}

type ListMaterialsInput struct {
	Title string
	Tag   string
	Page  paging.Params
}

type MaterialService interface {
	Create(ctx context.Context, in CreateMaterialInput) (*model.Material, error)
	Update(ctx context.Context, slug string, in UpdateMaterialInput) (*model.Material, error)
	Get(ctx context.Context, slug string) (*model.Material, error)
	List(ctx context.Context, in ListMaterialsInput) (*paging.Paged[model.Material], error)
	Delete(ctx context.Context, slug string) error
}

type materialService struct {
	materials  repo.MaterialRepo
	tags       repo.TagRepo
	equipments repo.EquipmentRepo
	uploads    UploadService
	cleanup    AssetCleanup
	log        *zap.Logger
}

func NewMaterialService(
	materials repo.MaterialRepo,
	tags repo.TagRepo,
	equipments repo.EquipmentRepo,
	uploads UploadService,
	cleanup AssetCleanup,
	log *zap.Logger,
) MaterialService {
	return &materialService{
		materials:  materials,
		tags:       tags,
		equipments: equipments,
		uploads:    uploads,
		cleanup:    cleanup,
		log:        log,
	}
}

func (s *materialService) Create(ctx context.Context, in CreateMaterialInput) (*model.Material, error) {
	started := time.Now()

	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if in.RecordedAt == nil || in.RecordedAt.IsZero() {
		missing = append(missing, "recordedAt")
	}
	if !in.Audio.present() {
		missing = append(missing, "file")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Msg: "required fields missing", Fields: missing}
	}

	relPath, md, err := s.ingestAudio(ctx, in.Audio)
	if err != nil {
		telemetry.RecordIngestError(ctx, errorKind(err))
		return nil, err
	}

	// The audio is on permanent storage from here on. A failure below
	// leaves it orphaned, so every exit enqueues a deferred removal.
	fail := func(err error) (*model.Material, error) {
		_ = s.cleanup.Enqueue(ctx, relPath, "ingestion failed")
		telemetry.RecordIngestError(ctx, errorKind(err))
		return nil, err
	}

	slug, err := uniqueSlug(ctx, in.Title, s.materials.SlugExists)
	if err != nil {
		return fail(err)
	}

	tags, err := s.resolveTags(ctx, in.TagNames)
	if err != nil {
		return fail(err)
	}

	equipments, err := s.resolveEquipments(ctx, in.EquipmentIDs)
	if err != nil {
		return fail(err)
	}

	m := &model.Material{
		Slug:         slug,
		Title:        strings.TrimSpace(in.Title),
		FilePath:     relPath,
		RecordedAt:   *in.RecordedAt,
		Memo:         in.Memo,
		Latitude:     in.Latitude,
		Longitude:    in.Longitude,
		LocationName: in.LocationName,
		Rating:       in.Rating,
		Tags:         tags,
		Equipments:   equipments,
	}
	applyMetadata(m, md)

	if err := s.materials.Create(ctx, m); err != nil {
		return fail(translateUniqueViolation(err, materialConflicts))
	}

	telemetry.RecordIngestSuccess(ctx, time.Since(started))
	s.log.Info("material created",
		zap.String("slug", m.Slug),
		zap.String("file_path", m.FilePath))
	return m, nil
}

func (s *materialService) Update(ctx context.Context, slug string, in UpdateMaterialInput) (*model.Material, error) {
	m, err := s.materials.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Msg: "material not found"}
		}
		return nil, err
	}

	var missing []string
	if strings.TrimSpace(in.Title) == "" {
		missing = append(missing, "title")
	}
	if in.RecordedAt == nil || in.RecordedAt.IsZero() {
		missing = append(missing, "recordedAt")
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Msg: "required fields missing", Fields: missing}
	}

	oldPath := m.FilePath
	newAudio := in.Audio.present()
	if newAudio {
		relPath, md, err := s.ingestAudio(ctx, in.Audio)
		if err != nil {
			return nil, err
		}
		m.FilePath = relPath
		applyMetadata(m, md)
	}

	fail := func(err error) (*model.Material, error) {
		if newAudio {
			_ = s.cleanup.Enqueue(ctx, m.FilePath, "update failed")
		}
		return nil, err
	}

	// Slug is immutable: project associations reference materials by slug.
	m.Title = strings.TrimSpace(in.Title)
	m.RecordedAt = *in.RecordedAt
	m.Memo = in.Memo
	m.Latitude = in.Latitude
	m.Longitude = in.Longitude
	m.LocationName = in.LocationName
	m.Rating = in.Rating

	tags, err := s.resolveTags(ctx, in.TagNames)
	if err != nil {
		return fail(err)
	}

	equipments, err := s.resolveEquipments(ctx, in.EquipmentIDs)
	if err != nil {
		return fail(err)
	}

	if err := s.materials.Update(ctx, m, tags, equipments); err != nil {
		return fail(translateUniqueViolation(err, materialConflicts))
	}

	if newAudio && oldPath != "" {
		_ = s.cleanup.Enqueue(ctx, oldPath, "replaced")
	}
	return m, nil
}

func (s *materialService) Get(ctx context.Context, slug string) (*model.Material, error) {
	m, err := s.materials.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, &NotFoundError{Msg: "material not found"}
		}
		return nil, err
	}
	return m, nil
}

func (s *materialService) List(ctx context.Context, in ListMaterialsInput) (*paging.Paged[model.Material], error) {
	page := paging.Normalize(in.Page, "created_at", materialSortColumns)
	items, total, err := s.materials.List(ctx, repo.MaterialListFilter{
		Title: in.Title,
		Tag:   in.Tag,
		Page:  page,
	})
	if err != nil {
		return nil, err
	}
	return paging.NewPaged(items, page, total), nil
}

func (s *materialService) Delete(ctx context.Context, slug string) error {
	m, err := s.materials.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return &NotFoundError{Msg: "material not found"}
		}
		return err
	}
	if err := s.materials.Delete(ctx, m.ID); err != nil {
		return err
	}
	_ = s.cleanup.Enqueue(ctx, m.FilePath, "material deleted")
	return nil
}

// ingestAudio runs the shared verify/analyze/persist tail for both entry
// styles. Direct payloads are staged first so they flow through the same
// analysis policy as two-phase uploads.
func (s *materialService) ingestAudio(ctx context.Context, src AudioSource) (string, *audioprobe.Metadata, error) {
	tempID := src.TempFileID

	if src.File != nil {
		entry, err := s.uploads.SaveTemp(ctx, src.File, src.FileName)
		if err != nil {
			return "", nil, err
		}
		tempID = entry.TempFileID
	} else {
		ok, err := s.uploads.Verify(ctx, tempID)
		if err != nil {
			return "", nil, err
		}
		if !ok {
			return "", nil, &NotFoundError{Msg: "temporary file not found"}
		}
	}

	md, err := s.uploads.Analyze(ctx, tempID)
	if err != nil {
		if src.File != nil {
			_ = s.uploads.Discard(ctx, tempID)
		}
		return "", nil, err
	}

	relPath, _, err := s.uploads.Persist(ctx, tempID)
	if err != nil {
		return "", nil, err
	}
	return relPath, md, nil
}

// resolveTags implements connect-or-create as an explicit resolve-then-write:
// existing tags are reused, missing ones created with their own unique slugs,
// and only concrete rows reach the material write.
func (s *materialService) resolveTags(ctx context.Context, names []string) ([]model.Tag, error) {
	cleaned := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	if len(cleaned) == 0 {
		return []model.Tag{}, nil
	}

	existing, err := s.tags.GetByNames(ctx, cleaned)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]model.Tag, len(existing))
	for _, t := range existing {
		byName[t.Name] = t
	}

	resolved := make([]model.Tag, 0, len(cleaned))
	for _, name := range cleaned {
		if t, ok := byName[name]; ok {
			resolved = append(resolved, t)
			continue
		}

		// Name uniqueness is case-insensitive through the slug: "Nature"
		// connects to an existing "nature" instead of creating a sibling.
		tagSlug := slugify.Make(name)
		if tagSlug == "" {
			// Normalizes to nothing, dropped like an empty entry.
			continue
		}
		if existing, err := s.tags.GetBySlug(ctx, tagSlug); err == nil {
			resolved = append(resolved, *existing)
			continue
		} else if !isNotFound(err) {
			return nil, err
		}

		t := model.Tag{Name: name, Slug: tagSlug}
		if err := s.tags.Create(ctx, &t); err != nil {
			// Lost a race to a concurrent ingestion; the row exists now.
			if conflict := translateUniqueViolation(err, map[string]string{"name": "", "slug": ""}); conflict != err {
				refetched, rerr := s.tags.GetBySlug(ctx, tagSlug)
				if rerr == nil {
					resolved = append(resolved, *refetched)
					continue
				}
			}
			return nil, err
		}
		resolved = append(resolved, t)
	}
	return resolved, nil
}

// resolveEquipments validates every referenced id before anything is written.
// Any unknown id rejects the entire request.
func (s *materialService) resolveEquipments(ctx context.Context, ids []uuid.UUID) ([]model.Equipment, error) {
	if len(ids) == 0 {
		return []model.Equipment{}, nil
	}

	deduped := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		deduped = append(deduped, id)
	}

	found, err := s.equipments.GetByIDs(ctx, deduped)
	if err != nil {
		return nil, err
	}
	if len(found) != len(deduped) {
		foundSet := make(map[uuid.UUID]struct{}, len(found))
		for _, e := range found {
			foundSet[e.ID] = struct{}{}
		}
		var missing []string
		for _, id := range deduped {
			if _, ok := foundSet[id]; !ok {
				missing = append(missing, id.String())
			}
		}
		return nil, &ValidationError{Msg: "invalid equipment ids", Fields: missing}
	}
	return found, nil
}

func applyMetadata(m *model.Material, md *audioprobe.Metadata) {
	if md == nil {
		return
	}
	if md.FileFormat != "" {
		format := md.FileFormat
		m.FileFormat = &format
	}
	m.SampleRate = md.SampleRate
	m.BitDepth = md.BitDepth
	m.DurationSeconds = md.DurationSeconds
	m.Channels = md.Channels
	if len(md.Tags) > 0 {
		probeTags := make(datatypes.JSONMap, len(md.Tags))
		for k, v := range md.Tags {
			probeTags[k] = v
		}
		m.ProbeTags = probeTags
	}
}

func errorKind(err error) string {
	switch err.(type) {
	case *ValidationError:
		return "validation"
	case *NotFoundError:
		return "not_found"
	case *ConflictError:
		return "conflict"
	case *PersistenceError:
		return "persistence"
	case *AnalysisError:
		return "analysis"
	default:
		return "internal"
	}
}
