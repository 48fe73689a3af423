package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/phonica/phonica/internal/infra/storage"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const uploadKeyPrefix = "upload:"

// TempUpload is the registry entry for a staged-but-not-committed upload.
// It lives in Redis under the temp file id with a TTL; the physical file can
// also disappear independently, so Verify checks both.
type TempUpload struct {
	TempFileID string               `json:"tempFileId"`
	FileName   string               `json:"fileName"`
	Metadata   *audioprobe.Metadata `json:"metadata,omitempty"`
}

type UploadService interface {
	// SaveTemp stages the uploaded bytes and registers the temp id.
	SaveTemp(ctx context.Context, r io.Reader, fileName string) (*TempUpload, error)

	// Analyze probes the staged file and caches the result on the
	// registry entry. Undecodable input -> AnalysisError.
	Analyze(ctx context.Context, tempFileID string) (*audioprobe.Metadata, error)

	// Verify reports whether the temp id is still usable.
	Verify(ctx context.Context, tempFileID string) (bool, error)

	// Persist consumes the temp id (single use) and promotes the file into
	// permanent storage under a fresh collision-resistant name. Returns
	// the stored relative path plus the registry entry.
	Persist(ctx context.Context, tempFileID string) (string, *TempUpload, error)

	// Discard drops a staged upload without persisting it.
	Discard(ctx context.Context, tempFileID string) error
}

type uploadService struct {
	store  storage.AssetStore
	rdb    *redis.Client
	prober audioprobe.Prober
	log    *zap.Logger
	ttl    time.Duration
}

func NewUploadService(store storage.AssetStore, rdb *redis.Client, prober audioprobe.Prober, log *zap.Logger, ttl time.Duration) UploadService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &uploadService{store: store, rdb: rdb, prober: prober, log: log, ttl: ttl}
}

func (s *uploadService) SaveTemp(ctx context.Context, r io.Reader, fileName string) (*TempUpload, error) {
	id := uuid.NewString()

	if _, err := s.store.SaveTemp(ctx, id, r); err != nil {
		return nil, &PersistenceError{Op: "upload", Err: err}
	}

	entry := &TempUpload{TempFileID: id, FileName: filepath.Base(fileName)}
	if err := s.putEntry(ctx, entry); err != nil {
		_ = s.store.RemoveTemp(ctx, id)
		return nil, &PersistenceError{Op: "upload", Err: err}
	}

	s.log.Debug("temp upload staged",
		zap.String("temp_file_id", id),
		zap.String("file_name", entry.FileName))
	return entry, nil
}

func (s *uploadService) Analyze(ctx context.Context, tempFileID string) (*audioprobe.Metadata, error) {
	entry, err := s.getEntry(ctx, tempFileID)
	if err != nil {
		return nil, err
	}
	if entry.Metadata != nil {
		return entry.Metadata, nil
	}

	path := s.store.TempPath(tempFileID)

	// Cheap container sniff before spawning ffprobe. Field recorders also
	// produce video containers with audio tracks, so those pass through.
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, &NotFoundError{Msg: "temporary file not found"}
	}
	if !strings.HasPrefix(mt.String(), "audio/") && !strings.HasPrefix(mt.String(), "video/") {
		return nil, &AnalysisError{Err: audioprobe.ErrNotAudio}
	}

	md, err := s.prober.Probe(ctx, path)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}

	entry.Metadata = md
	if err := s.putEntry(ctx, entry); err != nil {
		return nil, &PersistenceError{Op: "upload", Err: err}
	}
	return md, nil
}

func (s *uploadService) Verify(ctx context.Context, tempFileID string) (bool, error) {
	n, err := s.rdb.Exists(ctx, uploadKeyPrefix+tempFileID).Result()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}
	return s.store.TempExists(tempFileID), nil
}

func (s *uploadService) Persist(ctx context.Context, tempFileID string) (string, *TempUpload, error) {
	// GETDEL makes the id single use: a second Persist for the same id
	// finds no entry and fails cleanly without touching storage.
	raw, err := s.rdb.GetDel(ctx, uploadKeyPrefix+tempFileID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil, &NotFoundError{Msg: "temporary file not found"}
		}
		return "", nil, &PersistenceError{Op: "persist", Err: err}
	}

	var entry TempUpload
	if err := sonic.Unmarshal([]byte(raw), &entry); err != nil {
		return "", nil, &PersistenceError{Op: "persist", Err: err}
	}

	finalBase := uuid.NewString()[:8] + "_" + entry.FileName
	relPath, err := s.store.Promote(ctx, tempFileID, finalBase)
	if err != nil {
		if errors.Is(err, storage.ErrTempMissing) {
			return "", nil, &NotFoundError{Msg: "temporary file not found"}
		}
		return "", nil, &PersistenceError{Op: "persist", Err: err}
	}

	s.log.Info("temp upload persisted",
		zap.String("temp_file_id", tempFileID),
		zap.String("path", relPath))
	return relPath, &entry, nil
}

func (s *uploadService) Discard(ctx context.Context, tempFileID string) error {
	if err := s.rdb.Del(ctx, uploadKeyPrefix+tempFileID).Err(); err != nil {
		return err
	}
	return s.store.RemoveTemp(ctx, tempFileID)
}

func (s *uploadService) putEntry(ctx context.Context, entry *TempUpload) error {
	b, err := sonic.Marshal(entry)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, uploadKeyPrefix+entry.TempFileID, b, s.ttl).Err()
}

func (s *uploadService) getEntry(ctx context.Context, tempFileID string) (*TempUpload, error) {
	raw, err := s.rdb.Get(ctx, uploadKeyPrefix+tempFileID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, &NotFoundError{Msg: "temporary file not found"}
		}
		return nil, err
	}
	var entry TempUpload
	if err := sonic.Unmarshal([]byte(raw), &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}
