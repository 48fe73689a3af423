package service

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/phonica/phonica/internal/infra/storage"
	"github.com/phonica/phonica/internal/pkg/audioprobe"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockProber is a mock implementation of audioprobe.Prober
type MockProber struct {
	mock.Mock
}

func (m *MockProber) Probe(ctx context.Context, path string) (*audioprobe.Metadata, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audioprobe.Metadata), args.Error(1)
}

// wavHeader is just enough RIFF/WAVE framing for container sniffing.
var wavHeader = append([]byte("RIFF\x24\x00\x00\x00WAVE"), []byte("fmt ")...)

func newUploadService(t *testing.T) (UploadService, *MockProber, *miniredis.Miniredis, *storage.LocalStore) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	root := t.TempDir()
	store, err := storage.NewLocalStore(filepath.Join(root, "materials"), filepath.Join(root, "temp"))
	assert.NoError(t, err)

	prober := &MockProber{}
	svc := NewUploadService(store, rdb, prober, zap.NewNop(), time.Hour)
	return svc, prober, mr, store
}

func TestUploadService_SaveAndAnalyze(t *testing.T) {
	svc, prober, _, store := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "/tmp/evil/../field.wav")
	assert.NoError(t, err)
	assert.NotEmpty(t, entry.TempFileID)
	// Client paths are stripped to their base name.
	assert.Equal(t, "field.wav", entry.FileName)
	assert.True(t, store.TempExists(entry.TempFileID))

	prober.On("Probe", mock.Anything, store.TempPath(entry.TempFileID)).
		Return(&audioprobe.Metadata{FileFormat: "WAV", SampleRate: ptr(48000)}, nil).Once()

	md, err := svc.Analyze(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.Equal(t, "WAV", md.FileFormat)

	// Second analyze serves the cached result without re-probing.
	md2, err := svc.Analyze(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.Equal(t, md.FileFormat, md2.FileFormat)
	prober.AssertNumberOfCalls(t, "Probe", 1)
}

func TestUploadService_AnalyzeRejectsNonAudio(t *testing.T) {
	svc, prober, _, _ := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader([]byte("just some notes\n")), "notes.txt")
	assert.NoError(t, err)

	md, err := svc.Analyze(ctx, entry.TempFileID)
	assert.Nil(t, md)
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
	assert.ErrorIs(t, aerr.Err, audioprobe.ErrNotAudio)
	prober.AssertNotCalled(t, "Probe", mock.Anything, mock.Anything)
}

func TestUploadService_AnalyzeProbeFailure(t *testing.T) {
	svc, prober, _, _ := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "broken.wav")
	assert.NoError(t, err)

	prober.On("Probe", mock.Anything, mock.Anything).
		Return(nil, errors.New("no decodable streams"))

	md, err := svc.Analyze(ctx, entry.TempFileID)
	assert.Nil(t, md)
	var aerr *AnalysisError
	assert.ErrorAs(t, err, &aerr)
}

func TestUploadService_PersistIsSingleUse(t *testing.T) {
	svc, _, _, store := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "field.wav")
	assert.NoError(t, err)

	relPath, persisted, err := svc.Persist(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.Equal(t, entry.FileName, persisted.FileName)
	assert.Contains(t, relPath, "field.wav")
	assert.False(t, store.TempExists(entry.TempFileID))

	ok, err := svc.Verify(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Persist(ctx, entry.TempFileID)
	var nfe *NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestUploadService_VerifyAfterExpiry(t *testing.T) {
	svc, _, mr, _ := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "field.wav")
	assert.NoError(t, err)

	ok, err := svc.Verify(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.True(t, ok)

	mr.FastForward(2 * time.Hour)

	ok, err = svc.Verify(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.False(t, ok)

	_, _, err = svc.Persist(ctx, entry.TempFileID)
	var nfe *NotFoundError
	assert.ErrorAs(t, err, &nfe)
}

func TestUploadService_VerifyMissingFile(t *testing.T) {
	svc, _, _, store := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "field.wav")
	assert.NoError(t, err)

	// Registry entry still present but the bytes are gone.
	assert.NoError(t, os.Remove(store.TempPath(entry.TempFileID)))

	ok, err := svc.Verify(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestUploadService_Discard(t *testing.T) {
	svc, _, _, store := newUploadService(t)
	ctx := context.Background()

	entry, err := svc.SaveTemp(ctx, bytes.NewReader(wavHeader), "field.wav")
	assert.NoError(t, err)

	assert.NoError(t, svc.Discard(ctx, entry.TempFileID))
	assert.False(t, store.TempExists(entry.TempFileID))

	ok, err := svc.Verify(ctx, entry.TempFileID)
	assert.NoError(t, err)
	assert.False(t, ok)
}
