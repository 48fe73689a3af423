package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrTempMissing = errors.New("temp file missing")
)

// AssetStore persists uploaded audio. Temp files always live on local disk so
// the prober can read them; Promote moves a temp file into permanent storage
// and returns the relative path recorded on the material row.
type AssetStore interface {
	// SaveTemp writes the upload under the given temp id and returns the
	// absolute path of the staged file.
	SaveTemp(ctx context.Context, tempID string, r io.Reader) (string, error)

	// TempPath returns the absolute path a temp id maps to, whether or not
	// the file still exists.
	TempPath(tempID string) string

	// TempExists reports whether the staged file is still on disk. Temp
	// files can disappear independently of any explicit delete.
	TempExists(tempID string) bool

	// RemoveTemp discards a staged file. Missing files are not an error.
	RemoveTemp(ctx context.Context, tempID string) error

	// Promote moves the staged file into permanent storage under finalBase
	// and returns the stored relative path. The temp file is consumed.
	Promote(ctx context.Context, tempID string, finalBase string) (string, error)

	// Remove deletes a permanently stored asset by its relative path.
	Remove(ctx context.Context, relPath string) error
}
