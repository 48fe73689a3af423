package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const materialsPrefix = "materials"

// LocalStore keeps temp uploads and persisted assets on the local filesystem.
type LocalStore struct {
	materialsDir string
	tempDir      string
}

func NewLocalStore(materialsDir, tempDir string) (*LocalStore, error) {
	for _, dir := range []string{materialsDir, tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir %s: %w", dir, err)
		}
	}
	return &LocalStore{materialsDir: materialsDir, tempDir: tempDir}, nil
}

func (s *LocalStore) SaveTemp(_ context.Context, tempID string, r io.Reader) (string, error) {
	dst := s.TempPath(tempID)
	f, err := os.Create(dst)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", err
	}
	return dst, nil
}

func (s *LocalStore) TempPath(tempID string) string {
	return filepath.Join(s.tempDir, tempID)
}

func (s *LocalStore) TempExists(tempID string) bool {
	info, err := os.Stat(s.TempPath(tempID))
	return err == nil && !info.IsDir()
}

func (s *LocalStore) RemoveTemp(_ context.Context, tempID string) error {
	err := os.Remove(s.TempPath(tempID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) Promote(_ context.Context, tempID string, finalBase string) (string, error) {
	src := s.TempPath(tempID)
	if _, err := os.Stat(src); err != nil {
		return "", ErrTempMissing
	}
	dst := filepath.Join(s.materialsDir, finalBase)
	if err := os.Rename(src, dst); err != nil {
		// Rename fails across filesystems; fall back to copy + remove.
		if err := copyFile(src, dst); err != nil {
			return "", err
		}
		os.Remove(src)
	}
	return filepath.ToSlash(filepath.Join(materialsPrefix, finalBase)), nil
}

func (s *LocalStore) Remove(_ context.Context, relPath string) error {
	base := filepath.Base(relPath)
	err := os.Remove(filepath.Join(s.materialsDir, base))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dst)
		return err
	}
	return out.Close()
}
