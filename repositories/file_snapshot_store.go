package repositories

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"wegetchat/domain"
)

// FileSnapshotStore keeps the snapshot as a single JSON document on disk.
// Saves go through a temporary file in the same directory followed by a rename.
type FileSnapshotStore struct {
	path string
	log  *slog.Logger
}

var _ ISnapshotStore = (*FileSnapshotStore)(nil)

func NewFileSnapshotStore(path string, log *slog.Logger) (*FileSnapshotStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create snapshot directory: %w", err)
	}
	return &FileSnapshotStore{path: path, log: log.With("store", "file", "path", path)}, nil
}

func (f *FileSnapshotStore) Load() (*domain.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		f.log.Info("No snapshot found, initializing an empty one")
		return f.initialize()
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	s, err := decodeDocument(data)
	if err != nil {
		aside := fmt.Sprintf("%s.corrupt-%d", f.path, time.Now().Unix())
		if renameErr := os.Rename(f.path, aside); renameErr != nil {
			f.log.Error("Could not set corrupt snapshot aside", "err", renameErr)
		}
		f.log.Warn("Snapshot is unreadable, starting from an empty state; previous data is lost",
			"err", err, "moved_to", aside)
		return f.initialize()
	}
	return s, nil
}

func (f *FileSnapshotStore) initialize() (*domain.Snapshot, error) {
	s := domain.NewSnapshot()
	if err := f.Save(s); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *FileSnapshotStore) Save(s *domain.Snapshot) (err error) {
	data, err := encodeDocument(s)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp snapshot: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err = os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}

	// Persist the rename itself; not every platform supports syncing a directory
	if d, dirErr := os.Open(dir); dirErr == nil {
		_ = d.Sync()
		_ = d.Close()
	}
	return nil
}

// ReadSnapshotFile decodes a snapshot document without initializing or repairing it.
func ReadSnapshotFile(path string) (*domain.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeDocument(data)
}
