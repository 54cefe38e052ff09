package preserve

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore keeps each save in its own directory:
//
//	<path>/Save - <name>/Save Data - <name>
type FileStore struct {
	dirPerm    fs.FileMode
	filePerm   fs.FileMode
	createTemp func(dir, pattern string) (*os.File, error)
}

// NewFileStore creates a file-backed store
func NewFileStore() *FileStore {
	return &FileStore{dirPerm: 0o755, filePerm: 0o644, createTemp: os.CreateTemp}
}

var _ Store = (*FileStore)(nil)

// Dir is the directory holding the save
func (s *FileStore) Dir(loc Location) string {
	return filepath.Join(loc.Path, "Save - "+loc.Name)
}

// File is the snapshot file of the save
func (s *FileStore) File(loc Location) string {
	return filepath.Join(s.Dir(loc), "Save Data - "+loc.Name)
}

func (s *FileStore) Exists(ctx context.Context, loc Location) (bool, error) {
	if err := ValidName(loc.Name); err != nil {
		return false, err
	}
	_, err := os.Stat(s.Dir(loc))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, IOError(err, "failed to stat save %s", loc)
	}
}

func (s *FileStore) Create(ctx context.Context, loc Location, data []byte) error {
	if err := ValidName(loc.Name); err != nil {
		return err
	}
	if err := os.MkdirAll(loc.Path, s.dirPerm); err != nil {
		return IOError(err, "failed to create save root %q", loc.Path)
	}
	// Mkdir fails when the directory is present, so two creates cannot both win.
	if err := os.Mkdir(s.Dir(loc), s.dirPerm); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return AlreadyExists(loc)
		}
		return IOError(err, "failed to create save %s", loc)
	}
	if err := s.Write(ctx, loc, data); err != nil {
		// Remove the half-made save so the name can be created again
		_ = os.RemoveAll(s.Dir(loc))
		return err
	}
	return nil
}

// Write replaces the snapshot through a temporary file and a rename, so a
// crash mid-write leaves the previous snapshot intact.
func (s *FileStore) Write(ctx context.Context, loc Location, data []byte) error {
	if err := ValidName(loc.Name); err != nil {
		return err
	}
	dir := s.Dir(loc)
	if err := os.MkdirAll(dir, s.dirPerm); err != nil {
		return IOError(err, "failed to create save %s", loc)
	}

	tmp, err := s.createTemp(dir, ".tmp-*")
	if err != nil {
		return IOError(err, "failed to write save %s", loc)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return IOError(err, "failed to write save %s", loc)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return IOError(err, "failed to sync save %s", loc)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return IOError(err, "failed to write save %s", loc)
	}
	if err := os.Chmod(tmpName, s.filePerm); err != nil {
		cleanup()
		return IOError(err, "failed to write save %s", loc)
	}
	if err := os.Rename(tmpName, s.File(loc)); err != nil {
		cleanup()
		return IOError(err, "failed to replace save %s", loc)
	}
	return nil
}

func (s *FileStore) Read(ctx context.Context, loc Location) ([]byte, error) {
	if err := ValidName(loc.Name); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.File(loc))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NotFound("save %s does not exist", loc)
		}
		return nil, IOError(err, "failed to read save %s", loc)
	}
	return data, nil
}

func (s *FileStore) Delete(ctx context.Context, loc Location) error {
	ok, err := s.Exists(ctx, loc)
	if err != nil {
		return err
	}
	if !ok {
		return NotFound("save %s does not exist", loc)
	}
	if err := os.RemoveAll(s.Dir(loc)); err != nil {
		return IOError(err, "failed to delete save %s", loc)
	}
	return nil
}
