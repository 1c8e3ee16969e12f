package images

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DefaultExtension is the image extension considered when none is configured
const DefaultExtension = ".jpg"

// ErrTargetExists is returned when a rename would overwrite an existing file
var ErrTargetExists = errors.New("target already exists")

// Store gives access to a flat directory of product images
type Store struct {
	Dir string
	Ext string
}

// NewStore creates a store over dir considering only files ending in ext
func NewStore(dir, ext string) *Store {
	if ext == "" {
		ext = DefaultExtension
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return &Store{
		Dir: dir,
		Ext: ext,
	}
}

// List returns the image file names in the directory, sorted by name
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), s.Ext) {
			continue
		}
		files = append(files, entry.Name())
	}
	return files, nil
}

// FileName returns the image file name for an identifier
func (s *Store) FileName(id string) string {
	return id + s.Ext
}

// Candidate returns the identifier candidate for an image file name
func (s *Store) Candidate(fileName string) string {
	return strings.TrimSuffix(fileName, s.Ext)
}

// Path returns the full path of an image file name
func (s *Store) Path(fileName string) string {
	return filepath.Join(s.Dir, fileName)
}

// Exists reports whether an image file is present
func (s *Store) Exists(fileName string) (bool, error) {
	_, err := os.Lstat(s.Path(fileName))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Read returns the content of an image file
func (s *Store) Read(fileName string) ([]byte, error) {
	data, err := os.ReadFile(s.Path(fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return data, nil
}

// Rename moves an image to a new file name without overwriting
func (s *Store) Rename(from, to string) error {
	exists, err := s.Exists(to)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", to, err)
	}
	if exists {
		return fmt.Errorf("%s: %w", to, ErrTargetExists)
	}

	if err := os.Rename(s.Path(from), s.Path(to)); err != nil {
		return fmt.Errorf("failed to rename %s: %w", from, err)
	}
	return nil
}
