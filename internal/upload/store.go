// Package upload stores product images on local disk.
package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	FieldName    = "images"
	MaxFiles     = 10
	MaxFileSize  = 5 << 20
	PublicPrefix = "/uploads/"
)

var (
	ErrTooManyFiles = errors.New("too many files")
	ErrFileTooLarge = errors.New("file too large")
	ErrNotImage     = errors.New("Only image files are allowed")
)

type Store struct {
	Dir string
	Now func() time.Time
}

func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{Dir: dir, Now: time.Now}, nil
}

func check(files []*multipart.FileHeader) error {
	if len(files) > MaxFiles {
		return ErrTooManyFiles
	}
	for _, fh := range files {
		if fh.Size > MaxFileSize {
			return fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
		}
		if !strings.HasPrefix(fh.Header.Get("Content-Type"), "image/") {
			return fmt.Errorf("%w: %s", ErrNotImage, fh.Filename)
		}
	}
	return nil
}

// SaveAll writes every file and returns their public paths. Either all files
// are stored or none is.
func (s *Store) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if err := check(files); err != nil {
		return nil, err
	}

	paths := make([]string, 0, len(files))
	written := make([]string, 0, len(files))
	for _, fh := range files {
		name := s.name(fh.Filename)
		dst := filepath.Join(s.Dir, name)
		if err := save(fh, dst); err != nil {
			for _, w := range written {
				_ = os.Remove(w)
			}
			return nil, err
		}
		written = append(written, dst)
		paths = append(paths, PublicPrefix+name)
	}
	return paths, nil
}

func (s *Store) name(original string) string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	ext := strings.ToLower(filepath.Ext(original))
	return fmt.Sprintf("%s-%d-%d%s", FieldName, now().UnixMilli(), rand.IntN(1e9), ext)
}

func save(fh *multipart.FileHeader, dst string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	// the header size is client-declared; cap the copy as well
	n, err := io.Copy(out, io.LimitReader(src, MaxFileSize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > MaxFileSize {
		err = fmt.Errorf("%w: %s", ErrFileTooLarge, fh.Filename)
	}
	if err != nil {
		_ = os.Remove(dst)
	}
	return err
}

// Remove deletes previously saved files by their public path.
func (s *Store) Remove(paths []string) {
	for _, p := range paths {
		if !strings.HasPrefix(p, PublicPrefix) {
			continue
		}
		_ = os.Remove(filepath.Join(s.Dir, filepath.Base(p)))
	}
}
