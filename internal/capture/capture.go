// Package capture acquires images for reading extraction. A Source holds
// whatever device or file handle it needs until Close.
package capture

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageBytes bounds what a source will read.
const MaxImageBytes = 10 << 20

// ErrTooLarge is returned for images over MaxImageBytes.
var ErrTooLarge = errors.New("image exceeds 10 MiB")

// Source produces one image.
type Source interface {
	Capture(ctx context.Context) ([]byte, error)
	Close() error
}

// Use opens nothing itself; it runs fn with src and always closes src,
// including when fn fails or panics. A Close error is returned only when
// fn succeeded.
func Use(src Source, fn func(Source) error) (err error) {
	defer func() {
		if cerr := src.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close capture source: %w", cerr)
		}
	}()
	return fn(src)
}

// Grab captures a single image from src and closes it.
func Grab(ctx context.Context, src Source) ([]byte, error) {
	var img []byte
	err := Use(src, func(s Source) error {
		var err error
		img, err = s.Capture(ctx)
		return err
	})
	return img, err
}

// FileSource reads an image from disk.
type FileSource struct {
	path string
	f    *os.File
}

// OpenFile opens path for capture. A leading ~ is expanded.
func OpenFile(path string) (*FileSource, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("no image path given")
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat image: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("open image: %s is a directory", path)
	}
	return &FileSource{path: path, f: f}, nil
}

// Path returns the resolved file path.
func (s *FileSource) Path() string { return s.path }

func (s *FileSource) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readLimited(s.f)
}

func (s *FileSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// ReaderSource captures from an already-open stream such as stdin or an
// upload. Close closes the stream if it is an io.Closer.
type ReaderSource struct {
	r io.Reader
}

// FromReader wraps r as a Source.
func FromReader(r io.Reader) *ReaderSource {
	return &ReaderSource{r: r}
}

func (s *ReaderSource) Capture(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return readLimited(s.r)
}

func (s *ReaderSource) Close() error {
	if c, ok := s.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func readLimited(r io.Reader) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(r, MaxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	if len(b) > MaxImageBytes {
		return nil, ErrTooLarge
	}
	if len(b) == 0 {
		return nil, fmt.Errorf("read image: empty")
	}
	return b, nil
}
