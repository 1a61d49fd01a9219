package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingSource struct {
	data     []byte
	err      error
	closeErr error
	closed   int
}

func (s *trackingSource) Capture(context.Context) ([]byte, error) { return s.data, s.err }
func (s *trackingSource) Close() error                            { s.closed++; return s.closeErr }

func TestUse_ClosesOnSuccess(t *testing.T) {
	src := &trackingSource{data: []byte("x")}
	err := Use(src, func(Source) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 1, src.closed)
}

func TestUse_ClosesOnError(t *testing.T) {
	src := &trackingSource{closeErr: errors.New("close failed")}
	want := errors.New("capture failed")
	err := Use(src, func(Source) error { return want })
	assert.ErrorIs(t, err, want, "fn error wins over close error")
	assert.Equal(t, 1, src.closed)
}

func TestUse_ReportsCloseError(t *testing.T) {
	src := &trackingSource{closeErr: errors.New("close failed")}
	err := Use(src, func(Source) error { return nil })
	assert.ErrorContains(t, err, "close failed")
}

func TestUse_ClosesOnPanic(t *testing.T) {
	src := &trackingSource{}
	assert.Panics(t, func() {
		_ = Use(src, func(Source) error { panic("boom") })
	})
	assert.Equal(t, 1, src.closed)
}

func TestGrab(t *testing.T) {
	src := &trackingSource{data: []byte("img")}
	b, err := Grab(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), b)
	assert.Equal(t, 1, src.closed)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nota.jpg")
	require.NoError(t, os.WriteFile(path, []byte{0xFF, 0xD8, 0xFF}, 0o644))

	src, err := OpenFile("  " + path + " ")
	require.NoError(t, err)
	assert.Equal(t, path, src.Path())

	b, err := Grab(context.Background(), src)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0xD8, 0xFF}, b)
	assert.NoError(t, src.Close(), "second close is a no-op")
}

func TestOpenFile_Errors(t *testing.T) {
	_, err := OpenFile("")
	assert.Error(t, err)

	_, err = OpenFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = OpenFile(t.TempDir())
	assert.ErrorContains(t, err, "directory")
}

func TestFileSource_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.png")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	src, err := OpenFile(path)
	require.NoError(t, err)
	_, err = Grab(context.Background(), src)
	assert.Error(t, err)
}

func TestReaderSource_TooLarge(t *testing.T) {
	big := io.LimitReader(zeroReader{}, MaxImageBytes+10)
	_, err := Grab(context.Background(), FromReader(big))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestReaderSource_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Grab(ctx, FromReader(bytes.NewReader([]byte("x"))))
	assert.ErrorIs(t, err, context.Canceled)
}

type zeroReader struct{}

func (zeroReader) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}
