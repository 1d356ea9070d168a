package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 220, G: 38, B: 38, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf.Bytes()
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewLocalStorage(dir)

	require.NoError(t, s.Put(ctx, "face.png", []byte("img"), "image/png"))

	got, err := s.Get(ctx, "face.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), got)

	onDisk, err := os.ReadFile(filepath.Join(dir, "face.png"))
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), onDisk)

	require.NoError(t, s.Delete(ctx, "face.png"))
	_, err = s.Get(ctx, "face.png")
	assert.ErrorIs(t, err, ErrObjectNotFound)
	assert.ErrorIs(t, s.Delete(ctx, "face.png"), ErrObjectNotFound)
}

func TestLocalStorage_ReadsFilesLeftOnDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.png"), []byte("old"), 0o644))

	s := NewLocalStorage(dir)
	got, err := s.Get(ctx, "old.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("old"), got)
}

func TestLocalStorage_MemoryOnlyWhenDiskUnavailable(t *testing.T) {
	ctx := context.Background()
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	// a regular file where the directory should be makes every disk write fail
	s := NewLocalStorage(filepath.Join(blocker, "uploads"))
	require.NoError(t, s.Put(ctx, "face.png", []byte("img"), "image/png"))

	got, err := s.Get(ctx, "face.png")
	require.NoError(t, err)
	assert.Equal(t, []byte("img"), got)
	assert.NoError(t, s.Delete(ctx, "face.png"))
}

func TestImageProcessor_Validate(t *testing.T) {
	p := NewImageProcessor(1 << 20)

	format, err := p.ValidateImage(pngBytes(t, 8, 8))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, err = p.ValidateImage([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	small := NewImageProcessor(16)
	_, err = small.ValidateImage(pngBytes(t, 8, 8))
	assert.Error(t, err)
}

func TestImageProcessor_NormalizeDownscales(t *testing.T) {
	p := NewImageProcessor(1 << 24)
	p.MaxDimension = 64

	out, err := p.Normalize(pngBytes(t, 256, 128), "png")
	require.NoError(t, err)

	cfg, format, err := image.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 32, cfg.Height)
}

func TestImageProcessor_NormalizeKeepsSmallImages(t *testing.T) {
	p := NewImageProcessor(1 << 24)
	in := pngBytes(t, 16, 16)

	out, err := p.Normalize(in, "png")
	require.NoError(t, err)
	assert.Equal(t, in, out)

	gif := []byte("GIF89a...")
	out, err = p.Normalize(gif, "gif")
	require.NoError(t, err)
	assert.Equal(t, gif, out)
}
