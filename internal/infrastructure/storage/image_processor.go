package storage

import (
	"bytes"
	"errors"
	"fmt"
	"image"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var ErrUnsupportedImage = errors.New("unsupported image format")

// AllowedFormats maps decoded formats to their canonical content type.
var AllowedFormats = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
}

type ImageProcessor struct {
	MaxSize      int64 // bytes
	MaxDimension int   // cạnh dài nhất sau khi normalize
}

func NewImageProcessor(maxSize int64) *ImageProcessor {
	return &ImageProcessor{MaxSize: maxSize, MaxDimension: 1024}
}

// ValidateImage check size + format, trả về format đã decode
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if p.MaxSize > 0 && int64(len(data)) > p.MaxSize {
		return "", fmt.Errorf("image exceeds %dMB", p.MaxSize/(1024*1024))
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if _, ok := AllowedFormats[format]; !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedImage, format)
	}
	return format, nil
}

// Normalize thu nhỏ ảnh JPEG/PNG quá MaxDimension, giữ nguyên format.
// GIF (animation) và WebP (không có encoder) giữ nguyên bytes.
func (p *ImageProcessor) Normalize(data []byte, format string) ([]byte, error) {
	var target imaging.Format
	switch format {
	case "jpeg":
		target = imaging.JPEG
	case "png":
		target = imaging.PNG
	default:
		return data, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= p.MaxDimension && b.Dy() <= p.MaxDimension {
		return data, nil
	}

	resized := imaging.Fit(img, p.MaxDimension, p.MaxDimension, imaging.Lanczos)
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, resized, target, imaging.JPEGQuality(90)); err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}
