package storage

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"

	"github.com/disintegration/imaging"
)

// ImageProcessor handles image processing like resizing.
type ImageProcessor struct {
	quality int
}

// NewImageProcessor creates a new ImageProcessor encoding JPEG at quality.
func NewImageProcessor(quality int) *ImageProcessor {
	if quality < 1 || quality > 100 {
		quality = jpeg.DefaultQuality
	}
	return &ImageProcessor{quality: quality}
}

// Dimensions returns the width and height of an encoded image without
// decoding its pixels.
func (p *ImageProcessor) Dimensions(content io.Reader) (int, int, error) {
	cfg, _, err := image.DecodeConfig(content)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read image header: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

// Thumbnail fits the source image into a maxWidth x maxHeight box and
// returns it as JPEG.
func (p *ImageProcessor) Thumbnail(content io.Reader, maxWidth, maxHeight int) ([]byte, error) {
	img, _, err := image.Decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbnail := imaging.Fit(img, maxWidth, maxHeight, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumbnail, &jpeg.Options{Quality: p.quality}); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
