package clipboard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"henji/internal/logger"

	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// PixelImage is a decoded image in straight (non-premultiplied) R,G,B,A
// byte order, rows packed without padding.
type PixelImage struct {
	Width  uint
	Height uint
	Pix    []byte
}

// NRGBA views the pixel buffer as an image without copying it.
func (p *PixelImage) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    p.Pix,
		Stride: int(p.Width) * 4,
		Rect:   image.Rect(0, 0, int(p.Width), int(p.Height)),
	}
}

// DecodePixels decodes a PNG, JPEG, GIF, WEBP or BMP buffer into a PixelImage.
func DecodePixels(data []byte) (*PixelImage, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrDecodeImage)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecodeImage, err)
	}
	return ToPixels(img), nil
}

// ToPixels converts any image to the canonical 4-channel layout anchored at (0,0).
func ToPixels(img image.Image) *PixelImage {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return &PixelImage{
		Width:  uint(b.Dx()),
		Height: uint(b.Dy()),
		Pix:    dst.Pix,
	}
}

// ImageSink accepts pixel images for the OS clipboard.
type ImageSink interface {
	Name() string
	WriteImage(img *PixelImage) error
}

// ImageWriter decodes encoded images and places them on the clipboard.
type ImageWriter struct {
	sink ImageSink
	fs   afero.Fs
	log  *logger.AsyncLogger
}

// NewImageWriter creates an ImageWriter. A nil fs reads from the OS file system.
func NewImageWriter(sink ImageSink, fs afero.Fs, log *logger.AsyncLogger) *ImageWriter {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &ImageWriter{sink: sink, fs: fs, log: logger.Or(log)}
}

// WriteImage decodes data and writes the result to the clipboard.
func (w *ImageWriter) WriteImage(ctx context.Context, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.sink == nil {
		return fmt.Errorf("%w: no clipboard sink configured", ErrClipboardWrite)
	}

	img, err := DecodePixels(data)
	if err != nil {
		return err
	}
	if err := w.sink.WriteImage(img); err != nil {
		if errors.Is(err, ErrClipboardWrite) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrClipboardWrite, err)
	}

	w.log.Debugf("wrote %dx%d image to clipboard via %s", img.Width, img.Height, w.sink.Name())
	return nil
}

// WriteImageFile reads the image at path and writes it to the clipboard.
func (w *ImageWriter) WriteImageFile(ctx context.Context, path string) error {
	data, err := afero.ReadFile(w.fs, path)
	if err != nil {
		return fmt.Errorf("clipboard: failed to read image file %s: %w", path, err)
	}
	return w.WriteImage(ctx, data)
}
