package splatio

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/mrjoshuak/go-gsplat/splat"
	"github.com/mrjoshuak/go-jpeg2000"
)

const (
	// PreviewWidth is the width of a color preview in pixels.
	PreviewWidth = 256
	// minPreviewHeight keeps small previews large enough to encode.
	minPreviewHeight = 64
)

// ColorPreview lays out the color of every splat in tex row by row, one
// pixel per splat, PreviewWidth pixels wide. Pixels past the last splat
// are transparent black.
func ColorPreview(tex *splat.Texture) *image.NRGBA {
	rows := max((tex.Count+PreviewWidth-1)/PreviewWidth, minPreviewHeight)
	img := image.NewNRGBA(image.Rect(0, 0, PreviewWidth, rows))
	for i := range tex.Count {
		c := tex.Color(i)
		img.SetNRGBA(i%PreviewWidth, i/PreviewWidth, color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]})
	}
	return img
}

// EncodePreview writes the color preview of tex as a lossless JPEG 2000
// codestream.
func EncodePreview(w io.Writer, tex *splat.Texture) error {
	opts := &jpeg2000.Options{
		Format:   jpeg2000.FormatJ2K,
		Lossless: true,
	}
	if err := jpeg2000.Encode(w, ColorPreview(tex), opts); err != nil {
		return fmt.Errorf("splatio: preview encode failed: %w", err)
	}
	return nil
}

// DecodePreview reads a preview written by EncodePreview.
func DecodePreview(r io.Reader) (image.Image, error) {
	img, err := jpeg2000.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("splatio: preview decode failed: %w", err)
	}
	return img, nil
}
