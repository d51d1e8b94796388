// Package encoder writes rendered frames to image files.
package encoder

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

var ErrUnknownFormat = errors.New("encoder: unknown image format")

// Format names an output image format
type Format string

const (
	FormatPPM  Format = "ppm"
	FormatPNG  Format = "png"
	FormatBMP  Format = "bmp"
	FormatTIFF Format = "tiff"
	FormatWebP Format = "webp"
)

// Formats lists every supported format
func Formats() []Format {
	return []Format{FormatPPM, FormatPNG, FormatBMP, FormatTIFF, FormatWebP}
}

// FormatFromPath picks the output format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")); ext {
	case "ppm":
		return FormatPPM, nil
	case "png":
		return FormatPNG, nil
	case "bmp":
		return FormatBMP, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "webp":
		return FormatWebP, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, path)
	}
}

// Encode writes frame to w in the given format
func Encode(w io.Writer, format Format, frame *renderer.Frame) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, frame)
	case FormatPNG:
		return png.Encode(w, frame.ToRGBA())
	case FormatBMP:
		return bmp.Encode(w, frame.ToRGBA())
	case FormatTIFF:
		return tiff.Encode(w, frame.ToRGBA(), &tiff.Options{Compression: tiff.Deflate})
	case FormatWebP:
		return nativewebp.Encode(w, frame.ToRGBA(), nil)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteFile encodes frame into path, choosing the format from its extension
func WriteFile(path string, frame *renderer.Frame) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("encoder: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("encoder: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("encoder: %w", closeErr)
		}
	}()

	if err := Encode(f, format, frame); err != nil {
		return fmt.Errorf("encoder: write %s: %w", path, err)
	}
	return nil
}
