package encoder

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-pathtracer/pkg/renderer"
)

// WritePPM writes frame as a plain-text P3 portable pixmap: a
// "P3\n<w> <h>\n255\n" header followed by one "r g b" line per pixel in
// scanline order from the top row.
func WritePPM(w io.Writer, frame *renderer.Frame) error {
	bw := bufio.NewWriter(w)

	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", frame.Width(), frame.Height()); err != nil {
		return err
	}
	for c := range frame.Quantized() {
		if _, err := fmt.Fprintf(bw, "%d %d %d\n", c.R, c.G, c.B); err != nil {
			return err
		}
	}

	return bw.Flush()
}
