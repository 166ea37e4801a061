package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

const rsvgBinary = "rsvg-convert"

// lookPath is swapped out by tests.
var lookPath = exec.LookPath

// ToPDF converts SVG bytes to PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, FormatPDF)
}

// ToPNG converts SVG bytes to PNG using rsvg-convert with the given scale factor.
// Scale of 2.0 produces a 2x resolution image.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1
	}
	return rsvgConvert(ctx, svg, FormatPNG, "-z", fmt.Sprintf("%.2f", scale))
}

// ConverterAvailable reports whether rsvg-convert can be found. The returned
// error wraps [ErrBackendUnavailable].
func ConverterAvailable() error {
	if _, err := lookPath(rsvgBinary); err != nil {
		return fmt.Errorf("%w: pdf and png export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", ErrBackendUnavailable)
	}
	return nil
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if err := ConverterAvailable(); err != nil {
		return nil, err
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}
