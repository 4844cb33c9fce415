package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// Format is an output document format.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPDF Format = "pdf"
	FormatPNG Format = "png"
)

// rasterizer is the librsvg command line tool used for PDF and PNG.
const rasterizer = "rsvg-convert"

// FormatFromPath picks the format from a file extension. Unknown or missing
// extensions mean SVG.
func FormatFromPath(path string) Format {
	switch f := Format(strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))); f {
	case FormatPDF, FormatPNG:
		return f
	default:
		return FormatSVG
	}
}

// Convert turns an SVG document into f. SVG input is returned unchanged.
// PDF and PNG shell out to rsvg-convert, which must be on PATH; scale is
// the PNG zoom factor and defaults to 1.
func Convert(ctx context.Context, svg []byte, f Format, scale float64) ([]byte, error) {
	var args []string
	switch f {
	case FormatSVG, "":
		return svg, nil
	case FormatPDF:
		args = []string{"--format", "pdf"}
	case FormatPNG:
		if scale <= 0 {
			scale = 1
		}
		args = []string{"--format", "png", "--zoom", strconv.FormatFloat(scale, 'f', 2, 64)}
	default:
		return nil, fmt.Errorf("unsupported format %q", f)
	}

	bin, err := exec.LookPath(rasterizer)
	if err != nil {
		return nil, fmt.Errorf("%s output needs %s from librsvg (brew install librsvg, apt install librsvg2-bin)", f, rasterizer)
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", rasterizer, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
