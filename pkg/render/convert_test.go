package render

import (
	"context"
	"testing"
)

func TestFormatFromPath(t *testing.T) {
	tests := map[string]Format{
		"out.svg":       FormatSVG,
		"out.PDF":       FormatPDF,
		"diagram.png":   FormatPNG,
		"noext":         FormatSVG,
		"dir.v2/readme": FormatSVG,
	}
	for in, want := range tests {
		if got := FormatFromPath(in); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConvert_SVGPassthrough(t *testing.T) {
	in := []byte("<svg/>")
	out, err := Convert(context.Background(), in, FormatSVG, 0)
	if err != nil || string(out) != "<svg/>" {
		t.Errorf("Convert(svg) = %q, %v", out, err)
	}
}

func TestConvert_Unsupported(t *testing.T) {
	if _, err := Convert(context.Background(), nil, "gif", 1); err == nil {
		t.Error("Convert(gif) should fail")
	}
}
