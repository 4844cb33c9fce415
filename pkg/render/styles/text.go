package styles

import (
	"bytes"
	"encoding/xml"
)

const (
	// LabelFontSize is the font size of component names.
	LabelFontSize = 14.0
	// CaptionFontSize is the font size of service captions and edge labels.
	CaptionFontSize = 10.0

	fontCharWidth  = 0.55
	fontWidthRatio = 0.85
	minLabelChars  = 4
)

// EscapeXML escapes s for use in SVG text and attribute values. All five
// reserved characters are replaced, including both quote styles.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

// TruncateLabel shortens label so that it fits a box of the given width at
// fontSize, marking the cut with "..". Labels are cut on rune boundaries.
func TruncateLabel(label string, width, fontSize float64) string {
	maxChars := int(width * fontWidthRatio / (fontSize * fontCharWidth))
	if maxChars < minLabelChars {
		maxChars = minLabelChars
	}
	runes := []rune(label)
	if len(runes) <= maxChars {
		return label
	}
	return string(runes[:maxChars-2]) + ".."
}
