package styles

import (
	"maps"

	"github.com/matzehuels/archgraph/pkg/arch"
)

// Scheme is the color triple for one component type.
type Scheme struct {
	Primary string // border and accents
	Light   string // box fill
	Dark    string // label text
}

// Neutral is used for component types without an entry in the palette.
var Neutral = Scheme{Primary: "#6B7280", Light: "#F3F4F6", Dark: "#374151"}

// Colors shared by every diagram.
const (
	ConnectionColor = "#94A3B8"
	FlowDotColor    = "#3B82F6"
	BackgroundColor = "#FAFAFA"
)

var palette = map[arch.ComponentType]Scheme{
	arch.TypeFrontend:   {Primary: "#4A90D9", Light: "#E8F4FD", Dark: "#2563EB"},
	arch.TypeAPI:        {Primary: "#7B68EE", Light: "#F0EDFF", Dark: "#5B4ACF"},
	arch.TypeCompute:    {Primary: "#50C878", Light: "#E8FAF0", Dark: "#059669"},
	arch.TypeDatabase:   {Primary: "#FF8C42", Light: "#FFF4EC", Dark: "#EA580C"},
	arch.TypeCache:      {Primary: "#38BDF8", Light: "#E0F7FF", Dark: "#0284C7"},
	arch.TypeStorage:    {Primary: "#F59E0B", Light: "#FFFBEB", Dark: "#D97706"},
	arch.TypeQueue:      {Primary: "#FFD700", Light: "#FFFCE8", Dark: "#B8860B"},
	arch.TypeStream:     {Primary: "#14B8A6", Light: "#E6FFFC", Dark: "#0D9488"},
	arch.TypeCDN:        {Primary: "#0EA5E9", Light: "#E0F2FE", Dark: "#0369A1"},
	arch.TypeAuth:       {Primary: "#DC143C", Light: "#FEE2E2", Dark: "#B91C1C"},
	arch.TypeMonitoring: {Primary: "#6366F1", Light: "#EEF2FF", Dark: "#4338CA"},
	arch.TypeExternal:   {Primary: "#6B7280", Light: "#F3F4F6", Dark: "#374151"},
	arch.TypeUser:       {Primary: "#64748B", Light: "#F1F5F9", Dark: "#334155"},
}

// For returns the scheme for t, or Neutral if t has none.
func For(t arch.ComponentType) Scheme {
	if s, ok := palette[t]; ok {
		return s
	}
	return Neutral
}

// Palette returns a copy of the full type-to-scheme table.
func Palette() map[arch.ComponentType]Scheme { return maps.Clone(palette) }
