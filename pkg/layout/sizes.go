package layout

import "github.com/matzehuels/archgraph/pkg/arch"

// Size is the box a component occupies.
type Size struct {
	Width  float64
	Height float64
}

// DefaultSize applies to every component type missing from a [SizeTable].
var DefaultSize = Size{Width: 140, Height: 60}

// SizeTable maps component types to box sizes.
type SizeTable map[arch.ComponentType]Size

// DefaultSizes returns the built-in size table. Primary building blocks get
// the full box, supporting services a smaller one, and human actors the
// smallest.
func DefaultSizes() SizeTable {
	small := Size{Width: 120, Height: 50}
	return SizeTable{
		arch.TypeFrontend:   DefaultSize,
		arch.TypeAPI:        DefaultSize,
		arch.TypeCompute:    DefaultSize,
		arch.TypeDatabase:   DefaultSize,
		arch.TypeExternal:   DefaultSize,
		arch.TypeCache:      small,
		arch.TypeStorage:    small,
		arch.TypeQueue:      small,
		arch.TypeStream:     small,
		arch.TypeCDN:        small,
		arch.TypeAuth:       small,
		arch.TypeMonitoring: small,
		arch.TypeUser:       {Width: 100, Height: 50},
	}
}

// Lookup returns the size for t. Unknown types and entries without a
// positive width and height resolve to DefaultSize.
func (t SizeTable) Lookup(typ arch.ComponentType) Size {
	if s, ok := t[typ]; ok && s.Width > 0 && s.Height > 0 {
		return s
	}
	return DefaultSize
}
