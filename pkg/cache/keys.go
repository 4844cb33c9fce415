package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Keyer generates cache keys for each artifact kind.
type Keyer interface {
	// LayoutKey identifies a layout computed from a graph with the given
	// content hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
	// ArtifactKey identifies a rendered document built from a layout with the
	// given content hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts are the layout options that change the computed geometry.
type LayoutKeyOpts struct {
	NodeSep float64 `json:"nodesep"`
	RankSep float64 `json:"ranksep"`
	Margin  float64 `json:"margin"`
}

// ArtifactKeyOpts are the render options that change the output bytes.
type ArtifactKeyOpts struct {
	Format  string  `json:"format"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Padding float64 `json:"padding"`
	Animate bool    `json:"animate"`
	Scale   float64 `json:"scale"`
}

// DefaultKeyer produces "layout:<sha256>" and "artifact:<sha256>" keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Hash returns the hex SHA-256 digest of data. Graph and layout content
// hashes use it, so equal documents share cache entries.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// hashKey returns "kind:<sha256 of the JSON encoding of parts>".
func hashKey(kind string, parts ...any) string {
	h := sha256.New()
	// parts are plain strings and option structs; encoding cannot fail
	_ = json.NewEncoder(h).Encode(parts)
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}
