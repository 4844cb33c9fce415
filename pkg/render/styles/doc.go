// Package styles holds the visual vocabulary shared by the renderers: the
// component color palette and text helpers.
//
// Every component type maps to a [Scheme] of three tones. The light tone
// fills the box, the primary tone draws its border, and the dark tone
// writes its label. Types without an entry, including the structural
// plugin types, use [Neutral].
package styles
