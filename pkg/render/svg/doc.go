// Package svg renders a positioned architecture graph as a standalone SVG
// document.
//
// # Document Structure
//
// The root element carries the pixel size from [Options] and a viewBox that
// fits the layout plus padding on every side. Shared definitions (arrowhead
// marker, drop shadow) and a small stylesheet follow, then one group with
// all edges and one group per node, in that order.
//
// Boxes are filled with the light tone of their type, stroked with the
// primary tone, and labelled in the dark tone (see the styles package). A
// service tag, when present, is written uppercased near the bottom of the
// box.
//
// # Animation
//
// With Animate on, every edge carries a small dot that loops along the edge
// every two seconds. With Animate off the document contains no animation
// elements.
//
// # Escaping
//
// All text from the graph (ids, names, services, labels) is XML-escaped, so
// the output is well-formed whatever scanners report.
package svg
