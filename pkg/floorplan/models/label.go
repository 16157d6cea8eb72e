// Package models defines data structures for floor-plan extraction and merging.
package models

// Label is a room-number text element resolved to drawing coordinates.
type Label struct {
	// Text is the concatenated text content of the element.
	Text string `json:"text"`
	// X is the resolved x coordinate of the text anchor.
	X float64 `json:"x"`
	// Y is the resolved y coordinate of the text anchor.
	Y float64 `json:"y"`
}

// Batch maps an SVG file name (no path) to the labels extracted from it.
type Batch map[string][]Label
