// Package floorplan extracts room-label positions from SVG floor plans.
package floorplan

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/cache"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/parser"
)

// Options configures extraction behavior.
type Options struct {
	// LabelPattern is the regular expression a text element must match to be
	// treated as a room label. Empty selects parser.DefaultLabelPattern.
	LabelPattern string
	// GridStep is the rounding step used to detect duplicate labels.
	// Zero selects parser.DefaultGridStep.
	GridStep float64
	// Dedup specifies whether overlapping duplicate labels are removed.
	// If nil, defaults to true.
	Dedup *bool
	// Logger receives parse failures, skipped transforms and duplicate
	// counts. If nil, nothing is logged.
	Logger *log.Logger
	// Cache, if set, stores batch results keyed by document content.
	Cache cache.Cache
	// CacheTTL is the lifetime of cached results; zero means no expiry.
	CacheTTL time.Duration
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		LabelPattern: parser.DefaultLabelPattern,
		GridStep:     parser.DefaultGridStep,
	}
}

// Pattern returns the effective label pattern.
func (o Options) Pattern() string {
	if o.LabelPattern == "" {
		return parser.DefaultLabelPattern
	}
	return o.LabelPattern
}

// Grid returns the effective deduplication step.
func (o Options) Grid() float64 {
	if o.GridStep <= 0 {
		return parser.DefaultGridStep
	}
	return o.GridStep
}

// ShouldDedup returns whether duplicate labels are removed.
func (o Options) ShouldDedup() bool {
	if o.Dedup != nil {
		return *o.Dedup
	}
	return true
}

// logger returns the configured logger or one that discards output.
func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// cacheKeyOpts captures the options that change extraction results.
type cacheKeyOpts struct {
	Pattern string  `json:"pattern"`
	Grid    float64 `json:"grid"`
	Dedup   bool    `json:"dedup"`
}

func (o Options) cacheKey() cacheKeyOpts {
	return cacheKeyOpts{Pattern: o.Pattern(), Grid: o.Grid(), Dedup: o.ShouldDedup()}
}
