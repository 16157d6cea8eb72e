package parser

import (
	"math"
	"regexp"

	"github.com/ukaji3/floorplan-go/pkg/floorplan/models"
	"github.com/ukaji3/floorplan-go/pkg/floorplan/transform"
	"seehuhn.de/go/geom/vec"
)

// DefaultLabelPattern matches room numbers: 3-5 digits followed by up to two
// uppercase letters, e.g. "1203" or "1201A".
const DefaultLabelPattern = `^[0-9]{3,5}[A-Z]{0,2}$`

// DefaultGridStep is the rounding step used to detect overlapping labels.
const DefaultGridStep = 0.5

// LabelFilter decides which text values count as room labels.
type LabelFilter struct {
	re *regexp.Regexp
}

// NewLabelFilter compiles pattern into a LabelFilter.
func NewLabelFilter(pattern string) (LabelFilter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return LabelFilter{}, err
	}
	return LabelFilter{re: re}, nil
}

// DefaultLabelFilter returns the filter for DefaultLabelPattern.
func DefaultLabelFilter() LabelFilter {
	return LabelFilter{re: regexp.MustCompile(DefaultLabelPattern)}
}

// Match reports whether text is a room label. Text of length 1 or less never
// matches.
func (f LabelFilter) Match(text string) bool {
	return len(text) > 1 && f.re.MatchString(text)
}

// Collector walks an element tree and resolves room labels.
type Collector struct {
	Filter LabelFilter
	// OnTransformError, if set, is called for each transform attribute that
	// contained primitives which had to be skipped.
	OnTransformError func(transform string, err error)
}

// Collect returns one label candidate per matching text element, in document
// order. Candidates are not deduplicated.
func (c Collector) Collect(root *Node) []models.Label {
	var labels []models.Label
	c.walk(root, transform.Identity, &labels)
	return labels
}

func (c Collector) walk(n *Node, inherited transform.Matrix, labels *[]models.Label) {
	ctm := inherited
	if n.Transform != "" {
		local, err := transform.Parse(n.Transform)
		if err != nil && c.OnTransformError != nil {
			c.OnTransformError(n.Transform, err)
		}
		ctm = transform.Compose(inherited, local)
	}

	if n.Name == "text" {
		text := n.TextContent()
		if c.Filter.Match(text) {
			anchor := vec.Vec2{X: FirstCoordinate(n.X), Y: FirstCoordinate(n.Y)}
			p := transform.Apply(ctm, anchor)
			*labels = append(*labels, models.Label{Text: text, X: p.X, Y: p.Y})
		}
	}

	for _, child := range n.Children {
		c.walk(child, ctm, labels)
	}
}

type gridKey struct {
	x, y float64
}

// Dedup removes visually overlapping duplicates. Labels are grouped by text
// in order of first appearance; within a group the first label for each
// coordinate rounded to the nearest step is kept. The second result counts
// the discarded labels per text. A step <= 0 selects DefaultGridStep.
func Dedup(labels []models.Label, step float64) ([]models.Label, map[string]int) {
	if step <= 0 {
		step = DefaultGridStep
	}

	var order []string
	groups := make(map[string][]models.Label)
	for _, l := range labels {
		if _, ok := groups[l.Text]; !ok {
			order = append(order, l.Text)
		}
		groups[l.Text] = append(groups[l.Text], l)
	}

	unique := make([]models.Label, 0, len(labels))
	discarded := make(map[string]int)
	for _, text := range order {
		seen := make(map[gridKey]bool)
		for _, l := range groups[text] {
			key := gridKey{x: snap(l.X, step), y: snap(l.Y, step)}
			if seen[key] {
				discarded[text]++
				continue
			}
			seen[key] = true
			unique = append(unique, l)
		}
	}

	return unique, discarded
}

// snap rounds v to the nearest multiple of step, ties to even.
func snap(v, step float64) float64 {
	return math.RoundToEven(v/step) * step
}
