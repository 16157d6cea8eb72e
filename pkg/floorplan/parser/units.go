package parser

import (
	"strconv"
	"strings"
)

// PixelsPerInch is the CSS reference resolution used by SVG: 1in = 96 user units.
const PixelsPerInch = 96

// unitScale maps absolute SVG length units to user units at 96 DPI.
// Relative units (%, em, ex) need a viewport or font context and are not listed.
var unitScale = map[string]float64{
	"":   1,
	"px": 1,
	"pt": PixelsPerInch / 72.0,
	"pc": PixelsPerInch / 6.0,
	"in": PixelsPerInch,
	"cm": PixelsPerInch / 2.54,
	"mm": PixelsPerInch / 25.4,
}

// ParseLength converts an SVG length such as "12.5", "10px" or "3mm" to user
// units. ok is false for relative units and malformed numbers.
func ParseLength(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	end := len(s)
	for end > 0 && isUnitLetter(s[end-1]) {
		end--
	}
	scale, known := unitScale[strings.ToLower(s[end:])]
	if !known {
		return 0, false
	}
	n, err := strconv.ParseFloat(s[:end], 64)
	if err != nil {
		return 0, false
	}
	return n * scale, true
}

func isUnitLetter(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
