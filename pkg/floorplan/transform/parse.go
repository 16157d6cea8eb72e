package transform

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnsupported is returned by Primitive.Matrix for function names outside
// the SVG 1.1 transform list. Parse ignores such primitives silently.
var ErrUnsupported = errors.New("unsupported transform function")

// Primitive is a single function call of a transform list, e.g. rotate(45 10 10).
type Primitive struct {
	Name string
	Args []float64
}

// SyntaxError reports a transform call that could not be tokenized.
type SyntaxError struct {
	// Offset is the byte offset in the attribute where scanning failed.
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("transform syntax error at offset %d: %s", e.Offset, e.Msg)
}

// ArityError reports a known transform function called with the wrong number
// of arguments.
type ArityError struct {
	Name string
	Got  int
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("transform %s: unexpected argument count %d", e.Name, e.Got)
}

// Tokenize splits a transform attribute into its function calls.
// Calls that cannot be scanned are skipped and reported in the returned
// error; the remaining calls are still returned in source order.
func Tokenize(s string) ([]Primitive, error) {
	sc := scanner{src: s}
	var prims []Primitive
	var errs []error

	for {
		sc.skipSeparators()
		if sc.eof() {
			break
		}
		p, err := sc.call()
		if err != nil {
			errs = append(errs, err)
			sc.skipCall()
			continue
		}
		prims = append(prims, p)
	}

	return prims, errors.Join(errs...)
}

// Matrix builds the affine matrix of p.
func (p Primitive) Matrix() (Matrix, error) {
	a := p.Args
	switch p.Name {
	case "translate":
		switch len(a) {
		case 1:
			return Translate(a[0], 0), nil
		case 2:
			return Translate(a[0], a[1]), nil
		}
	case "scale":
		switch len(a) {
		case 1:
			return Scale(a[0], a[0]), nil
		case 2:
			return Scale(a[0], a[1]), nil
		}
	case "rotate":
		switch len(a) {
		case 1:
			return Rotate(a[0], 0, 0), nil
		case 3:
			return Rotate(a[0], a[1], a[2]), nil
		}
	case "skewX":
		if len(a) == 1 {
			return SkewX(a[0]), nil
		}
	case "skewY":
		if len(a) == 1 {
			return SkewY(a[0]), nil
		}
	case "matrix":
		if len(a) == 6 {
			return Matrix{a[0], a[1], a[2], a[3], a[4], a[5]}, nil
		}
	default:
		return Identity, fmt.Errorf("%w: %s", ErrUnsupported, p.Name)
	}
	return Identity, &ArityError{Name: p.Name, Got: len(a)}
}

// Parse composes the transform list s into one matrix, left to right.
// An empty list yields Identity. Malformed primitives are left out of the
// composition and reported in the error; the returned matrix is valid
// either way. Unsupported function names are ignored without error.
func Parse(s string) (Matrix, error) {
	m := Identity
	if strings.TrimSpace(s) == "" {
		return m, nil
	}

	prims, err := Tokenize(s)
	errs := []error{err}
	for _, p := range prims {
		pm, perr := p.Matrix()
		if perr != nil {
			if !errors.Is(perr, ErrUnsupported) {
				errs = append(errs, perr)
			}
			continue
		}
		m = Compose(m, pm)
	}

	return m, errors.Join(errs...)
}

// Resolve is Parse without the error report.
func Resolve(s string) Matrix {
	m, _ := Parse(s)
	return m
}

type scanner struct {
	src string
	pos int

	// State of the most recent call: where it started, where its name
	// ended, and whether its argument list was opened.
	callStart int
	nameEnd   int
	open      bool
}

func (sc *scanner) eof() bool {
	return sc.pos >= len(sc.src)
}

func (sc *scanner) peek() byte {
	return sc.src[sc.pos]
}

func (sc *scanner) skipSpace() {
	for !sc.eof() && isSpace(sc.peek()) {
		sc.pos++
	}
}

func (sc *scanner) skipSeparators() {
	for !sc.eof() && (isSpace(sc.peek()) || sc.peek() == ',') {
		sc.pos++
	}
}

// skipCall moves past a call that failed to scan. A failure inside an
// argument list skips to the next closing parenthesis; a failure at the name
// or the '(' drops only the name, or the run of stray characters when there
// was no name.
func (sc *scanner) skipCall() {
	switch {
	case sc.open:
		if i := strings.IndexByte(sc.src[sc.pos:], ')'); i >= 0 {
			sc.pos += i + 1
			return
		}
		sc.pos = len(sc.src)
	case sc.nameEnd > sc.callStart:
		sc.pos = sc.nameEnd
	default:
		sc.pos = sc.callStart
		for !sc.eof() && !isLetter(sc.peek()) && !isSpace(sc.peek()) && sc.peek() != ',' {
			sc.pos++
		}
	}
}

func (sc *scanner) call() (Primitive, error) {
	start := sc.pos
	sc.callStart, sc.open = start, false
	for !sc.eof() && isLetter(sc.peek()) {
		sc.pos++
	}
	sc.nameEnd = sc.pos
	if sc.pos == start {
		return Primitive{}, &SyntaxError{Offset: sc.pos, Msg: "expected function name"}
	}
	p := Primitive{Name: sc.src[start:sc.pos]}

	sc.skipSpace()
	if sc.eof() || sc.peek() != '(' {
		return Primitive{}, &SyntaxError{Offset: sc.pos, Msg: "expected '(' after " + p.Name}
	}
	sc.pos++
	sc.open = true

	for {
		sc.skipSeparators()
		if sc.eof() {
			return Primitive{}, &SyntaxError{Offset: sc.pos, Msg: "unterminated " + p.Name}
		}
		if sc.peek() == ')' {
			sc.pos++
			return p, nil
		}
		v, err := sc.number()
		if err != nil {
			return Primitive{}, err
		}
		p.Args = append(p.Args, v)
	}
}

// number scans a numeric literal: optional sign, digits with an optional
// fraction, and an optional exponent.
func (sc *scanner) number() (float64, error) {
	start := sc.pos
	if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
		sc.pos++
	}
	digits := sc.digits()
	if !sc.eof() && sc.peek() == '.' {
		sc.pos++
		digits += sc.digits()
	}
	if digits == 0 {
		return 0, &SyntaxError{Offset: start, Msg: "expected number"}
	}
	if !sc.eof() && (sc.peek() == 'e' || sc.peek() == 'E') {
		save := sc.pos
		sc.pos++
		if !sc.eof() && (sc.peek() == '+' || sc.peek() == '-') {
			sc.pos++
		}
		if sc.digits() == 0 {
			sc.pos = save
		}
	}

	v, err := strconv.ParseFloat(sc.src[start:sc.pos], 64)
	if err != nil {
		return 0, &SyntaxError{Offset: start, Msg: err.Error()}
	}
	return v, nil
}

func (sc *scanner) digits() int {
	n := 0
	for !sc.eof() && sc.peek() >= '0' && sc.peek() <= '9' {
		sc.pos++
		n++
	}
	return n
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
