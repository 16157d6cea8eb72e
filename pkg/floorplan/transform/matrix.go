// Package transform resolves SVG transform attributes into affine matrices.
//
// Matrices use the seehuhn.de/go/geom layout [a b c d e f], which is the
// homogeneous 3x3 matrix
//
//	| a c e |
//	| b d f |
//	| 0 0 1 |
//
// acting on column vectors (x, y, 1). Composition follows SVG semantics:
// for a transform list "t1 t2" the composed matrix is T1·T2, so a point is
// transformed by t2 first and then by t1.
package transform

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Matrix is a 2D affine transform.
type Matrix = matrix.Matrix

// Identity is the neutral element of Compose.
var Identity = matrix.Identity

// Compose returns outer·inner: the transform that applies inner first and
// then outer. A child's cumulative matrix is Compose(parentCumulative, local).
func Compose(outer, inner Matrix) Matrix {
	// geom multiplies in row-vector order, so A.Mul(B) applies A before B.
	return inner.Mul(outer)
}

// Apply maps p through m.
func Apply(m Matrix, p vec.Vec2) vec.Vec2 {
	return vec.Vec2{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}

// Translate returns the matrix of translate(tx, ty).
func Translate(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scale returns the matrix of scale(sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate returns the matrix of rotate(deg, cx, cy), a rotation by deg degrees
// about the point (cx, cy).
func Rotate(deg, cx, cy float64) Matrix {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	r := Matrix{cos, sin, -sin, cos, 0, 0}
	if cx == 0 && cy == 0 {
		return r
	}
	return Compose(Compose(Translate(cx, cy), r), Translate(-cx, -cy))
}

// SkewX returns the matrix of skewX(deg).
func SkewX(deg float64) Matrix {
	return Matrix{1, 0, math.Tan(deg * math.Pi / 180), 1, 0, 0}
}

// SkewY returns the matrix of skewY(deg).
func SkewY(deg float64) Matrix {
	return Matrix{1, math.Tan(deg * math.Pi / 180), 0, 1, 0, 0}
}

// Rows returns m in homogeneous 3x3 row-major form.
func Rows(m Matrix) [3][3]float64 {
	return [3][3]float64{
		{m[0], m[2], m[4]},
		{m[1], m[3], m[5]},
		{0, 0, 1},
	}
}
