// Package frenet holds the road-aligned (s, l) representations shared by the
// planning stages: path points, obstacle SL boundaries and arclength lookup.
package frenet

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNonMonotonicPath is returned by Validate when s decreases along the path.
var ErrNonMonotonicPath = errors.New("frenet path s is not monotonically non-decreasing")

// FrenetFramePoint is one sample of a candidate path in the Frenet frame.
type FrenetFramePoint struct {
	S   float64 `json:"s"`
	L   float64 `json:"l"`
	DL  float64 `json:"dl,omitempty"`
	DDL float64 `json:"ddl,omitempty"`
}

// FrenetFramePath is an ordered sequence of points with non-decreasing S.
// It is produced once per cycle and treated as read-only afterwards.
type FrenetFramePath struct {
	points []FrenetFramePoint
}

// NewFrenetFramePath copies points into a new path. The monotonic-s
// precondition is not checked here; call Validate before lookups when the
// producer is not trusted.
func NewFrenetFramePath(points []FrenetFramePoint) *FrenetFramePath {
	cp := make([]FrenetFramePoint, len(points))
	copy(cp, points)
	return &FrenetFramePath{points: cp}
}

// Points returns the underlying points. Callers must not modify the slice.
func (p *FrenetFramePath) Points() []FrenetFramePoint {
	if p == nil {
		return nil
	}
	return p.points
}

// NumPoints returns the number of points on the path.
func (p *FrenetFramePath) NumPoints() int {
	if p == nil {
		return 0
	}
	return len(p.points)
}

// Empty reports whether the path has no points. A nil path is empty.
func (p *FrenetFramePath) Empty() bool {
	return p.NumPoints() == 0
}

// Front returns the first point. It returns the zero point for an empty path.
func (p *FrenetFramePath) Front() FrenetFramePoint {
	if p.Empty() {
		return FrenetFramePoint{}
	}
	return p.points[0]
}

// Back returns the last point. It returns the zero point for an empty path.
func (p *FrenetFramePath) Back() FrenetFramePoint {
	if p.Empty() {
		return FrenetFramePoint{}
	}
	return p.points[len(p.points)-1]
}

// Length returns the arclength covered by the path.
func (p *FrenetFramePath) Length() float64 {
	if p.Empty() {
		return 0
	}
	return p.Back().S - p.Front().S
}

// Contains reports whether s lies in [Front().S, Back().S].
func (p *FrenetFramePath) Contains(s float64) bool {
	if p.Empty() {
		return false
	}
	return s >= p.Front().S && s <= p.Back().S
}

// Validate checks the monotonic-s precondition required by EvaluateByS.
func (p *FrenetFramePath) Validate() error {
	for i := 1; i < p.NumPoints(); i++ {
		if p.points[i].S < p.points[i-1].S {
			return fmt.Errorf("%w: point %d s=%.3f after s=%.3f",
				ErrNonMonotonicPath, i, p.points[i].S, p.points[i-1].S)
		}
	}
	return nil
}

// EvaluateByS returns the path point at arclength s.
//
// The first point with S >= s is located by binary search. When that is the
// first point it is returned as-is, when no point qualifies the last point is
// returned, otherwise L, DL and DDL are linearly interpolated between it and
// its predecessor. The result is undefined if S is not monotonic.
func (p *FrenetFramePath) EvaluateByS(s float64) FrenetFramePoint {
	n := p.NumPoints()
	if n == 0 {
		return FrenetFramePoint{}
	}
	idx := sort.Search(n, func(i int) bool { return p.points[i].S >= s })
	switch {
	case idx == 0:
		return p.points[0]
	case idx == n:
		return p.points[n-1]
	}
	return interpolate(p.points[idx-1], p.points[idx], s)
}

func interpolate(p0, p1 FrenetFramePoint, s float64) FrenetFramePoint {
	ds := p1.S - p0.S
	if ds <= 0 {
		return p1
	}
	w := (s - p0.S) / ds
	return FrenetFramePoint{
		S:   s,
		L:   lerp(p0.L, p1.L, w),
		DL:  lerp(p0.DL, p1.DL, w),
		DDL: lerp(p0.DDL, p1.DDL, w),
	}
}

func lerp(a, b, w float64) float64 {
	return a + w*(b-a)
}
