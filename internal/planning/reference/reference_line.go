// Package reference provides the reference line the vehicle intends to follow,
// queryable by arclength for a Cartesian position and heading.
package reference

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/spatial/r2"
)

// ErrTooFewPoints is returned when a reference line has fewer than two
// distinct samples.
var ErrTooFewPoints = errors.New("reference line needs at least two distinct points")

// minSegmentLength drops consecutive samples closer than this (metres).
const minSegmentLength = 1e-6

// ReferencePoint is a pose on the reference line.
type ReferencePoint struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	S       float64 `json:"s"`
}

// PositionQuerier is the arclength query the planning stages depend on.
type PositionQuerier interface {
	GetReferencePoint(s float64) ReferencePoint
}

// ReferenceLine is a polyline parameterised by accumulated arclength.
type ReferenceLine struct {
	points   []r2.Vec
	accumS   []float64
	headings []float64
	xs       interp.PiecewiseLinear
	ys       interp.PiecewiseLinear
}

var _ PositionQuerier = (*ReferenceLine)(nil)

// NewReferenceLine builds a reference line from ordered Cartesian samples.
// Consecutive duplicates are dropped so arclength stays strictly increasing.
func NewReferenceLine(points []r2.Vec) (*ReferenceLine, error) {
	pts := make([]r2.Vec, 0, len(points))
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			return nil, fmt.Errorf("reference line point %v is not finite", p)
		}
		if len(pts) > 0 && r2.Norm(r2.Sub(p, pts[len(pts)-1])) < minSegmentLength {
			continue
		}
		pts = append(pts, p)
	}
	if len(pts) < 2 {
		return nil, ErrTooFewPoints
	}

	rl := &ReferenceLine{
		points:   pts,
		accumS:   make([]float64, len(pts)),
		headings: make([]float64, len(pts)-1),
	}
	xs := make([]float64, len(pts))
	ys := make([]float64, len(pts))
	for i, p := range pts {
		xs[i], ys[i] = p.X, p.Y
		if i == 0 {
			continue
		}
		d := r2.Sub(p, pts[i-1])
		rl.accumS[i] = rl.accumS[i-1] + r2.Norm(d)
		rl.headings[i-1] = math.Atan2(d.Y, d.X)
	}
	if err := rl.xs.Fit(rl.accumS, xs); err != nil {
		return nil, fmt.Errorf("fit reference line x: %w", err)
	}
	if err := rl.ys.Fit(rl.accumS, ys); err != nil {
		return nil, fmt.Errorf("fit reference line y: %w", err)
	}
	return rl, nil
}

// Length returns the total arclength of the line.
func (rl *ReferenceLine) Length() float64 {
	return rl.accumS[len(rl.accumS)-1]
}

// Points returns the de-duplicated samples the line was built from.
func (rl *ReferenceLine) Points() []r2.Vec {
	return rl.points
}

// GetReferencePoint returns the pose at arclength s, clamped to [0, Length].
func (rl *ReferenceLine) GetReferencePoint(s float64) ReferencePoint {
	s = math.Max(0, math.Min(s, rl.Length()))
	return ReferencePoint{
		X:       rl.xs.Predict(s),
		Y:       rl.ys.Predict(s),
		Heading: rl.headings[rl.segmentIndex(s)],
		S:       s,
	}
}

// segmentIndex returns the index of the segment containing s. A sample
// exactly on a knot belongs to the segment that starts there.
func (rl *ReferenceLine) segmentIndex(s float64) int {
	i := sort.SearchFloat64s(rl.accumS, s)
	if i < len(rl.accumS) && rl.accumS[i] == s {
		i++
	}
	i--
	if i < 0 {
		return 0
	}
	if i >= len(rl.headings) {
		return len(rl.headings) - 1
	}
	return i
}
