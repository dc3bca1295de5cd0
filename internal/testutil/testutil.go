// Package testutil provides shared test helpers and planning fixtures.
//
// This package centralises the straight-road scenario used across the
// planning, storage and command tests so each test only states what differs.
package testutil

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
	"github.com/banshee-data/path.decider/internal/planning/reference"
	"github.com/banshee-data/path.decider/internal/planning/vehicle"
)

// AssertNoError fails the test if err is not nil.
func AssertNoError(t testing.TB, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t testing.TB, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// AssertInDelta fails the test if got and want differ by more than delta.
func AssertInDelta(t testing.TB, got, want, delta float64) {
	t.Helper()
	if math.IsNaN(got) || math.Abs(got-want) > delta {
		t.Errorf("got %v, want %v (±%v)", got, want, delta)
	}
}

// Vehicle returns a 2 m wide vehicle whose minimum safe turning radius is
// hypot(1+4, 3) = sqrt(34).
func Vehicle() vehicle.Param {
	return vehicle.Param{
		Length:            4.0,
		Width:             2.0,
		FrontEdgeToCenter: 3.0,
		BackEdgeToCenter:  1.0,
		LeftEdgeToCenter:  1.0,
		RightEdgeToCenter: 1.0,
		MinTurnRadius:     4.0,
	}
}

// StraightPath returns a path from s=startS to s=endS in 1 m steps at
// constant lateral offset l.
func StraightPath(startS, endS, l float64) *frenet.FrenetFramePath {
	var pts []frenet.FrenetFramePoint
	for s := startS; s < endS; s++ {
		pts = append(pts, frenet.FrenetFramePoint{S: s, L: l})
	}
	pts = append(pts, frenet.FrenetFramePoint{S: endS, L: l})
	return frenet.NewFrenetFramePath(pts)
}

// StraightReferenceLine returns a reference line along +x of the given
// length starting at the origin.
func StraightReferenceLine(t testing.TB, length float64) *reference.ReferenceLine {
	t.Helper()
	rl, err := reference.NewReferenceLine([]r2.Vec{{X: 0, Y: 0}, {X: length, Y: 0}})
	if err != nil {
		t.Fatalf("failed to build reference line: %v", err)
	}
	return rl
}

// ADCBoundary is the ego footprint for Vehicle() centred on l=0 at s=0.
func ADCBoundary() frenet.SLBoundary {
	return frenet.SLBoundary{StartS: -1, EndS: 3, StartL: -1, EndL: 1}
}

// StaticObstacle returns a static obstacle with the given footprint.
func StaticObstacle(id string, startS, endS, startL, endL float64) pathdecision.Obstacle {
	return pathdecision.Obstacle{
		ID:       id,
		IsStatic: true,
		PerceptionSLBoundary: frenet.SLBoundary{
			StartS: startS, EndS: endS, StartL: startL, EndL: endL,
		},
	}
}

// NewPathDecision builds a table holding obstacles in order.
func NewPathDecision(t testing.TB, obstacles ...pathdecision.Obstacle) *pathdecision.PathDecision {
	t.Helper()
	pd := pathdecision.NewPathDecision()
	for _, o := range obstacles {
		if _, err := pd.AddObstacle(o); err != nil {
			t.Fatalf("failed to add obstacle %s: %v", o.ID, err)
		}
	}
	return pd
}
