package pathdecider

import (
	"math"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
	"github.com/banshee-data/path.decider/internal/planning/reference"
	"github.com/banshee-data/path.decider/internal/planning/vehicle"
)

// MinimumRadiusStopDistance returns how far before the obstacle the vehicle
// must stop so that an arc of the minimum safe turning radius still clears it
// laterally, plus StopDistanceBuffer, clamped to
// [MinStopDistanceObstacle, MaxStopDistanceObstacle].
//
// The lateral offset to clear is the larger gap between the obstacle and the
// ego footprint edges, bounded to [width, width + obstacle width]. When that
// offset exceeds twice the radius the chord term is taken as zero.
func MinimumRadiusStopDistance(obstacle, adc frenet.SLBoundary, veh vehicle.Param, p Params) float64 {
	r := veh.MinSafeTurnRadius()

	lateralDiff := math.Max(
		math.Abs(obstacle.StartL-adc.EndL),
		math.Abs(obstacle.EndL-adc.StartL),
	)
	lateralDiff = math.Max(lateralDiff, veh.Width)
	lateralDiff = math.Min(lateralDiff, veh.Width+obstacle.EndL-obstacle.StartL)

	radicand := r*r - (r-lateralDiff)*(r-lateralDiff)
	if radicand < 0 {
		radicand = 0
	}
	stopDistance := math.Sqrt(radicand) + StopDistanceBuffer

	stopDistance = math.Min(stopDistance, p.MaxStopDistanceObstacle)
	stopDistance = math.Max(stopDistance, p.MinStopDistanceObstacle)
	return stopDistance
}

// GenerateObjectStopDecision builds the Stop for a blocking obstacle. The
// destination obstacle stops at StopDistanceDestination exactly; every other
// obstacle uses MinimumRadiusStopDistance. The stop pose is the reference
// line pose at the obstacle's start_s minus the stop distance.
func GenerateObjectStopDecision(
	obstacle pathdecision.Obstacle,
	adc frenet.SLBoundary,
	veh vehicle.Param,
	p Params,
	refLine reference.PositionQuerier,
) decision.Stop {
	var (
		stopDistance float64
		reason       decision.StopReasonCode
	)
	if obstacle.ID == p.DestinationObstacleID {
		reason = decision.StopReasonDestination
		stopDistance = p.StopDistanceDestination
	} else {
		reason = decision.StopReasonObstacle
		stopDistance = MinimumRadiusStopDistance(obstacle.PerceptionSLBoundary, adc, veh, p)
	}

	stopRefS := obstacle.PerceptionSLBoundary.StartS - stopDistance
	ref := refLine.GetReferencePoint(stopRefS)
	return decision.Stop{
		DistanceS:   -stopDistance,
		StopPoint:   decision.Point{X: ref.X, Y: ref.Y},
		StopHeading: ref.Heading,
		ReasonCode:  reason,
	}
}
