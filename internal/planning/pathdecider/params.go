package pathdecider

import "fmt"

// Name is the decision source tag written with every decision.
const Name = "PathDecider"

// StopDistanceBuffer is added to the turning-radius stop distance (metres).
const StopDistanceBuffer = 0.5

// Params is the immutable per-cycle configuration of the pass. Distances are
// in metres.
type Params struct {
	// LateralIgnoreBuffer widens the half-width into the ignore radius.
	LateralIgnoreBuffer float64
	// StaticDecisionNudgeLBuffer widens the half-width into the stop radius.
	StaticDecisionNudgeLBuffer float64
	EnableNudgeDecision        bool
	NudgeDistanceObstacle      float64
	MaxStopDistanceObstacle    float64
	MinStopDistanceObstacle    float64
	StopDistanceDestination    float64
	// DestinationObstacleID marks the virtual obstacle placed at the route end.
	DestinationObstacleID string
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		LateralIgnoreBuffer:        3.0,
		StaticDecisionNudgeLBuffer: 0.5,
		EnableNudgeDecision:        true,
		NudgeDistanceObstacle:      0.3,
		MaxStopDistanceObstacle:    10.0,
		MinStopDistanceObstacle:    6.0,
		StopDistanceDestination:    0.5,
		DestinationObstacleID:      "DEST",
	}
}

func (p Params) String() string {
	return fmt.Sprintf("ignore_buffer=%.2f nudge_l_buffer=%.2f nudge=%t nudge_distance=%.2f stop=[%.2f, %.2f] dest=%q/%.2f",
		p.LateralIgnoreBuffer, p.StaticDecisionNudgeLBuffer, p.EnableNudgeDecision, p.NudgeDistanceObstacle,
		p.MinStopDistanceObstacle, p.MaxStopDistanceObstacle, p.DestinationObstacleID, p.StopDistanceDestination)
}
