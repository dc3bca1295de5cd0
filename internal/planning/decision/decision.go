// Package decision defines the per-obstacle decisions produced by the planning
// stages. A Decision is one of Ignore, Stop or Nudge; the set is closed.
package decision

import (
	"fmt"
	"math"
)

// Decision is implemented only by Ignore, Stop and Nudge.
type Decision interface {
	isDecision()
	// Kind returns "ignore", "stop" or "nudge".
	Kind() string
}

const (
	KindIgnore = "ignore"
	KindStop   = "stop"
	KindNudge  = "nudge"
)

// StopReasonCode explains why a Stop was issued.
type StopReasonCode int

const (
	StopReasonObstacle StopReasonCode = iota + 1
	StopReasonDestination
)

func (c StopReasonCode) String() string {
	switch c {
	case StopReasonObstacle:
		return "STOP_REASON_OBSTACLE"
	case StopReasonDestination:
		return "STOP_REASON_DESTINATION"
	default:
		return fmt.Sprintf("STOP_REASON_UNKNOWN(%d)", int(c))
	}
}

// ParseStopReasonCode is the inverse of StopReasonCode.String.
func ParseStopReasonCode(s string) (StopReasonCode, error) {
	switch s {
	case "STOP_REASON_OBSTACLE":
		return StopReasonObstacle, nil
	case "STOP_REASON_DESTINATION":
		return StopReasonDestination, nil
	}
	return 0, fmt.Errorf("unknown stop reason code %q", s)
}

// NudgeType is the direction the vehicle moves to pass an obstacle.
type NudgeType int

const (
	LeftNudge NudgeType = iota + 1
	RightNudge
)

func (t NudgeType) String() string {
	switch t {
	case LeftNudge:
		return "LEFT_NUDGE"
	case RightNudge:
		return "RIGHT_NUDGE"
	default:
		return fmt.Sprintf("NUDGE_UNKNOWN(%d)", int(t))
	}
}

// ParseNudgeType is the inverse of NudgeType.String.
func ParseNudgeType(s string) (NudgeType, error) {
	switch s {
	case "LEFT_NUDGE":
		return LeftNudge, nil
	case "RIGHT_NUDGE":
		return RightNudge, nil
	}
	return 0, fmt.Errorf("unknown nudge type %q", s)
}

// Point is a Cartesian position in metres.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Ignore means the obstacle does not constrain the vehicle on that axis.
type Ignore struct{}

// Stop holds the vehicle DistanceS metres (negative: before) relative to the
// obstacle's start_s, at StopPoint facing StopHeading.
type Stop struct {
	DistanceS   float64
	StopPoint   Point
	StopHeading float64
	ReasonCode  StopReasonCode
}

// Nudge offsets the path laterally by DistanceL metres. Left nudges carry a
// positive distance, right nudges a negative one.
type Nudge struct {
	Type      NudgeType
	DistanceL float64
}

func (Ignore) isDecision() {}
func (Stop) isDecision()   {}
func (Nudge) isDecision()  {}

func (Ignore) Kind() string { return KindIgnore }
func (Stop) Kind() string   { return KindStop }
func (Nudge) Kind() string  { return KindNudge }

func (Ignore) String() string { return "ignore" }

func (s Stop) String() string {
	return fmt.Sprintf("stop(distance_s=%.3f, point=(%.3f, %.3f), heading=%.3f, %s)",
		s.DistanceS, s.StopPoint.X, s.StopPoint.Y, s.StopHeading, s.ReasonCode)
}

func (n Nudge) String() string {
	return fmt.Sprintf("nudge(%s, distance_l=%.3f)", n.Type, n.DistanceL)
}

// StopDistance returns the positive distance held before the obstacle.
func (s Stop) StopDistance() float64 {
	return math.Abs(s.DistanceS)
}

// IsIgnore reports whether d is an Ignore. A nil decision is not.
func IsIgnore(d Decision) bool {
	_, ok := d.(Ignore)
	return ok
}

// IsStop reports whether d is a Stop.
func IsStop(d Decision) bool {
	_, ok := d.(Stop)
	return ok
}

// IsNudge reports whether d is a Nudge.
func IsNudge(d Decision) bool {
	_, ok := d.(Nudge)
	return ok
}
