package decision

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrWrongAxis is returned when a lateral decision is offered on the
	// longitudinal axis or vice versa.
	ErrWrongAxis = errors.New("decision not valid on this axis")
	// ErrConflictingNudge is returned when two nudges point in opposite
	// directions.
	ErrConflictingNudge = errors.New("conflicting nudge directions")
)

// Axis identifies one of the two decision slots of an obstacle.
type Axis int

const (
	Longitudinal Axis = iota + 1
	Lateral
)

func (a Axis) String() string {
	switch a {
	case Longitudinal:
		return "longitudinal"
	case Lateral:
		return "lateral"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// ValidFor reports whether d may occupy the given axis. Ignore is valid on
// both, Stop only longitudinally and Nudge only laterally.
func ValidFor(a Axis, d Decision) bool {
	switch d.(type) {
	case Ignore:
		return true
	case Stop:
		return a == Longitudinal
	case Nudge:
		return a == Lateral
	}
	return false
}

// MergeLongitudinal combines an existing longitudinal decision with a new
// one. Stop outranks Ignore; of two stops the one holding further back
// (smaller DistanceS) wins. old may be nil.
func MergeLongitudinal(old, next Decision) (Decision, error) {
	if !ValidFor(Longitudinal, next) {
		return old, fmt.Errorf("%w: %s on longitudinal axis", ErrWrongAxis, kindOf(next))
	}
	if old == nil {
		return next, nil
	}
	oldStop, oldIsStop := old.(Stop)
	nextStop, nextIsStop := next.(Stop)
	switch {
	case oldIsStop && nextIsStop:
		if nextStop.DistanceS < oldStop.DistanceS {
			return nextStop, nil
		}
		return oldStop, nil
	case oldIsStop:
		return old, nil
	}
	return next, nil
}

// MergeLateral combines an existing lateral decision with a new one. Nudge
// outranks Ignore; two nudges must agree on direction and the larger offset
// wins. old may be nil.
func MergeLateral(old, next Decision) (Decision, error) {
	if !ValidFor(Lateral, next) {
		return old, fmt.Errorf("%w: %s on lateral axis", ErrWrongAxis, kindOf(next))
	}
	if old == nil {
		return next, nil
	}
	oldNudge, oldIsNudge := old.(Nudge)
	nextNudge, nextIsNudge := next.(Nudge)
	switch {
	case oldIsNudge && nextIsNudge:
		if oldNudge.Type != nextNudge.Type {
			return old, fmt.Errorf("%w: %s vs %s", ErrConflictingNudge, oldNudge.Type, nextNudge.Type)
		}
		if math.Abs(nextNudge.DistanceL) > math.Abs(oldNudge.DistanceL) {
			return nextNudge, nil
		}
		return oldNudge, nil
	case oldIsNudge:
		return old, nil
	}
	return next, nil
}

func kindOf(d Decision) string {
	if d == nil {
		return "nil"
	}
	return d.Kind()
}
