package pathdecider

import (
	"fmt"

	"github.com/banshee-data/path.decider/internal/planning/frenet"
)

// Zones are the two lateral radii around the path centre, in metres.
// StopRadius is normally no larger than Radius; Process does not enforce it.
type Zones struct {
	Radius     float64
	StopRadius float64
}

// NewZones derives the ignore and stop radii from the vehicle half-width.
func NewZones(halfWidth float64, p Params) Zones {
	return Zones{
		Radius:     halfWidth + p.LateralIgnoreBuffer,
		StopRadius: halfWidth + p.StaticDecisionNudgeLBuffer,
	}
}

// LateralZone classifies an obstacle's lateral span against the zones.
type LateralZone int

const (
	// ZoneClear: no overlap with the ignore radius.
	ZoneClear LateralZone = iota + 1
	// ZoneBlocking: overlaps the stop radius.
	ZoneBlocking
	// ZoneLeftOfPath: inside the ignore radius, entirely on the +l side
	// beyond the stop radius.
	ZoneLeftOfPath
	// ZoneRightOfPath: inside the ignore radius, entirely on the -l side
	// beyond the stop radius.
	ZoneRightOfPath
)

func (z LateralZone) String() string {
	switch z {
	case ZoneClear:
		return "clear"
	case ZoneBlocking:
		return "blocking"
	case ZoneLeftOfPath:
		return "left_of_path"
	case ZoneRightOfPath:
		return "right_of_path"
	default:
		return fmt.Sprintf("zone(%d)", int(z))
	}
}

// ClassifyLateral places the obstacle span [b.StartL, b.EndL] relative to the
// path offset currL. Checks run in order and the first match wins:
//
//	clear     currL-Radius > EndL || currL+Radius < StartL
//	blocking  currL-StopRadius < EndL && currL+StopRadius > StartL
//	left      StartL >= currL+StopRadius
//	right     otherwise
//
// Touching the ignore radius is not clear, touching the stop radius is not
// blocking.
func ClassifyLateral(currL float64, b frenet.SLBoundary, z Zones) LateralZone {
	if currL-z.Radius > b.EndL || currL+z.Radius < b.StartL {
		return ZoneClear
	}
	if currL-z.StopRadius < b.EndL && currL+z.StopRadius > b.StartL {
		return ZoneBlocking
	}
	if b.StartL >= currL+z.StopRadius {
		return ZoneLeftOfPath
	}
	return ZoneRightOfPath
}
