// Package pathdecision holds the per-cycle obstacle table that the planning
// stages read and write decisions into.
package pathdecision

import (
	"fmt"
	"strings"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
)

// BoundaryType tags the ST boundary assigned to an obstacle by earlier stages.
type BoundaryType int

const (
	BoundaryUnknown BoundaryType = iota
	BoundaryStop
	BoundaryFollow
	BoundaryYield
	BoundaryOvertake
	BoundaryKeepClear
)

var boundaryTypeNames = map[BoundaryType]string{
	BoundaryUnknown:   "UNKNOWN",
	BoundaryStop:      "STOP",
	BoundaryFollow:    "FOLLOW",
	BoundaryYield:     "YIELD",
	BoundaryOvertake:  "OVERTAKE",
	BoundaryKeepClear: "KEEP_CLEAR",
}

func (b BoundaryType) String() string {
	if name, ok := boundaryTypeNames[b]; ok {
		return name
	}
	return fmt.Sprintf("BOUNDARY(%d)", int(b))
}

// ParseBoundaryType accepts the String form, case-insensitively. The empty
// string maps to BoundaryUnknown.
func ParseBoundaryType(s string) (BoundaryType, error) {
	if s == "" {
		return BoundaryUnknown, nil
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	for t, name := range boundaryTypeNames {
		if name == s {
			return t, nil
		}
	}
	return BoundaryUnknown, fmt.Errorf("unknown boundary type %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b BoundaryType) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *BoundaryType) UnmarshalText(text []byte) error {
	t, err := ParseBoundaryType(string(text))
	if err != nil {
		return err
	}
	*b = t
	return nil
}

// Obstacle is a perceived obstacle already projected onto the path frame.
type Obstacle struct {
	ID                   string            `json:"id"`
	IsStatic             bool              `json:"is_static"`
	PerceptionSLBoundary frenet.SLBoundary `json:"sl_boundary"`
	BoundaryType         BoundaryType      `json:"boundary_type"`
}

// PathObstacle is an obstacle together with the decisions recorded for it in
// the current cycle.
type PathObstacle struct {
	obstacle Obstacle

	longitudinal     decision.Decision
	lateral          decision.Decision
	longitudinalTags []string
	lateralTags      []string
}

// Obstacle returns the obstacle the record refers to.
func (p *PathObstacle) Obstacle() Obstacle { return p.obstacle }

// ID returns the obstacle id.
func (p *PathObstacle) ID() string { return p.obstacle.ID }

// PerceptionSLBoundary returns the obstacle footprint in the path frame.
func (p *PathObstacle) PerceptionSLBoundary() frenet.SLBoundary {
	return p.obstacle.PerceptionSLBoundary
}

func (p *PathObstacle) HasLongitudinalDecision() bool { return p.longitudinal != nil }
func (p *PathObstacle) HasLateralDecision() bool      { return p.lateral != nil }

// LongitudinalDecision returns the merged longitudinal decision or nil.
func (p *PathObstacle) LongitudinalDecision() decision.Decision { return p.longitudinal }

// LateralDecision returns the merged lateral decision or nil.
func (p *PathObstacle) LateralDecision() decision.Decision { return p.lateral }

// LongitudinalTags lists, in order, the sources that wrote the longitudinal slot.
func (p *PathObstacle) LongitudinalTags() []string { return append([]string(nil), p.longitudinalTags...) }

// LateralTags lists, in order, the sources that wrote the lateral slot.
func (p *PathObstacle) LateralTags() []string { return append([]string(nil), p.lateralTags...) }

// IsIgnore reports whether both axes hold an Ignore.
func (p *PathObstacle) IsIgnore() bool {
	return decision.IsIgnore(p.longitudinal) && decision.IsIgnore(p.lateral)
}

func (p *PathObstacle) addLongitudinal(tag string, d decision.Decision) error {
	merged, err := decision.MergeLongitudinal(p.longitudinal, d)
	if err != nil {
		return err
	}
	p.longitudinal = merged
	p.longitudinalTags = append(p.longitudinalTags, tag)
	return nil
}

func (p *PathObstacle) addLateral(tag string, d decision.Decision) error {
	merged, err := decision.MergeLateral(p.lateral, d)
	if err != nil {
		return err
	}
	p.lateral = merged
	p.lateralTags = append(p.lateralTags, tag)
	return nil
}
