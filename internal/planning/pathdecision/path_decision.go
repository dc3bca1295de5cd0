package pathdecision

import (
	"errors"
	"fmt"

	"github.com/banshee-data/path.decider/internal/planning/decision"
)

var (
	// ErrObstacleNotFound is returned when a decision targets an id that is
	// not in the table.
	ErrObstacleNotFound = errors.New("obstacle not found")
	// ErrDuplicateObstacle is returned by AddObstacle for a repeated id.
	ErrDuplicateObstacle = errors.New("duplicate obstacle id")
)

// PathDecision is the obstacle table for one planning cycle. Obstacles keep
// their insertion order and are addressed by index or id.
//
// A PathDecision is not safe for concurrent use; the planning stages of a
// cycle write to it one after another.
type PathDecision struct {
	obstacles []*PathObstacle
	index     map[string]int
}

// NewPathDecision returns an empty table.
func NewPathDecision() *PathDecision {
	return &PathDecision{index: make(map[string]int)}
}

// AddObstacle appends o and returns its index.
func (pd *PathDecision) AddObstacle(o Obstacle) (int, error) {
	if o.ID == "" {
		return -1, fmt.Errorf("obstacle id must not be empty")
	}
	if _, ok := pd.index[o.ID]; ok {
		return -1, fmt.Errorf("%w: %s", ErrDuplicateObstacle, o.ID)
	}
	if err := o.PerceptionSLBoundary.Validate(); err != nil {
		return -1, fmt.Errorf("obstacle %s: %w", o.ID, err)
	}
	pd.obstacles = append(pd.obstacles, &PathObstacle{obstacle: o})
	idx := len(pd.obstacles) - 1
	pd.index[o.ID] = idx
	return idx, nil
}

// Len returns the number of obstacles.
func (pd *PathDecision) Len() int { return len(pd.obstacles) }

// At returns the obstacle at index i. It panics if i is out of range.
func (pd *PathDecision) At(i int) *PathObstacle { return pd.obstacles[i] }

// Find returns the obstacle with the given id.
func (pd *PathDecision) Find(id string) (*PathObstacle, bool) {
	i, ok := pd.index[id]
	if !ok {
		return nil, false
	}
	return pd.obstacles[i], true
}

// Items returns the obstacles in insertion order. The slice is a copy; the
// records are shared.
func (pd *PathDecision) Items() []*PathObstacle {
	return append([]*PathObstacle(nil), pd.obstacles...)
}

// AddLongitudinalDecision merges d into the longitudinal slot of obstacle id
// and records tag as a contributor.
func (pd *PathDecision) AddLongitudinalDecision(tag, id string, d decision.Decision) error {
	o, ok := pd.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrObstacleNotFound, id)
	}
	if err := o.addLongitudinal(tag, d); err != nil {
		return fmt.Errorf("obstacle %s longitudinal decision from %s: %w", id, tag, err)
	}
	return nil
}

// AddLateralDecision merges d into the lateral slot of obstacle id and
// records tag as a contributor.
func (pd *PathDecision) AddLateralDecision(tag, id string, d decision.Decision) error {
	o, ok := pd.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrObstacleNotFound, id)
	}
	if err := o.addLateral(tag, d); err != nil {
		return fmt.Errorf("obstacle %s lateral decision from %s: %w", id, tag, err)
	}
	return nil
}
