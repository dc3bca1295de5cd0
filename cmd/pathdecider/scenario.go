package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/banshee-data/path.decider/internal/config"
	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
	"github.com/banshee-data/path.decider/internal/planning/reference"
)

const maxScenarioSize = 16 * 1024 * 1024

// Scenario is one decider cycle read from disk.
type Scenario struct {
	ReferenceLine []Point                   `json:"reference_line"`
	Path          []frenet.FrenetFramePoint `json:"path"`
	ADCBoundary   frenet.SLBoundary         `json:"adc_boundary"`
	Vehicle       *config.VehicleConfig     `json:"vehicle,omitempty"`
	Obstacles     []ScenarioObstacle        `json:"obstacles"`
}

// Point is a Cartesian reference line sample.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ScenarioObstacle is an obstacle with the decisions earlier stages already
// recorded for it.
type ScenarioObstacle struct {
	pathdecision.Obstacle
	Longitudinal *PriorDecision `json:"longitudinal,omitempty"`
	Lateral      *PriorDecision `json:"lateral,omitempty"`
}

// PriorDecision is a decision plus the stage that wrote it.
type PriorDecision struct {
	Tag      string        `json:"tag"`
	Decision decision.JSON `json:"decision"`
}

// LoadScenario reads and strictly decodes a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat scenario %s: %w", path, err)
	}
	if info.Size() > maxScenarioSize {
		return nil, fmt.Errorf("scenario %s is too large (%d bytes)", path, info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var s Scenario
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse scenario %s: %w", path, err)
	}
	return &s, nil
}

// Build turns the scenario into decider input and a populated obstacle
// table. A scenario without a reference line yields a nil ReferenceLine so
// the decider reports the missing data itself.
func (s *Scenario) Build() (pathdecider.Input, *pathdecision.PathDecision, error) {
	in := pathdecider.Input{
		Path:        frenet.NewFrenetFramePath(s.Path),
		ADCBoundary: s.ADCBoundary,
	}
	if err := in.Path.Validate(); err != nil {
		return in, nil, err
	}
	if len(s.ReferenceLine) > 0 {
		pts := make([]r2.Vec, len(s.ReferenceLine))
		for i, p := range s.ReferenceLine {
			pts[i] = r2.Vec{X: p.X, Y: p.Y}
		}
		rl, err := reference.NewReferenceLine(pts)
		if err != nil {
			return in, nil, fmt.Errorf("reference line: %w", err)
		}
		in.ReferenceLine = rl
	}

	pd := pathdecision.NewPathDecision()
	for _, so := range s.Obstacles {
		if _, err := pd.AddObstacle(so.Obstacle); err != nil {
			return in, nil, err
		}
		if so.Longitudinal != nil {
			if err := pd.AddLongitudinalDecision(so.Longitudinal.Tag, so.ID, so.Longitudinal.Decision.Decision); err != nil {
				return in, nil, fmt.Errorf("obstacle %s: %w", so.ID, err)
			}
		}
		if so.Lateral != nil {
			if err := pd.AddLateralDecision(so.Lateral.Tag, so.ID, so.Lateral.Decision.Decision); err != nil {
				return in, nil, fmt.Errorf("obstacle %s: %w", so.ID, err)
			}
		}
	}
	return in, pd, nil
}
