// Package vehicle describes the ego vehicle geometry used by the planning
// stages.
package vehicle

import (
	"fmt"
	"math"
)

// Param is the static geometry of the ego vehicle, in metres. Edge distances
// are measured from the vehicle reference point.
type Param struct {
	Length            float64 `json:"length" yaml:"length"`
	Width             float64 `json:"width" yaml:"width"`
	FrontEdgeToCenter float64 `json:"front_edge_to_center" yaml:"front_edge_to_center"`
	BackEdgeToCenter  float64 `json:"back_edge_to_center" yaml:"back_edge_to_center"`
	LeftEdgeToCenter  float64 `json:"left_edge_to_center" yaml:"left_edge_to_center"`
	RightEdgeToCenter float64 `json:"right_edge_to_center" yaml:"right_edge_to_center"`
	MinTurnRadius     float64 `json:"min_turn_radius" yaml:"min_turn_radius"`
}

// DefaultParam returns the geometry of a mid-size passenger car.
func DefaultParam() Param {
	return Param{
		Length:            4.933,
		Width:             2.11,
		FrontEdgeToCenter: 3.89,
		BackEdgeToCenter:  1.043,
		LeftEdgeToCenter:  1.055,
		RightEdgeToCenter: 1.055,
		MinTurnRadius:     5.05386147161,
	}
}

// HalfWidth returns Width / 2.
func (p Param) HalfWidth() float64 {
	return p.Width / 2.0
}

// MinSafeTurnRadius returns the radius swept by the outermost corner of the
// body while turning at MinTurnRadius.
func (p Param) MinSafeTurnRadius() float64 {
	lat := math.Max(p.LeftEdgeToCenter, p.RightEdgeToCenter)
	lon := math.Max(p.FrontEdgeToCenter, p.BackEdgeToCenter)
	return math.Hypot(lat+p.MinTurnRadius, lon)
}

// Validate checks the fields the planning stages divide or take roots by.
func (p Param) Validate() error {
	if p.Width <= 0 {
		return fmt.Errorf("vehicle width must be positive, got %f", p.Width)
	}
	if p.MinTurnRadius <= 0 {
		return fmt.Errorf("vehicle min_turn_radius must be positive, got %f", p.MinTurnRadius)
	}
	for name, v := range map[string]float64{
		"length":               p.Length,
		"front_edge_to_center": p.FrontEdgeToCenter,
		"back_edge_to_center":  p.BackEdgeToCenter,
		"left_edge_to_center":  p.LeftEdgeToCenter,
		"right_edge_to_center": p.RightEdgeToCenter,
	} {
		if v < 0 {
			return fmt.Errorf("vehicle %s must be non-negative, got %f", name, v)
		}
	}
	return nil
}
