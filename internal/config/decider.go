package config

import (
	"fmt"

	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/planning/vehicle"
)

// DefaultConfigPath is the path to the canonical decider defaults file.
const DefaultConfigPath = "config/decider.defaults.json"

// DeciderConfig is the root configuration for the static obstacle decider.
// Every field is optional; the Get* accessors fall back to the production
// defaults so partial files are safe.
type DeciderConfig struct {
	// Lateral zones
	LateralIgnoreBuffer        *float64 `json:"lateral_ignore_buffer,omitempty" yaml:"lateral_ignore_buffer,omitempty"`
	StaticDecisionNudgeLBuffer *float64 `json:"static_decision_nudge_l_buffer,omitempty" yaml:"static_decision_nudge_l_buffer,omitempty"`

	// Nudge
	EnableNudgeDecision   *bool    `json:"enable_nudge_decision,omitempty" yaml:"enable_nudge_decision,omitempty"`
	NudgeDistanceObstacle *float64 `json:"nudge_distance_obstacle,omitempty" yaml:"nudge_distance_obstacle,omitempty"`

	// Stop
	MaxStopDistanceObstacle *float64 `json:"max_stop_distance_obstacle,omitempty" yaml:"max_stop_distance_obstacle,omitempty"`
	MinStopDistanceObstacle *float64 `json:"min_stop_distance_obstacle,omitempty" yaml:"min_stop_distance_obstacle,omitempty"`
	StopDistanceDestination *float64 `json:"stop_distance_destination,omitempty" yaml:"stop_distance_destination,omitempty"`
	DestinationObstacleID   *string  `json:"destination_obstacle_id,omitempty" yaml:"destination_obstacle_id,omitempty"`

	Vehicle *VehicleConfig `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
}

// VehicleConfig overrides individual fields of vehicle.DefaultParam.
type VehicleConfig struct {
	Length            *float64 `json:"length,omitempty" yaml:"length,omitempty"`
	Width             *float64 `json:"width,omitempty" yaml:"width,omitempty"`
	FrontEdgeToCenter *float64 `json:"front_edge_to_center,omitempty" yaml:"front_edge_to_center,omitempty"`
	BackEdgeToCenter  *float64 `json:"back_edge_to_center,omitempty" yaml:"back_edge_to_center,omitempty"`
	LeftEdgeToCenter  *float64 `json:"left_edge_to_center,omitempty" yaml:"left_edge_to_center,omitempty"`
	RightEdgeToCenter *float64 `json:"right_edge_to_center,omitempty" yaml:"right_edge_to_center,omitempty"`
	MinTurnRadius     *float64 `json:"min_turn_radius,omitempty" yaml:"min_turn_radius,omitempty"`
}

// Merge overwrites every field of v that is set in o. A nil o is a no-op.
func (v *VehicleConfig) Merge(o *VehicleConfig) {
	if o == nil {
		return
	}
	for _, f := range []struct {
		dst **float64
		src *float64
	}{
		{&v.Length, o.Length},
		{&v.Width, o.Width},
		{&v.FrontEdgeToCenter, o.FrontEdgeToCenter},
		{&v.BackEdgeToCenter, o.BackEdgeToCenter},
		{&v.LeftEdgeToCenter, o.LeftEdgeToCenter},
		{&v.RightEdgeToCenter, o.RightEdgeToCenter},
		{&v.MinTurnRadius, o.MinTurnRadius},
	} {
		if f.src != nil {
			*f.dst = ptrFloat64(*f.src)
		}
	}
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }

// EmptyDeciderConfig returns a DeciderConfig with all fields set to nil.
func EmptyDeciderConfig() *DeciderConfig {
	return &DeciderConfig{}
}

// DefaultDeciderConfig returns a DeciderConfig with every field populated
// from the defaults.
func DefaultDeciderConfig() *DeciderConfig {
	d := pathdecider.DefaultParams()
	v := vehicle.DefaultParam()
	return &DeciderConfig{
		LateralIgnoreBuffer:        ptrFloat64(d.LateralIgnoreBuffer),
		StaticDecisionNudgeLBuffer: ptrFloat64(d.StaticDecisionNudgeLBuffer),
		EnableNudgeDecision:        ptrBool(d.EnableNudgeDecision),
		NudgeDistanceObstacle:      ptrFloat64(d.NudgeDistanceObstacle),
		MaxStopDistanceObstacle:    ptrFloat64(d.MaxStopDistanceObstacle),
		MinStopDistanceObstacle:    ptrFloat64(d.MinStopDistanceObstacle),
		StopDistanceDestination:    ptrFloat64(d.StopDistanceDestination),
		DestinationObstacleID:      ptrString(d.DestinationObstacleID),
		Vehicle: &VehicleConfig{
			Length:            ptrFloat64(v.Length),
			Width:             ptrFloat64(v.Width),
			FrontEdgeToCenter: ptrFloat64(v.FrontEdgeToCenter),
			BackEdgeToCenter:  ptrFloat64(v.BackEdgeToCenter),
			LeftEdgeToCenter:  ptrFloat64(v.LeftEdgeToCenter),
			RightEdgeToCenter: ptrFloat64(v.RightEdgeToCenter),
			MinTurnRadius:     ptrFloat64(v.MinTurnRadius),
		},
	}
}

// Validate checks that the configuration values are usable. Buffer ordering
// is reported by Warnings rather than rejected.
func (c *DeciderConfig) Validate() error {
	for name, v := range map[string]*float64{
		"nudge_distance_obstacle":    c.NudgeDistanceObstacle,
		"max_stop_distance_obstacle": c.MaxStopDistanceObstacle,
		"min_stop_distance_obstacle": c.MinStopDistanceObstacle,
		"stop_distance_destination":  c.StopDistanceDestination,
	} {
		if v != nil && *v < 0 {
			return fmt.Errorf("%s must be non-negative, got %f", name, *v)
		}
	}
	if c.GetMinStopDistanceObstacle() > c.GetMaxStopDistanceObstacle() {
		return fmt.Errorf("min_stop_distance_obstacle (%f) exceeds max_stop_distance_obstacle (%f)",
			c.GetMinStopDistanceObstacle(), c.GetMaxStopDistanceObstacle())
	}
	if c.DestinationObstacleID != nil && *c.DestinationObstacleID == "" {
		return fmt.Errorf("destination_obstacle_id must not be empty")
	}
	if err := c.VehicleParam().Validate(); err != nil {
		return err
	}
	return nil
}

// Warnings lists settings that are accepted but probably unintended.
func (c *DeciderConfig) Warnings() []string {
	var out []string
	if c.GetStaticDecisionNudgeLBuffer() > c.GetLateralIgnoreBuffer() {
		out = append(out, fmt.Sprintf(
			"static_decision_nudge_l_buffer (%.2f) exceeds lateral_ignore_buffer (%.2f): obstacles between the two radii are ignored, not stopped for",
			c.GetStaticDecisionNudgeLBuffer(), c.GetLateralIgnoreBuffer()))
	}
	if !c.GetEnableNudgeDecision() {
		out = append(out, "enable_nudge_decision is false: obstacles beside the path get no decision")
	}
	return out
}

// Params returns the immutable snapshot consumed by pathdecider.New.
func (c *DeciderConfig) Params() pathdecider.Params {
	return pathdecider.Params{
		LateralIgnoreBuffer:        c.GetLateralIgnoreBuffer(),
		StaticDecisionNudgeLBuffer: c.GetStaticDecisionNudgeLBuffer(),
		EnableNudgeDecision:        c.GetEnableNudgeDecision(),
		NudgeDistanceObstacle:      c.GetNudgeDistanceObstacle(),
		MaxStopDistanceObstacle:    c.GetMaxStopDistanceObstacle(),
		MinStopDistanceObstacle:    c.GetMinStopDistanceObstacle(),
		StopDistanceDestination:    c.GetStopDistanceDestination(),
		DestinationObstacleID:      c.GetDestinationObstacleID(),
	}
}

// VehicleParam returns the vehicle geometry with any overrides applied.
func (c *DeciderConfig) VehicleParam() vehicle.Param {
	p := vehicle.DefaultParam()
	v := c.Vehicle
	if v == nil {
		return p
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Length, v.Length)
	set(&p.Width, v.Width)
	set(&p.FrontEdgeToCenter, v.FrontEdgeToCenter)
	set(&p.BackEdgeToCenter, v.BackEdgeToCenter)
	set(&p.LeftEdgeToCenter, v.LeftEdgeToCenter)
	set(&p.RightEdgeToCenter, v.RightEdgeToCenter)
	set(&p.MinTurnRadius, v.MinTurnRadius)
	return p
}

// GetLateralIgnoreBuffer returns the lateral_ignore_buffer value or the default.
func (c *DeciderConfig) GetLateralIgnoreBuffer() float64 {
	if c.LateralIgnoreBuffer == nil {
		return 3.0
	}
	return *c.LateralIgnoreBuffer
}

// GetStaticDecisionNudgeLBuffer returns the static_decision_nudge_l_buffer value or the default.
func (c *DeciderConfig) GetStaticDecisionNudgeLBuffer() float64 {
	if c.StaticDecisionNudgeLBuffer == nil {
		return 0.5
	}
	return *c.StaticDecisionNudgeLBuffer
}

// GetEnableNudgeDecision returns the enable_nudge_decision value or the default.
func (c *DeciderConfig) GetEnableNudgeDecision() bool {
	if c.EnableNudgeDecision == nil {
		return true
	}
	return *c.EnableNudgeDecision
}

// GetNudgeDistanceObstacle returns the nudge_distance_obstacle value or the default.
func (c *DeciderConfig) GetNudgeDistanceObstacle() float64 {
	if c.NudgeDistanceObstacle == nil {
		return 0.3
	}
	return *c.NudgeDistanceObstacle
}

// GetMaxStopDistanceObstacle returns the max_stop_distance_obstacle value or the default.
func (c *DeciderConfig) GetMaxStopDistanceObstacle() float64 {
	if c.MaxStopDistanceObstacle == nil {
		return 10.0
	}
	return *c.MaxStopDistanceObstacle
}

// GetMinStopDistanceObstacle returns the min_stop_distance_obstacle value or the default.
func (c *DeciderConfig) GetMinStopDistanceObstacle() float64 {
	if c.MinStopDistanceObstacle == nil {
		return 6.0
	}
	return *c.MinStopDistanceObstacle
}

// GetStopDistanceDestination returns the stop_distance_destination value or the default.
func (c *DeciderConfig) GetStopDistanceDestination() float64 {
	if c.StopDistanceDestination == nil {
		return 0.5
	}
	return *c.StopDistanceDestination
}

// GetDestinationObstacleID returns the destination_obstacle_id value or the default.
func (c *DeciderConfig) GetDestinationObstacleID() string {
	if c.DestinationObstacleID == nil {
		return "DEST"
	}
	return *c.DestinationObstacleID
}
