// Package pathdecider makes the per-cycle ignore / stop / nudge decisions for
// static obstacles along a candidate path.
//
// The pass is synchronous and keeps no state between cycles. Every decision
// it writes is tagged with Name.
package pathdecider

import (
	"fmt"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
	"github.com/banshee-data/path.decider/internal/planning/reference"
	"github.com/banshee-data/path.decider/internal/planning/vehicle"
)

// Outcome records what the pass did with one obstacle.
type Outcome int

const (
	OutcomeSkippedDynamic Outcome = iota + 1
	OutcomeSkippedIgnored
	OutcomeSkippedStopped
	OutcomeSkippedKeepClear
	OutcomeOutOfRange
	OutcomeIgnore
	OutcomeStop
	OutcomeNudgeLeft
	OutcomeNudgeRight
	// OutcomeUndecided: inside the ignore radius, outside the stop radius,
	// nudging disabled. Nothing is written.
	OutcomeUndecided
)

var outcomeNames = map[Outcome]string{
	OutcomeSkippedDynamic:   "skipped_dynamic",
	OutcomeSkippedIgnored:   "skipped_ignored",
	OutcomeSkippedStopped:   "skipped_stopped",
	OutcomeSkippedKeepClear: "skipped_keep_clear",
	OutcomeOutOfRange:       "out_of_range",
	OutcomeIgnore:           "ignore",
	OutcomeStop:             "stop",
	OutcomeNudgeLeft:        "nudge_left",
	OutcomeNudgeRight:       "nudge_right",
	OutcomeUndecided:        "undecided",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Skipped reports whether the obstacle was left untouched by a skip rule.
func (o Outcome) Skipped() bool {
	return o >= OutcomeSkippedDynamic && o <= OutcomeSkippedKeepClear
}

// Recorder receives per-obstacle outcomes. Implementations must be cheap;
// they are called inside the pass.
type Recorder interface {
	ObserveOutcome(Outcome)
	ObserveStopDistance(float64)
	ObservePathError()
}

// Input is the cycle snapshot the pass reads.
type Input struct {
	// Path is the candidate path in the Frenet frame.
	Path *frenet.FrenetFramePath
	// ReferenceLine resolves stop poses by arclength.
	ReferenceLine reference.PositionQuerier
	// ADCBoundary is the ego vehicle's own SL footprint.
	ADCBoundary frenet.SLBoundary
}

// ObstacleReport describes the pass result for one obstacle.
type ObstacleReport struct {
	ID      string
	Outcome Outcome
	// CurrL is the interpolated path offset at the obstacle start_s. It is
	// only set for outcomes that reached the lateral lookup.
	CurrL float64
	// Err is set when the sink rejected a write.
	Err error
}

// Report is the result of ProcessWithReport.
type Report struct {
	Zones     Zones
	Obstacles []ObstacleReport
}

// Count returns how many obstacles ended with the given outcome.
func (r Report) Count(o Outcome) int {
	n := 0
	for _, or := range r.Obstacles {
		if or.Outcome == o {
			n++
		}
	}
	return n
}

// Option configures a PathDecider.
type Option func(*PathDecider)

// WithRecorder attaches an outcome recorder, typically Prometheus counters.
func WithRecorder(r Recorder) Option {
	return func(d *PathDecider) { d.recorder = r }
}

// PathDecider runs the static obstacle decision pass.
type PathDecider struct {
	params   Params
	vehicle  vehicle.Param
	recorder Recorder
}

// New returns a PathDecider for one configuration snapshot.
func New(p Params, veh vehicle.Param, opts ...Option) *PathDecider {
	d := &PathDecider{params: p, vehicle: veh}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the decision source tag.
func (d *PathDecider) Name() string { return Name }

// Params returns the configuration snapshot the decider was built with.
func (d *PathDecider) Params() Params { return d.params }

// Process writes decisions for every static obstacle in pd. It fails with a
// *PathDataError, before touching any obstacle, if the path is empty or the
// reference line is missing.
func (d *PathDecider) Process(in Input, pd *pathdecision.PathDecision) error {
	_, err := d.ProcessWithReport(in, pd)
	return err
}

// ProcessWithReport is Process that also returns the per-obstacle outcomes.
func (d *PathDecider) ProcessWithReport(in Input, pd *pathdecision.PathDecision) (Report, error) {
	if err := d.validateInput(in, pd); err != nil {
		opsf("Failed to make decisions for static obstacles: %v", err)
		if d.recorder != nil {
			d.recorder.ObservePathError()
		}
		return Report{}, err
	}

	zones := NewZones(d.vehicle.HalfWidth(), d.params)
	report := Report{Zones: zones, Obstacles: make([]ObstacleReport, 0, pd.Len())}
	diagf("cycle: %d obstacles, path s=[%.2f, %.2f], radius=%.2f stop_radius=%.2f",
		pd.Len(), in.Path.Front().S, in.Path.Back().S, zones.Radius, zones.StopRadius)

	for i := 0; i < pd.Len(); i++ {
		or := d.decide(in, pd, pd.At(i), zones)
		tracef("obstacle %s: %s curr_l=%.3f", or.ID, or.Outcome, or.CurrL)
		if or.Err != nil {
			opsf("obstacle %s: %v", or.ID, or.Err)
		}
		if d.recorder != nil {
			d.recorder.ObserveOutcome(or.Outcome)
		}
		report.Obstacles = append(report.Obstacles, or)
	}
	return report, nil
}

func (d *PathDecider) validateInput(in Input, pd *pathdecision.PathDecision) error {
	if pd == nil {
		return &PathDataError{Msg: "path decision is nil"}
	}
	if in.Path.Empty() {
		return &PathDataError{Msg: "path is empty"}
	}
	if in.ReferenceLine == nil {
		return &PathDataError{Msg: "reference line is missing"}
	}
	return nil
}

// skipOutcome applies the skip rules in order and returns the first match,
// or 0 if the obstacle must be evaluated.
func skipOutcome(po *pathdecision.PathObstacle) Outcome {
	o := po.Obstacle()
	if !o.IsStatic {
		return OutcomeSkippedDynamic
	}
	if po.HasLongitudinalDecision() && decision.IsIgnore(po.LongitudinalDecision()) &&
		po.HasLateralDecision() && decision.IsIgnore(po.LateralDecision()) {
		return OutcomeSkippedIgnored
	}
	if po.HasLongitudinalDecision() && decision.IsStop(po.LongitudinalDecision()) {
		return OutcomeSkippedStopped
	}
	if o.BoundaryType == pathdecision.BoundaryKeepClear {
		return OutcomeSkippedKeepClear
	}
	return 0
}

func (d *PathDecider) decide(in Input, pd *pathdecision.PathDecision, po *pathdecision.PathObstacle, zones Zones) ObstacleReport {
	id := po.ID()
	if skip := skipOutcome(po); skip != 0 {
		return ObstacleReport{ID: id, Outcome: skip}
	}

	sl := po.PerceptionSLBoundary()
	if !in.Path.Contains(sl.StartS) {
		err := pd.AddLongitudinalDecision(Name, id, decision.Ignore{})
		if lerr := pd.AddLateralDecision(Name, id, decision.Ignore{}); err == nil {
			err = lerr
		}
		return ObstacleReport{ID: id, Outcome: OutcomeOutOfRange, Err: err}
	}

	currL := in.Path.EvaluateByS(sl.StartS).L
	report := ObstacleReport{ID: id, CurrL: currL}

	switch ClassifyLateral(currL, sl, zones) {
	case ZoneClear:
		report.Outcome = OutcomeIgnore
		report.Err = pd.AddLateralDecision(Name, id, decision.Ignore{})
	case ZoneBlocking:
		stop := GenerateObjectStopDecision(po.Obstacle(), in.ADCBoundary, d.vehicle, d.params, in.ReferenceLine)
		report.Outcome = OutcomeStop
		report.Err = pd.AddLongitudinalDecision(Name, id, stop)
		if d.recorder != nil {
			d.recorder.ObserveStopDistance(stop.StopDistance())
		}
	case ZoneLeftOfPath:
		report.Outcome = d.nudge(pd, id, decision.Nudge{Type: decision.LeftNudge, DistanceL: d.params.NudgeDistanceObstacle}, &report)
	case ZoneRightOfPath:
		report.Outcome = d.nudge(pd, id, decision.Nudge{Type: decision.RightNudge, DistanceL: -d.params.NudgeDistanceObstacle}, &report)
	}
	return report
}

func (d *PathDecider) nudge(pd *pathdecision.PathDecision, id string, n decision.Nudge, report *ObstacleReport) Outcome {
	if !d.params.EnableNudgeDecision {
		return OutcomeUndecided
	}
	report.Err = pd.AddLateralDecision(Name, id, n)
	if n.Type == decision.LeftNudge {
		return OutcomeNudgeLeft
	}
	return OutcomeNudgeRight
}
