package decision

import (
	"encoding/json"
	"fmt"
)

// envelope is the tagged JSON form used in logs, scenario files and the
// decision store.
type envelope struct {
	Type        string  `json:"type"`
	DistanceS   float64 `json:"distance_s,omitempty"`
	StopX       float64 `json:"stop_x,omitempty"`
	StopY       float64 `json:"stop_y,omitempty"`
	StopHeading float64 `json:"stop_heading,omitempty"`
	ReasonCode  string  `json:"reason_code,omitempty"`
	NudgeType   string  `json:"nudge_type,omitempty"`
	DistanceL   float64 `json:"distance_l,omitempty"`
}

// Marshal encodes d as a tagged JSON object. A nil decision encodes as null.
func Marshal(d Decision) ([]byte, error) {
	if d == nil {
		return []byte("null"), nil
	}
	var e envelope
	switch v := d.(type) {
	case Ignore:
		e.Type = KindIgnore
	case Stop:
		e = envelope{
			Type:        KindStop,
			DistanceS:   v.DistanceS,
			StopX:       v.StopPoint.X,
			StopY:       v.StopPoint.Y,
			StopHeading: v.StopHeading,
			ReasonCode:  v.ReasonCode.String(),
		}
	case Nudge:
		e = envelope{
			Type:      KindNudge,
			NudgeType: v.Type.String(),
			DistanceL: v.DistanceL,
		}
	default:
		return nil, fmt.Errorf("unsupported decision type %T", d)
	}
	return json.Marshal(e)
}

// Unmarshal decodes the output of Marshal. null decodes to a nil Decision.
func Unmarshal(data []byte) (Decision, error) {
	var e *envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to parse decision JSON: %w", err)
	}
	if e == nil {
		return nil, nil
	}
	switch e.Type {
	case KindIgnore:
		return Ignore{}, nil
	case KindStop:
		code, err := ParseStopReasonCode(e.ReasonCode)
		if err != nil {
			return nil, err
		}
		return Stop{
			DistanceS:   e.DistanceS,
			StopPoint:   Point{X: e.StopX, Y: e.StopY},
			StopHeading: e.StopHeading,
			ReasonCode:  code,
		}, nil
	case KindNudge:
		t, err := ParseNudgeType(e.NudgeType)
		if err != nil {
			return nil, err
		}
		return Nudge{Type: t, DistanceL: e.DistanceL}, nil
	}
	return nil, fmt.Errorf("unknown decision type %q", e.Type)
}

// JSON wraps a Decision so it can be embedded in structs that go through
// encoding/json.
type JSON struct {
	Decision
}

func (j JSON) MarshalJSON() ([]byte, error) {
	return Marshal(j.Decision)
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	d, err := Unmarshal(data)
	if err != nil {
		return err
	}
	j.Decision = d
	return nil
}
