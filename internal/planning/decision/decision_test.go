package decision

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinds(t *testing.T) {
	assert.Equal(t, KindIgnore, Ignore{}.Kind())
	assert.Equal(t, KindStop, Stop{}.Kind())
	assert.Equal(t, KindNudge, Nudge{}.Kind())

	assert.True(t, IsIgnore(Ignore{}))
	assert.False(t, IsIgnore(nil))
	assert.True(t, IsStop(Stop{}))
	assert.True(t, IsNudge(Nudge{}))
	assert.False(t, IsStop(Nudge{}))
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "STOP_REASON_OBSTACLE", StopReasonObstacle.String())
	assert.Equal(t, "STOP_REASON_DESTINATION", StopReasonDestination.String())
	assert.Equal(t, "STOP_REASON_UNKNOWN(0)", StopReasonCode(0).String())
	assert.Equal(t, "LEFT_NUDGE", LeftNudge.String())
	assert.Equal(t, "RIGHT_NUDGE", RightNudge.String())
	assert.Equal(t, "longitudinal", Longitudinal.String())
	assert.Equal(t, "lateral", Lateral.String())

	_, err := ParseStopReasonCode("nope")
	assert.Error(t, err)
	_, err = ParseNudgeType("nope")
	assert.Error(t, err)
}

func TestStop_StopDistance(t *testing.T) {
	assert.Equal(t, 6.5, Stop{DistanceS: -6.5}.StopDistance())
}

func TestValidFor(t *testing.T) {
	assert.True(t, ValidFor(Longitudinal, Ignore{}))
	assert.True(t, ValidFor(Lateral, Ignore{}))
	assert.True(t, ValidFor(Longitudinal, Stop{}))
	assert.False(t, ValidFor(Lateral, Stop{}))
	assert.True(t, ValidFor(Lateral, Nudge{}))
	assert.False(t, ValidFor(Longitudinal, Nudge{}))
	assert.False(t, ValidFor(Lateral, nil))
}

func TestMergeLongitudinal(t *testing.T) {
	near := Stop{DistanceS: -6, ReasonCode: StopReasonObstacle}
	far := Stop{DistanceS: -9, ReasonCode: StopReasonObstacle}

	tests := []struct {
		name string
		old  Decision
		next Decision
		want Decision
	}{
		{"nil takes next", nil, Ignore{}, Ignore{}},
		{"stop overrides ignore", Ignore{}, near, near},
		{"ignore does not override stop", near, Ignore{}, near},
		{"further stop wins", near, far, far},
		{"closer stop loses", far, near, far},
		{"ignore over ignore", Ignore{}, Ignore{}, Ignore{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MergeLongitudinal(tt.old, tt.next)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := MergeLongitudinal(nil, Nudge{Type: LeftNudge})
	assert.ErrorIs(t, err, ErrWrongAxis)
}

func TestMergeLateral(t *testing.T) {
	left := Nudge{Type: LeftNudge, DistanceL: 0.3}
	widerLeft := Nudge{Type: LeftNudge, DistanceL: 0.6}
	right := Nudge{Type: RightNudge, DistanceL: -0.3}

	got, err := MergeLateral(Ignore{}, left)
	require.NoError(t, err)
	assert.Equal(t, left, got)

	got, err = MergeLateral(left, Ignore{})
	require.NoError(t, err)
	assert.Equal(t, left, got)

	got, err = MergeLateral(left, widerLeft)
	require.NoError(t, err)
	assert.Equal(t, widerLeft, got)

	got, err = MergeLateral(widerLeft, left)
	require.NoError(t, err)
	assert.Equal(t, widerLeft, got)

	got, err = MergeLateral(left, right)
	assert.ErrorIs(t, err, ErrConflictingNudge)
	assert.Equal(t, left, got)

	_, err = MergeLateral(nil, Stop{})
	assert.ErrorIs(t, err, ErrWrongAxis)
}

func TestCodec_RoundTripCases(t *testing.T) {
	cases := []Decision{
		Ignore{},
		Stop{DistanceS: -7.25, StopPoint: Point{X: 12.75, Y: -1}, StopHeading: 0.5, ReasonCode: StopReasonObstacle},
		Stop{DistanceS: -0.5, ReasonCode: StopReasonDestination},
		Nudge{Type: RightNudge, DistanceL: -0.3},
	}
	for _, d := range cases {
		data, err := Marshal(d)
		require.NoError(t, err)
		back, err := Unmarshal(data)
		require.NoError(t, err)
		if diff := cmp.Diff(d, back); diff != "" {
			t.Errorf("decision mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestCodec_Format(t *testing.T) {
	data, err := Marshal(Nudge{Type: LeftNudge, DistanceL: 0.3})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"nudge","nudge_type":"LEFT_NUDGE","distance_l":0.3}`, string(data))

	data, err = Marshal(nil)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))
}

func TestCodec_Errors(t *testing.T) {
	_, err := Unmarshal([]byte(`{"type":"overtake"}`))
	assert.Error(t, err)
	_, err = Unmarshal([]byte(`{"type":"stop","reason_code":"bogus"}`))
	assert.Error(t, err)
	_, err = Unmarshal([]byte(`{`))
	assert.Error(t, err)

	d, err := Unmarshal([]byte(`null`))
	require.NoError(t, err)
	assert.Nil(t, d)
}

func TestJSONWrapper(t *testing.T) {
	type record struct {
		ID  string `json:"id"`
		Lat JSON   `json:"lateral"`
		Lon JSON   `json:"longitudinal"`
	}
	in := record{ID: "o1", Lat: JSON{Nudge{Type: LeftNudge, DistanceL: 0.3}}}
	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"longitudinal":null`)

	var out record
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in.Lat.Decision, out.Lat.Decision)
	assert.Nil(t, out.Lon.Decision)
}
