package pathdecision

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
)

func newTable(t *testing.T, ids ...string) *PathDecision {
	t.Helper()
	pd := NewPathDecision()
	for _, id := range ids {
		_, err := pd.AddObstacle(Obstacle{
			ID:                   id,
			IsStatic:             true,
			PerceptionSLBoundary: frenet.SLBoundary{StartS: 10, EndS: 12, StartL: -1, EndL: 1},
		})
		require.NoError(t, err)
	}
	return pd
}

func TestPathDecision_AddObstacle(t *testing.T) {
	pd := newTable(t, "a", "b")
	assert.Equal(t, 2, pd.Len())
	assert.Equal(t, "a", pd.At(0).ID())
	assert.Equal(t, "b", pd.At(1).ID())

	_, err := pd.AddObstacle(Obstacle{ID: "a"})
	assert.ErrorIs(t, err, ErrDuplicateObstacle)

	_, err = pd.AddObstacle(Obstacle{})
	assert.Error(t, err)

	_, err = pd.AddObstacle(Obstacle{ID: "bad", PerceptionSLBoundary: frenet.SLBoundary{StartL: 1, EndL: 0}})
	assert.Error(t, err)
	assert.Equal(t, 2, pd.Len())
}

func TestPathDecision_FindAndItems(t *testing.T) {
	pd := newTable(t, "a", "b", "c")
	o, ok := pd.Find("b")
	require.True(t, ok)
	assert.Equal(t, "b", o.ID())
	assert.Equal(t, 2.0, o.PerceptionSLBoundary().Width())

	_, ok = pd.Find("zzz")
	assert.False(t, ok)

	items := pd.Items()
	require.Len(t, items, 3)
	items[0] = nil
	assert.NotNil(t, pd.At(0), "Items must return a copy of the slice")
}

func TestPathDecision_AddDecisions(t *testing.T) {
	pd := newTable(t, "a")

	require.NoError(t, pd.AddLongitudinalDecision("Upstream", "a", decision.Ignore{}))
	require.NoError(t, pd.AddLateralDecision("Upstream", "a", decision.Ignore{}))
	o, _ := pd.Find("a")
	assert.True(t, o.IsIgnore())

	stop := decision.Stop{DistanceS: -6, ReasonCode: decision.StopReasonObstacle}
	require.NoError(t, pd.AddLongitudinalDecision("PathDecider", "a", stop))
	assert.Equal(t, stop, o.LongitudinalDecision())
	assert.False(t, o.IsIgnore())
	assert.Equal(t, []string{"Upstream", "PathDecider"}, o.LongitudinalTags())
	assert.Equal(t, []string{"Upstream"}, o.LateralTags())
}

func TestPathDecision_AddDecisionErrors(t *testing.T) {
	pd := newTable(t, "a")

	err := pd.AddLongitudinalDecision("X", "missing", decision.Ignore{})
	assert.ErrorIs(t, err, ErrObstacleNotFound)
	err = pd.AddLateralDecision("X", "missing", decision.Ignore{})
	assert.ErrorIs(t, err, ErrObstacleNotFound)

	err = pd.AddLongitudinalDecision("X", "a", decision.Nudge{Type: decision.LeftNudge})
	assert.ErrorIs(t, err, decision.ErrWrongAxis)

	require.NoError(t, pd.AddLateralDecision("X", "a", decision.Nudge{Type: decision.LeftNudge, DistanceL: 0.3}))
	err = pd.AddLateralDecision("Y", "a", decision.Nudge{Type: decision.RightNudge, DistanceL: -0.3})
	assert.ErrorIs(t, err, decision.ErrConflictingNudge)

	o, _ := pd.Find("a")
	assert.Equal(t, []string{"X"}, o.LateralTags(), "rejected writes must not be tagged")
	assert.False(t, o.HasLongitudinalDecision())
}

func TestBoundaryType_Text(t *testing.T) {
	for bt := BoundaryUnknown; bt <= BoundaryKeepClear; bt++ {
		got, err := ParseBoundaryType(bt.String())
		require.NoError(t, err)
		assert.Equal(t, bt, got)
	}

	got, err := ParseBoundaryType(" keep_clear ")
	require.NoError(t, err)
	assert.Equal(t, BoundaryKeepClear, got)

	got, err = ParseBoundaryType("")
	require.NoError(t, err)
	assert.Equal(t, BoundaryUnknown, got)

	_, err = ParseBoundaryType("wall")
	assert.Error(t, err)
	assert.Equal(t, "BOUNDARY(42)", BoundaryType(42).String())
}

func TestObstacle_JSON(t *testing.T) {
	var o Obstacle
	err := json.Unmarshal([]byte(`{
		"id": "cone-1",
		"is_static": true,
		"boundary_type": "KEEP_CLEAR",
		"sl_boundary": {"start_s": 1, "end_s": 2, "start_l": -0.5, "end_l": 0.5}
	}`), &o)
	require.NoError(t, err)
	assert.Equal(t, "cone-1", o.ID)
	assert.True(t, o.IsStatic)
	assert.Equal(t, BoundaryKeepClear, o.BoundaryType)
	assert.Equal(t, 1.0, o.PerceptionSLBoundary.Width())
}
