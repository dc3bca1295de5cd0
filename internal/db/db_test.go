package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/testutil"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func runCycle(t *testing.T) (CycleRecord, pathdecider.Report) {
	t.Helper()
	params := pathdecider.Params{
		LateralIgnoreBuffer:        0.3,
		StaticDecisionNudgeLBuffer: 0.1,
		EnableNudgeDecision:        true,
		NudgeDistanceObstacle:      0.5,
		MinStopDistanceObstacle:    1,
		MaxStopDistanceObstacle:    10,
		StopDistanceDestination:    0.5,
		DestinationObstacleID:      "DEST",
	}
	pd := testutil.NewPathDecision(t,
		testutil.StaticObstacle("far", 5, 6, 5, 6),
		testutil.StaticObstacle("block", 20, 22, -0.5, 0.5),
		testutil.StaticObstacle("left", 30, 31, 1.2, 1.8),
		testutil.StaticObstacle("ahead", 80, 81, 0, 1),
	)
	path := testutil.StraightPath(0, 50, 0)
	in := pathdecider.Input{
		Path:          path,
		ReferenceLine: testutil.StraightReferenceLine(t, 100),
		ADCBoundary:   testutil.ADCBoundary(),
	}
	d := pathdecider.New(params, testutil.Vehicle())
	report, err := d.ProcessWithReport(in, pd)
	require.NoError(t, err)

	rec, err := NewCycleRecord(time.Unix(100, 0), params, path, report, pd, nil)
	require.NoError(t, err)
	return rec, report
}

func TestNewDB_Migrates(t *testing.T) {
	db := newTestDB(t)

	version, dirty, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	// Running again is a no-op.
	require.NoError(t, db.MigrateUp())
}

func TestMigrateDown(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.MigrateDown())

	version, _, err := db.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(0), version)

	_, err = db.Exec(`SELECT COUNT(*) FROM cycles`)
	assert.Error(t, err, "cycles table should be gone")

	require.NoError(t, db.MigrateUp())
}

func TestNewCycleRecord(t *testing.T) {
	rec, _ := runCycle(t)

	require.NotNil(t, rec.PathStartS)
	require.NotNil(t, rec.PathEndS)
	assert.Equal(t, 0.0, *rec.PathStartS)
	assert.Equal(t, 50.0, *rec.PathEndS)
	assert.Contains(t, rec.Params, "nudge=true")
	assert.Empty(t, rec.Err)

	require.Len(t, rec.Decisions, 4)
	outcomes := make([]string, 0, len(rec.Decisions))
	for _, row := range rec.Decisions {
		outcomes = append(outcomes, row.Outcome)
	}
	want := []string{"ignore", "stop", "nudge_left", "out_of_range"}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}

	// Out of range obstacles never reach the lateral lookup.
	assert.Nil(t, rec.Decisions[3].CurrL)
	require.NotNil(t, rec.Decisions[1].CurrL)
	assert.Equal(t, 0.0, *rec.Decisions[1].CurrL)

	assert.Nil(t, rec.Decisions[0].Longitudinal)
	assert.JSONEq(t, `{"type":"ignore"}`, string(rec.Decisions[0].Lateral))
	assert.Equal(t, []string{pathdecider.Name}, rec.Decisions[0].LateralTags)
}

func TestNewCycleRecord_CycleError(t *testing.T) {
	rec, err := NewCycleRecord(time.Unix(1, 0), pathdecider.DefaultParams(), nil, pathdecider.Report{}, nil,
		errors.New("path is empty"))
	require.NoError(t, err)
	assert.Nil(t, rec.PathStartS)
	assert.Equal(t, "path is empty", rec.Err)
	assert.Empty(t, rec.Decisions)
}

func TestRecordCycle_RoundTrip(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rec, _ := runCycle(t)

	id, err := db.RecordCycle(ctx, rec)
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	rows, err := db.CycleDecisions(ctx, id)
	require.NoError(t, err)
	if diff := cmp.Diff(rec.Decisions, rows); diff != "" {
		t.Errorf("stored decisions mismatch (-want +got):\n%s", diff)
	}

	long, lat, err := rows[1].Decode()
	require.NoError(t, err)
	assert.Nil(t, lat)
	stop, ok := long.(decision.Stop)
	require.True(t, ok, "expected stop, got %T", long)
	assert.Equal(t, decision.StopReasonObstacle, stop.ReasonCode)
	assert.Less(t, stop.DistanceS, 0.0)

	_, lat, err = rows[2].Decode()
	require.NoError(t, err)
	assert.Equal(t, decision.Nudge{Type: decision.LeftNudge, DistanceL: 0.5}, lat)
}

func TestCycleDecisions_NotFound(t *testing.T) {
	db := newTestDB(t)
	_, err := db.CycleDecisions(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCycleNotFound)
}

func TestCycles(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	rec, _ := runCycle(t)

	first, err := db.RecordCycle(ctx, rec)
	require.NoError(t, err)

	failed := CycleRecord{RecordedAt: time.Unix(200, 0), Params: "p", Err: "path is empty"}
	second, err := db.RecordCycle(ctx, failed)
	require.NoError(t, err)

	all, err := db.Cycles(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].CycleID)
	assert.Equal(t, "path is empty", all[0].Err)
	assert.Equal(t, 0, all[0].Decisions)
	assert.Nil(t, all[0].PathStartS)

	assert.Equal(t, first, all[1].CycleID)
	assert.Equal(t, 4, all[1].Decisions)
	assert.True(t, all[1].RecordedAt.Equal(time.Unix(100, 0)))
	require.NotNil(t, all[1].PathEndS)
	assert.Equal(t, 50.0, *all[1].PathEndS)

	limited, err := db.Cycles(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second, limited[0].CycleID)
}

func TestRecordCycle_CanceledContext(t *testing.T) {
	db := newTestDB(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := db.RecordCycle(ctx, CycleRecord{RecordedAt: time.Now(), Params: "p"})
	require.Error(t, err)

	all, err := db.Cycles(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, all)
}
