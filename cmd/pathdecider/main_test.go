package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/path.decider/internal/db"
	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
)

const testConfig = `{
  "lateral_ignore_buffer": 0.3,
  "static_decision_nudge_l_buffer": 0.1,
  "nudge_distance_obstacle": 0.5,
  "min_stop_distance_obstacle": 1,
  "max_stop_distance_obstacle": 10
}`

const testScenario = `{
  "reference_line": [{"x": 0, "y": 0}, {"x": 100, "y": 0}],
  "path": [
    {"s": 0, "l": 0}, {"s": 10, "l": 0}, {"s": 20, "l": 0},
    {"s": 30, "l": 0}, {"s": 40, "l": 0}, {"s": 50, "l": 0}
  ],
  "adc_boundary": {"start_s": -1, "end_s": 3, "start_l": -1, "end_l": 1},
  "vehicle": {
    "length": 4, "width": 2, "front_edge_to_center": 3, "back_edge_to_center": 1,
    "left_edge_to_center": 1, "right_edge_to_center": 1, "min_turn_radius": 4
  },
  "obstacles": [
    {"id": "clear", "is_static": true, "sl_boundary": {"start_s": 5, "end_s": 6, "start_l": 4, "end_l": 5}},
    {"id": "block", "is_static": true, "sl_boundary": {"start_s": 20, "end_s": 22, "start_l": -0.5, "end_l": 0.5}},
    {"id": "dynamic", "is_static": false, "sl_boundary": {"start_s": 20, "end_s": 22, "start_l": -0.5, "end_l": 0.5}},
    {"id": "prior-stop", "is_static": true, "sl_boundary": {"start_s": 25, "end_s": 26, "start_l": -0.5, "end_l": 0.5},
     "longitudinal": {"tag": "Upstream", "decision": {"type": "stop", "distance_s": -2, "reason_code": "STOP_REASON_OBSTACLE"}}},
    {"id": "keep-clear", "is_static": true, "boundary_type": "KEEP_CLEAR", "sl_boundary": {"start_s": 30, "end_s": 31, "start_l": -0.5, "end_l": 0.5}},
    {"id": "ahead", "is_static": true, "sl_boundary": {"start_s": 80, "end_s": 81, "start_l": 0, "end_l": 1}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func decodeLines(t *testing.T, out []byte) []obstacleLine {
	t.Helper()
	var lines []obstacleLine
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		var l obstacleLine
		require.NoError(t, json.Unmarshal(sc.Bytes(), &l), "line %q", sc.Text())
		lines = append(lines, l)
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestRun_Scenario(t *testing.T) {
	opts := options{
		ConfigPath:   writeFile(t, "decider.json", testConfig),
		ScenarioPath: writeFile(t, "scenario.json", testScenario),
	}
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))

	lines := decodeLines(t, stdout.Bytes())
	var ids, outcomes []string
	for _, l := range lines {
		ids = append(ids, l.ID)
		outcomes = append(outcomes, l.Outcome)
	}
	if diff := cmp.Diff([]string{"clear", "block", "dynamic", "prior-stop", "keep-clear", "ahead"}, ids); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
	want := []string{"ignore", "stop", "skipped_dynamic", "skipped_stopped", "skipped_keep_clear", "out_of_range"}
	if diff := cmp.Diff(want, outcomes); diff != "" {
		t.Errorf("outcomes mismatch (-want +got):\n%s", diff)
	}

	// clear: lateral ignore only
	assert.JSONEq(t, `null`, string(lines[0].Longitudinal))
	assert.JSONEq(t, `{"type":"ignore"}`, string(lines[0].Lateral))
	assert.Equal(t, []string{pathdecider.Name}, lines[0].LateralTags)

	// block: stop at the turning-radius distance
	d, err := decision.Unmarshal(lines[1].Longitudinal)
	require.NoError(t, err)
	stop, ok := d.(decision.Stop)
	require.True(t, ok, "expected stop, got %T", d)
	r := math.Sqrt(34)
	wantDist := math.Sqrt(34-(r-2)*(r-2)) + 0.5
	assert.InDelta(t, -wantDist, stop.DistanceS, 1e-9)
	assert.InDelta(t, 20-wantDist, stop.StopPoint.X, 1e-9)
	require.NotNil(t, lines[1].CurrL)
	assert.Equal(t, 0.0, *lines[1].CurrL)

	// prior decisions survive untouched
	assert.Equal(t, []string{"Upstream"}, lines[3].LongitudinalTags)
	assert.Nil(t, lines[3].CurrL)

	// ahead: both axes ignored
	assert.JSONEq(t, `{"type":"ignore"}`, string(lines[5].Longitudinal))
	assert.JSONEq(t, `{"type":"ignore"}`, string(lines[5].Lateral))
}

func TestRun_DBPlotAndMetrics(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		ConfigPath:   writeFile(t, "decider.yaml", "lateral_ignore_buffer: 0.3\nstatic_decision_nudge_l_buffer: 0.1\nmin_stop_distance_obstacle: 1\n"),
		ScenarioPath: writeFile(t, "scenario.json", testScenario),
		DBPath:       filepath.Join(dir, "decisions.db"),
		PlotPath:     filepath.Join(dir, "plots", "cycle.png"),
		Metrics:      true,
	}
	var stdout, stderr bytes.Buffer
	require.NoError(t, run(context.Background(), opts, &stdout, &stderr))

	_, err := os.Stat(opts.PlotPath)
	assert.NoError(t, err, "plot not written")
	assert.Contains(t, stderr.String(), "pathdecider_decisions_total")
	assert.Contains(t, stderr.String(), `reason="dynamic"`)

	store, err := db.NewDB(opts.DBPath)
	require.NoError(t, err)
	defer store.Close()
	cycles, err := store.Cycles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Equal(t, 6, cycles[0].Decisions)
}

func TestRun_EmptyPath(t *testing.T) {
	dir := t.TempDir()
	opts := options{
		ScenarioPath: writeFile(t, "scenario.json", `{
  "reference_line": [{"x": 0, "y": 0}, {"x": 10, "y": 0}],
  "path": [],
  "obstacles": [{"id": "a", "is_static": true, "sl_boundary": {"start_s": 1, "end_s": 2, "start_l": 0, "end_l": 1}}]
}`),
		DBPath:   filepath.Join(dir, "decisions.db"),
		PlotPath: filepath.Join(dir, "cycle.png"),
	}
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), opts, &stdout, &stderr)

	var pathErr *pathdecider.PathDataError
	require.True(t, errors.As(err, &pathErr), "expected PathDataError, got %v", err)
	assert.Empty(t, stdout.String())

	_, statErr := os.Stat(opts.PlotPath)
	assert.True(t, os.IsNotExist(statErr), "no plot for a failed cycle")

	store, err := db.NewDB(opts.DBPath)
	require.NoError(t, err)
	defer store.Close()
	cycles, err := store.Cycles(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, cycles, 1)
	assert.Contains(t, cycles[0].Err, "path is empty")
	assert.Nil(t, cycles[0].PathStartS)
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		scenario string
		wantMsg  string
	}{
		{"unknown scenario field", "", `{"paths": []}`, "paths"},
		{"non monotonic path", "", `{"path": [{"s": 2, "l": 0}, {"s": 1, "l": 0}]}`, "monotonic"},
		{"bad vehicle override", "", `{"vehicle": {"width": 0}}`, "vehicle override"},
		{"bad config", `{"min_stop_distance_obstacle": -1}`, `{}`, "min_stop_distance_obstacle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := options{ScenarioPath: writeFile(t, "scenario.json", tt.scenario)}
			if tt.config != "" {
				opts.ConfigPath = writeFile(t, "decider.json", tt.config)
			}
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), opts, &stdout, &stderr)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadScenario_Missing(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}
