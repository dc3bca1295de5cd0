package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/path.decider/internal/planning/decision"
	"github.com/banshee-data/path.decider/internal/planning/frenet"
	"github.com/banshee-data/path.decider/internal/planning/pathdecider"
	"github.com/banshee-data/path.decider/internal/planning/pathdecision"
)

// ErrCycleNotFound is returned when a cycle id has no row.
var ErrCycleNotFound = errors.New("cycle not found")

// CycleRecord is one decider cycle ready to be written.
type CycleRecord struct {
	RecordedAt time.Time
	Params     string
	// PathStartS and PathEndS are nil when the path was empty.
	PathStartS *float64
	PathEndS   *float64
	// Err is the cycle-level failure, if any.
	Err       string
	Decisions []DecisionRow
}

// DecisionRow is the stored outcome for a single obstacle.
type DecisionRow struct {
	ObstacleID       string
	Outcome          string
	CurrL            *float64
	Longitudinal     json.RawMessage
	Lateral          json.RawMessage
	LongitudinalTags []string
	LateralTags      []string
	SinkError        string
}

// CycleSummary is a row of the cycles table with a decision count.
type CycleSummary struct {
	CycleID    string
	RecordedAt time.Time
	Params     string
	PathStartS *float64
	PathEndS   *float64
	Err        string
	Decisions  int
}

// NewCycleRecord captures the state of pd after a pass. cycleErr is the
// error returned by the pass, or nil.
func NewCycleRecord(at time.Time, params pathdecider.Params, path *frenet.FrenetFramePath, report pathdecider.Report, pd *pathdecision.PathDecision, cycleErr error) (CycleRecord, error) {
	rec := CycleRecord{RecordedAt: at, Params: params.String()}
	if cycleErr != nil {
		rec.Err = cycleErr.Error()
	}
	if !path.Empty() {
		start, end := path.Front().S, path.Back().S
		rec.PathStartS, rec.PathEndS = &start, &end
	}

	for _, or := range report.Obstacles {
		row := DecisionRow{ObstacleID: or.ID, Outcome: or.Outcome.String()}
		if or.Err != nil {
			row.SinkError = or.Err.Error()
		}
		if !or.Outcome.Skipped() && or.Outcome != pathdecider.OutcomeOutOfRange {
			l := or.CurrL
			row.CurrL = &l
		}
		if pd != nil {
			if po, ok := pd.Find(or.ID); ok {
				var err error
				if row.Longitudinal, err = marshalDecision(po.LongitudinalDecision()); err != nil {
					return CycleRecord{}, fmt.Errorf("obstacle %s: %w", or.ID, err)
				}
				if row.Lateral, err = marshalDecision(po.LateralDecision()); err != nil {
					return CycleRecord{}, fmt.Errorf("obstacle %s: %w", or.ID, err)
				}
				row.LongitudinalTags = po.LongitudinalTags()
				row.LateralTags = po.LateralTags()
			}
		}
		rec.Decisions = append(rec.Decisions, row)
	}
	return rec, nil
}

func marshalDecision(d decision.Decision) (json.RawMessage, error) {
	if d == nil {
		return nil, nil
	}
	return decision.Marshal(d)
}

// RecordCycle stores rec in a single transaction and returns the new cycle id.
func (db *DB) RecordCycle(ctx context.Context, rec CycleRecord) (string, error) {
	id := uuid.NewString()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO cycles (cycle_id, recorded_at_ns, params, path_start_s, path_end_s, error)
		VALUES (?, ?, ?, ?, ?, ?)`,
		id, rec.RecordedAt.UnixNano(), rec.Params, nullFloat(rec.PathStartS), nullFloat(rec.PathEndS), nullString(rec.Err))
	if err != nil {
		return "", fmt.Errorf("failed to insert cycle: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO obstacle_decisions (
			cycle_id, seq, obstacle_id, outcome, curr_l,
			longitudinal, lateral, longitudinal_tags, lateral_tags, sink_error
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("failed to prepare decision insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rec.Decisions {
		longTags, err := marshalTags(row.LongitudinalTags)
		if err != nil {
			return "", err
		}
		latTags, err := marshalTags(row.LateralTags)
		if err != nil {
			return "", err
		}
		_, err = stmt.ExecContext(ctx,
			id, i, row.ObstacleID, row.Outcome, nullFloat(row.CurrL),
			nullRaw(row.Longitudinal), nullRaw(row.Lateral), longTags, latTags, nullString(row.SinkError))
		if err != nil {
			return "", fmt.Errorf("failed to insert decision for %s: %w", row.ObstacleID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit cycle: %w", err)
	}
	return id, nil
}

// CycleDecisions returns the decisions stored for cycleID in pass order.
func (db *DB) CycleDecisions(ctx context.Context, cycleID string) ([]DecisionRow, error) {
	var exists int
	err := db.QueryRowContext(ctx, `SELECT 1 FROM cycles WHERE cycle_id = ?`, cycleID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrCycleNotFound, cycleID)
	}
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT obstacle_id, outcome, curr_l, longitudinal, lateral,
		       longitudinal_tags, lateral_tags, sink_error
		FROM obstacle_decisions
		WHERE cycle_id = ?
		ORDER BY seq`, cycleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DecisionRow
	for rows.Next() {
		var (
			row               DecisionRow
			currL             sql.NullFloat64
			longD, latD       sql.NullString
			longTags, latTags string
			sinkErr           sql.NullString
		)
		if err := rows.Scan(&row.ObstacleID, &row.Outcome, &currL, &longD, &latD, &longTags, &latTags, &sinkErr); err != nil {
			return nil, err
		}
		if currL.Valid {
			v := currL.Float64
			row.CurrL = &v
		}
		if longD.Valid {
			row.Longitudinal = json.RawMessage(longD.String)
		}
		if latD.Valid {
			row.Lateral = json.RawMessage(latD.String)
		}
		if row.LongitudinalTags, err = unmarshalTags(longTags); err != nil {
			return nil, fmt.Errorf("failed to parse longitudinal tags: %w", err)
		}
		if row.LateralTags, err = unmarshalTags(latTags); err != nil {
			return nil, fmt.Errorf("failed to parse lateral tags: %w", err)
		}
		row.SinkError = sinkErr.String
		out = append(out, row)
	}
	return out, rows.Err()
}

// Cycles returns the most recent cycles, newest first. limit <= 0 returns all.
func (db *DB) Cycles(ctx context.Context, limit int) ([]CycleSummary, error) {
	query := `
		SELECT c.cycle_id, c.recorded_at_ns, c.params, c.path_start_s, c.path_end_s, c.error,
		       (SELECT COUNT(*) FROM obstacle_decisions d WHERE d.cycle_id = c.cycle_id)
		FROM cycles c
		ORDER BY c.recorded_at_ns DESC, c.rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleSummary
	for rows.Next() {
		var (
			s            CycleSummary
			recordedAt   int64
			startS, endS sql.NullFloat64
			cycleErr     sql.NullString
		)
		if err := rows.Scan(&s.CycleID, &recordedAt, &s.Params, &startS, &endS, &cycleErr, &s.Decisions); err != nil {
			return nil, err
		}
		s.RecordedAt = time.Unix(0, recordedAt)
		if startS.Valid {
			v := startS.Float64
			s.PathStartS = &v
		}
		if endS.Valid {
			v := endS.Float64
			s.PathEndS = &v
		}
		s.Err = cycleErr.String
		out = append(out, s)
	}
	return out, rows.Err()
}

// Decode parses the stored longitudinal and lateral decisions.
func (r DecisionRow) Decode() (longitudinal, lateral decision.Decision, err error) {
	if len(r.Longitudinal) > 0 {
		if longitudinal, err = decision.Unmarshal(r.Longitudinal); err != nil {
			return nil, nil, err
		}
	}
	if len(r.Lateral) > 0 {
		if lateral, err = decision.Unmarshal(r.Lateral); err != nil {
			return nil, nil, err
		}
	}
	return longitudinal, lateral, nil
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("failed to encode tags: %w", err)
	}
	return string(b), nil
}

// unmarshalTags returns nil for an empty list.
func unmarshalTags(s string) ([]string, error) {
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, nil
	}
	return tags, nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullRaw(b json.RawMessage) sql.NullString {
	if len(b) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: string(b), Valid: true}
}
