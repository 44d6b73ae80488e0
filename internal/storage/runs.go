package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/traxovo/fleetrec/internal/common"
	"github.com/traxovo/fleetrec/internal/model"
)

// SaveRun persists one reconciliation run with its match audit and
// classification records in a single transaction.
func (s *SQLiteStorage) SaveRun(ctx context.Context, run *model.Run, matches []model.MatchRecord, records []model.ClassificationRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, date, policy, is_test_data,
			total_drivers, on_time, late, early_end, not_on_job,
			exact_matches, fuzzy_matches, unmatched, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Date, run.Policy, run.IsTestData,
		run.Summary.TotalDrivers, run.Summary.OnTime, run.Summary.Late,
		run.Summary.EarlyEnd, run.Summary.NotOnJob,
		run.Summary.ExactMatches, run.Summary.FuzzyMatches, run.Summary.Unmatched,
		run.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert run %s: %w", run.ID, err)
	}

	matchStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO match_records (run_id, history_name, asset_list_name, match_type, score)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare match insert: %w", err)
	}
	defer func() { _ = matchStmt.Close() }()

	for _, m := range matches {
		if _, err := matchStmt.ExecContext(ctx, run.ID, m.HistoryName, m.AssetListName, string(m.Type), m.Score); err != nil {
			return fmt.Errorf("failed to insert match record for %q: %w", m.HistoryName, err)
		}
	}

	recStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO classification_records (run_id, driver, display_name, asset_ids,
			job_site, status, reason, key_on, key_off, minutes_late, minutes_early, in_driving_history)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare classification insert: %w", err)
	}
	defer func() { _ = recStmt.Close() }()

	for _, r := range records {
		if _, err := recStmt.ExecContext(ctx, run.ID, r.Driver, r.DisplayName,
			strings.Join(r.AssetIDs, ";"), r.JobSite, string(r.Status), r.Reason,
			r.KeyOn, r.KeyOff, r.MinutesLate, r.MinutesEarly, r.InDrivingHistory); err != nil {
			return fmt.Errorf("failed to insert classification for %q: %w", r.Driver, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run %s: %w", run.ID, err)
	}
	return nil
}

const runColumns = `id, date, policy, is_test_data,
	total_drivers, on_time, late, early_end, not_on_job,
	exact_matches, fuzzy_matches, unmatched, created_at`

func scanRun(scanner interface{ Scan(...any) error }) (*model.Run, error) {
	var run model.Run
	err := scanner.Scan(&run.ID, &run.Date, &run.Policy, &run.IsTestData,
		&run.Summary.TotalDrivers, &run.Summary.OnTime, &run.Summary.Late,
		&run.Summary.EarlyEnd, &run.Summary.NotOnJob,
		&run.Summary.ExactMatches, &run.Summary.FuzzyMatches, &run.Summary.Unmatched,
		&run.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// GetRun fetches one run by ID.
func (s *SQLiteStorage) GetRun(ctx context.Context, id string) (*model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: run %s", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs, newest first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}

// GetMatchRecords fetches the match audit for one run.
func (s *SQLiteStorage) GetMatchRecords(ctx context.Context, runID string) ([]model.MatchRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT history_name, asset_list_name, match_type, score
		FROM match_records WHERE run_id = ? ORDER BY history_name`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get match records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.MatchRecord
	for rows.Next() {
		var rec model.MatchRecord
		var assetName sql.NullString
		var matchType string
		if err := rows.Scan(&rec.HistoryName, &assetName, &matchType, &rec.Score); err != nil {
			return nil, fmt.Errorf("failed to scan match record: %w", err)
		}
		rec.AssetListName = assetName.String
		rec.Type = model.MatchType(matchType)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match records: %w", err)
	}
	return records, nil
}

// GetClassificationRecords fetches the per-driver outcomes for one run.
func (s *SQLiteStorage) GetClassificationRecords(ctx context.Context, runID string) ([]model.ClassificationRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(runID, "runID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT driver, display_name, asset_ids, job_site, status, reason,
			key_on, key_off, minutes_late, minutes_early, in_driving_history
		FROM classification_records WHERE run_id = ? ORDER BY driver`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get classification records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ClassificationRecord
	for rows.Next() {
		var rec model.ClassificationRecord
		var assetIDs, status string
		if err := rows.Scan(&rec.Driver, &rec.DisplayName, &assetIDs, &rec.JobSite,
			&status, &rec.Reason, &rec.KeyOn, &rec.KeyOff,
			&rec.MinutesLate, &rec.MinutesEarly, &rec.InDrivingHistory); err != nil {
			return nil, fmt.Errorf("failed to scan classification record: %w", err)
		}
		if assetIDs != "" {
			rec.AssetIDs = strings.Split(assetIDs, ";")
		}
		rec.Status = model.Status(status)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate classification records: %w", err)
	}
	return records, nil
}

// DeleteRunsBefore removes runs created before the cutoff, returning the
// number deleted. Child records cascade.
func (s *SQLiteStorage) DeleteRunsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted runs: %w", err)
	}
	return deleted, nil
}
