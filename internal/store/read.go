package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/sotastats/internal/model"
)

// SpotActivity returns (date, activator, summit) rows for an association
// inside the window, ordered by timestamp then id.
//
// Repeated rows are returned as-is; collapsing them is the report's job.
func (s *Store) SpotActivity(ctx context.Context, association string, w model.Window) ([]model.SpotActivity, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT date(timeStamp), activatorCallsign, summitCode
		FROM "%s"
		WHERE associationCode = ? AND timeStamp >= ? AND timeStamp < ?
		ORDER BY timeStamp ASC, id ASC
	`, s.tables.Spots), association, formatTime(w.Begin), formatTime(w.End))
	if err != nil {
		return nil, fmt.Errorf("query spot activity: %w", err)
	}
	defer rows.Close()

	activity := []model.SpotActivity{}
	for rows.Next() {
		var a model.SpotActivity
		if err := rows.Scan(&a.Date, &a.Activator, &a.SummitCode); err != nil {
			return nil, fmt.Errorf("scan spot activity: %w", err)
		}
		activity = append(activity, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate spot activity: %w", err)
	}

	return activity, nil
}

// SummitsActivated returns every snapshot row whose recorded activation date
// falls inside the window, ordered by summit code, refresh time and
// activation date.
func (s *Store) SummitsActivated(ctx context.Context, w model.Window) ([]model.Summit, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT summitCode, name, points, activationCount, activationDate, activationCall, refreshed
		FROM "%s"
		WHERE activationDate >= ? AND activationDate < ?
		ORDER BY summitCode ASC, refreshed ASC, activationDate ASC
	`, s.tables.Summits), formatTime(w.Begin), formatTime(w.End))
	if err != nil {
		return nil, fmt.Errorf("query activated summits: %w", err)
	}
	defer rows.Close()

	return scanSummits(rows)
}

// SummitHistory returns up to limit snapshots of one summit, most recent first.
func (s *Store) SummitHistory(ctx context.Context, code string, limit int) ([]model.Summit, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT summitCode, name, points, activationCount, activationDate, activationCall, refreshed
		FROM "%s"
		WHERE summitCode = ?
		ORDER BY refreshed DESC
		LIMIT ?
	`, s.tables.Summits), code, limit)
	if err != nil {
		return nil, fmt.Errorf("query summit history: %w", err)
	}
	defer rows.Close()

	return scanSummits(rows)
}

// LatestRefresh returns the newest snapshot timestamp.
// ok is false when no snapshot has been stored yet.
func (s *Store) LatestRefresh(ctx context.Context) (latest time.Time, ok bool, err error) {
	var ns sql.NullString
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT MAX(refreshed) FROM "%s"`, s.tables.Summits)).Scan(&ns)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("query latest refresh: %w", err)
	}
	if !ns.Valid {
		return time.Time{}, false, nil
	}
	latest, err = parseTime(ns.String)
	if err != nil {
		return time.Time{}, false, err
	}
	return latest, true, nil
}

// Counts returns the number of stored spots and snapshot rows.
func (s *Store) Counts(ctx context.Context) (spots, snapshots int, err error) {
	err = s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT (SELECT COUNT(*) FROM "%s"), (SELECT COUNT(*) FROM "%s")
	`, s.tables.Spots, s.tables.Summits)).Scan(&spots, &snapshots)
	if err != nil {
		return 0, 0, fmt.Errorf("count rows: %w", err)
	}
	return spots, snapshots, nil
}

// ReadSpot retrieves a single spot by id.
// Returns sql.ErrNoRows if not found.
func (s *Store) ReadSpot(ctx context.Context, id int64) (model.Spot, error) {
	row := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT id, timeStamp, activatorCallsign, associationCode, summitCode, frequency,
		       mode, summitDetails, comments, highlightColor, callsign, activatorName, userID
		FROM "%s"
		WHERE id = ?
	`, s.tables.Spots), id)

	var sp model.Spot
	var ts string
	var comments sql.NullString
	err := row.Scan(
		&sp.ID,
		&ts,
		&sp.ActivatorCallsign,
		&sp.AssociationCode,
		&sp.SummitCode,
		&sp.Frequency,
		&sp.Mode,
		&sp.SummitDetails,
		&comments,
		&sp.HighlightColor,
		&sp.Callsign,
		&sp.ActivatorName,
		&sp.UserID,
	)
	if err != nil {
		return model.Spot{}, err
	}
	if sp.TimeStamp, err = parseTime(ts); err != nil {
		return model.Spot{}, err
	}
	sp.Comments = stringPtr(comments)
	return sp, nil
}

func scanSummits(rows *sql.Rows) ([]model.Summit, error) {
	summits := []model.Summit{}
	for rows.Next() {
		var (
			sm        model.Summit
			date      sql.NullString
			call      sql.NullString
			refreshed string
		)
		if err := rows.Scan(
			&sm.SummitCode,
			&sm.Name,
			&sm.Points,
			&sm.ActivationCount,
			&date,
			&call,
			&refreshed,
		); err != nil {
			return nil, fmt.Errorf("scan summit: %w", err)
		}

		var err error
		if sm.ActivationDate, err = parseNullTime(date); err != nil {
			return nil, err
		}
		sm.ActivationCall = stringPtr(call)
		if sm.Refreshed, err = parseTime(refreshed); err != nil {
			return nil, err
		}
		summits = append(summits, sm)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate summits: %w", err)
	}
	return summits, nil
}
