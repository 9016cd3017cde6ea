package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/sotastats/internal/model"
)

// Tx groups the writes of one scheduler trigger firing.
//
// Individual writes may fail without invalidating the transaction: SQLite
// aborts only the failing statement. Commit makes every successful write
// durable at once.
type Tx struct {
	tx     *sql.Tx
	tables Tables
}

// UpsertSpot inserts a spot, replacing any existing row with the same id.
// Storing the same id twice leaves one row holding the second write.
func (t *Tx) UpsertSpot(ctx context.Context, s model.Spot) error {
	_, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO "%s"
		(id, timeStamp, activatorCallsign, associationCode, summitCode, frequency,
		 mode, summitDetails, comments, highlightColor, callsign, activatorName, userID)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			timeStamp = excluded.timeStamp,
			activatorCallsign = excluded.activatorCallsign,
			associationCode = excluded.associationCode,
			summitCode = excluded.summitCode,
			frequency = excluded.frequency,
			mode = excluded.mode,
			summitDetails = excluded.summitDetails,
			comments = excluded.comments,
			highlightColor = excluded.highlightColor,
			callsign = excluded.callsign,
			activatorName = excluded.activatorName,
			userID = excluded.userID
	`, t.tables.Spots),
		s.ID,
		formatTime(s.TimeStamp),
		s.ActivatorCallsign,
		s.AssociationCode,
		s.SummitCode,
		s.Frequency,
		s.Mode,
		s.SummitDetails,
		nullString(s.Comments),
		s.HighlightColor,
		s.Callsign,
		s.ActivatorName,
		s.UserID,
	)
	if err != nil {
		return fmt.Errorf("upsert spot %d: %w", s.ID, err)
	}
	return nil
}

// AppendSnapshot records one summit snapshot.
//
// The statement is INSERT OR REPLACE on (summitCode, refreshed), but callers
// always pass a refresh time newer than any stored one, so nothing is replaced.
func (t *Tx) AppendSnapshot(ctx context.Context, s model.Summit) error {
	_, err := t.tx.ExecContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO "%s"
		(summitCode, name, points, activationCount, activationDate, activationCall, refreshed)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, t.tables.Summits),
		s.SummitCode,
		s.Name,
		s.Points,
		s.ActivationCount,
		nullTime(s.ActivationDate),
		nullString(s.ActivationCall),
		formatTime(s.Refreshed),
	)
	if err != nil {
		return fmt.Errorf("append snapshot %s: %w", s.SummitCode, err)
	}
	return nil
}

// Commit makes all successful writes durable.
func (t *Tx) Commit() error {
	if err := t.tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Rollback discards the transaction. It is a no-op after Commit.
func (t *Tx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("rollback: %w", err)
	}
	return nil
}
