package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muratoffalex/tgchecker/internal/probe"
)

func (s *sqliteDB) Append(ctx context.Context, rec probe.Record, state probe.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO probe_records (id, requester_id, stage, phone_number, correlation_token, outcome, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.RequesterID, rec.Stage, rec.PhoneNumber, rec.CorrelationToken, rec.Outcome, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO probe_states (requester_id, phone_number, correlation_token, stage, outcome, awaiting_second_factor, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(requester_id) DO UPDATE SET
			phone_number = excluded.phone_number,
			correlation_token = excluded.correlation_token,
			stage = excluded.stage,
			outcome = excluded.outcome,
			awaiting_second_factor = excluded.awaiting_second_factor,
			updated_at = excluded.updated_at
	`, state.RequesterID, state.PhoneNumber, state.CorrelationToken, state.Stage, state.Outcome,
		state.AwaitingSecondFactor, state.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	return tx.Commit()
}

func (s *sqliteDB) FindLatest(ctx context.Context, requesterID int64, filter probe.Filter) (*probe.Record, error) {
	where := []string{"requester_id = ?"}
	args := []any{requesterID}
	if filter.Stage != "" {
		where = append(where, "stage = ?")
		args = append(args, filter.Stage)
	}
	if filter.Outcome != "" {
		where = append(where, "outcome = ?")
		args = append(args, filter.Outcome)
	}

	query := `
		SELECT id, requester_id, stage, phone_number, correlation_token, outcome, created_at
		FROM probe_records
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY seq DESC
		LIMIT 1`

	var rec probe.Record
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&rec.ID,
		&rec.RequesterID,
		&rec.Stage,
		&rec.PhoneNumber,
		&rec.CorrelationToken,
		&rec.Outcome,
		&rec.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *sqliteDB) GetState(ctx context.Context, requesterID int64) (*probe.State, error) {
	var state probe.State
	err := s.db.QueryRowContext(ctx, `
		SELECT requester_id, phone_number, correlation_token, stage, outcome, awaiting_second_factor, updated_at
		FROM probe_states WHERE requester_id = ?`, requesterID).Scan(
		&state.RequesterID,
		&state.PhoneNumber,
		&state.CorrelationToken,
		&state.Stage,
		&state.Outcome,
		&state.AwaitingSecondFactor,
		&state.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, probe.ErrNoState
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *sqliteDB) LoadSession(ctx context.Context, requesterID int64) ([]byte, error) {
	var data []byte
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM probe_sessions WHERE requester_id = ?", requesterID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return data, err
}

func (s *sqliteDB) StoreSession(ctx context.Context, requesterID int64, data []byte) error {
	_, err := s.ExecWithRetry(ctx, `
		INSERT INTO probe_sessions (requester_id, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(requester_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, requesterID, data, time.Now().UTC())
	return err
}

func (s *sqliteDB) DeleteSession(ctx context.Context, requesterID int64) error {
	_, err := s.ExecWithRetry(ctx, "DELETE FROM probe_sessions WHERE requester_id = ?", requesterID)
	return err
}
