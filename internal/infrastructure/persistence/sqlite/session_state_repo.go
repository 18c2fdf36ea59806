package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/neuralweb/neuralweb/internal/domain/entity"
	"github.com/neuralweb/neuralweb/internal/domain/repository"
	"github.com/neuralweb/neuralweb/internal/logging"
)

type sessionStateRepo struct {
	db *sql.DB
}

// NewSessionStateRepository creates a SQLite-backed session state repository.
func NewSessionStateRepository(db *sql.DB) repository.SessionStateRepository {
	return &sessionStateRepo{db: db}
}

// SaveSnapshot saves or replaces the snapshot for a window.
func (r *sessionStateRepo) SaveSnapshot(ctx context.Context, state *entity.SessionState) error {
	log := logging.FromContext(ctx)
	if state == nil {
		return errors.New("session state cannot be nil")
	}
	if state.WindowID == "" {
		return errors.New("session state requires a window id")
	}

	stateJSON, err := json.Marshal(state)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal session state")
		return err
	}

	log.Debug().
		Str("window_id", string(state.WindowID)).
		Int("tab_count", len(state.Tabs)).
		Msg("saving session state snapshot")

	const query = `
		INSERT INTO session_states (window_id, state_json, version, tab_count, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (window_id) DO UPDATE SET
			state_json = excluded.state_json,
			version = excluded.version,
			tab_count = excluded.tab_count,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		string(state.WindowID), string(stateJSON), state.Version, len(state.Tabs), state.SavedAt)
	if err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}
	return nil
}

// GetSnapshot returns the latest snapshot for a window, or nil.
func (r *sessionStateRepo) GetSnapshot(ctx context.Context, windowID entity.WindowID) (*entity.SessionState, error) {
	var stateJSON string
	err := r.db.QueryRowContext(ctx,
		`SELECT state_json FROM session_states WHERE window_id = ?`, string(windowID),
	).Scan(&stateJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session snapshot: %w", err)
	}

	var state entity.SessionState
	if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
		logging.FromContext(ctx).Error().Err(err).
			Str("window_id", string(windowID)).
			Msg("failed to unmarshal session state")
		return nil, err
	}
	return &state, nil
}

// DeleteSnapshot removes a window's snapshot.
func (r *sessionStateRepo) DeleteSnapshot(ctx context.Context, windowID entity.WindowID) error {
	logging.FromContext(ctx).Debug().
		Str("window_id", string(windowID)).
		Msg("deleting session state snapshot")
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM session_states WHERE window_id = ?`, string(windowID))
	if err != nil {
		return fmt.Errorf("delete session snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns all stored snapshots, newest first. Corrupted rows
// are skipped with a warning rather than failing the whole listing.
func (r *sessionStateRepo) ListSnapshots(ctx context.Context) ([]*entity.SessionState, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT window_id, state_json FROM session_states ORDER BY updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list session snapshots: %w", err)
	}
	defer rows.Close()

	var states []*entity.SessionState
	for rows.Next() {
		var windowID, stateJSON string
		if err := rows.Scan(&windowID, &stateJSON); err != nil {
			return nil, fmt.Errorf("scan session state row: %w", err)
		}
		var state entity.SessionState
		if err := json.Unmarshal([]byte(stateJSON), &state); err != nil {
			logging.FromContext(ctx).Warn().Err(err).
				Str("window_id", windowID).
				Msg("skipping corrupted session state")
			continue
		}
		states = append(states, &state)
	}
	return states, rows.Err()
}
