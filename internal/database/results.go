// internal/database/results.go
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// RecordGameResults persists the terminal outcome of a finished game: one
// games row plus a game_results row per seat. In-flight game state is never
// persisted; only final standings are.
func RecordGameResults(ctx context.Context, gameID uuid.UUID, winner uuid.UUID, scores map[uuid.UUID]int) error {
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertGame := `
			INSERT INTO games (id, status)
			VALUES ($1, 'completed')
			ON CONFLICT (id) DO UPDATE SET status = 'completed'
		`
		if _, err := tx.Exec(ctx, upsertGame, gameID); err != nil {
			return err
		}

		q := `
			INSERT INTO game_results (game_id, player_id, score, did_win)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (game_id, player_id)
			DO UPDATE SET score=$3, did_win=$4
		`
		for playerID, score := range scores {
			if _, err := tx.Exec(ctx, q, gameID, playerID, score, playerID == winner); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("record game results: %w", err)
	}
	return nil
}

// InsertGameActions bulk-inserts archived action records; used by the
// historian worker.
func InsertGameActions(ctx context.Context, rows [][]interface{}) error {
	_, err := DB.CopyFrom(ctx,
		pgx.Identifier{"game_actions"},
		[]string{"game_id", "action_index", "actor_player_id", "action_type", "action_payload", "occurred_at"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("copy game actions: %w", err)
	}
	return nil
}
