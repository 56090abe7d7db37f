package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskquest-server/internal/model"
)

// AchievementRepository handles achievement unlock persistence. Rows are
// append-only and unique per (player, key).
type AchievementRepository struct {
	pool *pgxpool.Pool
}

// NewAchievementRepository creates a new AchievementRepository instance.
func NewAchievementRepository(pool *pgxpool.Pool) *AchievementRepository {
	return &AchievementRepository{pool: pool}
}

// GetKeys returns the set of achievement keys a player has unlocked.
func (r *AchievementRepository) GetKeys(ctx context.Context, playerID string) (map[string]struct{}, error) {
	const query = `
		SELECT achievement_key FROM achievement_unlocks
		WHERE player_id = $1
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement keys: %w", err)
	}
	defer rows.Close()

	keys := make(map[string]struct{})
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan achievement key: %w", err)
		}
		keys[key] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement keys: %w", err)
	}

	return keys, nil
}

// GetAll returns a player's achievement unlocks, oldest first.
func (r *AchievementRepository) GetAll(ctx context.Context, playerID string) ([]*model.AchievementUnlock, error) {
	const query = `
		SELECT player_id, achievement_key, unlocked_at FROM achievement_unlocks
		WHERE player_id = $1
		ORDER BY unlocked_at ASC
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get achievement unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []*model.AchievementUnlock
	for rows.Next() {
		var unlock model.AchievementUnlock
		if err := rows.Scan(&unlock.PlayerID, &unlock.Key, &unlock.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement unlock: %w", err)
		}
		unlocks = append(unlocks, &unlock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating achievement unlocks: %w", err)
	}

	return unlocks, nil
}

// Insert records an achievement unlock. Concurrent duplicates are absorbed
// by ON CONFLICT DO NOTHING; the return value reports whether this call
// actually inserted the row.
func (r *AchievementRepository) Insert(ctx context.Context, playerID, key string) (bool, error) {
	const query = `
		INSERT INTO achievement_unlocks (player_id, achievement_key, unlocked_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (player_id, achievement_key) DO NOTHING
	`

	result, err := r.pool.Exec(ctx, query, playerID, key)
	if err != nil {
		return false, fmt.Errorf("failed to insert achievement unlock: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

// DeleteByPlayer removes all achievement unlocks for a player. Used by full reset.
func (r *AchievementRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM achievement_unlocks WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete achievement unlocks: %w", err)
	}
	return nil
}
