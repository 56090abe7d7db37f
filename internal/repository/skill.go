package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"taskquest-server/internal/model"
)

// SkillRepository handles purchased skill persistence. One row per
// (player, skill) with its current level.
type SkillRepository struct {
	pool *pgxpool.Pool
}

// NewSkillRepository creates a new SkillRepository instance.
func NewSkillRepository(pool *pgxpool.Pool) *SkillRepository {
	return &SkillRepository{pool: pool}
}

// GetLevels returns all of a player's skill levels keyed by skill id.
// Players with no unlocks get an empty map.
func (r *SkillRepository) GetLevels(ctx context.Context, playerID string) (map[string]int, error) {
	const query = `
		SELECT skill_id, level FROM skill_unlocks
		WHERE player_id = $1
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill levels: %w", err)
	}
	defer rows.Close()

	levels := make(map[string]int)
	for rows.Next() {
		var skillID string
		var level int
		if err := rows.Scan(&skillID, &level); err != nil {
			return nil, fmt.Errorf("failed to scan skill unlock: %w", err)
		}
		levels[skillID] = level
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill unlocks: %w", err)
	}

	return levels, nil
}

// GetAll returns a player's skill unlock rows.
func (r *SkillRepository) GetAll(ctx context.Context, playerID string) ([]*model.SkillUnlock, error) {
	const query = `
		SELECT player_id, skill_id, level FROM skill_unlocks
		WHERE player_id = $1
		ORDER BY skill_id
	`

	rows, err := r.pool.Query(ctx, query, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get skill unlocks: %w", err)
	}
	defer rows.Close()

	var unlocks []*model.SkillUnlock
	for rows.Next() {
		var unlock model.SkillUnlock
		if err := rows.Scan(&unlock.PlayerID, &unlock.SkillID, &unlock.Level); err != nil {
			return nil, fmt.Errorf("failed to scan skill unlock: %w", err)
		}
		unlocks = append(unlocks, &unlock)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating skill unlocks: %w", err)
	}

	return unlocks, nil
}

// Upsert sets a skill to the given level, inserting the row on first unlock.
func (r *SkillRepository) Upsert(ctx context.Context, playerID, skillID string, level int) error {
	const query = `
		INSERT INTO skill_unlocks (player_id, skill_id, level)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, skill_id)
		DO UPDATE SET level = $3
	`

	_, err := r.pool.Exec(ctx, query, playerID, skillID, level)
	if err != nil {
		return fmt.Errorf("failed to upsert skill unlock: %w", err)
	}

	return nil
}

// DeleteByPlayer removes all skill unlocks for a player. Used by full reset.
func (r *SkillRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM skill_unlocks WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete skill unlocks: %w", err)
	}
	return nil
}
