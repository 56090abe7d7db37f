package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskquest-server/internal/model"
)

// GameStats aggregates a player's settled sessions for the stats endpoint.
// NetXP comes from the XP ledger, not the session payouts: sessions store
// the displayed payout, which includes the returned stake.
type GameStats struct {
	TotalGames int64 `json:"total_games"`
	Wins       int64 `json:"wins"`
	Losses     int64 `json:"losses"`
	NetXP      int64 `json:"net_xp"`
}

// GameSessionRepository handles write-once game settlement records.
type GameSessionRepository struct {
	pool *pgxpool.Pool
}

// NewGameSessionRepository creates a new GameSessionRepository instance.
func NewGameSessionRepository(pool *pgxpool.Pool) *GameSessionRepository {
	return &GameSessionRepository{pool: pool}
}

// Record persists a settled session and returns it with its generated id.
func (r *GameSessionRepository) Record(ctx context.Context, playerID, gameType string, bet int64, state string, payout int64) (*model.GameSession, error) {
	const query = `
		INSERT INTO game_sessions (id, player_id, game_type, bet_amount, state, payout, ended_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING id, player_id, game_type, bet_amount, state, payout, ended_at
	`

	var session model.GameSession
	err := r.pool.QueryRow(ctx, query, uuid.NewString(), playerID, gameType, bet, state, payout).Scan(
		&session.ID,
		&session.PlayerID,
		&session.GameType,
		&session.Bet,
		&session.State,
		&session.Payout,
		&session.EndedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to record game session: %w", err)
	}

	return &session, nil
}

// GetHistory retrieves a player's settled sessions, newest first.
func (r *GameSessionRepository) GetHistory(ctx context.Context, playerID string, limit int) ([]*model.GameSession, error) {
	const query = `
		SELECT id, player_id, game_type, bet_amount, state, payout, ended_at
		FROM game_sessions
		WHERE player_id = $1
		ORDER BY ended_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get game history: %w", err)
	}
	defer rows.Close()

	var sessions []*model.GameSession
	for rows.Next() {
		var session model.GameSession
		err := rows.Scan(
			&session.ID,
			&session.PlayerID,
			&session.GameType,
			&session.Bet,
			&session.State,
			&session.Payout,
			&session.EndedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game session: %w", err)
		}
		sessions = append(sessions, &session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating game sessions: %w", err)
	}

	return sessions, nil
}

// GetStats aggregates a player's session counts.
func (r *GameSessionRepository) GetStats(ctx context.Context, playerID string) (*GameStats, error) {
	const query = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE state IN ('won', 'blackjack')),
		       COUNT(*) FILTER (WHERE state IN ('lost', 'bust', 'expired'))
		FROM game_sessions
		WHERE player_id = $1
	`

	var stats GameStats
	err := r.pool.QueryRow(ctx, query, playerID).Scan(
		&stats.TotalGames,
		&stats.Wins,
		&stats.Losses,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get game stats: %w", err)
	}

	return &stats, nil
}

// DeleteByPlayer removes all session records for a player. Used by full reset.
func (r *GameSessionRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM game_sessions WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete game sessions: %w", err)
	}
	return nil
}
