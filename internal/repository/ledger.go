package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskquest-server/internal/model"
)

// LedgerRepository handles the append-only XP ledger. Every XP change goes
// through AppendEntry so the users.xp column and the ledger can never drift.
type LedgerRepository struct {
	pool *pgxpool.Pool
}

// NewLedgerRepository creates a new LedgerRepository instance.
func NewLedgerRepository(pool *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{pool: pool}
}

// AppendEntry atomically applies an XP delta to a player and records it.
// The post-balance is clamped at zero: a debit larger than the balance
// empties the balance rather than failing. The clamped entry still records
// the requested amount, so Amount may exceed BalanceBefore-BalanceAfter.
func (r *LedgerRepository) AppendEntry(ctx context.Context, playerID string, amount int64, source string) (*model.LedgerEntry, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var before int64
	err = tx.QueryRow(ctx, `SELECT xp FROM users WHERE player_id = $1 FOR UPDATE`, playerID).Scan(&before)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to lock user row: %w", err)
	}

	after := before + amount
	if after < 0 {
		after = 0
	}

	var entry model.LedgerEntry
	err = tx.QueryRow(ctx, `
		INSERT INTO xp_ledger (player_id, amount, source, balance_before, balance_after, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING id, player_id, amount, source, balance_before, balance_after, created_at
	`, playerID, amount, source, before, after).Scan(
		&entry.ID,
		&entry.PlayerID,
		&entry.Amount,
		&entry.Source,
		&entry.BalanceBefore,
		&entry.BalanceAfter,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ledger entry: %w", err)
	}

	_, err = tx.Exec(ctx, `
		UPDATE users SET xp = $2, level = $3, updated_at = NOW() WHERE player_id = $1
	`, playerID, after, model.LevelForXP(after))
	if err != nil {
		return nil, fmt.Errorf("failed to update balance: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit ledger entry: %w", err)
	}

	return &entry, nil
}

// GetHistory retrieves a player's ledger entries, newest first.
func (r *LedgerRepository) GetHistory(ctx context.Context, playerID string, limit int) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, player_id, amount, source, balance_before, balance_after, created_at
		FROM xp_ledger
		WHERE player_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, playerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.Amount,
			&entry.Source,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

// GetBySource retrieves a player's ledger entries filtered by source tag.
func (r *LedgerRepository) GetBySource(ctx context.Context, playerID, source string, limit int) ([]*model.LedgerEntry, error) {
	const query = `
		SELECT id, player_id, amount, source, balance_before, balance_after, created_at
		FROM xp_ledger
		WHERE player_id = $1 AND source = $2
		ORDER BY created_at DESC, id DESC
		LIMIT $3
	`

	rows, err := r.pool.Query(ctx, query, playerID, source, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger history: %w", err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.PlayerID,
			&entry.Amount,
			&entry.Source,
			&entry.BalanceBefore,
			&entry.BalanceAfter,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}

	return entries, nil
}

// SumBySource returns the net XP movement for one source tag.
func (r *LedgerRepository) SumBySource(ctx context.Context, playerID, source string) (int64, error) {
	const query = `
		SELECT COALESCE(SUM(amount), 0)
		FROM xp_ledger
		WHERE player_id = $1 AND source = $2
	`

	var sum int64
	if err := r.pool.QueryRow(ctx, query, playerID, source).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return sum, nil
}

// DeleteByPlayer removes all ledger entries for a player. Used by full reset.
func (r *LedgerRepository) DeleteByPlayer(ctx context.Context, playerID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM xp_ledger WHERE player_id = $1`, playerID)
	if err != nil {
		return fmt.Errorf("failed to delete ledger entries: %w", err)
	}
	return nil
}
