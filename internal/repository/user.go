// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taskquest-server/internal/model"
)

// Common errors for repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
)

const userColumns = `
	player_id, username, xp, level, class,
	owns_hero, owns_gambler, owns_assassin, owns_wizard, owns_archer, owns_tank,
	assassin_streak, assassin_stacks, wizard_counter, archer_streak, tank_stacks,
	streak_count, last_daily_claim, gamification_enabled,
	total_lists_created, total_items_added, total_items_completed,
	created_at, updated_at`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.PlayerID,
		&u.Username,
		&u.XP,
		&u.Level,
		&u.Class,
		&u.OwnsHero,
		&u.OwnsGambler,
		&u.OwnsAssassin,
		&u.OwnsWizard,
		&u.OwnsArcher,
		&u.OwnsTank,
		&u.AssassinStreak,
		&u.AssassinStacks,
		&u.WizardCounter,
		&u.ArcherStreak,
		&u.TankStacks,
		&u.StreakCount,
		&u.LastDailyClaim,
		&u.Gamification,
		&u.ListsCreated,
		&u.ItemsAdded,
		&u.ItemsCompleted,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UserRepository handles player progression persistence.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository instance.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

// Create creates a new player row with zero XP, level 1 and the default class.
func (r *UserRepository) Create(ctx context.Context, playerID, username string) (*model.User, error) {
	query := `
		INSERT INTO users (player_id, username, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		RETURNING` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, playerID, username))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

// GetByID retrieves a player by their external player ID.
// Returns ErrUserNotFound if the player does not exist.
func (r *UserRepository) GetByID(ctx context.Context, playerID string) (*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users WHERE player_id = $1`

	user, err := scanUser(r.pool.QueryRow(ctx, query, playerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// GetOrCreate retrieves a player, creating the row if it doesn't exist.
// Every entry point goes through this so players materialize lazily.
func (r *UserRepository) GetOrCreate(ctx context.Context, playerID, username string) (*model.User, bool, error) {
	user, err := r.GetByID(ctx, playerID)
	if err == nil {
		return user, false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, false, err
	}

	user, err = r.Create(ctx, playerID, username)
	if err != nil {
		// Handle race condition: another request might have created the row
		user, err = r.GetByID(ctx, playerID)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	return user, true, nil
}

// ApplyCounterPatch persists the class-counter updates carried by a patch.
// Only non-nil fields are written; an empty patch is a no-op.
func (r *UserRepository) ApplyCounterPatch(ctx context.Context, playerID string, patch *model.CounterPatch) error {
	if patch.IsEmpty() {
		return nil
	}

	set := "updated_at = NOW()"
	args := []any{playerID}
	add := func(column string, value int) {
		args = append(args, value)
		set += fmt.Sprintf(", %s = $%d", column, len(args))
	}

	if patch.AssassinStreak != nil {
		add("assassin_streak", *patch.AssassinStreak)
	}
	if patch.AssassinStacks != nil {
		add("assassin_stacks", *patch.AssassinStacks)
	}
	if patch.WizardCounter != nil {
		add("wizard_counter", *patch.WizardCounter)
	}
	if patch.ArcherStreak != nil {
		add("archer_streak", *patch.ArcherStreak)
	}
	if patch.TankStacks != nil {
		add("tank_stacks", *patch.TankStacks)
	}

	query := fmt.Sprintf("UPDATE users SET %s WHERE player_id = $1", set)
	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to apply counter patch: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// IncrementCounters bumps the lifetime activity counters by the given deltas.
func (r *UserRepository) IncrementCounters(ctx context.Context, playerID string, lists, items, completes int64) error {
	const query = `
		UPDATE users
		SET total_lists_created = total_lists_created + $2,
		    total_items_added = total_items_added + $3,
		    total_items_completed = total_items_completed + $4,
		    updated_at = NOW()
		WHERE player_id = $1
	`

	result, err := r.pool.Exec(ctx, query, playerID, lists, items, completes)
	if err != nil {
		return fmt.Errorf("failed to increment counters: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GrantClass marks a class as owned by the player.
func (r *UserRepository) GrantClass(ctx context.Context, playerID, class string) error {
	var column string
	switch class {
	case "HERO":
		column = "owns_hero"
	case "GAMBLER":
		column = "owns_gambler"
	case "ASSASSIN":
		column = "owns_assassin"
	case "WIZARD":
		column = "owns_wizard"
	case "ARCHER":
		column = "owns_archer"
	case "TANK":
		column = "owns_tank"
	default:
		return fmt.Errorf("class %q is not purchasable", class)
	}

	query := fmt.Sprintf("UPDATE users SET %s = TRUE, updated_at = NOW() WHERE player_id = $1", column)
	result, err := r.pool.Exec(ctx, query, playerID)
	if err != nil {
		return fmt.Errorf("failed to grant class: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetClass equips a class and resets all per-class counters. Switching away
// and back never carries over charge or stacks.
func (r *UserRepository) SetClass(ctx context.Context, playerID, class string) (*model.User, error) {
	query := `
		UPDATE users
		SET class = $2,
		    assassin_streak = 0, assassin_stacks = 0,
		    wizard_counter = 0, archer_streak = 0, tank_stacks = 0,
		    updated_at = NOW()
		WHERE player_id = $1
		RETURNING` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, playerID, class))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to set class: %w", err)
	}

	return user, nil
}

// UpdateDailyClaim records a successful daily claim with its new streak count.
func (r *UserRepository) UpdateDailyClaim(ctx context.Context, playerID string, claimTime time.Time, streak int) error {
	const query = `
		UPDATE users
		SET last_daily_claim = $2, streak_count = $3, updated_at = NOW()
		WHERE player_id = $1
	`

	result, err := r.pool.Exec(ctx, query, playerID, claimTime, streak)
	if err != nil {
		return fmt.Errorf("failed to update daily claim: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// SetGamification toggles the gamification opt-out flag.
func (r *UserRepository) SetGamification(ctx context.Context, playerID string, enabled bool) error {
	const query = `
		UPDATE users
		SET gamification_enabled = $2, updated_at = NOW()
		WHERE player_id = $1
	`

	result, err := r.pool.Exec(ctx, query, playerID, enabled)
	if err != nil {
		return fmt.Errorf("failed to set gamification flag: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateUsername updates a player's display name.
func (r *UserRepository) UpdateUsername(ctx context.Context, playerID, username string) error {
	const query = `
		UPDATE users
		SET username = $2, updated_at = NOW()
		WHERE player_id = $1
	`

	result, err := r.pool.Exec(ctx, query, playerID, username)
	if err != nil {
		return fmt.Errorf("failed to update username: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// GetTopUsers retrieves the top N players by XP.
func (r *UserRepository) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	query := `SELECT` + userColumns + ` FROM users
		WHERE gamification_enabled = TRUE
		ORDER BY xp DESC, player_id ASC LIMIT $1`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get top users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}

	return users, nil
}

// Reset restores a player row to its freshly created state. Associated
// skill, achievement, ledger and session rows are removed by their own
// repositories.
func (r *UserRepository) Reset(ctx context.Context, playerID string) error {
	const query = `
		UPDATE users
		SET xp = 0, level = 1, class = 'DEFAULT',
		    owns_hero = FALSE, owns_gambler = FALSE, owns_assassin = FALSE,
		    owns_wizard = FALSE, owns_archer = FALSE, owns_tank = FALSE,
		    assassin_streak = 0, assassin_stacks = 0, wizard_counter = 0,
		    archer_streak = 0, tank_stacks = 0,
		    streak_count = 0, last_daily_claim = NULL,
		    total_lists_created = 0, total_items_added = 0, total_items_completed = 0,
		    updated_at = NOW()
		WHERE player_id = $1
	`

	result, err := r.pool.Exec(ctx, query, playerID)
	if err != nil {
		return fmt.Errorf("failed to reset user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// Exists checks if a player row exists.
func (r *UserRepository) Exists(ctx context.Context, playerID string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM users WHERE player_id = $1)`

	var exists bool
	err := r.pool.QueryRow(ctx, query, playerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}
