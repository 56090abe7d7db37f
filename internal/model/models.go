// Package model defines the data models for the TaskQuest progression server.
package model

import "time"

// User is the per-player progression snapshot. One row per player, created
// lazily on first contact and mutated by every XP-earning action.
type User struct {
	PlayerID       string     `db:"player_id"`
	Username       string     `db:"username"`
	XP             int64      `db:"xp"`
	Level          int        `db:"level"`
	Class          string     `db:"class"`
	OwnsHero       bool       `db:"owns_hero"`
	OwnsGambler    bool       `db:"owns_gambler"`
	OwnsAssassin   bool       `db:"owns_assassin"`
	OwnsWizard     bool       `db:"owns_wizard"`
	OwnsArcher     bool       `db:"owns_archer"`
	OwnsTank       bool       `db:"owns_tank"`
	AssassinStreak int        `db:"assassin_streak"`
	AssassinStacks int        `db:"assassin_stacks"`
	WizardCounter  int        `db:"wizard_counter"`
	ArcherStreak   int        `db:"archer_streak"`
	TankStacks     int        `db:"tank_stacks"`
	StreakCount    int        `db:"streak_count"`
	LastDailyClaim *time.Time `db:"last_daily_claim"`
	Gamification   bool       `db:"gamification_enabled"`
	ListsCreated   int64      `db:"total_lists_created"`
	ItemsAdded     int64      `db:"total_items_added"`
	ItemsCompleted int64      `db:"total_items_completed"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// LevelForXP derives a level from an XP balance. Level is never stored
// authoritatively; it is recomputed on every balance change.
func LevelForXP(xp int64) int {
	return int(xp/100) + 1
}

// OwnsClass reports whether the user owns the given class key.
// DEFAULT is implicitly owned by everyone.
func (u *User) OwnsClass(class string) bool {
	switch class {
	case "DEFAULT":
		return true
	case "HERO":
		return u.OwnsHero
	case "GAMBLER":
		return u.OwnsGambler
	case "ASSASSIN":
		return u.OwnsAssassin
	case "WIZARD":
		return u.OwnsWizard
	case "ARCHER":
		return u.OwnsArcher
	case "TANK":
		return u.OwnsTank
	default:
		return false
	}
}

// SkillUnlock is one purchased skill with its current level.
type SkillUnlock struct {
	PlayerID string `db:"player_id" json:"-"`
	SkillID  string `db:"skill_id" json:"skill_id"`
	Level    int    `db:"level" json:"level"`
}

// AchievementUnlock is an append-only achievement row, unique per
// (player, key).
type AchievementUnlock struct {
	PlayerID   string    `db:"player_id" json:"-"`
	Key        string    `db:"achievement_key" json:"key"`
	UnlockedAt time.Time `db:"unlocked_at" json:"unlocked_at"`
}

// LedgerEntry is an append-only XP audit row. BalanceAfter is clamped to
// zero, so Amount may not equal BalanceAfter-BalanceBefore when a debit
// would have taken the balance negative.
type LedgerEntry struct {
	ID            int64     `db:"id" json:"id"`
	PlayerID      string    `db:"player_id" json:"-"`
	Amount        int64     `db:"amount" json:"amount"`
	Source        string    `db:"source" json:"source"`
	BalanceBefore int64     `db:"balance_before" json:"balance_before"`
	BalanceAfter  int64     `db:"balance_after" json:"balance_after"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// GameSession is a write-once record of a settled mini-game.
type GameSession struct {
	ID       string    `db:"id" json:"id"`
	PlayerID string    `db:"player_id" json:"-"`
	GameType string    `db:"game_type" json:"game_type"`
	Bet      int64     `db:"bet_amount" json:"bet"`
	State    string    `db:"state" json:"state"`
	Payout   int64     `db:"payout" json:"payout"`
	EndedAt  time.Time `db:"ended_at" json:"ended_at"`
}

// Ledger source tags for categorizing XP changes.
const (
	SourceListCreate   = "list_create"
	SourceItemCreate   = "item_create"
	SourceTaskComplete = "task_complete"
	SourceDaily        = "daily"
	SourceGameReward   = "game_reward"
	SourceClassBuy     = "class_purchase"
	SourceSkillBuy     = "skill_purchase"
)

// Game session states.
const (
	StateWon       = "won"
	StateLost      = "lost"
	StatePush      = "push"
	StateBlackjack = "blackjack"
	StateExpired   = "expired"
	StateBust      = "bust"
	StateActive    = "active"
)

// CounterPatch is the set of class-counter updates a rules evaluation wants
// persisted. Nil fields are unchanged; the engine never mutates the
// snapshot directly.
type CounterPatch struct {
	AssassinStreak *int
	AssassinStacks *int
	WizardCounter  *int
	ArcherStreak   *int
	TankStacks     *int
}

// IsEmpty reports whether the patch carries no updates.
func (p *CounterPatch) IsEmpty() bool {
	return p == nil || (p.AssassinStreak == nil && p.AssassinStacks == nil &&
		p.WizardCounter == nil && p.ArcherStreak == nil && p.TankStacks == nil)
}

// Apply copies the patch onto a snapshot. Used by services to keep an
// in-memory snapshot consistent after the repository has persisted the patch.
func (p *CounterPatch) Apply(u *User) {
	if p == nil {
		return
	}
	if p.AssassinStreak != nil {
		u.AssassinStreak = *p.AssassinStreak
	}
	if p.AssassinStacks != nil {
		u.AssassinStacks = *p.AssassinStacks
	}
	if p.WizardCounter != nil {
		u.WizardCounter = *p.WizardCounter
	}
	if p.ArcherStreak != nil {
		u.ArcherStreak = *p.ArcherStreak
	}
	if p.TankStacks != nil {
		u.TankStacks = *p.TankStacks
	}
}
