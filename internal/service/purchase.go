package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/metrics"
	"taskquest-server/internal/model"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
)

// Purchase errors.
var (
	ErrInsufficientXP = errors.New("insufficient xp")
	ErrUnknownClass   = errors.New("unknown class")
	ErrClassNotOwned  = errors.New("class not owned")
	ErrAlreadyOwned   = errors.New("class already owned")
	ErrNotPurchasable = errors.New("class is not purchasable")
	ErrUnknownSkill   = errors.New("unknown skill")
	ErrSkillClassLock = errors.New("skill belongs to another class")
	ErrSkillMaxLevel  = errors.New("skill already at max level")
	ErrSkillPrereq    = errors.New("prerequisite skill not unlocked")
)

// ClassPurchaseResult is the outcome of buying or equipping a class.
type ClassPurchaseResult struct {
	Class        string                `json:"class"`
	Cost         int64                 `json:"cost,omitempty"`
	NewBalance   int64                 `json:"new_balance"`
	Equipped     bool                  `json:"equipped"`
	Achievements []catalog.Achievement `json:"new_achievements,omitempty"`
}

// SkillPurchaseResult is the outcome of unlocking or upgrading a skill.
type SkillPurchaseResult struct {
	SkillID    string `json:"skill_id"`
	Level      int    `json:"level"`
	Cost       int64  `json:"cost"`
	NewBalance int64  `json:"new_balance"`
}

// PurchaseService handles class and skill purchases paid in XP.
type PurchaseService struct {
	userRepo   *repository.UserRepository
	ledgerRepo *repository.LedgerRepository
	skillRepo  *repository.SkillRepository
	achRepo    *repository.AchievementRepository
	playerLock *lock.PlayerLock
}

// NewPurchaseService creates a new PurchaseService instance.
func NewPurchaseService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	skillRepo *repository.SkillRepository,
	achRepo *repository.AchievementRepository,
	playerLock *lock.PlayerLock,
) *PurchaseService {
	return &PurchaseService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		skillRepo:  skillRepo,
		achRepo:    achRepo,
		playerLock: playerLock,
	}
}

// ListClasses returns the class catalog.
func (s *PurchaseService) ListClasses() []catalog.ClassInfo {
	return catalog.AllClasses()
}

// ListSkillTrees returns the full skill catalog.
func (s *PurchaseService) ListSkillTrees() []catalog.SkillTree {
	return catalog.SkillTrees
}

// BuyClass spends XP to unlock a class. Buying does not equip it.
func (s *PurchaseService) BuyClass(ctx context.Context, playerID, username, class string) (*ClassPurchaseResult, error) {
	info, ok := catalog.GetClass(class)
	if !ok {
		return nil, ErrUnknownClass
	}
	if class == catalog.ClassDefault {
		return nil, ErrNotPurchasable
	}

	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	user, _, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	if user.OwnsClass(class) {
		return nil, ErrAlreadyOwned
	}
	if user.XP < info.Cost {
		return nil, ErrInsufficientXP
	}

	if _, err := s.ledgerRepo.AppendEntry(ctx, playerID, -info.Cost, model.SourceClassBuy); err != nil {
		return nil, fmt.Errorf("failed to debit class cost: %w", err)
	}
	if err := s.userRepo.GrantClass(ctx, playerID, class); err != nil {
		return nil, err
	}

	// Buying a class equips it immediately; SetClass also resets the
	// per-class counters, returning the post-debit row.
	user, err = s.userRepo.SetClass(ctx, playerID, class)
	if err != nil {
		return nil, fmt.Errorf("failed to equip purchased class: %w", err)
	}

	unlocked, err := grantAchievements(ctx, s.achRepo, user)
	if err != nil {
		return nil, err
	}

	metrics.ClassPurchases.WithLabelValues(class).Inc()

	log.Info().
		Str("player_id", playerID).
		Str("class", class).
		Int64("cost", info.Cost).
		Msg("Class purchased")

	return &ClassPurchaseResult{
		Class:        class,
		Cost:         info.Cost,
		NewBalance:   user.XP,
		Equipped:     true,
		Achievements: unlocked,
	}, nil
}

// EquipClass switches the player's active class. Per-class counters reset on
// every switch, so charge and stacks never carry across classes.
func (s *PurchaseService) EquipClass(ctx context.Context, playerID, username, class string) (*ClassPurchaseResult, error) {
	if !catalog.IsValidClass(class) {
		return nil, ErrUnknownClass
	}

	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	user, _, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	if !user.OwnsClass(class) {
		return nil, ErrClassNotOwned
	}

	user, err = s.userRepo.SetClass(ctx, playerID, class)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("player_id", playerID).
		Str("class", class).
		Msg("Class equipped")

	return &ClassPurchaseResult{
		Class:      class,
		NewBalance: user.XP,
		Equipped:   true,
	}, nil
}

// UnlockSkill spends XP to unlock a skill or raise its level by one.
// Validation order: the skill must exist, belong to the default tree or an
// owned class, be below max level, have its prerequisite unlocked, and the
// player must afford its cost.
func (s *PurchaseService) UnlockSkill(ctx context.Context, playerID, username, skillID string) (*SkillPurchaseResult, error) {
	info, ok := catalog.GetSkill(skillID)
	if !ok {
		return nil, ErrUnknownSkill
	}
	classKey, _ := catalog.SkillClass(skillID)

	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	user, _, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	if classKey != catalog.ClassDefault && !user.OwnsClass(classKey) {
		return nil, ErrSkillClassLock
	}

	levels, err := s.skillRepo.GetLevels(ctx, playerID)
	if err != nil {
		return nil, err
	}

	current := levels[skillID]
	if current >= info.MaxLevel {
		return nil, ErrSkillMaxLevel
	}
	if info.Requires != "" && levels[info.Requires] == 0 {
		return nil, ErrSkillPrereq
	}
	if user.XP < info.Cost {
		return nil, ErrInsufficientXP
	}

	entry, err := s.ledgerRepo.AppendEntry(ctx, playerID, -info.Cost, model.SourceSkillBuy)
	if err != nil {
		return nil, fmt.Errorf("failed to debit skill cost: %w", err)
	}
	if err := s.skillRepo.Upsert(ctx, playerID, skillID, current+1); err != nil {
		return nil, err
	}

	metrics.SkillUnlocks.WithLabelValues(skillID).Inc()

	log.Info().
		Str("player_id", playerID).
		Str("skill", skillID).
		Int("level", current+1).
		Int64("cost", info.Cost).
		Msg("Skill unlocked")

	return &SkillPurchaseResult{
		SkillID:    skillID,
		Level:      current + 1,
		Cost:       info.Cost,
		NewBalance: entry.BalanceAfter,
	}, nil
}
