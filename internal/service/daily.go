package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/engine"
	"taskquest-server/internal/metrics"
	"taskquest-server/internal/model"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
)

// DailyClaimResult is the outcome of a daily reward claim attempt.
type DailyClaimResult struct {
	Claimed      bool                  `json:"claimed"`
	Remaining    time.Duration         `json:"-"`
	RemainingSec int64                 `json:"remaining_seconds,omitempty"`
	Streak       int                   `json:"streak"`
	StreakBroken bool                  `json:"streak_broken,omitempty"`
	BaseXP       int64                 `json:"base_xp,omitempty"`
	ClassBonus   int64                 `json:"class_bonus,omitempty"`
	StreakBonus  int64                 `json:"streak_bonus,omitempty"`
	SkillBonus   int64                 `json:"skill_bonus,omitempty"`
	TotalXP      int64                 `json:"total_xp,omitempty"`
	Detail       string                `json:"detail,omitempty"`
	NewBalance   int64                 `json:"new_balance,omitempty"`
	Level        int                   `json:"level,omitempty"`
	Achievements []catalog.Achievement `json:"new_achievements,omitempty"`
}

// DailyService handles the daily reward claim flow.
type DailyService struct {
	userRepo   *repository.UserRepository
	ledgerRepo *repository.LedgerRepository
	skillRepo  *repository.SkillRepository
	achRepo    *repository.AchievementRepository
	engine     *engine.Engine
	playerLock *lock.PlayerLock
	rules      engine.DailyRules
}

// NewDailyService creates a new DailyService instance.
func NewDailyService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	skillRepo *repository.SkillRepository,
	achRepo *repository.AchievementRepository,
	eng *engine.Engine,
	playerLock *lock.PlayerLock,
	rules engine.DailyRules,
) *DailyService {
	return &DailyService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		skillRepo:  skillRepo,
		achRepo:    achRepo,
		engine:     eng,
		playerLock: playerLock,
		rules:      rules,
	}
}

// Claim attempts a daily reward claim. A rejected claim is not an error:
// the result reports the remaining cooldown instead.
func (s *DailyService) Claim(ctx context.Context, playerID, username string) (*DailyClaimResult, error) {
	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	user, _, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	skills, err := loadSkills(ctx, s.skillRepo, playerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	outcome := s.engine.EvaluateDaily(user, skills, now, s.rules)
	if !outcome.Claimed {
		metrics.DailyClaims.WithLabelValues("on_cooldown").Inc()
		return &DailyClaimResult{
			Remaining:    outcome.Remaining,
			RemainingSec: int64(outcome.Remaining.Seconds()),
			Streak:       outcome.Streak,
		}, nil
	}

	if err := s.userRepo.UpdateDailyClaim(ctx, playerID, now, outcome.Streak); err != nil {
		return nil, fmt.Errorf("failed to update claim time: %w", err)
	}
	if err := s.userRepo.ApplyCounterPatch(ctx, playerID, &outcome.Patch); err != nil {
		return nil, fmt.Errorf("failed to persist class counters: %w", err)
	}
	outcome.Patch.Apply(user)
	user.StreakCount = outcome.Streak
	user.LastDailyClaim = &now

	entry, err := s.ledgerRepo.AppendEntry(ctx, playerID, outcome.TotalXP, model.SourceDaily)
	if err != nil {
		return nil, fmt.Errorf("failed to credit daily reward: %w", err)
	}
	user.XP = entry.BalanceAfter
	user.Level = model.LevelForXP(entry.BalanceAfter)

	unlocked, err := grantAchievements(ctx, s.achRepo, user)
	if err != nil {
		return nil, err
	}

	metrics.DailyClaims.WithLabelValues("claimed").Inc()
	metrics.XPGranted.WithLabelValues(model.SourceDaily).Add(float64(outcome.TotalXP))

	log.Info().
		Str("player_id", playerID).
		Int("streak", outcome.Streak).
		Int64("total_xp", outcome.TotalXP).
		Msg("Daily reward claimed")

	return &DailyClaimResult{
		Claimed:      true,
		Streak:       outcome.Streak,
		StreakBroken: outcome.Broken,
		BaseXP:       outcome.BaseXP,
		ClassBonus:   outcome.ClassBonus,
		StreakBonus:  outcome.StreakBonus,
		SkillBonus:   outcome.SkillDaily,
		TotalXP:      outcome.TotalXP,
		Detail:       outcome.Detail,
		NewBalance:   user.XP,
		Level:        user.Level,
		Achievements: unlocked,
	}, nil
}
