// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/engine"
	"taskquest-server/internal/metrics"
	"taskquest-server/internal/model"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
)

// Common errors for progression operations.
var (
	ErrUnknownActivity = errors.New("unknown activity kind")
)

// Activity kinds accepted by RecordActivity, with their base XP awards.
const (
	ActivityListCreated   = "list_created"
	ActivityItemAdded     = "item_added"
	ActivityItemCompleted = "item_completed"
)

type activityRule struct {
	baseXP int64
	source string
}

var activityRules = map[string]activityRule{
	ActivityListCreated:   {baseXP: 10, source: model.SourceListCreate},
	ActivityItemAdded:     {baseXP: 5, source: model.SourceItemCreate},
	ActivityItemCompleted: {baseXP: 10, source: model.SourceTaskComplete},
}

// ActivityResult is the outcome of recording one productivity activity.
type ActivityResult struct {
	Kind         string                 `json:"kind"`
	BaseXP       int64                  `json:"base_xp"`
	FinalXP      int64                  `json:"final_xp"`
	Detail       string                 `json:"detail,omitempty"`
	Parts        []engine.BreakdownPart `json:"breakdown,omitempty"`
	TotalXP      int64                  `json:"total_xp"`
	Level        int                    `json:"level"`
	LeveledUp    bool                   `json:"leveled_up"`
	Achievements []catalog.Achievement  `json:"new_achievements,omitempty"`
}

// ProgressionService applies productivity activities to player progression.
type ProgressionService struct {
	userRepo   *repository.UserRepository
	ledgerRepo *repository.LedgerRepository
	skillRepo  *repository.SkillRepository
	achRepo    *repository.AchievementRepository
	engine     *engine.Engine
	playerLock *lock.PlayerLock
}

// NewProgressionService creates a new ProgressionService instance.
func NewProgressionService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	skillRepo *repository.SkillRepository,
	achRepo *repository.AchievementRepository,
	eng *engine.Engine,
	playerLock *lock.PlayerLock,
) *ProgressionService {
	return &ProgressionService{
		userRepo:   userRepo,
		ledgerRepo: ledgerRepo,
		skillRepo:  skillRepo,
		achRepo:    achRepo,
		engine:     eng,
		playerLock: playerLock,
	}
}

// RecordActivity awards XP for one productivity activity. The whole
// read-evaluate-persist sequence runs under the per-player lock so class
// counters never interleave.
func (s *ProgressionService) RecordActivity(ctx context.Context, playerID, username, kind string) (*ActivityResult, error) {
	rule, ok := activityRules[kind]
	if !ok {
		return nil, ErrUnknownActivity
	}

	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	user, _, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}

	var lists, items, completes int64
	switch kind {
	case ActivityListCreated:
		lists = 1
	case ActivityItemAdded:
		items = 1
	case ActivityItemCompleted:
		completes = 1
	}
	if err := s.userRepo.IncrementCounters(ctx, playerID, lists, items, completes); err != nil {
		return nil, fmt.Errorf("failed to increment counters: %w", err)
	}
	user.ListsCreated += lists
	user.ItemsAdded += items
	user.ItemsCompleted += completes

	result := &ActivityResult{Kind: kind, BaseXP: rule.baseXP}

	finalXP := rule.baseXP
	if user.Gamification {
		skills, err := loadSkills(ctx, s.skillRepo, playerID)
		if err != nil {
			return nil, err
		}

		composed := s.engine.ComposeFinalXP(user, skills, rule.baseXP)
		finalXP = composed.FinalXP
		result.Detail = composed.Detail
		result.Parts = composed.Parts

		if err := s.userRepo.ApplyCounterPatch(ctx, playerID, &composed.Patch); err != nil {
			return nil, fmt.Errorf("failed to persist class counters: %w", err)
		}
		composed.Patch.Apply(user)
	}
	result.FinalXP = finalXP

	oldLevel := user.Level
	entry, err := s.ledgerRepo.AppendEntry(ctx, playerID, finalXP, rule.source)
	if err != nil {
		return nil, fmt.Errorf("failed to credit xp: %w", err)
	}
	user.XP = entry.BalanceAfter
	user.Level = model.LevelForXP(entry.BalanceAfter)

	result.TotalXP = user.XP
	result.Level = user.Level
	result.LeveledUp = user.Level > oldLevel

	unlocked, err := grantAchievements(ctx, s.achRepo, user)
	if err != nil {
		return nil, err
	}
	result.Achievements = unlocked

	metrics.ActivitiesRecorded.WithLabelValues(kind).Inc()
	metrics.XPGranted.WithLabelValues(rule.source).Add(float64(finalXP))

	log.Debug().
		Str("player_id", playerID).
		Str("kind", kind).
		Int64("base_xp", rule.baseXP).
		Int64("final_xp", finalXP).
		Int("level", user.Level).
		Msg("Activity recorded")

	return result, nil
}

// loadSkills fetches a player's skill levels in the form the rules engine
// consumes.
func loadSkills(ctx context.Context, repo *repository.SkillRepository, playerID string) ([]model.SkillUnlock, error) {
	levels, err := repo.GetLevels(ctx, playerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skills: %w", err)
	}

	skills := make([]model.SkillUnlock, 0, len(levels))
	for id, level := range levels {
		skills = append(skills, model.SkillUnlock{PlayerID: playerID, SkillID: id, Level: level})
	}
	return skills, nil
}

// grantAchievements evaluates the catalog against a fresh snapshot and
// persists any newly earned achievements. Concurrent grants of the same key
// collapse to a single row; only rows actually inserted here are returned.
func grantAchievements(ctx context.Context, repo *repository.AchievementRepository, user *model.User) ([]catalog.Achievement, error) {
	have, err := repo.GetKeys(ctx, user.PlayerID)
	if err != nil {
		return nil, err
	}

	var granted []catalog.Achievement
	for _, ach := range engine.EvaluateAchievements(user, have) {
		inserted, err := repo.Insert(ctx, user.PlayerID, ach.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to record achievement: %w", err)
		}
		if inserted {
			granted = append(granted, ach)
			metrics.AchievementsUnlocked.Inc()
			log.Info().
				Str("player_id", user.PlayerID).
				Str("achievement", ach.Key).
				Msg("Achievement unlocked")
		}
	}

	return granted, nil
}
