package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/engine"
	"taskquest-server/internal/metrics"
	"taskquest-server/internal/model"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
)

// SettlementResult is the outcome of settling one mini-game session.
type SettlementResult struct {
	SessionID     string                 `json:"session_id"`
	GameType      string                 `json:"game_type"`
	Family        string                 `json:"family"`
	State         string                 `json:"state"`
	Bet           int64                  `json:"bet"`
	XPChange      int64                  `json:"xp_change"`
	DisplayPayout int64                  `json:"payout"`
	Detail        string                 `json:"detail,omitempty"`
	Parts         []engine.BreakdownPart `json:"breakdown,omitempty"`
	NewBalance    int64                  `json:"new_balance"`
	Level         int                    `json:"level"`
	Achievements  []catalog.Achievement  `json:"new_achievements,omitempty"`
}

// SettlementService settles finished mini-game sessions against player XP.
type SettlementService struct {
	userRepo    *repository.UserRepository
	ledgerRepo  *repository.LedgerRepository
	skillRepo   *repository.SkillRepository
	achRepo     *repository.AchievementRepository
	sessionRepo *repository.GameSessionRepository
	engine      *engine.Engine
	playerLock  *lock.PlayerLock
}

// NewSettlementService creates a new SettlementService instance.
func NewSettlementService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	skillRepo *repository.SkillRepository,
	achRepo *repository.AchievementRepository,
	sessionRepo *repository.GameSessionRepository,
	eng *engine.Engine,
	playerLock *lock.PlayerLock,
) *SettlementService {
	return &SettlementService{
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		skillRepo:   skillRepo,
		achRepo:     achRepo,
		sessionRepo: sessionRepo,
		engine:      eng,
		playerLock:  playerLock,
	}
}

// Settle applies a finished game's result to the player's XP balance and
// records the session. Invalid results and negative amounts surface the
// engine's validation errors unchanged.
func (s *SettlementService) Settle(ctx context.Context, playerID, username, gameType, result string, bet, payout int64) (*SettlementResult, error) {
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

	settlement, err := s.engine.Settle(user, skills, gameType, result, bet, payout)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ApplyCounterPatch(ctx, playerID, &settlement.Patch); err != nil {
		return nil, fmt.Errorf("failed to persist class counters: %w", err)
	}
	settlement.Patch.Apply(user)

	if settlement.LedgerWrite {
		entry, err := s.ledgerRepo.AppendEntry(ctx, playerID, settlement.XPChange, model.SourceGameReward)
		if err != nil {
			return nil, fmt.Errorf("failed to settle xp: %w", err)
		}
		user.XP = entry.BalanceAfter
		user.Level = model.LevelForXP(entry.BalanceAfter)
	}

	session, err := s.sessionRepo.Record(ctx, playerID, settlement.GameType, settlement.Bet, settlement.State, settlement.DisplayPayout)
	if err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	unlocked, err := grantAchievements(ctx, s.achRepo, user)
	if err != nil {
		return nil, err
	}

	metrics.GamesSettled.WithLabelValues(settlement.GameType, settlement.State).Inc()
	if settlement.XPChange > 0 {
		metrics.XPGranted.WithLabelValues(model.SourceGameReward).Add(float64(settlement.XPChange))
	}

	log.Info().
		Str("player_id", playerID).
		Str("game_type", settlement.GameType).
		Str("state", settlement.State).
		Int64("bet", settlement.Bet).
		Int64("xp_change", settlement.XPChange).
		Msg("Game settled")

	return &SettlementResult{
		SessionID:     session.ID,
		GameType:      settlement.GameType,
		Family:        settlement.Family,
		State:         settlement.State,
		Bet:           settlement.Bet,
		XPChange:      settlement.XPChange,
		DisplayPayout: settlement.DisplayPayout,
		Detail:        settlement.Detail,
		Parts:         settlement.Parts,
		NewBalance:    user.XP,
		Level:         user.Level,
		Achievements:  unlocked,
	}, nil
}

// GetHistory returns a player's recent settled sessions.
func (s *SettlementService) GetHistory(ctx context.Context, playerID string, limit int) ([]*model.GameSession, error) {
	return s.sessionRepo.GetHistory(ctx, playerID, limit)
}

// GetStats returns a player's aggregate game statistics. Session rows hold
// displayed payouts, so the net XP figure comes from the ledger.
func (s *SettlementService) GetStats(ctx context.Context, playerID string) (*repository.GameStats, error) {
	stats, err := s.sessionRepo.GetStats(ctx, playerID)
	if err != nil {
		return nil, err
	}

	net, err := s.ledgerRepo.SumBySource(ctx, playerID, model.SourceGameReward)
	if err != nil {
		return nil, err
	}
	stats.NetXP = net

	return stats, nil
}
