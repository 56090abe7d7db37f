package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"taskquest-server/internal/catalog"
	"taskquest-server/internal/model"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
)

// Profile is the full progression snapshot returned to clients.
type Profile struct {
	PlayerID     string                     `json:"player_id"`
	Username     string                     `json:"username"`
	XP           int64                      `json:"xp"`
	Level        int                        `json:"level"`
	Class        string                     `json:"class"`
	OwnedClasses []string                   `json:"owned_classes"`
	Streak       int                        `json:"streak"`
	Gamification bool                       `json:"gamification_enabled"`
	Counters     ProfileCounters            `json:"counters"`
	Skills       []*model.SkillUnlock       `json:"skills"`
	Achievements []*model.AchievementUnlock `json:"achievements"`
	GameStats    *repository.GameStats      `json:"game_stats"`
}

// ProfileCounters exposes the lifetime activity counters.
type ProfileCounters struct {
	ListsCreated   int64 `json:"lists_created"`
	ItemsAdded     int64 `json:"items_added"`
	ItemsCompleted int64 `json:"items_completed"`
}

// AccountService handles player lifecycle and profile reads.
type AccountService struct {
	userRepo    *repository.UserRepository
	ledgerRepo  *repository.LedgerRepository
	skillRepo   *repository.SkillRepository
	achRepo     *repository.AchievementRepository
	sessionRepo *repository.GameSessionRepository
	playerLock  *lock.PlayerLock
}

// NewAccountService creates a new AccountService instance.
func NewAccountService(
	userRepo *repository.UserRepository,
	ledgerRepo *repository.LedgerRepository,
	skillRepo *repository.SkillRepository,
	achRepo *repository.AchievementRepository,
	sessionRepo *repository.GameSessionRepository,
	playerLock *lock.PlayerLock,
) *AccountService {
	return &AccountService{
		userRepo:    userRepo,
		ledgerRepo:  ledgerRepo,
		skillRepo:   skillRepo,
		achRepo:     achRepo,
		sessionRepo: sessionRepo,
		playerLock:  playerLock,
	}
}

// EnsureUser ensures a player row exists, creating one if necessary.
// Returns the user and whether it was newly created.
func (s *AccountService) EnsureUser(ctx context.Context, playerID, username string) (*model.User, bool, error) {
	user, created, err := s.userRepo.GetOrCreate(ctx, playerID, username)
	if err != nil {
		return nil, false, fmt.Errorf("failed to ensure user: %w", err)
	}

	// Refresh the display name when it changed
	if !created && username != "" && user.Username != username {
		if err := s.userRepo.UpdateUsername(ctx, playerID, username); err != nil {
			log.Warn().Err(err).Str("player_id", playerID).Msg("Failed to update username")
		} else {
			user.Username = username
		}
	}

	return user, created, nil
}

// GetUser retrieves a player snapshot.
func (s *AccountService) GetUser(ctx context.Context, playerID string) (*model.User, error) {
	return s.userRepo.GetByID(ctx, playerID)
}

// GetProfile assembles the full profile: snapshot, owned classes, skills,
// achievements and game stats.
func (s *AccountService) GetProfile(ctx context.Context, playerID, username string) (*Profile, error) {
	user, _, err := s.EnsureUser(ctx, playerID, username)
	if err != nil {
		return nil, err
	}

	skills, err := s.skillRepo.GetAll(ctx, playerID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.achRepo.GetAll(ctx, playerID)
	if err != nil {
		return nil, err
	}
	stats, err := s.sessionRepo.GetStats(ctx, playerID)
	if err != nil {
		return nil, err
	}

	owned := []string{catalog.ClassDefault}
	for _, info := range catalog.AllClasses() {
		if info.Key != catalog.ClassDefault && user.OwnsClass(info.Key) {
			owned = append(owned, info.Key)
		}
	}

	return &Profile{
		PlayerID:     user.PlayerID,
		Username:     user.Username,
		XP:           user.XP,
		Level:        user.Level,
		Class:        user.Class,
		OwnedClasses: owned,
		Streak:       user.StreakCount,
		Gamification: user.Gamification,
		Counters: ProfileCounters{
			ListsCreated:   user.ListsCreated,
			ItemsAdded:     user.ItemsAdded,
			ItemsCompleted: user.ItemsCompleted,
		},
		Skills:       skills,
		Achievements: achievements,
		GameStats:    stats,
	}, nil
}

// GetLedgerHistory returns a player's recent XP ledger entries.
func (s *AccountService) GetLedgerHistory(ctx context.Context, playerID string, limit int) ([]*model.LedgerEntry, error) {
	return s.ledgerRepo.GetHistory(ctx, playerID, limit)
}

// SetGamification toggles the gamification opt-out. When disabled, base XP
// still accrues but class and skill bonuses stop applying.
func (s *AccountService) SetGamification(ctx context.Context, playerID, username string, enabled bool) error {
	if _, _, err := s.EnsureUser(ctx, playerID, username); err != nil {
		return err
	}
	return s.userRepo.SetGamification(ctx, playerID, enabled)
}

// ResetProgress wipes a player back to a fresh account: XP, classes, skills,
// achievements, ledger and game history all go.
func (s *AccountService) ResetProgress(ctx context.Context, playerID string) error {
	s.playerLock.Lock(playerID)
	defer s.playerLock.Unlock(playerID)

	if err := s.userRepo.Reset(ctx, playerID); err != nil {
		return err
	}
	if err := s.skillRepo.DeleteByPlayer(ctx, playerID); err != nil {
		return err
	}
	if err := s.achRepo.DeleteByPlayer(ctx, playerID); err != nil {
		return err
	}
	if err := s.ledgerRepo.DeleteByPlayer(ctx, playerID); err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteByPlayer(ctx, playerID); err != nil {
		return err
	}

	log.Info().Str("player_id", playerID).Msg("Player progress reset")
	return nil
}
