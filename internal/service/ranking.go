package service

import (
	"context"

	"taskquest-server/internal/model"
	"taskquest-server/internal/repository"
)

// LeaderboardEntry is one row of the XP leaderboard.
type LeaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Username string `json:"username"`
	XP       int64  `json:"xp"`
	Level    int    `json:"level"`
	Class    string `json:"class"`
}

// RankingService handles leaderboard reads.
type RankingService struct {
	userRepo *repository.UserRepository
	limit    int
}

// NewRankingService creates a new RankingService instance.
func NewRankingService(userRepo *repository.UserRepository, limit int) *RankingService {
	if limit <= 0 {
		limit = 10
	}
	return &RankingService{userRepo: userRepo, limit: limit}
}

// GetLeaderboard retrieves the top players by XP. Ties are broken by
// player id so ranks are stable.
func (s *RankingService) GetLeaderboard(ctx context.Context) ([]*LeaderboardEntry, error) {
	users, err := s.userRepo.GetTopUsers(ctx, s.limit)
	if err != nil {
		return nil, err
	}

	entries := make([]*LeaderboardEntry, 0, len(users))
	for i, u := range users {
		entries = append(entries, &LeaderboardEntry{
			Rank:     i + 1,
			PlayerID: u.PlayerID,
			Username: u.Username,
			XP:       u.XP,
			Level:    u.Level,
			Class:    u.Class,
		})
	}

	return entries, nil
}

// GetTopUsers exposes the raw snapshots behind the leaderboard.
func (s *RankingService) GetTopUsers(ctx context.Context, limit int) ([]*model.User, error) {
	return s.userRepo.GetTopUsers(ctx, limit)
}
