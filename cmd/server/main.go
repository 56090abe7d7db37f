// Package main is the entry point for the TaskQuest progression server.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"taskquest-server/internal/config"
	"taskquest-server/internal/engine"
	"taskquest-server/internal/handler"
	"taskquest-server/internal/pkg/db"
	"taskquest-server/internal/pkg/lock"
	"taskquest-server/internal/repository"
	"taskquest-server/internal/service"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(dbPool.Pool)
	ledgerRepo := repository.NewLedgerRepository(dbPool.Pool)
	skillRepo := repository.NewSkillRepository(dbPool.Pool)
	achRepo := repository.NewAchievementRepository(dbPool.Pool)
	sessionRepo := repository.NewGameSessionRepository(dbPool.Pool)

	// Initialize the rules engine and per-player lock
	rulesEngine := engine.New()
	playerLock := lock.NewPlayerLock()

	dailyRules := engine.DailyRules{
		BaseXP:       cfg.Daily.BaseReward,
		Cooldown:     time.Duration(cfg.Daily.CooldownHours) * time.Hour,
		StreakWindow: time.Duration(cfg.Daily.StreakWindowHours) * time.Hour,
		StreakStep:   cfg.Daily.StreakStep,
		StreakCap:    cfg.Daily.StreakCap,
	}

	// Initialize services
	accountService := service.NewAccountService(userRepo, ledgerRepo, skillRepo, achRepo, sessionRepo, playerLock)
	progressionService := service.NewProgressionService(userRepo, ledgerRepo, skillRepo, achRepo, rulesEngine, playerLock)
	dailyService := service.NewDailyService(userRepo, ledgerRepo, skillRepo, achRepo, rulesEngine, playerLock, dailyRules)
	settlementService := service.NewSettlementService(userRepo, ledgerRepo, skillRepo, achRepo, sessionRepo, rulesEngine, playerLock)
	purchaseService := service.NewPurchaseService(userRepo, ledgerRepo, skillRepo, achRepo, playerLock)
	rankingService := service.NewRankingService(userRepo, cfg.Leaderboard.Limit)

	// Initialize the HTTP API
	apiServer := handler.NewServer(
		accountService,
		progressionService,
		dailyService,
		settlementService,
		purchaseService,
		rankingService,
		cfg.History.LedgerLimit,
		cfg.History.GamesLimit,
	)
	if cfg.Server.Metrics {
		apiServer.EnableMetrics()
	}

	httpServer := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("Server is starting...")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Forced shutdown")
	}
	log.Info().Msg("Server stopped gracefully")
}

// runMigrations executes database migrations.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: Create users table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			player_id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(255) NOT NULL DEFAULT '',
			xp BIGINT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			class VARCHAR(16) NOT NULL DEFAULT 'DEFAULT',
			owns_hero BOOLEAN NOT NULL DEFAULT FALSE,
			owns_gambler BOOLEAN NOT NULL DEFAULT FALSE,
			owns_assassin BOOLEAN NOT NULL DEFAULT FALSE,
			owns_wizard BOOLEAN NOT NULL DEFAULT FALSE,
			owns_archer BOOLEAN NOT NULL DEFAULT FALSE,
			owns_tank BOOLEAN NOT NULL DEFAULT FALSE,
			assassin_streak INT NOT NULL DEFAULT 0,
			assassin_stacks INT NOT NULL DEFAULT 0,
			wizard_counter INT NOT NULL DEFAULT 0,
			archer_streak INT NOT NULL DEFAULT 0,
			tank_stacks INT NOT NULL DEFAULT 0,
			streak_count INT NOT NULL DEFAULT 0,
			last_daily_claim TIMESTAMPTZ,
			gamification_enabled BOOLEAN NOT NULL DEFAULT TRUE,
			total_lists_created BIGINT NOT NULL DEFAULT 0,
			total_items_added BIGINT NOT NULL DEFAULT 0,
			total_items_completed BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_users_xp ON users(xp DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: users table created")

	// Migration 2: Create xp_ledger table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS xp_ledger (
			id BIGSERIAL PRIMARY KEY,
			player_id VARCHAR(64) NOT NULL REFERENCES users(player_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			source VARCHAR(32) NOT NULL,
			balance_before BIGINT NOT NULL,
			balance_after BIGINT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_xp_ledger_player_time ON xp_ledger(player_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_xp_ledger_source ON xp_ledger(source, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: xp_ledger table created")

	// Migration 3: Create skill_unlocks table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS skill_unlocks (
			player_id VARCHAR(64) NOT NULL REFERENCES users(player_id) ON DELETE CASCADE,
			skill_id VARCHAR(64) NOT NULL,
			level INT NOT NULL DEFAULT 1,
			PRIMARY KEY (player_id, skill_id)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 3: skill_unlocks table created")

	// Migration 4: Create achievement_unlocks table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS achievement_unlocks (
			player_id VARCHAR(64) NOT NULL REFERENCES users(player_id) ON DELETE CASCADE,
			achievement_key VARCHAR(64) NOT NULL,
			unlocked_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			PRIMARY KEY (player_id, achievement_key)
		);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 4: achievement_unlocks table created")

	// Migration 5: Create game_sessions table
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS game_sessions (
			id UUID PRIMARY KEY,
			player_id VARCHAR(64) NOT NULL REFERENCES users(player_id) ON DELETE CASCADE,
			game_type VARCHAR(32) NOT NULL,
			bet_amount BIGINT NOT NULL DEFAULT 0,
			state VARCHAR(16) NOT NULL,
			payout BIGINT NOT NULL DEFAULT 0,
			ended_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_game_sessions_player_time ON game_sessions(player_id, ended_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 5: game_sessions table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
