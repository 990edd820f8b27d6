package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"deadline-tracker/internal/bot"
	"deadline-tracker/internal/config"
	"deadline-tracker/internal/logger"
	"deadline-tracker/internal/repository"
	"deadline-tracker/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	log := logger.Init(cfg.LogLevel, os.Stdout)
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	kv, closeKV, err := openKV(cfg)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StorageBackend).Msg("storage")
	}
	defer closeKV()

	store := service.NewDeadlineStore(kv, cfg.StorageKey)
	deadlines, err := store.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load deadlines")
	}
	log.Info().Int("deadlines", len(deadlines)).Str("backend", cfg.StorageBackend).Msg("deadlines loaded")

	telegramBot, err := bot.New(cfg.TelegramToken, store, service.NewDigestService(), &cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("bot")
	}

	if cfg.BackupDir != "" {
		backups := service.NewBackupService(store, cfg.BackupDir)
		scheduler := service.NewSchedulerService(cfg.Location)
		backupID, err := scheduler.Schedule(cfg.BackupAt, cfg.BackupInterval, func() {
			jobCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if _, err := backups.Run(jobCtx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error().Err(err).Msg("backup")
			}
		})
		if err != nil {
			log.Fatal().Err(err).Msg("schedule backups")
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info().Str("dir", cfg.BackupDir).Time("next", scheduler.Next(backupID)).Msg("backups scheduled")
	}

	log.Info().Msg("deadline tracker started")
	if err := telegramBot.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("bot stopped with error")
	}
	log.Info().Msg("shutdown complete")
}

func openKV(cfg config.Config) (repository.KV, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendBolt:
		kv, err := repository.NewBoltKV(cfg.BoltPath)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() { kv.Close() }, nil
	default:
		db, err := repository.NewDB(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewSQLiteKV(db), func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		}, nil
	}
}
