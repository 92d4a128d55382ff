package main

import (
	"strconv"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"podcasthub-backend/internal/config"
)

// Config holds worker-only settings; everything else comes from config.Load.
type Config struct {
	Redis       asynq.RedisClientOpt
	Concurrency int
	HealthPort  string
	Job         config.JobConfig
	Email       config.EmailConfig
}

// loadConfig derives the worker configuration from the application config
func loadConfig(app *config.Config) *Config {
	cfg := &Config{
		Redis: asynq.RedisClientOpt{
			Addr:     app.Redis.Host,
			Password: app.Redis.Password,
			DB:       app.Redis.DB,
		},
		Concurrency: envInt("WORKER_CONCURRENCY", 10),
		HealthPort:  envString("WORKER_HEALTH_PORT", "9999"),
		Job:         app.Job,
		Email:       app.Email,
	}

	log.Info().
		Str("redis", cfg.Redis.Addr).
		Int("concurrency", cfg.Concurrency).
		Str("sweep_cron", cfg.Job.SweepCron).
		Msg("[Config] worker configuration loaded")

	return cfg
}

func envString(key, fallback string) string {
	if v, ok := lookupEnv(key); ok {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v, ok := lookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
