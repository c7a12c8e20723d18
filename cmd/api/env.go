package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"exactcalc/internal/engine"
	"exactcalc/internal/history"
	"exactcalc/internal/session"
)

// loadDotEnv loads environment variables from .env when present.
// Existing process environment variables are not overridden.
func loadDotEnv() error {
	err := godotenv.Load()
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load .env: %w", err)
}

// config is everything the binary reads from the environment besides the
// OTEL_* variables, which the SDK exporters consume directly.
type config struct {
	addr            string
	sessionCapacity int
	historyCapacity int
	defaultMode     engine.Mode
}

func loadConfig() (config, error) {
	cfg := config{
		addr:        envString("CALC_ADDR", ":8080"),
		defaultMode: engine.ModeStandard,
	}

	var err error
	if cfg.sessionCapacity, err = envInt("CALC_SESSION_CAPACITY", session.DefaultCapacity); err != nil {
		return cfg, err
	}
	if cfg.historyCapacity, err = envInt("CALC_HISTORY_CAPACITY", history.DefaultCapacity); err != nil {
		return cfg, err
	}

	if raw := os.Getenv("CALC_DEFAULT_MODE"); raw != "" {
		cfg.defaultMode, err = engine.ParseMode(raw)
		if err != nil {
			return cfg, fmt.Errorf("CALC_DEFAULT_MODE: %w", err)
		}
	}
	return cfg, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
