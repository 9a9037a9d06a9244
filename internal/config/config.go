// Package config loads table, ledger and server settings from the environment
// and an optional .env file.
package config

import (
	"fmt"
	"strings"
	"time"

	"holdem-fair/holdem"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	LedgerMemory   = "memory"
	LedgerSQLite   = "sqlite"
	LedgerPostgres = "postgres"
)

type Config struct {
	// Table
	Players       int
	StartingStack int64
	SmallBlind    int64
	BigBlind      int64
	ClientSeed    string
	ActionTimeout time.Duration

	// Ledger
	LedgerMode  string
	SQLitePath  string
	DatabaseURL string

	// Server
	HTTPAddr     string
	LogLevel     string
	PersonasFile string
}

// Load reads .env (a missing file is fine) and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromViper(New())
}

// New returns a viper instance bound to the environment with every default set.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault("HOLDEM_PLAYERS", 6)
	v.SetDefault("HOLDEM_STARTING_STACK", holdem.DefaultStartingStack)
	v.SetDefault("HOLDEM_SMALL_BLIND", holdem.DefaultSmallBlind)
	v.SetDefault("HOLDEM_BIG_BLIND", holdem.DefaultBigBlind)
	v.SetDefault("HOLDEM_CLIENT_SEED", "")
	v.SetDefault("HOLDEM_ACTION_TIMEOUT", 30*time.Second)
	v.SetDefault("LEDGER_MODE", LedgerMemory)
	v.SetDefault("LEDGER_SQLITE_PATH", "data/holdem_ledger.db")
	v.SetDefault("LEDGER_DATABASE_URL", "")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("NPC_PERSONAS_FILE", "")
	v.AutomaticEnv()
	return v
}

// FromViper materializes and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Players:       v.GetInt("HOLDEM_PLAYERS"),
		StartingStack: v.GetInt64("HOLDEM_STARTING_STACK"),
		SmallBlind:    v.GetInt64("HOLDEM_SMALL_BLIND"),
		BigBlind:      v.GetInt64("HOLDEM_BIG_BLIND"),
		ClientSeed:    v.GetString("HOLDEM_CLIENT_SEED"),
		ActionTimeout: v.GetDuration("HOLDEM_ACTION_TIMEOUT"),
		LedgerMode:    strings.ToLower(strings.TrimSpace(v.GetString("LEDGER_MODE"))),
		SQLitePath:    strings.TrimSpace(v.GetString("LEDGER_SQLITE_PATH")),
		DatabaseURL:   strings.TrimSpace(v.GetString("LEDGER_DATABASE_URL")),
		HTTPAddr:      v.GetString("HTTP_ADDR"),
		LogLevel:      strings.ToLower(v.GetString("LOG_LEVEL")),
		PersonasFile:  v.GetString("NPC_PERSONAS_FILE"),
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Players < holdem.MinPlayers || c.Players > holdem.MaxPlayers {
		return holdem.InvalidPlayerCountError(c.Players)
	}
	if c.StartingStack <= 0 {
		return fmt.Errorf("HOLDEM_STARTING_STACK must be > 0")
	}
	if c.SmallBlind < 0 || c.BigBlind <= 0 || c.SmallBlind > c.BigBlind {
		return fmt.Errorf("invalid blinds: sb=%d bb=%d", c.SmallBlind, c.BigBlind)
	}
	if c.ActionTimeout < 0 {
		return fmt.Errorf("HOLDEM_ACTION_TIMEOUT must be >= 0")
	}
	switch c.LedgerMode {
	case LedgerMemory:
	case LedgerSQLite, "local":
		if c.SQLitePath == "" {
			return fmt.Errorf("LEDGER_SQLITE_PATH is required for sqlite ledger")
		}
	case LedgerPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("LEDGER_DATABASE_URL is required for postgres ledger")
		}
	default:
		return fmt.Errorf("unknown LEDGER_MODE %q", c.LedgerMode)
	}
	return nil
}

// EngineConfig is the table part of c.
func (c Config) EngineConfig() holdem.Config {
	return holdem.Config{
		Players:       c.Players,
		StartingStack: c.StartingStack,
		SmallBlind:    c.SmallBlind,
		BigBlind:      c.BigBlind,
		ClientSeed:    c.ClientSeed,
	}
}
