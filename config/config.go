package config

import (
	"os"
	"strconv"
	"strings"
)

// Ledger backends for settled spins.
const (
	LedgerFile     = "file"
	LedgerPostgres = "postgres"
	LedgerNone     = "none"
)

type Config struct {
	Port          int
	DataDir       string
	StartingCoins int
	DefaultBet    int
	DefaultLines  int
	Ledger        string
	DatabaseURL   string
	LogLevel      string
	LogFormat     string // "json" or "console"
}

func Load() *Config {
	port := 8081
	// Prefer PORT (Render, Fly.io, Railway, etc.) then SLOT_PORT
	if p := os.Getenv("PORT"); p != "" {
		port = positiveInt(p, port)
	} else if p := os.Getenv("SLOT_PORT"); p != "" {
		port = positiveInt(p, port)
	}
	dataDir := os.Getenv("SLOT_DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	coins := 100
	if v := os.Getenv("SLOT_STARTING_COINS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			coins = n
		}
	}
	bet := positiveInt(os.Getenv("SLOT_BET"), 10)
	lines := 1
	if v := os.Getenv("SLOT_LINES"); v == "3" {
		lines = 3
	}
	dsn := os.Getenv("DATABASE_URL")
	ledger := strings.ToLower(os.Getenv("SLOT_LEDGER"))
	switch ledger {
	case LedgerFile, LedgerPostgres, LedgerNone:
	default:
		ledger = LedgerFile
		if dsn != "" {
			ledger = LedgerPostgres
		}
	}
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat != "console" {
		logFormat = "json"
	}
	return &Config{
		Port:          port,
		DataDir:       dataDir,
		StartingCoins: coins,
		DefaultBet:    bet,
		DefaultLines:  lines,
		Ledger:        ledger,
		DatabaseURL:   dsn,
		LogLevel:      logLevel,
		LogFormat:     logFormat,
	}
}

func positiveInt(s string, def int) int {
	if v, err := strconv.Atoi(s); err == nil && v > 0 {
		return v
	}
	return def
}
