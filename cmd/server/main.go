package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	rgs "github.com/Ashenafi-pixel/gamecrafter-slot-server"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/config"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/round"
	"github.com/Ashenafi-pixel/gamecrafter-slot-server/server"
)

func main() {
	// .env in cwd, then the project root
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")
	_ = godotenv.Load("../.env.local")
	cfg := config.Load()

	logger, err := rgs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var opts []server.Option
	if cfg.Ledger == config.LedgerPostgres {
		db, err := rgs.OpenDB(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("open database", zap.Error(err))
		}
		if db == nil {
			logger.Fatal("SLOT_LEDGER=postgres needs DATABASE_URL")
		}
		defer db.Close()
		ledger := round.NewPGLedger(db)
		if err := ledger.EnsureSchema(ctx); err != nil {
			logger.Fatal("ledger schema", zap.Error(err))
		}
		opts = append(opts, server.WithLedger(ledger))
	}

	srv := server.New(cfg, logger, opts...)
	if err := srv.Run(ctx); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
	logger.Info("server stopped")
}
