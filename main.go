package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lazharichir/multiboard/config"
	"github.com/lazharichir/multiboard/domain"
	"github.com/lazharichir/multiboard/server"
	"github.com/lazharichir/multiboard/table"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logger, err := cfg.Logger()
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	manager := domain.NewTableManager(logger.Named("tables"))
	service := table.NewService(manager, logger.Named("loops"))
	srv := server.NewServer(service, cfg.Rules, cfg.Settings, logger.Named("server"))

	logger.Info("starting multiboard",
		zap.String("addr", cfg.Addr()),
		zap.Int("starting_chips", cfg.Rules.StartingChips),
		zap.Int("small_blind", cfg.Rules.Blinds.SmallBlind),
		zap.Int("big_blind", cfg.Rules.Blinds.BigBlind),
		zap.Duration("turn_timeout", cfg.Rules.TurnTimeout),
		zap.Int("boards", cfg.Settings.NumBoards),
	)

	if err := srv.Run(ctx, cfg.Addr()); err != nil {
		logger.Error("server failed", zap.Error(err))
		os.Exit(1)
	}
}
