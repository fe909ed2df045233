package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fluxo/internal/amqp"
	"fluxo/internal/config"
	"fluxo/internal/core"
	"fluxo/internal/log"
	"fluxo/internal/services"
	"fluxo/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := log.New(log.Config{
		Level:     log.ParseLevel(cfg.LogLevel),
		JSON:      cfg.LogFormat == "json",
		Component: "panel-worker",
	})
	log.SetDefault(logger)

	logger.Info("Starting panel-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the panel worker")
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	svc := services.NewPanelService(repo, core.DefaultClassification())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	handler := func(msg *amqp.RunCompletedMessage) error {
		target := msg.RunDate
		if target.IsZero() {
			// messages without a run date report on yesterday
			target = time.Now().UTC().AddDate(0, 0, -1)
		}
		panel, err := svc.ComputeForDate(ctx, target)
		if err != nil {
			return err
		}

		out, err := json.Marshal(panel)
		if err != nil {
			return err
		}
		os.Stdout.Write(append(out, '\n'))

		logger.Info("Panel computed",
			"date", panel.Date.Format("2006-01-02"),
			"net_inflow", panel.NetInflow.String(),
			"net_outflow", panel.NetOutflow.String(),
			"total_balance", panel.TotalBalance.String())
		return nil
	}

	if err := amqpClient.ConsumeRunCompleted(ctx, handler); err != nil && err != context.Canceled {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}
}
