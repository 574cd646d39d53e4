package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"

	"remo/internal/bridge"
	"remo/internal/config"
	"remo/internal/player"
	"remo/internal/queue"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: user config dir)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "fatal:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel(),
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)

	queueService := queue.NewService()
	playerService, err := player.NewService(player.Config{Volume: cfg.Player.Volume}, queueService, logger)
	if err != nil {
		return fmt.Errorf("create player: %w", err)
	}
	defer playerService.Close()

	conn := bridge.NewPahoConn(bridge.BrokerConfig{
		Host:     cfg.MQTT.Host,
		Port:     cfg.MQTT.Port,
		Username: cfg.MQTT.Username,
		Password: cfg.MQTT.Password,
		ClientID: cfg.MQTT.ClientID,
		QoS:      byte(cfg.MQTT.QoS),
	})

	controller := bridge.NewController(conn, playerService, cfg.MQTT.TopicPrefix, logger)
	playerService.SetListener(controller.Listener())

	if err := controller.Start(); err != nil {
		return fmt.Errorf("start bridge: %w", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
		controller.Stop()
	case <-controller.Done():
		// The bridge stopped itself after an unrecoverable failure; exit
		// and let the supervisor decide about a restart.
		return fmt.Errorf("bridge stopped unexpectedly")
	}

	return nil
}
