package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/abakedjoetato/Fbtrial-sub001/api/server"
	"github.com/abakedjoetato/Fbtrial-sub001/config"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/bot"
	"github.com/abakedjoetato/Fbtrial-sub001/internal/logger"
)

func main() {
	// Missing .env is normal in production, where the environment is set by
	// the process manager.
	_ = godotenv.Load()

	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	logger := logger.New(cfg.Logger.Level, cfg.Logger.File)
	if logger == nil {
		log.Fatal("Failed to initialize logger")
	}

	logger.Info("Initializing bot...")
	discordBot, err := bot.New(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create bot: " + err.Error())
	}

	srv := server.NewServer(cfg, discordBot.Database())
	srv.SetupRoutes()
	go func() {
		logger.Info("Starting HTTP server on " + cfg.Server.Addr)
		if err := srv.Start(); err != nil {
			logger.Error("HTTP server error: " + err.Error())
		}
	}()

	logger.Info("Starting bot...")
	if err := discordBot.Start(); err != nil {
		logger.Fatal("Failed to start bot: " + err.Error())
	}

	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

	<-sc

	logger.Info("Shutting down...")
	if err := discordBot.Stop(); err != nil {
		logger.Error("Error during shutdown: " + err.Error())
	}
}
