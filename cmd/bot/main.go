package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"vocabdetect/internal/app"
	"vocabdetect/internal/config"
	"vocabdetect/internal/logger"
	"vocabdetect/internal/telegram"
)

func main() {
	cfg := config.Load()
	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}
	appLogger := logger.NewLogger(cfg)

	application, err := app.NewApp(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to initialize bot: %v", err)
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application.Start(ctx)

	bot, err := telegram.NewBot(cfg.TelegramToken, application.DetectionService(), application.Table(), appLogger)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	appLogger.Info("Bot is running...")
	if err := bot.Run(ctx); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
