package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	config "github.com/doarlabs/donation-ledger-go/config"
	notifier "github.com/doarlabs/donation-ledger-go/notifier"
	utils "github.com/doarlabs/donation-ledger-go/utils"
)

func main() {
	log := utils.NewLogger(os.Getenv("APP_ENV"))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx, log)
	if err != nil {
		log.Fatal().Err(err).Msg("could not load configuration")
	}
	defer cfg.Close(context.Background())

	if cfg.SQSClient == nil {
		log.Fatal().Msg("SQS_QUEUE_URL is required for the notifier")
	}

	email, err := utils.NewEmailSenderFromEnv()
	if err != nil {
		log.Warn().Err(err).Msg("email not configured, notifications will only be logged")
		email = nil
	}

	var sender notifier.EmailSender
	if email != nil {
		sender = email
	}

	consumer := notifier.NewConsumer(cfg.SQSClient, cfg.QueueURL, sender, cfg.NotifyEmailTo, cfg.ReceiptBaseURL, log)

	log.Info().Str("queue_url", cfg.QueueURL).Msg("notifier consuming")
	if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("consumer stopped")
	}
	log.Info().Msg("notifier stopped")
}
