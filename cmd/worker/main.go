package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-places-api/config"
	"github.com/oksasatya/go-places-api/internal/infrastructure/filestore"
	"github.com/oksasatya/go-places-api/pkg/helpers"
	"github.com/oksasatya/go-places-api/pkg/jobs"
	"github.com/oksasatya/go-places-api/pkg/mailer"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-worker", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQJobsQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	files, closeFiles, err := filestore.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("file store: %v", err)
	}
	defer func() { _ = closeFiles() }()

	h := &jobs.Handler{Files: files, Logger: logger}
	if cfg.MailSendEnabled {
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			log.Fatal("Mailgun not configured")
		}
		h.Mail = mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	} else {
		logger.Info("MAIL_SEND_ENABLED=false; welcome emails are acknowledged without sending")
	}

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQJobsQueue, 16)
	if err != nil {
		log.Fatalf("amqp: %v", err)
	}
	defer consumer.Close()

	logger.Infof("worker listening on queue=%s", cfg.RabbitMQJobsQueue)
	err = consumer.Run(ctx, func(ctx context.Context, body []byte) helpers.Ack {
		c, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		err := h.Handle(c, body)
		switch {
		case err == nil:
			return helpers.AckDone
		case errors.Is(err, jobs.ErrPermanent):
			logger.WithError(err).Warn("dropping job")
			return helpers.AckDrop
		default:
			logger.WithError(err).Warn("job failed, requeueing")
			return helpers.AckRequeue
		}
	})
	if err != nil {
		logger.WithError(err).Error("consumer stopped")
	}
	logger.Info("worker exited")
}
