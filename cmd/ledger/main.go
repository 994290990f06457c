package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	apphttp "ledger/internal/http"
	"ledger/internal/log"
	"ledger/internal/mail"
	"ledger/internal/otp"
	"ledger/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()
	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// The message bus is optional. Without it transactions still persist;
	// the worker picks them up through the pending-sync backup scan.
	var publisher services.SyncPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, export announcements disabled", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
		}
	}

	mailer, err := mail.NewSMTPSender(mail.Config{
		Host:        cfg.SMTPHost,
		Port:        cfg.SMTPPort,
		Username:    cfg.SMTPUser,
		Password:    cfg.SMTPPass,
		From:        cfg.SMTPFrom,
		CodeTTL:     cfg.OTPExpiry,
		SendTimeout: cfg.OTPSendTimeout,
	})
	if err != nil {
		logger.Error("Failed to initialize SMTP sender", log.FieldError, err)
		os.Exit(1)
	}

	ledgerSvc := services.NewLedgerService(repo, publisher)
	otpSvc := services.NewOTPService(otp.NewStore(cfg.OTPExpiry), mailer, cfg.AllowedEmails)

	srv := apphttp.NewServer(":"+cfg.Port, ledgerSvc, otpSvc, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
	})

	logger.Info("Starting ledger server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
