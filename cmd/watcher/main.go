package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"foresterswatch/config"
	"foresterswatch/internal/adapters/browser"
	"foresterswatch/internal/adapters/email"
	"foresterswatch/internal/adapters/foresters"
	"foresterswatch/internal/domain"
	"foresterswatch/internal/repository/file"
	"foresterswatch/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	logger := config.NewLogger(cfg.Environment)

	provider := cfg.MailProvider
	if !cfg.HasMailCredentials() {
		provider = "log"
	}
	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    provider,
		FromAddress: cfg.MailFromAddress,
		FromName:    cfg.MailFromName,
		SES: email.SESConfig{
			Region:          cfg.SESRegion,
			AccessKeyID:     cfg.SESAccessKeyID,
			SecretAccessKey: cfg.SESSecretAccessKey,
		},
	})
	if err != nil {
		logger.Error("failed to create mailer", "err", err)
		os.Exit(1)
	}

	notifier := services.NewNotificationService(
		mailer,
		email.NewTemplateRenderer(),
		cfg.NotifyRecipients,
		cfg.ErrorRecipients,
		logger,
	)

	acquirer := browser.NewTokenAcquirer(browser.Config{
		LoginURL:     cfg.LoginURL,
		HostPattern:  foresters.APIHostPattern,
		TokenTimeout: cfg.TokenTimeout,
	}, logger)

	watcher := services.NewWatchService(
		acquirer,
		foresters.NewClient(&http.Client{Timeout: 30 * time.Second}),
		file.NewSnapshotRepository(cfg.StorePath),
		notifier,
		domainCredentials(cfg),
		domainSearchParams(cfg),
		logger,
	)

	if err := watcher.Run(context.Background()); err != nil {
		logger.Error("run failed", "err", err)
		os.Exit(1)
	}
}

func domainCredentials(cfg *config.Config) domain.Credentials {
	return domain.Credentials{
		Username: cfg.LoginUsername,
		Password: cfg.LoginPassword,
	}
}

func domainSearchParams(cfg *config.Config) domain.SearchParams {
	return domain.SearchParams{
		Radius:      cfg.SearchRadius,
		PostalCode:  cfg.SearchPostcode,
		CountryCode: cfg.SearchCountry,
	}
}
