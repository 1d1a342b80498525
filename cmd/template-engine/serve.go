package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/go-pg/pg"
	"github.com/gorilla/mux"
	"github.com/mailgun/mailgun-go/v3"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/interactive-solutions/go-template-engine"
	"github.com/interactive-solutions/go-template-engine/client/settings"
	elks "github.com/interactive-solutions/go-template-engine/provider/46elks"
	sesprovider "github.com/interactive-solutions/go-template-engine/provider/aws"
	mailgunprovider "github.com/interactive-solutions/go-template-engine/provider/mailgun"
	"github.com/interactive-solutions/go-template-engine/resolver/mustache"
	gopg "github.com/interactive-solutions/go-template-engine/storage/go-pg"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the template API backed by postgres",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}

			return serve(cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the yaml configuration")

	return cmd
}

func serve(cfg *config) error {
	logger, err := cfg.logger()
	if err != nil {
		return err
	}

	db := pg.Connect(&pg.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Database.Host, cfg.Database.Port),
		User:     cfg.Database.Username,
		Password: cfg.Database.Password,
		Database: cfg.Database.Database,
	})
	defer db.Close()

	options := []templateengine.AppOption{
		templateengine.SetLogger(logger),
		templateengine.SetTemplateRepo(gopg.NewTemplateRepository(db)),
		templateengine.SetJobRepo(gopg.NewJobRepository(db)),
		templateengine.SetResolver(mustache.Name, mustache.NewResolver()),
		templateengine.SetLocaleProvider(localeProvider(cfg, logger)),
		templateengine.SetBarcodeMarkers(cfg.Barcode.Markers...),
		templateengine.SetWorkerCount(cfg.Workers),
	}

	transports, err := transportOptions(cfg, logger)
	if err != nil {
		return err
	}

	app, err := templateengine.NewApplication(append(options, transports...)...)
	if err != nil {
		return errors.Wrap(err, "failed to create application")
	}

	router := mux.NewRouter()
	app.HttpHandler().RegisterRoutes(router)

	server := &http.Server{
		Addr:    cfg.Http.Address,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errs := make(chan error, 1)
	go func() {
		logger.WithField("address", cfg.Http.Address).Info("Serving template engine")
		errs <- server.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return errors.Wrap(err, "http server stopped")

	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Failed to shut down http server")
	}

	// Workers stop after in-flight requests are done
	app.Shutdown(ctx)

	return nil
}

func localeProvider(cfg *config, logger logrus.FieldLogger) templateengine.LocaleProvider {
	if cfg.Settings.Url == "" {
		return templateengine.StaticLocaleProvider{
			LanguageTag: cfg.Locale.LanguageTag,
			TimeZoneId:  cfg.Locale.TimeZoneId,
		}
	}

	options := []settings.ClientOption{settings.SetLogger(logger)}
	if cfg.Settings.ApiKey != "" {
		options = append(options, settings.SetHeader("X-Api-Key", cfg.Settings.ApiKey))
	}

	return settings.NewClient(cfg.Settings.Url, options...)
}

// transportOptions configures delivery. Mailgun wins over SES when both are
// configured.
func transportOptions(cfg *config, logger logrus.FieldLogger) ([]templateengine.AppOption, error) {
	var options []templateengine.AppOption

	switch {
	case cfg.Mailgun.Domain != "":
		transport, err := mailgunprovider.NewMailgunTransport(
			mailgun.NewMailgun(cfg.Mailgun.Domain, cfg.Mailgun.ApiKey),
			mailgunprovider.SetFrom(cfg.Mailgun.From),
			mailgunprovider.SetReplyTo(cfg.Mailgun.ReplyTo),
		)
		if err != nil {
			return nil, errors.Wrap(err, "failed to configure mailgun")
		}

		options = append(options, templateengine.SetDefaultEmailTransport(transport))

	case cfg.Ses.Region != "":
		sess, err := session.NewSession(&aws.Config{Region: aws.String(cfg.Ses.Region)})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create aws session")
		}

		options = append(options, templateengine.SetDefaultEmailTransport(sesprovider.NewSesTransport(sess, cfg.Ses.From)))
	}

	if cfg.Elks.Username != "" {
		transport := elks.New46ElksClient(cfg.Elks.From, cfg.Elks.Username, cfg.Elks.Password, elks.SetLogger(logger))
		options = append(options, templateengine.SetDefaultSmsTransport(transport))
	}

	return options, nil
}
