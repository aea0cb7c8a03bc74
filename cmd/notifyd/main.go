package main

import (
	"context"
	"encoding/hex"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/notifykit/modules/notify"
	"github.com/dmitrymomot/notifykit/pkg/broadcast"
	"github.com/dmitrymomot/notifykit/pkg/config"
	"github.com/dmitrymomot/notifykit/pkg/dispatcher"
	"github.com/dmitrymomot/notifykit/pkg/httpserver"
	"github.com/dmitrymomot/notifykit/pkg/logger"
	"github.com/dmitrymomot/notifykit/pkg/mailer"
	"github.com/dmitrymomot/notifykit/pkg/notification"
	"github.com/dmitrymomot/notifykit/pkg/pg"
	"github.com/dmitrymomot/notifykit/pkg/preference"
	"github.com/dmitrymomot/notifykit/pkg/webhook"
)

type appConfig struct {
	Env            string        `env:"APP_ENV" envDefault:"development"`
	AppKey         string        `env:"APP_SECRET_KEY"` // hex-encoded 32 bytes; enables webhook secret encryption at rest
	MaxAttempts    int           `env:"WEBHOOK_MAX_ATTEMPTS" envDefault:"3"`
	AttemptTimeout time.Duration `env:"WEBHOOK_ATTEMPT_TIMEOUT" envDefault:"10s"`
	DrainTimeout   time.Duration `env:"WEBHOOK_DRAIN_TIMEOUT" envDefault:"40s"`
}

func main() {
	ctx := context.Background()

	var appCfg appConfig
	config.MustLoad(&appCfg)
	var notifyCfg notify.Config
	config.MustLoad(&notifyCfg)
	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	var mailCfg mailer.Config
	config.MustLoad(&mailCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, "notifyd"))
	logger.SetAsDefault(log)

	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		log.ErrorContext(ctx, "database connection failed", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		log.ErrorContext(ctx, "migrations failed", logger.Error(err))
		os.Exit(1)
	}

	var webhookOpts []webhook.PostgresOption
	if appCfg.AppKey != "" {
		key, err := hex.DecodeString(appCfg.AppKey)
		if err != nil {
			log.ErrorContext(ctx, "APP_SECRET_KEY must be hex-encoded", logger.Error(err))
			os.Exit(1)
		}
		webhookOpts = append(webhookOpts, webhook.WithAppKey(key))
	}

	notifStorage := notification.NewPostgresStorage(pool)
	prefStorage := preference.NewPostgresStorage(pool)
	webhookStorage := webhook.NewPostgresStorage(pool, webhookOpts...)
	mailStorage := mailer.NewPostgresStorage(pool)

	var mailSink mailer.Sink
	if mailCfg.PostmarkEnabled() {
		mailSink, err = mailer.NewPostmarkSink(mailCfg, mailStorage)
		if err != nil {
			log.ErrorContext(ctx, "postmark sink setup failed", logger.Error(err))
			os.Exit(1)
		}
		log.InfoContext(ctx, "email channel using postmark transport")
	} else {
		mailSink = mailer.NewRecordingSink(mailStorage, mailer.WithRecordingLogger(log))
	}

	engine := webhook.NewEngine(webhookStorage,
		webhook.WithMaxAttempts(appCfg.MaxAttempts),
		webhook.WithTimeout(appCfg.AttemptTimeout),
		webhook.WithEngineLogger(log),
	)
	feed := broadcast.NewMemoryBroadcaster[notification.Record](16)

	disp := dispatcher.New(
		preference.NewResolver(prefStorage, preference.WithResolverLogger(log)),
		notifStorage,
		dispatcher.WithMailSink(mailSink),
		dispatcher.WithWebhookDeliverer(engine),
		dispatcher.WithBroadcaster(feed),
		dispatcher.WithLogger(log),
	)

	router := chi.NewRouter()
	router.Mount("/", notify.Router(notify.RouterOptions{
		Config:        notifyCfg,
		Dispatcher:    disp,
		Notifications: notification.NewService(notifStorage, notification.WithLogger(log)),
		Preferences:   preference.NewService(prefStorage),
		Webhooks:      webhook.NewRegistry(webhookStorage),
		Feed:          feed,
		Readiness:     []func(context.Context) error{pg.Healthcheck(pool)},
		Logger:        log,
	}))

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithStopHook(func(ctx context.Context) {
			// Let in-flight webhook retry sequences reach a terminal state
			// before the process exits.
			drainCtx, cancel := context.WithTimeout(ctx, appCfg.DrainTimeout)
			defer cancel()
			if err := engine.Close(drainCtx); err != nil {
				log.WarnContext(drainCtx, "webhook engine drain interrupted", logger.Error(err))
			}
			_ = feed.Close()
		}),
	)

	if err := srv.Run(ctx, router); err != nil {
		log.ErrorContext(ctx, "server stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.InfoContext(ctx, "server stopped", slog.String("env", appCfg.Env))
}
