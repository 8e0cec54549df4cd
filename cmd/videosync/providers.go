package main

import (
	"fmt"
	"time"

	"github.com/google/wire"
	"github.com/sirupsen/logrus"

	"github.com/amaumene/videosync/internal/api"
	"github.com/amaumene/videosync/internal/api/handlers"
	"github.com/amaumene/videosync/internal/categories"
	"github.com/amaumene/videosync/internal/config"
	"github.com/amaumene/videosync/internal/controllers"
	"github.com/amaumene/videosync/internal/metrics"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/render"
	"github.com/amaumene/videosync/internal/scheduler"
	"github.com/amaumene/videosync/internal/services/providers"
	"github.com/amaumene/videosync/internal/storage"
	"github.com/amaumene/videosync/internal/synth"
	"github.com/amaumene/videosync/internal/tracing"
	"github.com/amaumene/videosync/internal/utils"
)

// categoryCacheTTL bounds how long a taxonomy snapshot is trusted
const categoryCacheTTL = 10 * time.Minute

// App holds the assembled components
type App struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Controller *controllers.SyncController
	Scheduler  *scheduler.Scheduler
	Server     *api.Server
}

var providerSet = wire.NewSet(
	provideLogger,
	provideDatabase,
	provideStore,
	provideBlacklist,
	provideSettings,
	provideResolver,
	provideClients,
	provideScheduler,
	render.NewRenderer,
	synth.NewSynthesizer,
	metrics.New,
	controllers.NewSyncController,
	api.NewServer,
	wire.Bind(new(categories.Taxonomy), new(*storage.Store)),
	wire.Bind(new(controllers.PostStore), new(*storage.Store)),
	wire.Bind(new(handlers.Trigger), new(*scheduler.Scheduler)),
	wire.Bind(new(handlers.PostCounter), new(*storage.Store)),
	wire.Struct(new(App), "*"),
)

func provideLogger(cfg *config.Config) (*logrus.Logger, func()) {
	logger := utils.NewLoggerWithFormat(cfg.LogLevel, cfg.LogFormat)
	shutdown := tracing.Setup(cfg.Tracing, logger)
	return logger, shutdown
}

func provideDatabase(cfg *config.Config, logger *logrus.Logger) (*models.Database, func(), error) {
	db, err := models.NewDatabase(cfg.JournalFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize journal: %w", err)
	}
	logger.WithField("path", cfg.JournalFile).Info("Journal initialized")

	return db, func() {
		if err := db.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close journal")
		}
	}, nil
}

func provideStore(cfg *config.Config, logger *logrus.Logger) (*storage.Store, func(), error) {
	store, err := storage.NewStore(cfg.DatabaseFile, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.WithField("path", cfg.DatabaseFile).Info("Database initialized")

	return store, func() {
		if err := store.Close(); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}, nil
}

func provideBlacklist(cfg *config.Config, logger *logrus.Logger) *utils.Blacklist {
	blacklist, err := utils.LoadBlacklist(cfg.BlacklistFile)
	if err != nil {
		logger.WithError(err).Warn("Failed to load blacklist, continuing without it")
		return utils.NewBlacklist()
	}
	logger.WithField("terms", blacklist.Len()).Info("Blacklist loaded")
	return blacklist
}

func provideSettings(cfg *config.Config, logger *logrus.Logger) (synth.Settings, error) {
	profile, err := config.LoadProfile(cfg.ProfileFile)
	if err != nil {
		return synth.Settings{}, err
	}
	settings, err := profile.Settings(cfg.Author)
	if err != nil {
		return synth.Settings{}, fmt.Errorf("invalid profile %s: %w", cfg.ProfileFile, err)
	}
	logger.WithFields(logrus.Fields{
		"fields":      len(settings.Fields),
		"definitions": len(settings.Definitions),
		"mode":        settings.Categories.Mode,
	}).Info("Synthesis profile loaded")
	return settings, nil
}

func provideResolver(taxonomy categories.Taxonomy, logger *logrus.Logger) *categories.Resolver {
	return categories.NewResolver(taxonomy, categoryCacheTTL, logger)
}

func provideClients(cfg *config.Config, logger *logrus.Logger) (controllers.Clients, error) {
	clients := make(controllers.Clients, len(cfg.SyncOrigins))
	for _, origin := range cfg.SyncOrigins {
		client, err := providers.New(cfg.Endpoints[origin], providers.DefaultOptions(), logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize %s client: %w", origin, err)
		}
		clients[origin] = client
		logger.WithField("origin", origin).Info("Provider client initialized")
	}
	return clients, nil
}

func provideScheduler(ctrl *controllers.SyncController, cfg *config.Config, logger *logrus.Logger) *scheduler.Scheduler {
	request := controllers.SyncRequest{
		Origins: cfg.SyncOrigins,
		Limit:   cfg.SyncLimit,
	}
	return scheduler.NewScheduler(ctrl, cfg.SyncSchedule, request, logger)
}
