package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/creative-performance-api/infrastructure/assetstore"
	"github.com/vfg2006/creative-performance-api/infrastructure/database/postgres"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/tiktok"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/tiktok/tiktokclient"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube"
	"github.com/vfg2006/creative-performance-api/infrastructure/integrator/youtube/googleclient"
	"github.com/vfg2006/creative-performance-api/infrastructure/repository"
	"github.com/vfg2006/creative-performance-api/internal/api"
	"github.com/vfg2006/creative-performance-api/internal/config"
	"github.com/vfg2006/creative-performance-api/internal/domain"
	"github.com/vfg2006/creative-performance-api/internal/scheduler"
	"github.com/vfg2006/creative-performance-api/internal/usecases/assets"
	"github.com/vfg2006/creative-performance-api/internal/usecases/authenticating"
	"github.com/vfg2006/creative-performance-api/internal/usecases/connecting"
	"github.com/vfg2006/creative-performance-api/internal/usecases/converting"
	"github.com/vfg2006/creative-performance-api/internal/usecases/harmonizing"
	"github.com/vfg2006/creative-performance-api/internal/usecases/scoring"
	"github.com/vfg2006/creative-performance-api/pkg/secrets"
	"github.com/vfg2006/creative-performance-api/pkg/sessioncache"
)

const (
	handoffTTL           = 15 * time.Minute
	handoffSweepInterval = time.Minute
)

func main() {
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("invalid log level %q, falling back to info", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	box, err := secrets.NewBox(cfg.Auth.TokenKey)
	if err != nil {
		logrus.WithError(err).Fatal("invalid token encryption key")
	}

	connectionRepo := repository.NewConnectionRepository(pgConn)
	syncJobRepo := repository.NewSyncJobRepository(pgConn)
	assetRepo := repository.NewCreativeAssetRepository(pgConn)
	harmonizedRepo := repository.NewHarmonizedRepository(pgConn)
	currencyRateRepo := repository.NewCurrencyRateRepository(pgConn)

	rawRepos := map[domain.Platform]repository.RawPerformanceRepository{
		domain.PlatformMeta:    repository.NewMetaRawPerformanceRepository(pgConn),
		domain.PlatformTikTok:  repository.NewTikTokRawPerformanceRepository(pgConn),
		domain.PlatformYouTube: repository.NewYouTubeRawPerformanceRepository(pgConn),
	}

	assetStore := assetstore.New(cfg.Assets)

	googleClient := googleclient.NewClient(cfg)

	ingestors := map[domain.Platform]integrator.Ingestor{
		domain.PlatformMeta:    meta.New(cfg, metaclient.NewClient(cfg), assetStore),
		domain.PlatformTikTok:  tiktok.New(cfg, tiktokclient.NewClient(cfg)),
		domain.PlatformYouTube: youtube.New(cfg, googleClient),
	}

	converter := converting.NewService(cfg, currencyRateRepo)
	resolver := assets.NewResolver(assetRepo, scoring.NewService())
	harmonizer := harmonizing.NewService(rawRepos, harmonizedRepo, connectionRepo, converter, resolver)

	runner := scheduler.NewSyncRunner(
		cfg,
		connectionRepo,
		syncJobRepo,
		rawRepos,
		ingestors,
		harmonizer,
		box,
		scheduler.NewGoogleTokenRefresher(googleClient),
	)

	triggers := scheduler.NewTriggerService(cfg, connectionRepo, syncJobRepo, runner)
	if err := triggers.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("starting sync scheduler")
	}

	pendingStore := sessioncache.New(handoffTTL, handoffSweepInterval)
	defer pendingStore.Close()

	connectionService := connecting.NewService(
		connectionRepo,
		syncJobRepo,
		box,
		pendingStore,
		runner,
		triggers,
	)

	authenticator := authenticating.NewService(cfg)

	server, err := api.New(cfg, connectionService, authenticator, triggers)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

func configureLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("connecting to PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("pinging PostgreSQL")
	}

	logrus.Info("PostgreSQL connection established")
	return conn
}
