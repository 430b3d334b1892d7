package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/frontlinebot/actlog/internal/config"
	"github.com/frontlinebot/actlog/internal/database"
	"github.com/frontlinebot/actlog/internal/infrastructure/notify"
	_ "github.com/frontlinebot/actlog/internal/infrastructure/notify/discordsink"
	"github.com/frontlinebot/actlog/internal/logger"
	"github.com/frontlinebot/actlog/internal/repository"
	"github.com/frontlinebot/actlog/internal/server"
	"github.com/frontlinebot/actlog/internal/service"
	"github.com/frontlinebot/actlog/internal/storage"
)

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		boot := zerolog.New(os.Stderr).With().Timestamp().Logger()
		boot.Fatal().Err(err).Msg("load config")
	}

	ls := logger.NewService(cfg.Observability)
	defer ls.Shutdown()
	log := logger.New(cfg.Observability)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log, ls); err != nil {
		log.Error().Err(err).Msg("actlog exited")
		stop()
		ls.Shutdown()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger, ls *logger.Service) error {
	db, err := database.New(ctx, cfg.Database, log, ls)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}

	links := repository.NewLinkRepository(db.Pool)
	matches := repository.NewMatchRepository(db.Pool)
	results := repository.NewResultRepository(db.Pool)

	deps := service.RecordDeps{
		Links:   links,
		Matches: matches,
		Results: results,
		Workers: cfg.Ingest.PersistWorkers,
		Logger:  log,
	}
	srvDeps := server.Deps{
		Links:     links,
		Watchlist: service.NewWatchlistService(repository.NewWatchlistRepository(db.Pool)),
		Stats:     service.NewStatsService(results, results, matches),
		Notifiers: notify.GlobalRegistry,
		DB:        db.Pool,
		NewRelic:  ls.Application(),
	}

	if cfg.Storage != nil && cfg.Storage.O3 != nil {
		o3, err := storage.NewO3Client(cfg.Storage.O3)
		switch {
		case err != nil:
			log.Warn().Err(err).Msg("object storage disabled")
		case o3 == nil:
			log.Info().Msg("object storage not configured; raw exports are not archived")
		default:
			if err := o3.EnsureBucket(ctx); err != nil {
				log.Warn().Err(err).Str("bucket", cfg.Storage.O3.Bucket).Msg("ensure bucket failed; archiving may fail")
			}
			deps.Archiver = o3
			srvDeps.Archive = o3
		}
	}

	notifiers, err := notify.GlobalRegistry.Build(notify.SpecsFromConfig(cfg.Notifiers))
	if err != nil {
		return err
	}
	if len(notifiers) > 0 {
		deps.Notifier = notify.Fanout(notifiers)
	}
	log.Info().
		Strs("notifier_types", notify.GlobalRegistry.ListRegistered()).
		Int("notifiers", len(notifiers)).
		Msg("notifiers configured")

	srvDeps.Recorder = service.NewRecordService(deps)

	return server.New(cfg, log, srvDeps).Start(ctx)
}
