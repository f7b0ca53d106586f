package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"frostbot/internal/adapter/client/runelite"
	httpadapter "frostbot/internal/adapter/http"
	metricsinmem "frostbot/internal/adapter/metrics/inmemory"
	gormrepo "frostbot/internal/adapter/repo/gorm"
	"frostbot/internal/adapter/repo/memory"
	"frostbot/internal/app/brew"
	"frostbot/internal/app/engine"
	"frostbot/internal/app/ports"
	"frostbot/internal/app/provision"
	"frostbot/internal/app/status"
	"frostbot/internal/config"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to YAML config")
	clientURL := pflag.String("client-url", "", "override client websocket URL")
	strategy := pflag.String("strategy", "", "override strategy (banked|brewed)")
	runMinutes := pflag.Int("run-minutes", 0, "override run budget in minutes")
	debug := pflag.Bool("debug", false, "enable debug logging")
	pflag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("config load failed", "error", err)
		os.Exit(1)
	}
	if *clientURL != "" {
		cfg.ClientURL = *clientURL
	}
	if *strategy != "" {
		cfg.Strategy = config.Strategy(*strategy)
	}
	if *runMinutes > 0 {
		cfg.RunMinutes = *runMinutes
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := runelite.Dial(cfg.ClientURL, logger.With("component", "client"))
	if err != nil {
		logger.Error("game client dial failed", "url", cfg.ClientURL, "error", err)
		os.Exit(1)
	}
	defer client.Close()

	runs, events := buildRepos(cfg, logger)
	recorder := metricsinmem.NewRecorder()

	prov := provision.UseCase{
		Client:      client,
		Logger:      logger.With("component", "provision"),
		FletchRoots: cfg.FletchRoots,
	}
	if err := prov.EnsureReady(ctx); err != nil {
		logger.Error("gear check failed", "error", err)
		os.Exit(1)
	}

	eng := &engine.Engine{
		Client:  client,
		Cfg:     cfg,
		Runs:    runs,
		Events:  events,
		Metrics: recorder,
		Logger:  logger.With("component", "engine"),
	}
	if cfg.Strategy == config.StrategyBrewed {
		eng.Brewer = &brew.Pipeline{
			Client:        client,
			Logger:        logger.With("component", "brew"),
			TargetPotions: cfg.TargetPotions,
		}
	}

	h := httpadapter.Handler{
		StatusUC: status.UseCase{Live: eng, Runs: runs, Events: events},
		KPI:      recorder,
	}
	srv := server.Default(server.WithHostPorts(cfg.OpsAddr))
	h.RegisterRoutes(srv)

	runCtx, cancelRun := context.WithCancel(ctx)
	defer cancelRun()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		// Budget expiry also brings the ops server down.
		defer cancelRun()
		return eng.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("ops server listening", "addr", cfg.OpsAddr)
		srv.Spin()
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return srv.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Error("run ended with error", "error", err)
		os.Exit(1)
	}
	logger.Info("shut down cleanly")
}

// buildRepos picks persistence by configuration: a DSN gets postgres,
// otherwise everything stays in memory for the session.
func buildRepos(cfg config.Config, logger *slog.Logger) (ports.RunRepository, ports.RoundEventRepository) {
	if cfg.DBDSN == "" {
		store := memory.NewStore()
		return memory.NewRunRepo(store), memory.NewRoundEventRepo(store)
	}
	db, err := gormrepo.OpenPostgres(cfg.DBDSN)
	if err != nil {
		logger.Warn("postgres unavailable, falling back to in-memory persistence", "error", err)
		store := memory.NewStore()
		return memory.NewRunRepo(store), memory.NewRoundEventRepo(store)
	}
	if err := gormrepo.Migrate(db); err != nil {
		logger.Warn("migration failed, falling back to in-memory persistence", "error", err)
		store := memory.NewStore()
		return memory.NewRunRepo(store), memory.NewRoundEventRepo(store)
	}
	return gormrepo.NewRunRepo(db), gormrepo.NewRoundEventRepo(db)
}
