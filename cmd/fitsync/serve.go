package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-fitness-sync/internal/cache"
	"github.com/tbourn/go-fitness-sync/internal/config"
	"github.com/tbourn/go-fitness-sync/internal/connectivity"
	"github.com/tbourn/go-fitness-sync/internal/domain"
	httpapi "github.com/tbourn/go-fitness-sync/internal/http"
	"github.com/tbourn/go-fitness-sync/internal/http/handlers"
	"github.com/tbourn/go-fitness-sync/internal/observability"
	"github.com/tbourn/go-fitness-sync/internal/outbox"
	"github.com/tbourn/go-fitness-sync/internal/processor"
	"github.com/tbourn/go-fitness-sync/internal/remote"
	"github.com/tbourn/go-fitness-sync/internal/repo"
	"github.com/tbourn/go-fitness-sync/internal/services"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "run",
	Short:   "Run the sync loop and the local control API",
	Long: `Open the local store, start the connectivity monitor and the sync
processor, and serve the local control API until interrupted.

Without REMOTE_BASE_URL the device stays offline: writes are stored and
queued, and nothing is pushed.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, closeLogs, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLogs()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg)
	},
}

// errNoRemote is the push error while no backend is configured.
var errNoRemote = errors.New("remote backend is not configured")

// offlineRemote rejects every push.
type offlineRemote struct{}

func (offlineRemote) Apply(context.Context, domain.SyncQueueItem) error { return errNoRemote }

func serve(ctx context.Context, cfg config.Config) error {
	shutdownOTEL, err := observability.Setup(ctx, cfg.OTEL, version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownOTEL(sctx); err != nil {
			log.Warn().Err(err).Msg("otel_shutdown_failed")
		}
	}()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	qc := cache.New(cfg.Cache.TTL)
	ob := outbox.New(st)

	var (
		pusher processor.Remote = offlineRemote{}
		prober connectivity.Prober
	)
	if cfg.Sync.RemoteBaseURL != "" {
		rc, err := remote.New(remote.Config{
			BaseURL:   cfg.Sync.RemoteBaseURL,
			Timeout:   cfg.Sync.RemoteTimeout,
			RPS:       cfg.Sync.RemoteRPS,
			Burst:     cfg.Sync.RemoteBurst,
			Token:     remote.StaticToken(cfg.Sync.RemoteToken),
			UserAgent: "fitsync/" + version,
		})
		if err != nil {
			return err
		}
		pusher, prober = rc, rc
	} else if cfg.Connectivity.ProbeAddr != "" {
		prober = connectivity.DialProber{Address: cfg.Connectivity.ProbeAddr, Timeout: 3 * time.Second}
	}

	mon := connectivity.NewMonitor(prober, false)
	if prober != nil {
		mon.Check(ctx)
	}

	proc := processor.New(ob, mon, pusher, processor.Options{
		Interval: cfg.Sync.Interval,
		Disabled: !cfg.Sync.Enabled || cfg.Sync.UserID == "",
		OnDrained: func(res processor.DrainResult) {
			for _, uid := range res.Users {
				qc.Invalidate(uid)
			}
		},
	})

	h := handlers.New(handlers.Deps{
		Log:          services.NewLogService(st, ob, qc),
		Query:        services.NewQueryService(st, qc),
		Stats:        services.NewStatsService(st, qc),
		Account:      services.NewAccountService(st, proc, ob, qc),
		Sync:         proc,
		Queue:        ob,
		Connectivity: mon,
	})

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	httpapi.RegisterRoutes(r, h, storeHealth(st), cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}

	var wg sync.WaitGroup
	bg, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		wg.Wait()
	}()
	wg.Add(3)
	go func() { defer wg.Done(); qc.RunSweeper(bg, cfg.Cache.SweepInterval) }()
	go func() { defer wg.Done(); mon.Run(bg, cfg.Connectivity.ProbeInterval) }()
	go func() {
		defer wg.Done()
		if err := proc.Run(bg); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("sync_processor_stopped")
		}
	}()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", st.Path()).
			Bool("remote", cfg.Sync.RemoteBaseURL != "").
			Bool("sync_enabled", proc.Enabled()).
			Msg("server_listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("server_shutting_down")
	sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer scancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	log.Info().Int("queue_length", proc.RefreshLength(sctx)).Msg("server_stopped")
	return nil
}

// storeHealth pings the local database.
func storeHealth(st *repo.Store) httpapi.HealthCheck {
	return func(ctx context.Context) error {
		db, err := st.DB()
		if err != nil {
			return err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
