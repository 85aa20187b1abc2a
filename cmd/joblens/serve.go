package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/amishk599/joblens/internal/api"
	"github.com/amishk599/joblens/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long:  "Serve the REST API and run the cache sweep and trending warm-up jobs; blocks until SIGINT/SIGTERM.",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		return err
	}
	defer a.Close()

	logger.Info("config loaded",
		"addr", cfg.Server.Addr,
		"sources", len(a.orch.Sources()),
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend,
		"max_results", cfg.Search.MaxResults,
	)

	if !debug {
		gin.SetMode(gin.ReleaseMode)
	}
	handler := api.NewHandler(a.orch, cfg.Server.AdminToken, logger)
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handler, a.registry, logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	var opts []scheduler.Option
	if a.sweeper != nil {
		opts = append(opts, scheduler.WithSweep(a.sweeper, cfg.Cache.SweepInterval))
	}
	if cfg.Trending.WarmSchedule != "" {
		opts = append(opts, scheduler.WithWarmUp(a.orch, cfg.Trending.WarmSchedule))
	}
	sched := scheduler.New(logger, opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("server error", "error", err)
		return err
	}

	logger.Info("goodbye")
	return nil
}
