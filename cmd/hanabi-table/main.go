package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/DoyleJ11/hanabi-table/internal/config"
	"github.com/DoyleJ11/hanabi-table/internal/httpapi"
	"github.com/DoyleJ11/hanabi-table/internal/render"
	"github.com/DoyleJ11/hanabi-table/internal/results"
	"github.com/DoyleJ11/hanabi-table/internal/table"
	"github.com/DoyleJ11/hanabi-table/internal/ws"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	var cfg config.Config
	err := config.NewCommand(&cfg, run).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(parent context.Context, cfg config.Config) error {
	log, err := config.NewLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	defer log.Sync()

	// The game is over when the server goes away.
	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	client, err := ws.Dial(ctx, cfg.ServerURL, log)
	if err != nil {
		return err
	}
	defer client.Close()

	opts := table.Options{
		Session:   cfg.Session(),
		Transport: client,
		Logger:    log,
	}
	if cfg.ResultsDSN != "" {
		store, err := results.Open(cfg.ResultsDSN, log)
		if err != nil {
			return err
		}
		defer store.Close()
		opts.OnGameEnd = store.Hook(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	tb := table.New(gctx, opts)
	log.Info("table ready", zap.String("session", tb.ID), zap.Int("player", cfg.PlayerID))

	g.Go(func() error {
		defer cancel()
		err := client.Run(gctx, tb.Deliver)
		if errors.Is(err, table.ErrClosed) || errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if cfg.Listen != "" {
		srv := &http.Server{
			Addr:              cfg.Listen,
			Handler:           httpapi.SetupRoutes(tb, log),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			log.Info("render surface listening", zap.String("addr", cfg.Listen))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			sctx, scancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer scancel()
			return srv.Shutdown(sctx)
		})
	}

	if cfg.Terminal {
		g.Go(func() error {
			return render.NewTerminal(tb, os.Stdin, os.Stdout, log).Run(gctx)
		})
	}

	err = g.Wait()
	<-tb.Done()
	return err
}
