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

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/botbridge-backend/internal/app"
	"github.com/yungbote/botbridge-backend/internal/observability"
)

func main() {
	a, err := app.New()
	if err != nil {
		fmt.Printf("failed to initialize app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	otelShutdown := observability.InitOTel(ctx, a.Log, observability.OtelConfig{
		ServiceName: "botbridge",
		Environment: a.Cfg.Environment,
		Version:     a.Cfg.Version,
	})
	if otelShutdown != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = otelShutdown(shutdownCtx)
			cancel()
		}()
	}

	a.Start()

	srv := &http.Server{
		Addr:              ":" + a.Cfg.Port,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.Log.Info("Server listening", "addr", srv.Addr)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		a.Log.Error("server exited", "error", err)
		os.Exit(1)
	}
}
