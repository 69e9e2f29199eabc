package main

import (
	"context"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/pflag"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/log"

	"marketplace-dashboard/internal/config"
	"marketplace-dashboard/internal/dashboard"
	"marketplace-dashboard/internal/logging"
	"marketplace-dashboard/internal/metrics"
	"marketplace-dashboard/internal/toast"
	"marketplace-dashboard/internal/txsim"
	"marketplace-dashboard/internal/workflows"
)

func main() {
	fs := pflag.NewFlagSet("api", pflag.ExitOnError)
	config.Flags(fs)
	_ = fs.Parse(os.Args[1:])

	v := config.New()
	if err := config.BindFlags(v, fs); err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	cfg, err := config.Load(v)
	if err != nil {
		stdlog.Fatalf("config: %v", err)
	}
	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		stdlog.Fatalf("logging: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("api exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger log.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m, err := metrics.New(reg)
	if err != nil {
		return err
	}
	queue := toast.NewQueue(toast.WithObserver(m.Observe))

	var engine dashboard.Engine
	switch cfg.Engine {
	case config.EngineTemporal:
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
			Logger:    logger,
		})
		if err != nil {
			return err
		}
		defer tc.Close()

		// The worker shares this process's toast queue with the HTTP handlers.
		w := workflows.NewWorker(tc, cfg.Temporal.TaskQueue, queue)
		if err := w.Start(); err != nil {
			return err
		}
		defer w.Stop()
		logger.Info("worker started", "taskQueue", cfg.Temporal.TaskQueue)

		engine, err = workflows.NewEngine(tc, queue, workflows.EngineOptions{
			TaskQueue: cfg.Temporal.TaskQueue,
			Timing:    cfg.Timing,
			Logger:    logger,
		})
		if err != nil {
			return err
		}
	default:
		engine, err = txsim.New(queue, txsim.WithTiming(cfg.Timing), txsim.WithLogger(logger))
		if err != nil {
			return err
		}
	}

	svc := dashboard.NewService(engine, queue, cfg.ExplorerURL, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           newRouter(svc, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", cfg.HTTPAddr, "engine", cfg.Engine)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
