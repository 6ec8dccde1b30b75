package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"jyotish-lab/internal/config"
	"jyotish-lab/internal/ephemeris"
	"jyotish-lab/internal/ephemeris/stub"
	"jyotish-lab/internal/observability"
	"jyotish-lab/internal/storage"
	chstore "jyotish-lab/internal/storage/clickhouse"
	"jyotish-lab/internal/storage/memory"
	"jyotish-lab/internal/storage/postgres"
)

var (
	metricsOnce sync.Once
	metrics     *observability.Metrics
)

// processMetrics registers the collectors once per process.
func processMetrics() *observability.Metrics {
	metricsOnce.Do(func() {
		metrics = observability.NewMetrics("", prometheus.DefaultRegisterer)
	})
	return metrics
}

// env bundles what every command needs.
type env struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *observability.Metrics
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.LogLevel = "debug"
	}
	return &env{
		cfg:     cfg,
		logger:  cfg.Logger(os.Stderr),
		metrics: processMetrics(),
	}, nil
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received signal, cancelling", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// newProvider builds the configured ephemeris source, instrumented with
// metrics. The returned closer is never nil.
func (e *env) newProvider(ctx context.Context) (ephemeris.Provider, io.Closer, error) {
	ec := e.cfg.Ephemeris

	var (
		p      ephemeris.Provider
		closer io.Closer = nopCloser{}
	)
	switch ec.Mode {
	case "fixture":
		fx, err := stub.LoadFixture(ec.Fixture)
		if err != nil {
			return nil, nil, err
		}
		p = fx
	case "ws":
		wsCfg := ephemeris.DefaultWSConfig()
		if ec.Timeout > 0 {
			wsCfg.CallTimeout = ec.Timeout
		}
		ws, err := ephemeris.NewWSClient(ctx, ec.URL, &wsCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect ephemeris %s: %w", ec.URL, err)
		}
		p, closer = ws, ws
	default:
		p = ephemeris.NewHTTPClient(ec.URL,
			ephemeris.WithMaxRetries(ec.MaxRetries),
			ephemeris.WithHTTPClient(&http.Client{Timeout: ec.Timeout}),
		)
	}

	e.logger.Debug("ephemeris ready", "mode", ec.Mode, "url", ec.URL)
	return observability.InstrumentProvider(p, e.metrics), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stores are the persistence backends of a batch run.
type stores struct {
	charts   storage.ChartStore
	strength storage.StrengthStore
	dashas   storage.DashaPeriodStore
	close    func()
}

func (e *env) openStores(ctx context.Context) (*stores, error) {
	sc := e.cfg.Storage
	if sc.Backend == "memory" {
		return &stores{
			charts:   memory.NewChartStore(),
			strength: memory.NewStrengthStore(),
			dashas:   memory.NewDashaPeriodStore(),
			close:    func() {},
		}, nil
	}

	pool, err := postgres.NewPool(ctx, sc.PostgresDSN, postgres.PoolOptions{MaxConns: sc.MaxConns, MaxConnLifetime: time.Hour})
	if err != nil {
		return nil, err
	}
	conn, err := chstore.NewConn(ctx, sc.ClickhouseDSN)
	if err != nil {
		pool.Close()
		return nil, err
	}

	return &stores{
		charts:   postgres.NewChartStore(pool),
		strength: postgres.NewStrengthStore(pool),
		dashas:   chstore.NewDashaPeriodStore(conn),
		close: func() {
			_ = conn.Close()
			pool.Close()
		},
	}, nil
}

// serveMetrics exposes /metrics and /health until ctx ends. It is a no-op
// when no address is configured.
func (e *env) serveMetrics(ctx context.Context) {
	addr := e.cfg.MetricsAddr
	if addr == "" {
		return
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		e.logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.logger.Error("metrics server failed", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
