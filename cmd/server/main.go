package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitshare/internal/config"
	"github.com/mmynk/splitshare/internal/extraction"
	"github.com/mmynk/splitshare/internal/metrics"
	"github.com/mmynk/splitshare/internal/middleware"
	"github.com/mmynk/splitshare/internal/service"
	"github.com/mmynk/splitshare/internal/sheets"
	"github.com/mmynk/splitshare/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}
	logging.SetupWithLevel(logging.ParseLevel(cfg.LogLevel))

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.AgentQLAPIKey == "" {
		slog.Warn("AGENTQL_API_KEY is not set; extraction calls will be rejected upstream")
	}
	extractor := extraction.NewClient(cfg.AgentQLBaseURL, cfg.AgentQLAPIKey)

	sheetClient, err := sheets.NewClient(ctx, []byte(cfg.GoogleCredentialsJSON))
	if err != nil {
		return err
	}
	if cfg.GoogleCredentialsJSON == "" {
		slog.Warn("GOOGLE_SERVICE_ACCOUNT_KEY_JSON is not set; sheet routes will fail")
	}

	mux := http.NewServeMux()
	service.Register(mux,
		service.NewOrderService(extractor, m),
		service.NewSheetService(sheetClient, m),
		service.NewLedgerService(m),
		connect.WithInterceptors(middleware.LoggingInterceptor()),
	)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	handler := middleware.RequestID(middleware.Logging(middleware.CORS(middleware.Metrics(m, mux))))

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
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

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
