// Command transitiond exposes the Transition Driver over HTTP: one call to
// POST /v1/transition runs the full PreCharge -> Work -> Charge machine
// against an in-process world-state store and applies the resulting
// write set.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ironledger/statecore/api"
	"github.com/ironledger/statecore/config"
	"github.com/ironledger/statecore/core/contract"
	"github.com/ironledger/statecore/core/events"
	"github.com/ironledger/statecore/internal/memws"
	"github.com/ironledger/statecore/observability/logging"
)

func main() {
	configFile := flag.String("config", "./transitiond.toml", "path to the TOML configuration file")
	listenAddr := flag.String("listen", "", "override the configured listen address")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if addr := strings.TrimSpace(*listenAddr); addr != "" {
		cfg.ListenAddress = addr
	}

	logOut := logging.FileWriter(cfg.LogFilePath)
	if strings.TrimSpace(cfg.LogFilePath) == "" {
		logOut = nil
	}
	logger := logging.Setup("transitiond", cfg.Environment, logOut)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := contract.New(ctx)
	defer rt.Close(ctx)

	store := memws.New()
	srv := api.New(store, store, rt, cfg.Protocol, events.NoopEmitter{}, logger)

	httpServer := &http.Server{
		Addr:              cfg.ListenAddress,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("transitiond listening", "address", cfg.ListenAddress, "env", cfg.Environment)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("transitiond shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "err", err)
	}
}
