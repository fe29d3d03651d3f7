package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/xrplens/xrplens-backend/internal/adapter/httpapi"
	"github.com/xrplens/xrplens-backend/internal/adapter/xrpl"
	"github.com/xrplens/xrplens-backend/internal/adapter/xrpscan"
	"github.com/xrplens/xrplens-backend/internal/config"
	"github.com/xrplens/xrplens-backend/internal/usecase/analysis"
	"github.com/xrplens/xrplens-backend/internal/usecase/assets"
	"github.com/xrplens/xrplens-backend/internal/usecase/history"
	"github.com/xrplens/xrplens-backend/internal/usecase/wallet"
)

func main() {
	cfg := config.Load()

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()

	// 1. Connect to the ledger node. One long-lived connection serves all
	// lookups; in-flight requests are correlated by id.
	dialCtx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	client, err := xrpl.Dial(dialCtx, cfg.XRPLWebsocketURL, log)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to ledger node")
	}
	defer client.Close()

	// 2. Adapters.
	gateway := xrpl.NewGateway(client)
	directory := xrpscan.NewClient(cfg.XRPScanAPIURL, nil, log)

	// 3. Services.
	historyService := history.NewService(gateway, log)
	historyService.WindowDays = cfg.WindowDays
	historyService.PageLimit = cfg.PageLimit
	analysisService := analysis.NewService(log)
	assetService := assets.NewService(gateway, directory, log)
	walletService := wallet.NewService(gateway, directory, historyService, analysisService, assetService, log)

	// 4. HTTP API.
	api := httpapi.NewServer(walletService, cfg.APIToken, log)
	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.Routes(),
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(server, cfg, log)
}

// waitForShutdown blocks until SIGTERM or SIGINT, then drains the server.
func waitForShutdown(server *http.Server, cfg *config.Config, log zerolog.Logger) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}
