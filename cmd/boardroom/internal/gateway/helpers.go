package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tinyland-inc/boardroom/cmd/boardroom/internal"
	"github.com/tinyland-inc/boardroom/pkg/bus"
	"github.com/tinyland-inc/boardroom/pkg/dispatch"
	"github.com/tinyland-inc/boardroom/pkg/mattermost"
)

func gatewayCmd(debug bool) error {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		With().Timestamp().Logger()

	cfg, err := internal.LoadConfig()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	if debug || cfg.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Debug().Msg("Debug mode enabled")
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	target, err := internal.BuildTarget(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("error building entity: %w", err)
	}
	log.Info().Str("entity", target.EntityName()).Str("mode", cfg.Entity.Mode).Msg("Entity ready")

	msgBus := bus.NewMessageBus()
	dispatcher := dispatch.NewDispatcher(target, msgBus, log)

	connector := mattermost.NewConnector(cfg.Mattermost, msgBus, log)
	if err := connector.Connect(ctx); err != nil {
		return fmt.Errorf("error connecting to Mattermost: %w", err)
	}

	dispatcherDone := make(chan struct{})
	go func() {
		dispatcher.Run(ctx)
		close(dispatcherDone)
	}()
	go connector.RunSender(ctx)

	mux := http.NewServeMux()
	mattermost.NewHTTPHandler(cfg.Mattermost, dispatcher, log).Register(mux)
	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Gateway.Host, cfg.Gateway.Port),
		Handler: mux,
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()
	log.Info().Str("addr", server.Addr).Msg("Webhook endpoints available")

	fmt.Printf("%s boardroom gateway started (entity: %s)\n", internal.Logo, target.EntityName())
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\nShutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("HTTP server shutdown")
	}
	connector.Disconnect()
	cancel()
	// Let in-flight handlers finish and deliver before the bus closes.
	select {
	case <-dispatcherDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Timed out waiting for in-flight handlers")
	}
	msgBus.Close()
	fmt.Println("Gateway stopped")

	return nil
}
