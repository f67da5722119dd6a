package main

import (
	"chat-hub/auth"
	"chat-hub/moderation"
	"chat-hub/repositories"
	"chat-hub/runtime"
	"chat-hub/runtime/workers"
	"chat-hub/services"
	"chat-hub/ws"
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting. This pattern is preferred over calling
// os.Exit or panic directly because:
// 1. It ensures all 'defer' statements (like database cleanup) are executed
// before the program exits.
// 2. It improves testability by decoupling the initialization logic from
// the main entry point.
// 3. It provides a structured way to handle graceful shutdowns for the
// gateway and background workers.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	// Defer will be executed before run() returned anything to main()
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Core state & pipeline
	censoredChar, err := CharacterRune(config.CensoredChar)
	if err != nil {
		return err
	}
	moderator, err := moderation.NewModerator(SplitWords(config.CensoredWords), censoredChar)
	if err != nil {
		return fmt.Errorf("moderation setup failed: %w", err)
	}

	registry := runtime.NewRegistry()
	presence := runtime.NewPresence()
	broadcaster := runtime.NewBroadcaster(log, registry, presence, config.DeliveryTimeout)
	pipeline := runtime.NewPipeline(log, broadcaster, moderator, config.BufferSize)
	messageRepository := repositories.NewMessageRepository(db, log, config.LimitMessages)
	chatService := services.NewChatService(log, registry, presence, broadcaster, pipeline, messageRepository)

	// 4. Supervision: persistence pool + telemetry
	sup := workers.NewSupervisor(log)
	for i := 0; i < config.NumberOfWorkers; i++ {
		sup.Add(workers.NewPersistenceWorker(log, messageRepository, pipeline.Jobs()))
	}
	sup.Add(workers.NewHealthMonitoringWorker(log, config.MetricInterval, pipeline.QueueDepth))

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go sup.Run(ctx)

	// 6. Websocket gateway
	gateway := ws.NewServer(log, chatService, auth.NewTokenAuthenticator(),
		config.ConnectionBufferSize, config.WriteTimeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gateway.HandleWS)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := &http.Server{Addr: address, Handler: mux}

	// Use an error channel to capture Serve() issues
	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting websocket gateway", "address", address, "at", time.Now().UTC())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case err := <-errChan:
		return err
	}

	// 8. Final Cleanup
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	sup.Stop()
	log.Info("Program stopped cleanly")

	return nil
}
