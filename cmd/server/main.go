package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"chat-relay/auth"
	"chat-relay/realtime"
	"chat-relay/repositories"
	"chat-relay/rest"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/storage"
	"chat-relay/transport/ws"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	// The main function acts as a thin wrapper.
	// Its only responsibility is to call run() and handle the OS exit code.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting, so that deferred cleanups always execute
// before the process exits.
func run() (int, error) {
	// 1. Configuration & Logger
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	logger := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	options := badger.DefaultOptions(config.BadgerFilepath).
		WithLogger(nil)
	db, err := badger.Open(options)
	if err != nil {
		return exitRuntime, fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		logger.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	userRepository := repositories.NewUserRepository(db)
	conversationRepository := repositories.NewConversationRepository(db)
	messageRepository := repositories.NewMessageRepository(db, logger, config.LimitMessages)

	uploads, err := storage.NewDiskStore(config.UploadDir, "/uploads")
	if err != nil {
		return exitRuntime, err
	}

	// 3. Realtime core: presence, rooms, lifecycle controller, pipeline.
	transitions := make(chan realtime.Transition, config.PresenceBufferSize)
	presence := realtime.NewPresenceRegistry(logger, transitions)
	rooms := realtime.NewRoomRegistry()
	conns := realtime.NewConnTable()
	controller := realtime.NewController(logger, presence, rooms, conns)
	delivery := realtime.NewDeliveryPipeline(logger, messageRepository, conversationRepository, userRepository, controller)
	controller.SetDelivery(delivery)

	// 4. Supervised background workers
	sup := workers.NewSupervisor(logger)
	sup.Add(
		workers.NewPresenceWriter(logger, userRepository, transitions),
		workers.NewBadgerGC(logger, db, config.BadgerGCInterval),
	)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sup.Run(ctx)
	}()

	// 6. HTTP + websocket server
	issuer := auth.NewTokenIssuer(config.JWTSecret, config.AuthTokenDuration)
	authService := services.NewAuthService(userRepository, issuer)
	wsServer := ws.NewServer(logger, controller, config.Origins(), config.SendBufferSize)
	restServer := rest.NewServer(
		logger, authService,
		userRepository, conversationRepository, messageRepository,
		delivery, controller, uploads, issuer,
	)

	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	httpServer := &http.Server{
		Addr:    address,
		Handler: restServer.Router(wsServer.Handle),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", "address", address, "at", time.Now().UTC())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// 7. Wait for Stop or Error
	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errChan:
		return exitRuntime, err
	}

	// 8. Final Cleanup (Graceful Shutdown)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}

	sup.Stop()
	wg.Wait()
	logger.Info("Server stopped")
	return exitOK, nil
}
