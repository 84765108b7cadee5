package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"wegetchat/auth"
	"wegetchat/contract"
	"wegetchat/infrastructure/httpapi"
	"wegetchat/internal"
	"wegetchat/moderation"
	"wegetchat/repositories"
	"wegetchat/runtime"
	"wegetchat/runtime/workers"
	"wegetchat/services"
	"wegetchat/sink"
	"wegetchat/storage"

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

// run wires every component and owns the process lifecycle, so deferred
// cleanups (badger close, worker shutdown) execute before main exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Snapshot store
	store, closeStore, err := openStore(config, log)
	if err != nil {
		return err
	}
	defer closeStore()

	initial, err := store.Load()
	if err != nil {
		return fmt.Errorf("snapshot loading failed: %w", err)
	}

	// 3. Post-commit events & coordinator
	fanout := workers.NewEventFanout(log, config.EventBufferSize, config.SinkTimeout, sink.NewLogSink(log))
	coordinator := runtime.NewCoordinator(log, store, initial, fanout)

	// 4. Messenger core
	replacement, _ := internal.CharacterRune(config.CharReplacement)
	moderator, err := moderation.NewModerator(internal.SplitList(config.CensoredWords), replacement, log)
	if err != nil {
		return fmt.Errorf("moderator setup failed: %w", err)
	}
	hasher := auth.NewArgon2Hasher(config.Argon2MemoryKB, config.Argon2Iterations)
	pageSize := config.NotificationPageSize
	if pageSize == 0 {
		pageSize = -1 // unlimited
	}
	messenger := services.NewMessengerService(log, coordinator, hasher, moderator, services.Options{
		SearchLimit:           config.SearchLimit,
		NotificationRetention: config.NotificationRetention,
		NotificationPageSize:  pageSize,
	})

	// 5. HTTP adapter
	uploads, err := storage.NewAttachmentStore(log, config.UploadDir, config.MaxUploadBytes)
	if err != nil {
		return err
	}
	issuer := auth.NewTokenIssuer(config.AuthTokenSecret, config.AuthTokenDuration)
	server := httpapi.NewServer(log, messenger, issuer, uploads, httpapi.Config{
		MaxUploadBytes: config.MaxUploadBytes,
		CookieSecure:   config.CookieSecure,
		AllowedOrigins: internal.SplitList(config.CorsOrigins),
	})

	// 6. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 7. Background workers
	waitWorkers := startWorkers(ctx, workers.NewSupervisor(log, config.RestartInterval),
		fanout, workers.NewHeartbeatWorker(log, coordinator, config.HeartbeatInterval))

	// 8. Serve until a signal arrives
	serveErr := server.Serve(ctx, config.Address(), config.ShutdownTimeout)

	// 9. Final Cleanup
	stop()
	waitWorkers()
	if serveErr != nil {
		return serveErr
	}
	log.Info("Program stopped cleanly", "commits", coordinator.Version())
	return nil
}

// startWorkers runs the workers under sup in the background. The returned func stops them
// and blocks until the supervisor exited.
func startWorkers(ctx context.Context, sup contract.ISupervisor, ws ...contract.Worker) func() {
	sup.Add(ws...)
	done := make(chan struct{})
	go func() {
		defer close(done)
		sup.Run(ctx)
	}()
	return func() {
		sup.Stop()
		<-done
	}
}

func openStore(config internal.Config, log *slog.Logger) (repositories.ISnapshotStore, func(), error) {
	switch config.StoreBackend {
	case internal.StoreBackendBadger:
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, nil, fmt.Errorf("database opening failed: %w", err)
		}
		closeDB := func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}
		return repositories.NewBadgerSnapshotStore(db, log), closeDB, nil
	case internal.StoreBackendMemory:
		log.Warn("Memory store selected, nothing survives a restart")
		return repositories.NewMemorySnapshotStore(), func() {}, nil
	default:
		store, err := repositories.NewFileSnapshotStore(config.SnapshotFilepath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("snapshot store setup failed: %w", err)
		}
		return store, func() {}, nil
	}
}
