package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chat-warehouse/internal"
	"chat-warehouse/repositories"
	"chat-warehouse/services"
	"chat-warehouse/warehouse"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the process lifecycle. The
// error is returned to main instead of calling os.Exit here, so every
// defer (database close, final checkpoint) runs before the process ends.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Warehouse & persistence
	store := warehouse.NewWarehouse(log)
	snapshots := repositories.NewSnapshotRepository(db, log)

	// Partial loads are fine: a broken resource stays empty and the
	// process runs on whatever could be read.
	snap, err := snapshots.Load()
	if err != nil {
		log.Error("load was partial", "error", err)
	}
	store.Restore(snap)
	log.Info("warehouse loaded",
		"users", len(snap.Users),
		"groups", len(snap.Groups),
		"messages", len(snap.Messages),
	)

	service := services.NewChatService(store, snapshots, log)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Checkpoint loop. The session layer mutates the warehouse
	// through the service; durability only depends on this ticker and
	// the final save below.
	ticker := time.NewTicker(config.CheckpointInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := service.Checkpoint(); err != nil {
				log.Error("checkpoint failed", "error", err)
			}
		case <-ctx.Done():
			log.Info("Shutting down, saving warehouse...")
			if err := service.Checkpoint(); err != nil {
				log.Error("final checkpoint failed", "error", err)
			}
			return nil
		}
	}
}
