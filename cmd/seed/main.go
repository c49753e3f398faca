package main

import (
	"fmt"
	"log"

	"chat-warehouse/internal"
	"chat-warehouse/repositories"
	"chat-warehouse/services"
	"chat-warehouse/warehouse"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/gookit/color"
	"github.com/joho/godotenv"
)

// Seeds the warehouse with a small conversation so the server and the
// inspect tool have something to show on a fresh checkout.
func main() {
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		log.Fatalf("Config error: %v", err)
	}
	logger := internal.NewLogger(config.LogLevel)

	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	store := warehouse.NewWarehouse(logger)
	service := services.NewChatService(store, repositories.NewSnapshotRepository(db, logger), logger)

	color.New(color.FgGreen).Println("Seeding warehouse with demo data...")

	alice, err := service.SignUp("alice", "wonderland")
	if err != nil {
		log.Fatalf("Seeding alice failed: %v", err)
	}
	bob, err := service.SignUp("bob", "builder")
	if err != nil {
		log.Fatalf("Seeding bob failed: %v", err)
	}

	if _, err := service.CreateGroup("team", alice); err != nil {
		log.Fatalf("Seeding group failed: %v", err)
	}
	service.JoinGroup(bob, "team")

	if _, err := service.SendDirect(alice, bob, "hi"); err != nil {
		log.Fatalf("Seeding message failed: %v", err)
	}
	if _, err := service.SendDirect(bob, alice, "hey"); err != nil {
		log.Fatalf("Seeding message failed: %v", err)
	}
	if _, err := service.SendToGroup(alice, "team", "welcome everyone"); err != nil {
		log.Fatalf("Seeding group message failed: %v", err)
	}

	if err := service.Checkpoint(); err != nil {
		log.Fatalf("Saving seeded warehouse failed: %v", err)
	}

	snap := store.Snapshot()
	color.New(color.FgGreen).Println("Done.")
	fmt.Printf("users=%d groups=%d messages=%d stored in %s\n",
		len(snap.Users), len(snap.Groups), len(snap.Messages), config.BadgerFilepath)
}
