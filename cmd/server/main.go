package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/matthewbaird/dashgen/internal/eventbus"
	"github.com/matthewbaird/dashgen/internal/manifest"
	"github.com/matthewbaird/dashgen/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func run(ctx context.Context) error {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "file:dashgen.db"
	}

	store, err := manifest.Open(ctx, dsn)
	if err != nil {
		return fmt.Errorf("opening manifest: %w", err)
	}
	defer store.Close()
	log.Println("manifest ready")

	bus := eventbus.New(256)
	bus.Subscribe("log", eventbus.NewLogConsumer())
	bus.Subscribe("warnings", eventbus.NewWarningConsumer())
	bus.Start(ctx)
	defer bus.Stop()

	port := 8080
	if p := os.Getenv("PORT"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	return server.New(server.Config{
		Port:      port,
		Store:     store,
		Publisher: bus,
	}).Run(ctx)
}
