package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/baywheels-unlocked/analytics/services/api/artifact"
	"github.com/baywheels-unlocked/analytics/services/api/config"
	"github.com/baywheels-unlocked/analytics/services/api/db"
	httpserver "github.com/baywheels-unlocked/analytics/services/api/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connection error: %v", err)
	}
	defer store.Close()

	if err := store.Ping(ctx); err != nil {
		log.Fatalf("db ping error: %v", err)
	}

	artifacts := artifact.NewProvider(cfg.ArtifactPath)
	if _, err := artifacts.Get(); err != nil {
		log.Printf("warning: artifact not readable yet: %v", err)
	}

	srv := httpserver.New(cfg, store, artifacts)
	log.Printf("REST API listening on %s", cfg.ListenAddr())

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
