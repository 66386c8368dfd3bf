package main

// Sweep orphaned blobs that no document row references:
//   go run ./cmd/reconcile [-grace 1h] [-dry-run]

import (
	"context"
	"flag"
	"log"
	"time"

	"resumevault-backend/internal/bootstrap"
	"resumevault-backend/internal/shared/config"
)

func main() {
	grace := flag.Duration("grace", time.Hour, "skip blobs younger than this; protects in-flight ingestions")
	dryRun := flag.Bool("dry-run", false, "report orphans without deleting them")
	flag.Parse()

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	if app.DB == nil {
		log.Fatalf("reconcile requires DATABASE_URL; in-memory repositories reference no blobs")
	}

	ctx := context.Background()

	if *dryRun {
		orphans, err := app.DocumentsService.FindOrphans(ctx, *grace)
		if err != nil {
			log.Fatalf("reconcile error: %v", err)
		}
		for _, key := range orphans {
			log.Printf("orphan: %s", key)
		}
		log.Printf("found %d orphaned blob(s), none deleted", len(orphans))
		return
	}

	deleted, err := app.DocumentsService.ReconcileOrphans(ctx, *grace)
	if err != nil {
		log.Fatalf("reconcile error: %v", err)
	}
	log.Printf("deleted %d orphaned blob(s)", deleted)
}
