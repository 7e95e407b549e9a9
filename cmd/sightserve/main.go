// Command sightserve serves polygon and collision queries for a scene.
package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"chosenoffset.com/sightline/internal/core/shadows"
	"chosenoffset.com/sightline/internal/server"
	"chosenoffset.com/sightline/internal/world/maploader"
)

func main() {
	scenePath := flag.String("scene", "data/scenes/crypt.json", "scene file to load")
	addr := flag.String("addr", ":8080", "listen address")
	verbose := flag.Bool("v", false, "log sweep details")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	shadows.SetLogger(logger.With("component", "shadows"))

	scene, err := maploader.LoadMap(*scenePath)
	if err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}
	store, err := scene.BuildStore()
	if err != nil {
		log.Fatalf("Failed to build walls: %v", err)
	}

	svc := server.NewService(*addr, scene.Data.Name, store, logger)
	if err := svc.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
