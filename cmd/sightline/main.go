package main

import (
	"flag"
	"log"

	ebitenrender "chosenoffset.com/sightline/internal/render/ebiten"
	"chosenoffset.com/sightline/internal/simulation"
	"chosenoffset.com/sightline/internal/world/scenescan"
	"github.com/pkg/errors"
)

func main() {
	scenePath := flag.String("scene", "data/scenes", "scene file or directory of scenes")
	rulesPath := flag.String("rules", "data/rules.yaml", "perception rules file")
	flag.Parse()

	// Initialize the renderer backend (ebiten)
	renderer := ebitenrender.NewRenderer()
	inputMgr := ebitenrender.NewInputManager()
	engine := ebitenrender.NewEngine()

	rules, err := simulation.LoadConfig(*rulesPath)
	if err != nil {
		log.Fatalf("Failed to load rules: %v", err)
	}

	// Scan for available scenes
	log.Printf("Scanning %s for scenes...", *scenePath)
	scenes, err := scenescan.ScanPath(*scenePath)
	if err != nil {
		log.Fatalf("Failed to scan scenes: %v", err)
	}
	if len(scenes) == 0 {
		log.Fatalf("No scenes found in %s", *scenePath)
	}

	v := newViewer(renderer, inputMgr, rules, scenes)
	if err := v.loadScene(0); err != nil {
		log.Fatalf("Failed to load scene: %v", err)
	}

	// Set up the window
	engine.SetWindowSize(v.width, v.height)
	engine.SetWindowTitle("Sightline")
	engine.SetWindowResizable(true)

	log.Println("Starting viewer...")
	if err := engine.RunGame(v); err != nil && !errors.Is(err, errQuit) {
		log.Fatal(err)
	}
}
