package engine

import (
	"github.com/emberengine/ember/engine/config"
)

// Game is what an application hands to the engine: its configuration and
// the callbacks the main loop drives.
type Game struct {
	Config *config.Config
	State  interface{}

	FnSetup  Setup
	FnUpdate Update
}

// Setup runs once after the engine is initialized. It is where the game
// registers geometry and populates the scene.
type Setup func(e *Engine) error

// Update runs once per frame before the frame is recorded. Times are in
// seconds since engine start and since the previous frame.
type Update func(e *Engine, totalTime, deltaTime float64) error
