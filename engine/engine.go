package engine

import (
	"fmt"
	"time"

	"github.com/emberengine/ember/engine/assets"
	"github.com/emberengine/ember/engine/config"
	"github.com/emberengine/ember/engine/core"
	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/platform"
	"github.com/emberengine/ember/engine/renderer"
	"github.com/emberengine/ember/engine/renderer/frame"
	"github.com/emberengine/ember/engine/renderer/headless"
	"github.com/emberengine/ember/engine/renderer/vulkan"
	"github.com/emberengine/ember/engine/scene"
)

type Stage uint8

const (
	// Engine is in an uninitialized state
	EngineStageUninitialized Stage = iota
	// Engine is currently initializing
	EngineStageInitializing
	// Engine initialization is complete
	EngineStageInitialized
	// Engine is currently running
	EngineStageRunning
	// Engine is in the process of shutting down
	EngineStageShuttingDown
)

type Engine struct {
	currentStage Stage
	gameInstance *Game
	isRunning    bool

	cfg      *config.Config
	platform *platform.Platform
	device   frame.Device
	backend  *vulkan.Backend
	renderer *renderer.Renderer

	scene   *scene.Scene
	camera  *scene.OrbitCamera
	watcher *assets.ShaderWatcher

	clock          *core.Clock
	metrics        *core.Metrics
	lastTime       float64
	lastGeneration uint64
}

func New(g *Game) (*Engine, error) {
	if g.Config == nil {
		g.Config = config.Default()
	}
	if err := g.Config.Validate(); err != nil {
		return nil, err
	}

	level, err := core.ParseLogLevel(g.Config.LogLevel)
	if err != nil {
		return nil, err
	}
	core.SetLogLevel(level)

	return &Engine{
		currentStage: EngineStageUninitialized,
		gameInstance: g,
		cfg:          g.Config,
		scene:        scene.New(scene.NewRegistry()),
		camera:       scene.NewOrbitCamera(),
		clock:        core.NewClock(),
		metrics:      core.NewMetrics(),
	}, nil
}

func (e *Engine) Initialize() error {
	e.currentStage = EngineStageInitializing

	switch e.cfg.Renderer.Backend {
	case config.BackendVulkan:
		p, err := platform.New()
		if err != nil {
			return err
		}
		if err := p.Startup(e.cfg.Window.Title, e.cfg.Window.Width, e.cfg.Window.Height); err != nil {
			return err
		}
		e.platform = p

		backend := vulkan.New(p)
		if err := backend.Initialize(e.cfg.Window.Title); err != nil {
			return err
		}
		e.backend = backend
		e.device = backend

	case config.BackendHeadless:
		// The simulated GPU runs one frame behind the CPU, so the ring's
		// backpressure path is exercised the same way a real queue would.
		depth := int(e.cfg.Renderer.RingDepth) - 1
		if depth < 1 {
			depth = 1
		}
		e.device = headless.NewDevice(headless.WithPipelineDepth(depth))

	default:
		return fmt.Errorf("engine: unknown renderer backend %q", e.cfg.Renderer.Backend)
	}

	if e.cfg.Assets.WatchShaders {
		watcher, err := assets.NewShaderWatcher()
		if err != nil {
			return err
		}
		if err := watcher.Initialize(e.cfg.Assets.ShaderDir); err != nil {
			core.LogWarn("shader watching disabled: %s", err)
			watcher.Close()
		} else {
			e.watcher = watcher
		}
	}

	if e.gameInstance.FnSetup != nil {
		if err := e.gameInstance.FnSetup(e); err != nil {
			return err
		}
	}
	if e.scene.Len() == 0 {
		return fmt.Errorf("engine: setup registered no renderable items")
	}

	r, err := renderer.New(e.device, e.cfg.Renderer.RingDepth, e.scene.Items())
	if err != nil {
		return err
	}
	e.renderer = r
	e.lastGeneration = e.scene.Generation()

	e.currentStage = EngineStageInitialized
	e.isRunning = true
	return nil
}

func (e *Engine) Run() error {
	if e.currentStage != EngineStageInitialized {
		return fmt.Errorf("engine: Run called before Initialize")
	}
	e.currentStage = EngineStageRunning

	e.clock.Start()
	e.clock.Update()
	e.lastTime = e.clock.Elapsed()

	var targetFrameSeconds float64
	if e.cfg.Renderer.FrameCapHz > 0 {
		targetFrameSeconds = 1.0 / float64(e.cfg.Renderer.FrameCapHz)
	}

	for e.isRunning {
		if e.platform != nil && e.platform.PumpMessages() {
			e.isRunning = false
			break
		}

		e.drainShaderChanges()

		e.clock.Update()
		currentTime := e.clock.Elapsed()
		delta := currentTime - e.lastTime
		frameStart := time.Now()

		if e.gameInstance.FnUpdate != nil {
			if err := e.gameInstance.FnUpdate(e, currentTime, delta); err != nil {
				core.LogError("game update failed, shutting down: %s", err)
				e.isRunning = false
				break
			}
		}

		// Item set changed under us; the frame ring has to be rebuilt
		// before the next frame can be recorded against it.
		if gen := e.scene.Generation(); gen != e.lastGeneration {
			if err := e.renderer.Rebuild(e.scene.Items()); err != nil {
				return err
			}
			e.lastGeneration = gen
		}

		if e.platform != nil {
			dTheta, dPhi, dZoom := e.platform.ConsumeOrbitInput()
			e.camera.Orbit(dTheta, dPhi)
			e.camera.Zoom(dZoom)
		}

		if err := e.drawFrame(currentTime, delta); err != nil {
			return err
		}

		e.lastTime = currentTime

		frameElapsed := time.Since(frameStart).Seconds()
		e.metrics.Update(frameElapsed)

		if remaining := targetFrameSeconds - frameElapsed; remaining > 0 {
			time.Sleep(time.Duration(remaining * float64(time.Second)))
		}
	}

	return e.Shutdown()
}

// drawFrame records and submits one frame: acquire the next slot (waiting
// on the GPU if the ring is full), flush stale object records, refresh the
// pass record, then record the draws.
func (e *Engine) drawFrame(totalTime, delta float64) error {
	slot, err := e.renderer.AdvanceFrame()
	if err != nil {
		return err
	}

	if err := e.renderer.CommitObjects(slot); err != nil {
		return err
	}

	view := e.camera.View()
	proj := math.NewMat4Perspective(
		math.DegToRad(e.cfg.Camera.FOVDegrees),
		float32(e.cfg.Window.Width)/float32(e.cfg.Window.Height),
		e.cfg.Camera.NearClip,
		e.cfg.Camera.FarClip,
	)
	if err := e.renderer.UpdatePass(slot, frame.PassInput{
		View:           view,
		Proj:           proj,
		EyePos:         e.camera.Eye(),
		ViewportWidth:  float32(e.cfg.Window.Width),
		ViewportHeight: float32(e.cfg.Window.Height),
		NearZ:          e.cfg.Camera.NearClip,
		FarZ:           e.cfg.Camera.FarClip,
		TotalTime:      float32(totalTime),
		DeltaTime:      float32(delta),
	}); err != nil {
		return err
	}

	e.renderer.BindPass(slot)
	e.renderer.DrawAll(slot)
	return e.renderer.SubmitFrame(slot)
}

func (e *Engine) drainShaderChanges() {
	if e.watcher == nil {
		return
	}
	for {
		select {
		case path := <-e.watcher.Changes():
			core.LogInfo("shader changed on disk: %s", path)
		default:
			return
		}
	}
}

// Stop requests a clean exit; the loop finishes the current frame first.
func (e *Engine) Stop() {
	e.isRunning = false
}

func (e *Engine) Shutdown() error {
	if e.currentStage == EngineStageShuttingDown {
		return nil
	}
	e.currentStage = EngineStageShuttingDown
	fps, frameMS := e.metrics.Frame()
	core.LogInfo("shutting down, last fps %.1f, avg frame %.2fms", fps, frameMS)

	if e.renderer != nil {
		if err := e.renderer.Shutdown(); err != nil {
			core.LogError("renderer shutdown: %s", err)
		}
	}
	if e.watcher != nil {
		e.watcher.Close()
	}
	if e.backend != nil {
		if err := e.backend.Shutdown(); err != nil {
			core.LogError("backend shutdown: %s", err)
		}
	}
	if e.platform != nil {
		if err := e.platform.Shutdown(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) Scene() *scene.Scene          { return e.scene }
func (e *Engine) Camera() *scene.OrbitCamera   { return e.camera }
func (e *Engine) Renderer() *renderer.Renderer { return e.renderer }
func (e *Engine) Metrics() *core.Metrics       { return e.metrics }
