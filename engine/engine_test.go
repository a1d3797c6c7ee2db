package engine

import (
	"testing"

	"github.com/emberengine/ember/engine/config"
	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/renderer/frame"
)

func boxRange() frame.GeometryRange {
	return frame.GeometryRange{IndexCount: 36, StartIndex: 0, BaseVertex: 0}
}

func headlessConfig() *config.Config {
	cfg := config.Default()
	cfg.Renderer.Backend = config.BackendHeadless
	cfg.Renderer.RingDepth = 3
	return cfg
}

func TestEngineHeadlessFrames(t *testing.T) {
	g := &Game{
		Config: headlessConfig(),
		FnSetup: func(e *Engine) error {
			reg := e.Scene().Registry()
			id, err := reg.Register("box", boxRange())
			if err != nil {
				return err
			}
			e.Scene().Add("a", id, math.NewMat4Identity())
			e.Scene().Add("b", id, math.NewMat4Translation(math.Vec3{X: 2}))
			return nil
		},
	}

	e, err := New(g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	e.clock.Start()
	for i := 0; i < 10; i++ {
		e.clock.Update()
		if err := e.drawFrame(e.clock.Elapsed(), 0.016); err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
	}

	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
}

func TestEngineRebuildOnSceneGrowth(t *testing.T) {
	g := &Game{
		Config: headlessConfig(),
		FnSetup: func(e *Engine) error {
			reg := e.Scene().Registry()
			id, err := reg.Register("box", boxRange())
			if err != nil {
				return err
			}
			e.Scene().Add("a", id, math.NewMat4Identity())
			return nil
		},
	}

	e, err := New(g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	defer e.Shutdown()

	if err := e.drawFrame(0.0, 0.016); err != nil {
		t.Fatalf("first frame: %v", err)
	}

	id, _ := e.Scene().Registry().Lookup("box")
	e.Scene().Add("b", id, math.NewMat4Translation(math.Vec3{X: 4}))

	if gen := e.Scene().Generation(); gen == e.lastGeneration {
		t.Fatal("expected scene generation to advance after Add")
	}
	if err := e.renderer.Rebuild(e.Scene().Items()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	e.lastGeneration = e.Scene().Generation()

	if err := e.drawFrame(0.016, 0.016); err != nil {
		t.Fatalf("frame after rebuild: %v", err)
	}
	if got := e.renderer.Table().Len(); got != 2 {
		t.Fatalf("expected 2 items after rebuild, got %d", got)
	}
}

func TestEngineRejectsEmptyScene(t *testing.T) {
	g := &Game{
		Config:  headlessConfig(),
		FnSetup: func(e *Engine) error { return nil },
	}
	e, err := New(g)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := e.Initialize(); err == nil {
		t.Fatal("expected Initialize to fail with no renderable items")
	}
}
