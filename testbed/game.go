package testbed

import (
	"fmt"

	"github.com/emberengine/ember/engine"
	"github.com/emberengine/ember/engine/config"
	"github.com/emberengine/ember/engine/math"
	"github.com/emberengine/ember/engine/renderer/frame"
)

// TestGame builds a small castle out of primitive meshes packed into one
// shared vertex/index buffer, then keeps a couple of pieces animating so
// the dirty-tracking path stays busy.
type TestGame struct {
	*engine.Game
}

type gameState struct {
	banner   uint32
	towerIDs []uint32
	lastSway float64
}

// meshSizes describes how the primitive meshes are packed, in order, into
// the shared geometry buffers. Offsets accumulate in registration order.
var meshSizes = []struct {
	name        string
	indexCount  uint32
	vertexCount uint32
}{
	{"box", 36, 24},
	{"grid", 14406, 2500},
	{"sphere", 2280, 401},
	{"cylinder", 2400, 441},
	{"cone", 1200, 221},
	{"wedge", 36, 24},
	{"pyramid", 18, 16},
	{"prism", 24, 18},
	{"torus", 3600, 625},
	{"quad", 6, 4},
	{"diamond", 24, 6},
}

var towerCorners = []math.Vec3{
	{X: -20, Z: -20}, {X: 20, Z: -20}, {X: -20, Z: 20}, {X: 20, Z: 20},
}

func NewTestGame(cfg *config.Config) *TestGame {
	state := &gameState{}
	tg := &TestGame{
		Game: &engine.Game{
			Config: cfg,
			State:  state,
		},
	}
	tg.FnSetup = tg.Setup
	tg.FnUpdate = tg.Update
	return tg
}

func (tg *TestGame) Setup(e *engine.Engine) error {
	registry := e.Scene().Registry()

	indexOffset := uint32(0)
	vertexOffset := int32(0)
	for _, m := range meshSizes {
		rng := frame.GeometryRange{
			IndexCount: m.indexCount,
			StartIndex: indexOffset,
			BaseVertex: vertexOffset,
		}
		if _, err := registry.Register(m.name, rng); err != nil {
			return err
		}
		indexOffset += m.indexCount
		vertexOffset += int32(m.vertexCount)
	}

	return tg.buildCastle(e)
}

func (tg *TestGame) buildCastle(e *engine.Engine) error {
	s := e.Scene()
	state := tg.State.(*gameState)

	add := func(tag, mesh string, world math.Mat4) (uint32, error) {
		id, ok := s.AddNamed(tag, mesh, world)
		if !ok {
			return 0, fmt.Errorf("testbed: unknown mesh %q", mesh)
		}
		return id, nil
	}

	if _, err := add("courtyard", "grid", math.NewMat4Identity()); err != nil {
		return err
	}

	// Curtain walls, scaled boxes along the courtyard edges.
	walls := []math.Mat4{
		math.NewMat4Scale(math.Vec3{X: 40, Y: 6, Z: 2}).Mul(math.NewMat4Translation(math.Vec3{Y: 3, Z: -20})),
		math.NewMat4Scale(math.Vec3{X: 40, Y: 6, Z: 2}).Mul(math.NewMat4Translation(math.Vec3{Y: 3, Z: 20})),
		math.NewMat4Scale(math.Vec3{X: 2, Y: 6, Z: 40}).Mul(math.NewMat4Translation(math.Vec3{X: -20, Y: 3})),
		math.NewMat4Scale(math.Vec3{X: 2, Y: 6, Z: 40}).Mul(math.NewMat4Translation(math.Vec3{X: 20, Y: 3})),
	}
	for i, w := range walls {
		if _, err := add(fmt.Sprintf("wall-%d", i), "box", w); err != nil {
			return err
		}
	}

	// Corner towers with cone roofs.
	for i, c := range towerCorners {
		tower := math.NewMat4Scale(math.Vec3{X: 3, Y: 10, Z: 3}).
			Mul(math.NewMat4Translation(math.Vec3{X: c.X, Y: 5, Z: c.Z}))
		id, err := add(fmt.Sprintf("tower-%d", i), "cylinder", tower)
		if err != nil {
			return err
		}
		state.towerIDs = append(state.towerIDs, id)

		roof := math.NewMat4Scale(math.Vec3{X: 4, Y: 4, Z: 4}).
			Mul(math.NewMat4Translation(math.Vec3{X: c.X, Y: 12, Z: c.Z}))
		if _, err := add(fmt.Sprintf("roof-%d", i), "cone", roof); err != nil {
			return err
		}
	}

	// Gatehouse and keep.
	if _, err := add("gate", "wedge", math.NewMat4Scale(math.Vec3{X: 6, Y: 8, Z: 3}).
		Mul(math.NewMat4Translation(math.Vec3{Y: 4, Z: -20}))); err != nil {
		return err
	}
	if _, err := add("keep", "box", math.NewMat4Scale(math.Vec3{X: 10, Y: 14, Z: 10}).
		Mul(math.NewMat4Translation(math.Vec3{Y: 7}))); err != nil {
		return err
	}
	if _, err := add("keep-roof", "pyramid", math.NewMat4Scale(math.Vec3{X: 11, Y: 5, Z: 11}).
		Mul(math.NewMat4Translation(math.Vec3{Y: 16.5}))); err != nil {
		return err
	}

	// Moat ring, drawbridge and the flag on the keep.
	if _, err := add("moat", "torus", math.NewMat4Scale(math.Vec3{X: 30, Y: 1, Z: 30}).
		Mul(math.NewMat4Translation(math.Vec3{Y: -0.5}))); err != nil {
		return err
	}
	if _, err := add("drawbridge", "prism", math.NewMat4Scale(math.Vec3{X: 4, Y: 0.5, Z: 8}).
		Mul(math.NewMat4Translation(math.Vec3{Y: 0.25, Z: -26}))); err != nil {
		return err
	}
	if _, err := add("flag", "quad", math.NewMat4Scale(math.Vec3{X: 2, Y: 1.2, Z: 1}).
		Mul(math.NewMat4Translation(math.Vec3{X: 1, Y: 21}))); err != nil {
		return err
	}

	// The banner diamond spins above the keep every frame, which keeps the
	// constant-propagation path under continuous load.
	banner, err := add("banner", "diamond", math.NewMat4Translation(math.Vec3{Y: 24}))
	if err != nil {
		return err
	}
	state.banner = banner

	// A loose scatter of boulders around the walls.
	for i := 0; i < 6; i++ {
		pos := math.Vec3{
			X: math.FRandomInRange(-30, 30),
			Y: 0.5,
			Z: math.FRandomInRange(24, 34),
		}
		scale := math.FRandomInRange(0.5, 1.5)
		world := math.NewMat4Scale(math.Vec3{X: scale, Y: scale, Z: scale}).
			Mul(math.NewMat4Translation(pos))
		if _, err := add(fmt.Sprintf("boulder-%d", i), "sphere", world); err != nil {
			return err
		}
	}

	return nil
}

func (tg *TestGame) Update(e *engine.Engine, totalTime, deltaTime float64) error {
	state := tg.State.(*gameState)

	// Spin the banner; only this one object is re-marked per frame, so most
	// of the table settles to clean state between edits.
	spin := math.NewMat4EulerY(float32(totalTime)).
		Mul(math.NewMat4Translation(math.Vec3{Y: 24}))
	e.Renderer().UpdateObject(state.banner, spin)

	// Every couple of seconds give one tower a slight lean. Sporadic edits
	// like this overlap in-flight frames, unlike the banner's steady churn.
	if totalTime-state.lastSway > 2.0 {
		state.lastSway = totalTime
		i := int(math.RandomInRange(0, int32(len(state.towerIDs))-1))
		c := towerCorners[i]
		lean := math.NewMat4Scale(math.Vec3{X: 3, Y: 10, Z: 3}).
			Mul(math.NewMat4EulerZ(math.FRandomInRange(-0.02, 0.02))).
			Mul(math.NewMat4Translation(math.Vec3{X: c.X, Y: 5, Z: c.Z}))
		e.Renderer().UpdateObject(state.towerIDs[i], lean)
	}

	return nil
}
