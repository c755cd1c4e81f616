package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/npccore/common"
	"github.com/milk9111/npccore/ecs"
	"github.com/milk9111/npccore/ecs/component"
	"github.com/milk9111/npccore/ecs/entity"
	"github.com/milk9111/npccore/physics"
	"github.com/milk9111/npccore/prefabs"
	"github.com/milk9111/npccore/sim"
)

var (
	colBackground = color.RGBA{0x18, 0x18, 0x1c, 0xff}
	colStatic     = color.RGBA{0x60, 0x60, 0x68, 0xff}
	colSolid      = color.RGBA{0x8b, 0x5a, 0x2b, 0xff}
	colWater      = color.RGBA{0x20, 0x50, 0xa0, 0x90}
	colAgent      = color.RGBA{0xd0, 0x40, 0x40, 0xff}
	colPlayer     = color.RGBA{0x40, 0xd0, 0x60, 0xff}
	colCorpse     = color.RGBA{0x70, 0x30, 0x30, 0xff}
	colItem       = color.RGBA{0xe0, 0xc0, 0x40, 0xff}
	colFacing     = color.RGBA{0xff, 0xff, 0xff, 0xc0}
)

type viewer struct {
	sim     *sim.Sim
	watcher *prefabs.Watcher
	feed    *killLog

	camX, camY float64
	zoom       float64
	paused     bool
	width      int
	height     int
	effects    int
}

func newViewer(s *sim.Sim, watcher *prefabs.Watcher, feed *killLog) *viewer {
	return &viewer{sim: s, watcher: watcher, feed: feed, zoom: 0.4}
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		v.paused = !v.paused
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.zoom = common.Clamp(v.zoom*math.Pow(1.1, dy), 0.05, 4)
	}
	const pan = 12
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		v.camX -= pan / v.zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		v.camX += pan / v.zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		v.camY += pan / v.zoom
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		v.camY -= pan / v.zoom
	}

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if player, ok := v.sim.Player(); ok {
			mx, my := ebiten.CursorPosition()
			x, y := v.toWorld(float64(mx), float64(my))
			entity.MovePlayer(v.sim.World, v.sim.Physics, player, mgl64.Vec3{x, y, 0})
		}
	}

	v.sim.Pending(v.watcher)
	if v.paused && !inpututil.IsKeyJustPressed(ebiten.KeyPeriod) {
		return nil
	}
	for _, evt := range v.sim.Step() {
		if evt.Type == ecs.EventEffect {
			v.effects++
		}
	}
	return nil
}

// Screen y grows downward; world y grows upward.
func (v *viewer) toScreen(x, y float64) (float32, float32) {
	sx := (x-v.camX)*v.zoom + float64(v.width)/2
	sy := -(y-v.camY)*v.zoom + float64(v.height)/2
	return float32(sx), float32(sy)
}

func (v *viewer) toWorld(sx, sy float64) (float64, float64) {
	x := (sx-float64(v.width)/2)/v.zoom + v.camX
	y := -(sy-float64(v.height)/2)/v.zoom + v.camY
	return x, y
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(colBackground)

	for _, body := range v.sim.Physics.Bodies() {
		v.drawBody(screen, body)
	}

	w := v.sim.World
	ecs.ForEach2(w, component.CorpseComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, _ *component.Corpse, tf *component.Transform) {
		x, y := v.toScreen(tf.Position[0], tf.Position[1])
		vector.FillRect(screen, x-4, y-4, 8, 8, colCorpse, false)
	})
	ecs.ForEach3(w, component.AgentComponent.Kind(), component.TransformComponent.Kind(), component.ColliderComponent.Kind(), func(_ ecs.Entity, agent *component.Agent, tf *component.Transform, col *component.Collider) {
		v.drawActor(screen, tf, col.Radius, colAgent)
		x, y := v.toScreen(tf.Position[0], tf.Position[1])
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%s %.0f", agent.Archetype.Name, agent.Health), int(x)+6, int(y)+6)
	})
	ecs.ForEach3(w, component.PlayerTagComponent.Kind(), component.TransformComponent.Kind(), component.HealthComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, tf *component.Transform, hp *component.Health) {
		v.drawActor(screen, tf, 16, colPlayer)
		x, y := v.toScreen(tf.Position[0], tf.Position[1])
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("player %.0f", hp.Current), int(x)+6, int(y)+6)
	})
	ecs.ForEach2(w, component.CarriableComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, c *component.Carriable, tf *component.Transform) {
		if c.Owner != 0 {
			return
		}
		x, y := v.toScreen(tf.Position[0], tf.Position[1])
		vector.FillRect(screen, x-2, y-2, 4, 4, colItem, false)
	})

	status := "running"
	if v.paused {
		status = "paused (. steps)"
	}
	ebitenutil.DebugPrint(screen, fmt.Sprintf("tick %d  t=%.2fs  %s  effects %d  zoom %.2f",
		w.Tick(), w.Now(), status, v.effects, v.zoom))
	for i, line := range v.feed.Lines() {
		ebitenutil.DebugPrintAt(screen, line, 8, 20+i*16)
	}
}

func (v *viewer) drawBody(screen *ebiten.Image, body *physics.Body) {
	var clr color.Color
	switch body.Layer {
	case physics.LayerStatic:
		clr = colStatic
	case physics.LayerSolid:
		clr = colSolid
	case physics.LayerWater:
		clr = colWater
	default:
		// Entities draw themselves.
		return
	}
	box := body.WorldBox()
	x0, y0 := v.toScreen(box.Min()[0], box.Max()[1])
	x1, y1 := v.toScreen(box.Max()[0], box.Min()[1])
	if body.Layer == physics.LayerStatic && box.Max()[2] <= 0 {
		// Floors would cover everything else.
		vector.StrokeRect(screen, x0, y0, x1-x0, y1-y0, 1, clr, false)
		return
	}
	vector.FillRect(screen, x0, y0, x1-x0, y1-y0, clr, false)
}

func (v *viewer) drawActor(screen *ebiten.Image, tf *component.Transform, radius float64, clr color.Color) {
	x, y := v.toScreen(tf.Position[0], tf.Position[1])
	r := float32(math.Max(radius*v.zoom, 3))
	vector.FillCircle(screen, x, y, r, clr, true)

	fwd := common.FacingForward(tf.Rotation)
	tip := tf.Position.Add(fwd.Mul(radius * 2))
	tx, ty := v.toScreen(tip[0], tip[1])
	vector.StrokeLine(screen, x, y, tx, ty, 2, colFacing, true)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	v.width, v.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
