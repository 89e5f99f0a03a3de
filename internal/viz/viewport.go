package viz

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/headsim/internal/scene"
)

const (
	DefaultFOV = 60.0
	nearPlane  = 0.05
	farPlane   = 100.0
)

// Viewport projects world points onto a canvas through the camera rig.
type Viewport struct {
	FOV    float64
	Width  int
	Height int
}

func NewViewport(c *Canvas) Viewport {
	w, h := c.PixelSize()
	return Viewport{FOV: DefaultFOV, Width: w, Height: h}
}

func (v Viewport) matrix(rig *scene.CameraRig) mgl64.Mat4 {
	eye := rig.Position()
	view := mgl64.LookAtV(eye, eye.Add(rig.Forward()), rig.Up())
	proj := mgl64.Perspective(mgl64.DegToRad(v.FOV), float64(v.Width)/float64(v.Height), nearPlane, farPlane)
	return proj.Mul4(view)
}

// Project maps p to dot coordinates. ok is false for points behind the
// camera.
func (v Viewport) Project(rig *scene.CameraRig, p mgl64.Vec3) (x, y int, depth float64, ok bool) {
	return v.project(v.matrix(rig), p)
}

func (v Viewport) project(mvp mgl64.Mat4, p mgl64.Vec3) (int, int, float64, bool) {
	clip := mvp.Mul4x1(p.Vec4(1))
	if clip.W() <= nearPlane {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	x := int(math.Round((ndc.X() + 1) / 2 * float64(v.Width)))
	y := int(math.Round((1 - ndc.Y()) / 2 * float64(v.Height)))
	return x, y, clip.W(), true
}

// Sprite is a scene object as it appears on the canvas.
type Sprite struct {
	Object *scene.Object
	X, Y   int
	Radius int
	Depth  float64
}

// Sprites projects every visible object, farthest first.
func (v Viewport) Sprites(rig *scene.CameraRig, world *scene.World) []Sprite {
	mvp := v.matrix(rig)
	right := rig.Forward().Cross(rig.Up()).Normalize()

	sprites := make([]Sprite, 0, len(world.Objects()))
	for _, o := range world.Objects() {
		center := o.Body.Position()
		x, y, depth, ok := v.project(mvp, center)
		if !ok {
			continue
		}
		ex, ey, _, ok := v.project(mvp, center.Add(right.Mul(o.Body.Radius)))
		if !ok {
			continue
		}
		r := int(math.Hypot(float64(ex-x), float64(ey-y)))
		if x+r < 0 || y+r < 0 || x-r >= v.Width || y-r >= v.Height {
			continue
		}
		sprites = append(sprites, Sprite{Object: o, X: x, Y: y, Radius: r, Depth: depth})
	}
	sort.Slice(sprites, func(i, j int) bool { return sprites[i].Depth > sprites[j].Depth })
	return sprites
}

// DrawScene renders the floor horizon, every object and the crosshair.
// Outline thickness follows each object's outline width.
func DrawScene(c *Canvas, v Viewport, rig *scene.CameraRig, world *scene.World, maxOutline float64) []Sprite {
	c.Clear()

	mvp := v.matrix(rig)
	eye := rig.Position()
	for z := -2.0; z >= -20; z -= 2 {
		x0, y0, _, ok0 := v.project(mvp, mgl64.Vec3{eye.X() - 10, 0, z})
		x1, y1, _, ok1 := v.project(mvp, mgl64.Vec3{eye.X() + 10, 0, z})
		if ok0 && ok1 {
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	sprites := v.Sprites(rig, world)
	for _, s := range sprites {
		thick := 1
		if maxOutline > 0 {
			thick += int(math.Round(3 * s.Object.Render.Width / maxOutline))
		}
		c.DrawCircle(s.X, s.Y, s.Radius, thick)
	}
	c.DrawCrosshair(4)
	return sprites
}
