package main

import (
	"math"

	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/vista/pkg/math3d"
	"github.com/taigrr/vista/pkg/scene"
)

// OrbitAxis tracks position and velocity for one orbit angle with spring decay.
type OrbitAxis struct {
	Position  float64
	Velocity  float64
	velSpring harmonica.Spring
	velAccel  float64 // spring velocity while easing Velocity toward 0
}

// NewOrbitAxis creates an axis that eases its velocity to rest.
func NewOrbitAxis(fps int) OrbitAxis {
	return OrbitAxis{
		// critically damped: no overshoot
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and decays velocity toward 0.
func (a *OrbitAxis) Update() {
	a.Position += a.Velocity
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// Orbit moves a camera on a sphere around a target.
type Orbit struct {
	Yaw, Pitch OrbitAxis
	Distance   float64
	Target     math3d.Vec3

	fps                      int
	homeYaw, homePitch       float64
	homeDistance             float64
	minDistance, maxDistance float64
}

// NewOrbit starts an orbit at the camera's current position around target.
func NewOrbit(camera *scene.Node, target math3d.Vec3, fps int) *Orbit {
	offset := camera.Position.Sub(target)
	dist := offset.Len()
	if dist == 0 {
		dist = 1
		offset = math3d.V3(0, 0, 1)
	}
	o := &Orbit{
		Target:       target,
		fps:          fps,
		homeYaw:      math.Atan2(offset.X, offset.Z),
		homePitch:    math.Asin(math3d.Clamp(offset.Y/dist, -1, 1)),
		homeDistance: dist,
		minDistance:  dist / 10,
		maxDistance:  dist * 10,
	}
	o.Reset()
	return o
}

// Reset returns to the starting view and stops any spin.
func (o *Orbit) Reset() {
	o.Yaw = NewOrbitAxis(o.fps)
	o.Pitch = NewOrbitAxis(o.fps)
	o.Yaw.Position = o.homeYaw
	o.Pitch.Position = o.homePitch
	o.Distance = o.homeDistance
}

// ApplyImpulse adds angular velocity in radians per frame.
func (o *Orbit) ApplyImpulse(yaw, pitch float64) {
	o.Yaw.Velocity += yaw
	o.Pitch.Velocity += pitch
}

// Zoom scales the distance by factor within the allowed range.
func (o *Orbit) Zoom(factor float64) {
	o.Distance = math3d.Clamp(o.Distance*factor, o.minDistance, o.maxDistance)
}

// Update advances the springs and places camera.
func (o *Orbit) Update(camera *scene.Node) {
	o.Yaw.Update()
	o.Pitch.Update()

	const limit = math.Pi/2 - 0.01
	if o.Pitch.Position > limit || o.Pitch.Position < -limit {
		o.Pitch.Position = math3d.Clamp(o.Pitch.Position, -limit, limit)
		o.Pitch.Velocity = 0
	}

	cp := math.Cos(o.Pitch.Position)
	camera.Position = o.Target.Add(math3d.V3(
		math.Sin(o.Yaw.Position)*cp,
		math.Sin(o.Pitch.Position),
		math.Cos(o.Yaw.Position)*cp,
	).Scale(o.Distance))
	camera.LookAt(o.Target)
}
