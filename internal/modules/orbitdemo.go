package modules

import (
	"fmt"
	"log/slog"

	"cogentcore.org/core/math32"

	"stagehand/internal/scene"
	"stagehand/internal/stage"
)

// OrbitDemo is a playground module: a ring of pylons revolving around a
// center mast. It has no authored content and runs with a nil production
// block.
type OrbitDemo struct {
	count  int
	radius float32
	mast   *scene.Object
	pylons []*scene.Object
}

func NewOrbitDemo() *OrbitDemo {
	return &OrbitDemo{count: 8, radius: 9}
}

func (m *OrbitDemo) Descriptor() stage.Descriptor {
	return stage.Descriptor{
		ID:       "orbit-demo",
		Name:     "Orbit Demo",
		Category: stage.CategoryPlayground,
	}
}

func (m *OrbitDemo) Init(ctx *stage.Context) error {
	m.mast = scene.NewObject("demo/mast", math32.Vec3(0, 3, 0))
	m.mast.Scale = math32.Vec3(1, 6, 1)
	ctx.Scene.Add(m.mast)

	m.pylons = make([]*scene.Object, m.count)
	for i := range m.pylons {
		obj := scene.NewObject(fmt.Sprintf("demo/pylon_%02d", i), m.pylonPosition(i, 0))
		ctx.Scene.Add(obj)
		m.pylons[i] = obj
	}

	ctx.Log.Info("orbit demo staged", slog.Int("pylons", m.count))
	return nil
}

func (m *OrbitDemo) Update(ctx *stage.Context, elapsed, delta float64) error {
	for i, p := range m.pylons {
		p.Position = m.pylonPosition(i, elapsed)
	}
	return nil
}

func (m *OrbitDemo) Dispose(ctx *stage.Context) error {
	ctx.Scene.Remove(m.mast.Name)
	for _, p := range m.pylons {
		ctx.Scene.Remove(p.Name)
	}
	m.mast = nil
	m.pylons = nil
	return nil
}

func (m *OrbitDemo) pylonPosition(i int, elapsed float64) math32.Vector3 {
	angle := float32(i)/float32(m.count)*2*math32.Pi + float32(elapsed)*0.3
	return math32.Vec3(
		math32.Cos(angle)*m.radius,
		1.5,
		math32.Sin(angle)*m.radius,
	)
}
