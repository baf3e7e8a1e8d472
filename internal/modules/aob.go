package modules

import (
	"log/slog"
	"math/rand"

	"cogentcore.org/core/math32"

	"stagehand/internal/director"
	"stagehand/internal/scene"
	"stagehand/internal/stage"
)

const (
	aobParticleCount = 240
	aobParticleSeed  = 73
	aobPreset        = "ambient_dust"
)

// AOB is the Atlas Office Block production module: a massing study of the
// tower wrapped in an ambient dust field, with an energy ribbon effect for
// the VFX pass. It ships the authored shot list and deliverables a batch
// run masters.
type AOB struct {
	objects   []string
	particles []math32.Vector3
	origins   []math32.Vector3
	ribbon    *ribbonEffect
}

func NewAOB() *AOB { return &AOB{} }

func (m *AOB) Descriptor() stage.Descriptor {
	return stage.Descriptor{
		ID:       "aob",
		Name:     "Atlas Office Block",
		Category: stage.CategoryProduction,
		Shots: []director.ShotSpec{
			{
				ID:       "AOB_010",
				Slug:     "spine_push_in",
				Duration: 3,
				FOV:      42,
				PosStart: math32.Vec3(16, 9, 22),
				PosEnd:   math32.Vec3(5, 5, 8),
				Target:   math32.Vec3(0, 4, 0),
			},
			{
				ID:       "AOB_020",
				Slug:     "rooftop_arc",
				Duration: 4,
				FOV:      35,
				PosStart: math32.Vec3(14, 13, -11),
				PosEnd:   math32.Vec3(-14, 13, -11),
				Target:   math32.Vec3(0, 7, 0),
			},
			{
				ID:       "AOB_030",
				Slug:     "street_level_rise",
				Duration: 3.5,
				FOV:      50,
				PosStart: math32.Vec3(-9, 1, 13),
				PosEnd:   math32.Vec3(-9, 6, 13),
				Target:   math32.Vec3(0, 5, 0),
			},
		},
		Deliverables: []director.DeliverableSpec{
			{
				ID:          "plate_010",
				Filename:    "{PROJECT}_010_plate_v001.webm",
				Kind:        director.KindVideoPlate,
				ShotID:      "AOB_010",
				Description: "Spine push-in background plate",
			},
			{
				ID:          "plate_020",
				Filename:    "{PROJECT}_020_plate_v001.webm",
				Kind:        director.KindVideoPlate,
				ShotID:      "AOB_020",
				Description: "Rooftop arc background plate",
			},
			{
				ID:          "plate_030",
				Filename:    "{PROJECT}_030_plate_v001.webm",
				Kind:        director.KindVideoPlate,
				ShotID:      "AOB_030",
				Description: "Street-level rise background plate",
			},
			{
				ID:          "fx_ribbon",
				Filename:    "{PROJECT}_energy_ribbon_v001.webm",
				Kind:        director.KindVFXElement,
				Description: "Energy ribbon element at full intensity",
			},
			{
				ID:          "meta_tracking",
				Filename:    "{PROJECT}_camera_tracking.json",
				Kind:        director.KindMetadata,
				Description: "Per-frame camera tracking data",
			},
			{
				ID:          "meta_particles",
				Filename:    "{PROJECT}_particle_positions.json",
				Kind:        director.KindMetadata,
				Description: "Dust field particle positions",
			},
		},
	}
}

func (m *AOB) Init(ctx *stage.Context) error {
	ctx.Scene.Background = "#10131a"
	ctx.Scene.Fog = scene.Fog{Enabled: true, Color: "#10131a", Near: 30, Far: 90}
	ctx.Scene.EnvIntensity = 0.8

	m.addMassing(ctx.Scene)
	m.seedParticles(ctx.Scene)

	m.ribbon = newRibbonEffect()
	m.add(ctx.Scene, scene.NewObject("aob/energy_ribbon", math32.Vec3(0, 5, 0)))

	if ctx.Production != nil {
		ctx.Production.ParticleSource = m
		ctx.Production.Effect = m.ribbon
	}

	ctx.Log.Info("atlas office block staged",
		slog.Int("objects", ctx.Scene.ObjectCount()),
		slog.Int("particles", len(m.particles)))
	return nil
}

// Update drifts the dust field and cools the ribbon. Particle motion is a
// pure function of elapsed time and each particle's origin, so a given
// moment always reproduces the same cloud.
func (m *AOB) Update(ctx *stage.Context, elapsed, delta float64) error {
	t := float32(elapsed)
	for i, origin := range m.origins {
		phase := float32(i) * 0.37
		m.particles[i] = math32.Vec3(
			origin.X+math32.Sin(t*0.4+phase)*0.6,
			origin.Y+math32.Sin(t*0.23+phase*1.7)*0.35,
			origin.Z+math32.Cos(t*0.31+phase)*0.6,
		)
	}
	m.ribbon.cool(float32(delta))
	return nil
}

// Dispose removes everything Init staged. A recording left running, as when
// the operator switches away mid-batch, is stopped so the clip finalizes.
func (m *AOB) Dispose(ctx *stage.Context) error {
	if ctx.Rig.IsRecording() {
		ctx.Rig.StopRecording()
	}
	for _, name := range m.objects {
		ctx.Scene.Remove(name)
	}
	m.objects = nil
	m.particles = nil
	m.origins = nil
	m.ribbon = nil
	return nil
}

// Preset names the dust field for the particle export.
func (m *AOB) Preset() string { return aobPreset }

// Positions snapshots the current particle cloud for the particle export.
func (m *AOB) Positions() []math32.Vector3 {
	out := make([]math32.Vector3, len(m.particles))
	copy(out, m.particles)
	return out
}

func (m *AOB) add(sc *scene.Scene, obj *scene.Object) {
	sc.Add(obj)
	m.objects = append(m.objects, obj.Name)
}

func (m *AOB) addMassing(sc *scene.Scene) {
	blocks := []struct {
		name string
		pos  math32.Vector3
		size math32.Vector3
	}{
		{"aob/core_tower", math32.Vec3(0, 5, 0), math32.Vec3(6, 10, 6)},
		{"aob/east_wing", math32.Vec3(7, 2, 1), math32.Vec3(6, 4, 4)},
		{"aob/west_wing", math32.Vec3(-6.5, 3, -1), math32.Vec3(5, 6, 4)},
		{"aob/podium", math32.Vec3(0, 0.5, 0), math32.Vec3(16, 1, 12)},
		{"aob/plaza_canopy", math32.Vec3(3, 1.5, 7), math32.Vec3(6, 0.4, 4)},
	}
	for _, b := range blocks {
		obj := scene.NewObject(b.name, b.pos)
		obj.Scale = b.size
		m.add(sc, obj)
	}
}

// seedParticles scatters the dust field around the tower. The fixed seed
// keeps particle exports reproducible run to run.
func (m *AOB) seedParticles(sc *scene.Scene) {
	rng := rand.New(rand.NewSource(aobParticleSeed))
	m.particles = make([]math32.Vector3, aobParticleCount)
	m.origins = make([]math32.Vector3, aobParticleCount)
	for i := range m.particles {
		p := math32.Vec3(
			float32(rng.Float64()*36-18),
			float32(rng.Float64()*14+1),
			float32(rng.Float64()*28-14),
		)
		m.particles[i] = p
		m.origins[i] = p
	}
	m.add(sc, scene.NewObject("aob/dust_field", math32.Vec3(0, 8, 0)))
}

const ribbonIdleIntensity = 0.15

// ribbonEffect is the energy ribbon the VFX pass records. The director
// snaps it to full intensity at dispatch; between passes it cools back down
// to its idle glow.
type ribbonEffect struct {
	intensity float32
}

func newRibbonEffect() *ribbonEffect {
	return &ribbonEffect{intensity: ribbonIdleIntensity}
}

func (r *ribbonEffect) SetIntensity(v float32) { r.intensity = v }

func (r *ribbonEffect) Intensity() float32 { return r.intensity }

func (r *ribbonEffect) cool(delta float32) {
	if r.intensity <= ribbonIdleIntensity {
		return
	}
	r.intensity -= delta * 0.2
	if r.intensity < ribbonIdleIntensity {
		r.intensity = ribbonIdleIntensity
	}
}
