package modules

import (
	"testing"

	"stagehand/internal/capture"
	"stagehand/internal/director"
	"stagehand/internal/platform/logger"
	"stagehand/internal/scene"
	"stagehand/internal/stage"
)

func newTestContext(t *testing.T, desc stage.Descriptor) *stage.Context {
	t.Helper()
	log := logger.Discard()
	sink := capture.NewMemorySink()
	cam := scene.NewCamera()
	controls := scene.NewOrbitControls(cam)
	rec := capture.NewRecorder(log, sink, 60)
	rec.Attach(scene.NewRenderer(640, 360))
	rig := capture.NewRig(log, rec, capture.NewExporter(log, sink), controls, nil)

	ctx := &stage.Context{
		Scene:  scene.New(),
		Camera: cam,
		Rig:    rig,
		Log:    log,
	}
	if desc.Category == stage.CategoryProduction {
		ctx.Production = director.NewProduction("AOB", desc.Deliverables, desc.Shots)
	}
	return ctx
}

func TestAOB_descriptor_is_self_consistent(t *testing.T) {
	desc := NewAOB().Descriptor()

	if desc.ID != "aob" || desc.Category != stage.CategoryProduction {
		t.Fatalf("unexpected descriptor %q/%q", desc.ID, desc.Category)
	}
	if len(desc.Shots) != 3 {
		t.Fatalf("expected 3 shots, got %d", len(desc.Shots))
	}
	if len(desc.Deliverables) != 6 {
		t.Fatalf("expected 6 deliverables, got %d", len(desc.Deliverables))
	}

	shots := make(map[string]director.ShotSpec, len(desc.Shots))
	for _, s := range desc.Shots {
		if s.Duration <= 0 {
			t.Errorf("shot %s needs a positive duration", s.ID)
		}
		if s.FOV <= 0 {
			t.Errorf("shot %s needs a lens", s.ID)
		}
		shots[s.ID] = s
	}

	wantKinds := []director.DeliverableKind{
		director.KindVideoPlate,
		director.KindVideoPlate,
		director.KindVideoPlate,
		director.KindVFXElement,
		director.KindMetadata,
		director.KindMetadata,
	}
	for i, d := range desc.Deliverables {
		if d.Kind != wantKinds[i] {
			t.Errorf("deliverable %d: expected kind %s, got %s", i, wantKinds[i], d.Kind)
		}
		if d.Kind == director.KindVideoPlate {
			if _, ok := shots[d.ShotID]; !ok {
				t.Errorf("deliverable %s references unknown shot %q", d.ID, d.ShotID)
			}
		}
	}

	last := desc.Deliverables[5]
	if last.Filename != "{PROJECT}_particle_positions.json" {
		t.Errorf("expected the particle export last, got %q", last.Filename)
	}
}

func TestAOB_init_stages_world_and_installs_sources(t *testing.T) {
	m := NewAOB()
	ctx := newTestContext(t, m.Descriptor())

	if err := m.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if ctx.Scene.ObjectCount() == 0 {
		t.Error("expected the massing staged")
	}
	if !ctx.Scene.Fog.Enabled {
		t.Error("expected fog on")
	}
	if ctx.Production.ParticleSource == nil {
		t.Fatal("expected a particle source installed")
	}
	if ctx.Production.Effect == nil {
		t.Fatal("expected the ribbon effect installed")
	}

	if got := len(ctx.Production.ParticleSource.Positions()); got != aobParticleCount {
		t.Errorf("expected %d particles, got %d", aobParticleCount, got)
	}
	if ctx.Production.ParticleSource.Preset() != aobPreset {
		t.Errorf("expected preset %q, got %q", aobPreset, ctx.Production.ParticleSource.Preset())
	}
}

func TestAOB_update_is_deterministic(t *testing.T) {
	m := NewAOB()
	ctx := newTestContext(t, m.Descriptor())
	if err := m.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	if err := m.Update(ctx, 1.25, 1.0/60); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	first := m.Positions()

	if err := m.Update(ctx, 7.5, 1.0/60); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	moved := m.Positions()
	if first[0] == moved[0] && first[1] == moved[1] {
		t.Error("expected the dust field to drift over time")
	}

	if err := m.Update(ctx, 1.25, 1.0/60); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	again := m.Positions()
	for i := range first {
		if first[i] != again[i] {
			t.Fatalf("particle %d not reproducible: %v then %v", i, first[i], again[i])
		}
	}
}

func TestAOB_dispose_clears_stage_and_stops_recording(t *testing.T) {
	m := NewAOB()
	ctx := newTestContext(t, m.Descriptor())
	if err := m.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	ctx.Rig.StartRecording("AOB_010_plate_v001.webm")
	if !ctx.Rig.IsRecording() {
		t.Fatal("expected a recording in flight")
	}

	if err := m.Dispose(ctx); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}

	if ctx.Scene.ObjectCount() != 0 {
		t.Errorf("expected an empty scene, %d objects left", ctx.Scene.ObjectCount())
	}
	if ctx.Rig.IsRecording() {
		t.Error("expected the abandoned recording stopped")
	}
}

func TestRibbonEffect_cools_to_idle(t *testing.T) {
	r := newRibbonEffect()
	if r.Intensity() != ribbonIdleIntensity {
		t.Fatalf("expected idle intensity, got %v", r.Intensity())
	}

	r.SetIntensity(1)
	for i := 0; i < 600; i++ {
		r.cool(1.0 / 60)
	}
	if r.Intensity() != ribbonIdleIntensity {
		t.Errorf("expected the ribbon cooled to idle, got %v", r.Intensity())
	}
}

func TestOrbitDemo_runs_without_production(t *testing.T) {
	m := NewOrbitDemo()
	ctx := newTestContext(t, m.Descriptor())
	if ctx.Production != nil {
		t.Fatal("playground context must not carry a production block")
	}

	if err := m.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if ctx.Scene.ObjectCount() != 9 {
		t.Fatalf("expected a mast and 8 pylons, got %d objects", ctx.Scene.ObjectCount())
	}

	before := m.pylons[0].Position
	if err := m.Update(ctx, 2.0, 1.0/60); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if m.pylons[0].Position == before {
		t.Error("expected the pylons to revolve")
	}

	if err := m.Dispose(ctx); err != nil {
		t.Fatalf("dispose failed: %v", err)
	}
	if ctx.Scene.ObjectCount() != 0 {
		t.Errorf("expected an empty scene, %d objects left", ctx.Scene.ObjectCount())
	}
}

// fakeBatchRig records capability calls in order so the test can assert the
// authored mastering sequence.
type fakeBatchRig struct {
	t         *testing.T
	recording bool
	starts    []string
	stops     int
	jsons     []string
	docs      map[string]any
}

func newFakeBatchRig(t *testing.T) *fakeBatchRig {
	return &fakeBatchRig{t: t, docs: make(map[string]any)}
}

func (r *fakeBatchRig) IsRecording() bool { return r.recording }

func (r *fakeBatchRig) StartRecording(name string) {
	if r.recording {
		r.t.Errorf("recording %q requested while another is active", name)
		return
	}
	r.recording = true
	r.starts = append(r.starts, name)
}

func (r *fakeBatchRig) StopRecording() {
	if !r.recording {
		r.t.Error("stop requested with no recording active")
		return
	}
	r.recording = false
	r.stops++
}

func (r *fakeBatchRig) SaveJSON(name string, v any) {
	r.jsons = append(r.jsons, name)
	r.docs[name] = v
}

func (r *fakeBatchRig) SetCameraMode(scene.CameraMode) {}

func TestAOB_masters_the_authored_batch(t *testing.T) {
	m := NewAOB()
	ctx := newTestContext(t, m.Descriptor())
	if err := m.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	p := ctx.Production
	rig := newFakeBatchRig(t)
	log := logger.Discard()

	director.StartBatch(p, rig)

	const dt = 0.25
	elapsed := 0.0
	for tick := 0; tick < 400 && p.Batch.Status != director.BatchComplete; tick++ {
		elapsed += dt
		if err := m.Update(ctx, elapsed, dt); err != nil {
			t.Fatalf("update failed: %v", err)
		}
		director.Advance(p, ctx.Camera, elapsed)
		director.Step(p, rig, ctx.Camera, elapsed, log)
	}

	if p.Batch.Status != director.BatchComplete {
		t.Fatalf("batch never completed, cursor stuck at %d", p.Batch.Index)
	}
	if p.Batch.Active {
		t.Error("expected the batch inactive once complete")
	}
	if want := len(m.Descriptor().Deliverables); p.Batch.Index != want {
		t.Errorf("expected the cursor at %d, got %d", want, p.Batch.Index)
	}

	wantStarts := []string{
		"AOB_010_plate_v001.webm",
		"AOB_020_plate_v001.webm",
		"AOB_030_plate_v001.webm",
		"AOB_energy_ribbon_v001.webm",
	}
	if len(rig.starts) != len(wantStarts) {
		t.Fatalf("expected %d recordings, got %d (%v)", len(wantStarts), len(rig.starts), rig.starts)
	}
	for i, want := range wantStarts {
		if rig.starts[i] != want {
			t.Errorf("recording %d: expected %q, got %q", i, want, rig.starts[i])
		}
	}
	if rig.stops != len(wantStarts) {
		t.Errorf("expected %d stops, got %d", len(wantStarts), rig.stops)
	}

	wantJSONs := []string{"AOB_camera_tracking.json", "AOB_particle_positions.json"}
	if len(rig.jsons) != 2 || rig.jsons[0] != wantJSONs[0] || rig.jsons[1] != wantJSONs[1] {
		t.Fatalf("expected exports %v, got %v", wantJSONs, rig.jsons)
	}

	tracking, ok := rig.docs[wantJSONs[0]].(director.TrackingDoc)
	if !ok {
		t.Fatalf("expected a tracking doc, got %T", rig.docs[wantJSONs[0]])
	}
	perShot := make(map[string]int)
	for _, s := range tracking.CameraData {
		perShot[s.ShotID]++
	}
	for _, id := range []string{"AOB_010", "AOB_020", "AOB_030"} {
		if perShot[id] == 0 {
			t.Errorf("expected tracking samples for %s", id)
		}
	}
	if n := perShot[director.VFXPassShotID]; n != 0 {
		t.Errorf("vfx pass must not emit tracking samples, got %d", n)
	}

	particles, ok := rig.docs[wantJSONs[1]].(director.ParticleDoc)
	if !ok {
		t.Fatalf("expected a particle doc, got %T", rig.docs[wantJSONs[1]])
	}
	if particles.Count != aobParticleCount || len(particles.Particles) != aobParticleCount {
		t.Errorf("expected %d particle rows, got count %d with %d rows",
			aobParticleCount, particles.Count, len(particles.Particles))
	}
	if particles.Preset != aobPreset {
		t.Errorf("expected preset %q, got %q", aobPreset, particles.Preset)
	}
}
