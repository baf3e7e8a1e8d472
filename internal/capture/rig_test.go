package capture

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"stagehand/internal/platform/logger"
	"stagehand/internal/scene"
)

func newTestRig(t *testing.T) (*Rig, *MemorySink, *scene.OrbitControls) {
	t.Helper()
	sink := NewMemorySink()
	log := logger.Discard()
	rec := NewRecorder(log, sink, 30)
	rec.Attach(scene.NewRenderer(640, 360))
	exp := NewExporter(log, sink)
	controls := scene.NewOrbitControls(scene.NewCamera())
	return NewRig(log, rec, exp, controls, nil), sink, controls
}

func TestRig_camera_modes(t *testing.T) {
	rig, _, controls := newTestRig(t)

	rig.SetCameraMode(scene.ModeScripted)
	if controls.Enabled {
		t.Error("scripted mode should disable controls")
	}
	if rig.CameraMode() != scene.ModeScripted {
		t.Errorf("expected scripted mode, got %s", rig.CameraMode())
	}

	rig.SetCameraMode(scene.ModeOrbit)
	if !controls.Enabled {
		t.Error("orbit mode should enable controls")
	}

	rig.SetCameraMode(scene.CameraMode("dolly"))
	if !controls.Enabled {
		t.Error("unknown mode should not change controls")
	}
}

func TestRig_save_json(t *testing.T) {
	rig, sink, _ := newTestRig(t)

	rig.SaveJSON("doc.json", map[string]int{"n": 7})

	data, ok := sink.Doc("doc.json")
	if !ok {
		t.Fatal("document not written")
	}
	var parsed map[string]int
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if parsed["n"] != 7 {
		t.Errorf("expected n=7, got %d", parsed["n"])
	}
}

func TestRig_recording_flow(t *testing.T) {
	rig, _, _ := newTestRig(t)

	if rig.IsRecording() {
		t.Fatal("expected idle rig")
	}
	rig.StartRecording("a.webm")
	if !rig.IsRecording() {
		t.Fatal("expected recording after StartRecording")
	}
	rig.StopRecording()
	if rig.IsRecording() {
		t.Error("expected capture to end as soon as the session stops")
	}
	rig.rec.Close()
}

func TestFileSink_sanitizes_names(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	if err := sink.WriteJSON("../escape.json", []byte("{}")); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "escape.json")); err != nil {
		t.Errorf("expected sanitized file inside dir: %v", err)
	}

	if err := sink.WriteClip(".", []byte("x")); err == nil {
		t.Error("expected error for empty name")
	}
}
