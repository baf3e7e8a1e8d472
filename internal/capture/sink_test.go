package capture

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileSink_creates_output_dir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "renders", "aob")
	sink, err := NewFileSink(dir)
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}
	if sink.Dir() != dir {
		t.Errorf("expected dir %s, got %s", dir, sink.Dir())
	}

	payload := []byte{0x53, 0x48, 0x43, 0x31}
	if err := sink.WriteClip("AOB_010_plate_v001.webm", payload); err != nil {
		t.Fatalf("WriteClip: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "AOB_010_plate_v001.webm"))
	if err != nil {
		t.Fatalf("read clip: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("clip bytes do not round trip")
	}
}

func TestFileSink_rejects_dot_names(t *testing.T) {
	sink, err := NewFileSink(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileSink: %v", err)
	}

	for _, name := range []string{"", ".", ".."} {
		if err := sink.WriteJSON(name, []byte("{}")); !errors.Is(err, ErrEmptyName) {
			t.Errorf("name %q: expected ErrEmptyName, got %v", name, err)
		}
	}
}

func TestMemorySink_lookup_and_names(t *testing.T) {
	sink := NewMemorySink()

	if err := sink.WriteClip("b.webm", []byte("b")); err != nil {
		t.Fatalf("WriteClip: %v", err)
	}
	if err := sink.WriteClip("a.webm", []byte("a")); err != nil {
		t.Fatalf("WriteClip: %v", err)
	}
	if err := sink.WriteJSON("AOB_camera_tracking.json", []byte("{}")); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	if data, ok := sink.Clip("a.webm"); !ok || string(data) != "a" {
		t.Errorf("expected clip a, got %q ok=%v", data, ok)
	}
	if _, ok := sink.Clip("missing.webm"); ok {
		t.Error("expected miss for unknown clip")
	}

	clips := sink.ClipNames()
	if len(clips) != 2 || clips[0] != "a.webm" || clips[1] != "b.webm" {
		t.Errorf("unexpected clip names: %v", clips)
	}
	docs := sink.DocNames()
	if len(docs) != 1 || docs[0] != "AOB_camera_tracking.json" {
		t.Errorf("unexpected doc names: %v", docs)
	}
}
