package capture

import (
	"bytes"
	"encoding/binary"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"stagehand/internal/scene"
)

// Clip container layout: 4-byte magic, uint16 version, uint16 fps,
// uint32 frame count, then one fixed-size record per captured frame.
var clipMagic = [4]byte{'S', 'H', 'C', '1'}

const clipVersion uint16 = 1

type frameRecord struct {
	Index  uint32
	TimeMS uint32
}

// Clip summarizes a finalized recording session.
type Clip struct {
	SessionID string
	Name      string
	Frames    int
	Duration  float64
	Bytes     int
}

type session struct {
	id      string
	name    string
	begun   bool
	startAt float64
	frames  []frameRecord
}

// Recorder captures rendered frames into a session. Start and Stop are
// no-ops with a log line when their precondition does not hold: a recording
// cannot start without an attached render surface or while another session
// is active, and stopping without a session does nothing. Stop ends capture
// immediately and hands the accumulated frames to a finalizer goroutine;
// the clip write and the OnFinalized callback land later, on their own.
type Recorder struct {
	log  *slog.Logger
	sink Sink
	fps  int

	surface   *scene.Renderer
	recording atomic.Bool
	session   *session
	wg        sync.WaitGroup

	// OnFinalized, when set, is called from the finalizer goroutine after
	// the clip has been written.
	OnFinalized func(Clip)
}

// NewRecorder returns a recorder writing through sink with the given nominal
// capture rate. fps <= 0 falls back to 60.
func NewRecorder(log *slog.Logger, sink Sink, fps int) *Recorder {
	if fps <= 0 {
		fps = 60
	}
	return &Recorder{log: log, sink: sink, fps: fps}
}

// Attach binds the recorder to a render surface and taps its frames.
// Recording requests before Attach are rejected.
func (r *Recorder) Attach(surface *scene.Renderer) {
	r.surface = surface
	if surface != nil {
		surface.SetFrameTap(r.captureFrame)
	}
}

// IsRecording reports whether a session is currently capturing frames.
func (r *Recorder) IsRecording() bool {
	return r.recording.Load()
}

// Start begins a new recording session under the given artifact name and
// reports whether one actually began.
func (r *Recorder) Start(name string) bool {
	if r.surface == nil {
		r.log.Warn("recording requested with no render surface", slog.String("name", name))
		return false
	}
	if r.recording.Load() {
		r.log.Warn("recording already in progress", slog.String("name", name))
		return false
	}
	r.session = &session{id: uuid.NewString(), name: name}
	r.recording.Store(true)
	r.log.Info("recording started",
		slog.String("session", r.session.id),
		slog.String("name", name))
	return true
}

// Stop ends the active session and reports whether there was one to stop.
// Frames rendered after Stop are not captured; the clip itself finalizes
// asynchronously.
func (r *Recorder) Stop() bool {
	if r.session == nil {
		return false
	}
	s := r.session
	r.session = nil
	r.recording.Store(false)
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		r.finalize(s)
	}()
	return true
}

// Close waits for in-flight finalizations to complete.
func (r *Recorder) Close() {
	r.wg.Wait()
}

// captureFrame is the render surface tap. It runs on the frame loop
// goroutine and appends one record per draw while a session is active.
func (r *Recorder) captureFrame(_ uint64, elapsed float64) {
	s := r.session
	if s == nil {
		return
	}
	if !s.begun {
		s.begun = true
		s.startAt = elapsed
	}
	ms := (elapsed - s.startAt) * 1000
	if ms < 0 {
		ms = 0
	}
	s.frames = append(s.frames, frameRecord{Index: uint32(len(s.frames)), TimeMS: uint32(ms)})
}

func (r *Recorder) finalize(s *session) {
	data := encodeClip(r.fps, s.frames)

	var duration float64
	if n := len(s.frames); n > 0 {
		duration = float64(s.frames[n-1].TimeMS) / 1000
	}
	clip := Clip{
		SessionID: s.id,
		Name:      s.name,
		Frames:    len(s.frames),
		Duration:  duration,
		Bytes:     len(data),
	}

	if err := r.sink.WriteClip(s.name, data); err != nil {
		r.log.Error("clip write failed",
			slog.String("session", s.id),
			slog.String("name", s.name),
			slog.String("error", err.Error()))
	}

	r.log.Info("recording finalized",
		slog.String("session", s.id),
		slog.String("name", s.name),
		slog.Int("frames", clip.Frames),
		slog.Int("bytes", clip.Bytes))

	if r.OnFinalized != nil {
		r.OnFinalized(clip)
	}
}

func encodeClip(fps int, frames []frameRecord) []byte {
	buf := &bytes.Buffer{}
	buf.Write(clipMagic[:])
	binary.Write(buf, binary.LittleEndian, clipVersion)
	binary.Write(buf, binary.LittleEndian, uint16(fps))
	binary.Write(buf, binary.LittleEndian, uint32(len(frames)))
	for _, f := range frames {
		binary.Write(buf, binary.LittleEndian, f)
	}
	return buf.Bytes()
}
