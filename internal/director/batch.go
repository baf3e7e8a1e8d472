package director

import (
	"log/slog"
	"strings"

	"cogentcore.org/core/math32"
	"github.com/google/uuid"

	"stagehand/internal/scene"
)

// Rig is the slice of the engine capability surface the director drives.
// Every call degrades to a log line on failure, so the state machine never
// has to handle rig errors.
type Rig interface {
	IsRecording() bool
	StartRecording(name string)
	StopRecording()
	SaveJSON(name string, v any)
	SetCameraMode(mode scene.CameraMode)
}

// StepResult reports what one reconcile tick did.
type StepResult struct {
	Completed  bool             // the batch reached COMPLETE this tick
	Stopped    bool             // a recording was handed off this tick
	Dispatched *DeliverableSpec // the job dispatched this tick, if any
}

// Fixed pose for VFX element passes. The synthetic shot is not authored, so
// the camera stays wherever dispatch puts it.
var (
	vfxPassPosition = math32.Vec3(0, 6, 14)
	vfxPassTarget   = math32.Vec3(0, 4, 0)
)

// StartBatch clears accumulated tracking data, resets the cursor to the
// first deliverable, marks the run PROCESSING and forces the camera into
// scripted mode. The per-tick Step function does everything else.
func StartBatch(p *Production, rig Rig) {
	p.Tracking = nil
	p.Batch = BatchState{
		Active: true,
		Index:  0,
		Status: BatchProcessing,
		RunID:  uuid.NewString(),
	}
	p.cooldown = 0
	rig.SetCameraMode(scene.ModeScripted)
}

// Step runs one reconcile tick of the batch state machine. Decisions are
// checked in a fixed order: cursor exhausted, recording to hand off, job to
// dispatch, otherwise a shot is playing and the tick is a no-op. At most
// one recording or export is ever in flight.
func Step(p *Production, rig Rig, cam *scene.Camera, elapsed float64, log *slog.Logger) StepResult {
	var res StepResult
	if p == nil || !p.Batch.Active || p.Batch.Status == BatchComplete {
		return res
	}
	if p.cooldown > 0 {
		p.cooldown--
		return res
	}

	if p.Batch.Index >= len(p.Deliverables) {
		p.Batch.Status = BatchComplete
		p.Batch.Active = false
		res.Completed = true
		log.Info("batch complete",
			slog.String("run", p.Batch.RunID),
			slog.Int("jobs", len(p.Deliverables)))
		return res
	}

	job := p.Deliverables[p.Batch.Index]
	switch {
	case !p.Playing && rig.IsRecording():
		// The camera move is done; hand the clip off to finalization and
		// sit out one tick so the next decision sees the post-stop flags.
		rig.StopRecording()
		p.Batch.Index++
		p.cooldown = 1
		res.Stopped = true
		log.Debug("recording handed off", slog.String("job", job.ID))
	case !p.Playing && !rig.IsRecording():
		res.Dispatched = dispatch(p, rig, cam, job, elapsed, log)
	default:
		// Shot still playing.
	}
	return res
}

// dispatch starts the deliverable under the cursor. Metadata jobs finish
// synchronously and advance the cursor themselves; recorded jobs leave the
// cursor in place until the hand-off tick. A nil return means the job was
// skipped.
func dispatch(p *Production, rig Rig, cam *scene.Camera, job DeliverableSpec, elapsed float64, log *slog.Logger) *DeliverableSpec {
	name := ExpandFilename(job.Filename, p.Project)

	switch job.Kind {
	case KindMetadata:
		if isParticleExport(name) {
			rig.SaveJSON(name, BuildParticleDoc(p))
		} else {
			rig.SaveJSON(name, BuildTrackingDoc(p))
		}
		p.Batch.Index++
		log.Info("metadata exported",
			slog.String("job", job.ID),
			slog.String("name", name))

	case KindVideoPlate:
		spec, ok := p.ShotByID(job.ShotID)
		if !ok {
			log.Warn("no shot for video plate, skipping job",
				slog.String("job", job.ID),
				slog.String("shot", job.ShotID))
			p.Batch.Index++
			return nil
		}
		cam.FOV = spec.FOV
		cam.Position = spec.PosStart
		cam.LookAt(spec.Target)
		p.beginShot(spec.ID, spec.Duration, elapsed)
		rig.StartRecording(name)
		log.Info("video plate started",
			slog.String("job", job.ID),
			slog.String("shot", spec.ID),
			slog.String("name", name))

	case KindVFXElement:
		cam.Position = vfxPassPosition
		cam.LookAt(vfxPassTarget)
		if p.Effect != nil {
			p.Effect.SetIntensity(1)
		}
		dur := job.Duration
		if dur <= 0 {
			dur = defaultVFXPassSeconds
		}
		p.beginShot(VFXPassShotID, dur, elapsed)
		rig.StartRecording(name)
		log.Info("vfx element started",
			slog.String("job", job.ID),
			slog.String("name", name))

	default:
		log.Warn("unknown deliverable kind, skipping job",
			slog.String("job", job.ID),
			slog.String("kind", string(job.Kind)))
		p.Batch.Index++
		return nil
	}

	return &job
}

func isParticleExport(name string) bool {
	return strings.Contains(strings.ToLower(name), "particle")
}
