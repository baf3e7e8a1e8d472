package director

import (
	"math"

	"cogentcore.org/core/math32"

	"stagehand/internal/scene"
)

// Advance drives shot playback for one frame at the given loop time. The
// camera is lerped along the shot's path and re-aimed at its target. While
// the batch is active and the shot is authored, one tracking sample is
// appended per frame, indexed at the export rate. When interpolation
// reaches the end the playing flag clears and the completion signal fires,
// once per shot no matter how many frames land past the end.
func Advance(p *Production, cam *scene.Camera, elapsed float64) {
	if p == nil || !p.Playing {
		return
	}

	shotElapsed := elapsed - p.StartAt
	if shotElapsed < 0 {
		shotElapsed = 0
	}

	t := 1.0
	if p.ShotDuration > 0 {
		t = math.Min(shotElapsed/p.ShotDuration, 1)
	}

	if spec, ok := p.ShotByID(p.ActiveShotID); ok {
		cam.Position = spec.PosStart.Lerp(spec.PosEnd, float32(t))
		cam.LookAt(spec.Target)
		if p.Batch.Active {
			p.Tracking = append(p.Tracking, TrackingSample{
				ShotID: p.ActiveShotID,
				Frame:  int(math.Floor(shotElapsed * TrackingRate)),
				Time:   shotElapsed,
				Pos:    vec3Array(cam.Position),
				Rot:    vec3Array(cam.Euler()),
				FOV:    cam.FOV,
			})
		}
	}

	p.Progress = int(math.Round(t * 100))

	if t >= 1 {
		p.Playing = false
		if !p.signalled {
			p.signalled = true
			p.Done.Notify(p.ActiveShotID)
		}
	}
}

func vec3Array(v math32.Vector3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
