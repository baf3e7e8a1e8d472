package director

import "time"

// TrackingDoc is the camera tracking metadata export: every sample captured
// during the run's recorded playback, in capture order.
type TrackingDoc struct {
	ProjectID   string           `json:"projectId"`
	GeneratedAt time.Time        `json:"generatedAt"`
	CameraData  []TrackingSample `json:"cameraData"`
}

// ParticleDoc is the particle position metadata export.
type ParticleDoc struct {
	ProjectID string       `json:"projectId"`
	Count     int          `json:"count"`
	Preset    string       `json:"preset"`
	Particles [][3]float32 `json:"particles"`
}

// BuildTrackingDoc snapshots the tracking samples accumulated so far. An
// empty run still serializes with an empty array, not null.
func BuildTrackingDoc(p *Production) TrackingDoc {
	samples := p.Tracking
	if samples == nil {
		samples = []TrackingSample{}
	}
	return TrackingDoc{
		ProjectID:   p.Project,
		GeneratedAt: time.Now().UTC(),
		CameraData:  samples,
	}
}

// BuildParticleDoc snapshots the module's current particle positions. A
// production without an installed source exports an empty cloud.
func BuildParticleDoc(p *Production) ParticleDoc {
	doc := ParticleDoc{
		ProjectID: p.Project,
		Particles: [][3]float32{},
	}
	if p.ParticleSource == nil {
		return doc
	}
	doc.Preset = p.ParticleSource.Preset()
	for _, pos := range p.ParticleSource.Positions() {
		doc.Particles = append(doc.Particles, vec3Array(pos))
	}
	doc.Count = len(doc.Particles)
	return doc
}
