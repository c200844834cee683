// Package media owns local capture for a call: acquisition, per-kind
// enable toggles and a release that runs once per LocalMedia.
package media

import (
	"context"
	"errors"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/rs/zerolog/log"
)

type Acquirer struct {
	source core.DeviceSource
}

func NewAcquirer(source core.DeviceSource) *Acquirer {
	return &Acquirer{source: source}
}

func (a *Acquirer) Acquire(ctx context.Context, c core.MediaConstraints) (*core.LocalMedia, error) {
	tracks, err := a.source.Capture(ctx, c)
	if err != nil {
		var de *core.DeviceError
		if !errors.As(err, &de) {
			err = &core.DeviceError{Reason: core.DeviceUnknown, Err: err}
		}
		log.Error().Err(err).Str("module", "media").Msg("acquire failed")
		return nil, err
	}
	m := core.NewLocalMedia(tracks...)
	log.Info().
		Str("module", "media").
		Int("audio", len(m.TracksOf(core.TrackAudio))).
		Int("video", len(m.TracksOf(core.TrackVideo))).
		Msg("local media acquired")
	return m, nil
}

func (a *Acquirer) SetAudioEnabled(m *core.LocalMedia, on bool) {
	a.setEnabled(m, core.TrackAudio, on)
}

func (a *Acquirer) SetVideoEnabled(m *core.LocalMedia, on bool) {
	a.setEnabled(m, core.TrackVideo, on)
}

func (a *Acquirer) setEnabled(m *core.LocalMedia, kind core.TrackKind, on bool) {
	if m == nil || m.Released() {
		return
	}
	for _, t := range m.TracksOf(kind) {
		t.SetEnabled(on)
	}
	log.Debug().Str("module", "media").Str("kind", string(kind)).Bool("enabled", on).Msg("tracks toggled")
}

// Release stops every track of m. Only the first call does anything.
func (a *Acquirer) Release(m *core.LocalMedia) {
	if m == nil || !m.MarkReleased() {
		return
	}
	for _, t := range m.Tracks() {
		if err := t.Stop(); err != nil {
			log.Warn().Err(err).Str("module", "media").Str("track_id", t.ID()).Msg("track stop")
		}
	}
	log.Info().Str("module", "media").Msg("local media released")
}
