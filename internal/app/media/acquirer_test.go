package media

import (
	"context"
	"errors"
	"testing"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTrack struct {
	id      string
	kind    core.TrackKind
	enabled bool
	stops   int
}

func (t *fakeTrack) ID() string                    { return t.id }
func (t *fakeTrack) Kind() core.TrackKind          { return t.kind }
func (t *fakeTrack) Enabled() bool                 { return t.enabled }
func (t *fakeTrack) SetEnabled(on bool)            { t.enabled = on }
func (t *fakeTrack) Stop() error                   { t.stops++; return nil }
func (t *fakeTrack) TrackLocal() webrtc.TrackLocal { return nil }

type fakeSource struct {
	tracks []core.LocalTrack
	err    error
}

func (s *fakeSource) Capture(context.Context, core.MediaConstraints) ([]core.LocalTrack, error) {
	return s.tracks, s.err
}

func newTracks() (*fakeTrack, *fakeTrack) {
	return &fakeTrack{id: "a1", kind: core.TrackAudio, enabled: true},
		&fakeTrack{id: "v1", kind: core.TrackVideo, enabled: true}
}

func TestAcquireAndToggle(t *testing.T) {
	audio, video := newTracks()
	a := NewAcquirer(&fakeSource{tracks: []core.LocalTrack{audio, video}})

	m, err := a.Acquire(context.Background(), core.MediaConstraints{Audio: true, Video: true})
	require.NoError(t, err)
	require.Len(t, m.Tracks(), 2)

	a.SetAudioEnabled(m, false)
	assert.False(t, audio.enabled)
	assert.True(t, video.enabled)

	a.SetAudioEnabled(m, false)
	assert.False(t, audio.enabled, "toggle is idempotent")

	a.SetVideoEnabled(m, false)
	assert.False(t, video.enabled)
}

func TestToggleWithoutTracksOfKind(t *testing.T) {
	audio, _ := newTracks()
	a := NewAcquirer(&fakeSource{tracks: []core.LocalTrack{audio}})
	m, err := a.Acquire(context.Background(), core.MediaConstraints{Audio: true})
	require.NoError(t, err)

	assert.NotPanics(t, func() { a.SetVideoEnabled(m, false) })
	assert.True(t, audio.enabled)
	assert.NotPanics(t, func() { a.SetAudioEnabled(nil, false) })
}

func TestReleaseOnce(t *testing.T) {
	audio, video := newTracks()
	a := NewAcquirer(&fakeSource{tracks: []core.LocalTrack{audio, video}})
	m, err := a.Acquire(context.Background(), core.MediaConstraints{Audio: true, Video: true})
	require.NoError(t, err)

	a.Release(m)
	a.Release(m)
	assert.Equal(t, 1, audio.stops)
	assert.Equal(t, 1, video.stops)

	a.SetAudioEnabled(m, false)
	assert.True(t, audio.enabled, "released media is not toggled")
}

func TestAcquireWrapsUnknownFailure(t *testing.T) {
	a := NewAcquirer(&fakeSource{err: errors.New("driver exploded")})
	_, err := a.Acquire(context.Background(), core.MediaConstraints{Audio: true})

	var de *core.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, core.DeviceUnknown, de.Reason)
	assert.ErrorIs(t, err, core.ErrDevice)
}

func TestAcquireKeepsDeviceError(t *testing.T) {
	a := NewAcquirer(&fakeSource{err: &core.DeviceError{Reason: core.DevicePermissionDenied}})
	_, err := a.Acquire(context.Background(), core.MediaConstraints{Audio: true})

	var de *core.DeviceError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, core.DevicePermissionDenied, de.Reason)
}
