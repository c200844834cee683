package core

import (
	"context"
	"sync"

	"github.com/pion/webrtc/v4"
)

type TrackKind string

const (
	TrackAudio TrackKind = "audio"
	TrackVideo TrackKind = "video"
)

// LocalTrack is one captured track. Enabled gates whether captured media
// reaches the peer; a disabled track keeps its hardware open.
type LocalTrack interface {
	ID() string
	Kind() TrackKind
	Enabled() bool
	SetEnabled(on bool)
	// Stop releases the capture hardware. It must be safe to call twice.
	Stop() error
	// TrackLocal is what gets attached to the peer connection.
	TrackLocal() webrtc.TrackLocal
}

type MediaConstraints struct {
	Audio        bool
	Video        bool
	Width        int
	Height       int
	FrameRate    float64
	SampleRate   int
	ChannelCount int
}

// LocalMedia owns the local tracks of one call attempt.
type LocalMedia struct {
	mu       sync.Mutex
	tracks   []LocalTrack
	released bool
}

func NewLocalMedia(tracks ...LocalTrack) *LocalMedia {
	return &LocalMedia{tracks: tracks}
}

func (m *LocalMedia) Tracks() []LocalTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]LocalTrack, len(m.tracks))
	copy(out, m.tracks)
	return out
}

func (m *LocalMedia) TracksOf(kind TrackKind) []LocalTrack {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LocalTrack
	for _, t := range m.tracks {
		if t.Kind() == kind {
			out = append(out, t)
		}
	}
	return out
}

func (m *LocalMedia) Released() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

// MarkReleased flips the released flag and reports whether this call did it.
func (m *LocalMedia) MarkReleased() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.released {
		return false
	}
	m.released = true
	return true
}

//go:generate mockgen -destination=mocks/mock_media.go -package=mocks . MediaAcquirer,DeviceSource

// MediaAcquirer obtains local capture and owns its enable/release lifecycle.
type MediaAcquirer interface {
	Acquire(ctx context.Context, c MediaConstraints) (*LocalMedia, error)
	SetAudioEnabled(m *LocalMedia, on bool)
	SetVideoEnabled(m *LocalMedia, on bool)
	Release(m *LocalMedia)
}

// DeviceSource opens capture hardware; implemented per platform.
type DeviceSource interface {
	Capture(ctx context.Context, c MediaConstraints) ([]LocalTrack, error)
}
