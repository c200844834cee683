package core

import (
	"sync"

	"github.com/pion/webrtc/v4"
)

// PeerConnection is the slice of a WebRTC peer connection a call session drives.
type PeerConnection interface {
	AddTrack(track webrtc.TrackLocal) error
	CreateOffer() (webrtc.SessionDescription, error)
	CreateAnswer() (webrtc.SessionDescription, error)
	SetLocalDescription(webrtc.SessionDescription) error
	SetRemoteDescription(webrtc.SessionDescription) error
	AddICECandidate(webrtc.ICECandidateInit) error
	// OnICECandidate sets a callback for newly gathered local ICE candidates.
	OnICECandidate(func(webrtc.ICECandidateInit))
	// OnTrack sets a callback that will be invoked when a new remote track arrives.
	OnTrack(func(RemoteTrack))
	OnConnectionStateChange(func(webrtc.PeerConnectionState))
	Close() error
}

// RemoteTrack is satisfied by *webrtc.TrackRemote.
type RemoteTrack interface {
	ID() string
	StreamID() string
	Kind() webrtc.RTPCodecType
}

// RemoteStream is one remote media stream. Tracks of the same stream id that
// arrive after it was surfaced are added to it.
type RemoteStream struct {
	id string

	mu      sync.Mutex
	tracks  []RemoteTrack
	onTrack func(RemoteTrack)
}

func NewRemoteStream(id string) *RemoteStream {
	return &RemoteStream{id: id}
}

func (s *RemoteStream) ID() string { return s.id }

func (s *RemoteStream) Tracks() []RemoteTrack {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]RemoteTrack, len(s.tracks))
	copy(out, s.tracks)
	return out
}

// OnTrack calls fn for every track already in the stream, then for each
// track added later. fn runs on the adding goroutine and must not block.
func (s *RemoteStream) OnTrack(fn func(RemoteTrack)) {
	s.mu.Lock()
	s.onTrack = fn
	existing := make([]RemoteTrack, len(s.tracks))
	copy(existing, s.tracks)
	s.mu.Unlock()
	for _, t := range existing {
		fn(t)
	}
}

func (s *RemoteStream) AddTrack(t RemoteTrack) {
	s.mu.Lock()
	s.tracks = append(s.tracks, t)
	fn := s.onTrack
	s.mu.Unlock()
	if fn != nil {
		fn(t)
	}
}

type PeerConnectionFactory func() (PeerConnection, error)
