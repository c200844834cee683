package call

import (
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/pion/webrtc/v4"
	"github.com/stretchr/testify/require"
)

const testSDP = "v=0\r\n" +
	"o=- 4215775240449105457 2 IN IP4 127.0.0.1\r\n" +
	"s=-\r\n" +
	"t=0 0\r\n" +
	"m=audio 9 UDP/TLS/RTP/SAVPF 111\r\n" +
	"c=IN IP4 0.0.0.0\r\n" +
	"a=rtpmap:111 opus/48000/2\r\n"

type sent struct {
	kind    core.MessageKind
	payload any
}

// fakeChannel records outbound traffic. deliver must be called from the test
// goroutine, never from inside a controller call.
type fakeChannel struct {
	mu        sync.Mutex
	sent      []sent
	announces int
	closed    int
	handler   func(core.Envelope)
	done      chan struct{}
	err       error
}

// doneLocked lazily creates the done channel. f.mu must be held.
func (f *fakeChannel) doneLocked() chan struct{} {
	if f.done == nil {
		f.done = make(chan struct{})
	}
	return f.done
}

func (f *fakeChannel) Done() <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.doneLocked()
}

func (f *fakeChannel) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// drop simulates the relay going away.
func (f *fakeChannel) drop(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return
	}
	f.err = err
	close(f.doneLocked())
}

func (f *fakeChannel) Send(kind core.MessageKind, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sent{kind, payload})
	return nil
}

func (f *fakeChannel) Announce() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announces++
	return nil
}

func (f *fakeChannel) OnMessage(fn func(core.Envelope)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handler = fn
}

func (f *fakeChannel) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	if f.err == nil {
		f.err = errors.New("closed")
		close(f.doneLocked())
	}
	return nil
}

func (f *fakeChannel) sentOf(kind core.MessageKind) []any {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []any
	for _, s := range f.sent {
		if s.kind == kind {
			out = append(out, s.payload)
		}
	}
	return out
}

func (f *fakeChannel) announced() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.announces
}

func (f *fakeChannel) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeChannel) deliver(t *testing.T, kind core.MessageKind, payload any) {
	t.Helper()
	env := core.Envelope{Type: kind, AppointmentID: testRoom}
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		env.Payload = raw
	}
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	require.NotNil(t, h, "no inbound handler registered")
	h(env)
}

type fakePC struct {
	mu         sync.Mutex
	tracks     int
	remote     *webrtc.SessionDescription
	candidates []string
	closed     int

	onICE   func(webrtc.ICECandidateInit)
	onTrack func(core.RemoteTrack)
	onState func(webrtc.PeerConnectionState)
}

func (f *fakePC) AddTrack(webrtc.TrackLocal) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tracks++
	return nil
}

func (f *fakePC) CreateOffer() (webrtc.SessionDescription, error) {
	return webrtc.SessionDescription{Type: webrtc.SDPTypeOffer, SDP: testSDP}, nil
}

func (f *fakePC) CreateAnswer() (webrtc.SessionDescription, error) {
	return webrtc.SessionDescription{Type: webrtc.SDPTypeAnswer, SDP: testSDP}, nil
}

func (f *fakePC) SetLocalDescription(webrtc.SessionDescription) error { return nil }

func (f *fakePC) SetRemoteDescription(d webrtc.SessionDescription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.remote = &d
	return nil
}

func (f *fakePC) AddICECandidate(c webrtc.ICECandidateInit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.candidates = append(f.candidates, c.Candidate)
	return nil
}

func (f *fakePC) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onICE = fn
}

func (f *fakePC) OnTrack(fn func(core.RemoteTrack)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onTrack = fn
}

func (f *fakePC) OnConnectionStateChange(fn func(webrtc.PeerConnectionState)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onState = fn
}

func (f *fakePC) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakePC) fireState(st webrtc.PeerConnectionState) {
	f.mu.Lock()
	fn := f.onState
	f.mu.Unlock()
	fn(st)
}

func (f *fakePC) fireICE(c string) {
	f.mu.Lock()
	fn := f.onICE
	f.mu.Unlock()
	fn(webrtc.ICECandidateInit{Candidate: c})
}

func (f *fakePC) fireTrack(t core.RemoteTrack) {
	f.mu.Lock()
	fn := f.onTrack
	f.mu.Unlock()
	fn(t)
}

func (f *fakePC) remoteSet() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.remote != nil
}

func (f *fakePC) applied() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.candidates...)
}

func (f *fakePC) closes() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

type stubTrack struct {
	kind    core.TrackKind
	enabled atomic.Bool
	stops   atomic.Int32
}

func newStubTrack(kind core.TrackKind) *stubTrack {
	t := &stubTrack{kind: kind}
	t.enabled.Store(true)
	return t
}

func (t *stubTrack) ID() string                    { return string(t.kind) }
func (t *stubTrack) Kind() core.TrackKind          { return t.kind }
func (t *stubTrack) Enabled() bool                 { return t.enabled.Load() }
func (t *stubTrack) SetEnabled(on bool)            { t.enabled.Store(on) }
func (t *stubTrack) Stop() error                   { t.stops.Add(1); return nil }
func (t *stubTrack) TrackLocal() webrtc.TrackLocal { return nil }

type remoteTrack struct{ id, stream string }

func (t remoteTrack) ID() string                { return t.id }
func (t remoteTrack) StreamID() string          { return t.stream }
func (t remoteTrack) Kind() webrtc.RTPCodecType { return webrtc.RTPCodecTypeVideo }
