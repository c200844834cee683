// Package peer drives one WebRTC peer connection through offer/answer and
// ICE exchange for a one-to-one call.
package peer

import (
	"errors"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Config struct {
	Room     domain.CallRoomID
	LocalID  domain.UserID
	RemoteID domain.UserID
	Role     Role
	// Post runs connection callbacks on the owner's event loop.
	// Nil runs them inline on the connection's goroutine.
	Post func(func())
}

// Session owns one PeerConnection and its negotiation state.
// Its methods are not safe for concurrent use; the owner serializes them
// together with the callbacks routed through Config.Post.
type Session struct {
	cfg    Config
	pc     core.PeerConnection
	logger zerolog.Logger

	state     State
	remoteSet bool
	pending   []webrtc.ICECandidateInit
	streams   map[string]*core.RemoteStream

	onLocalCandidate func(webrtc.ICECandidateInit)
	onRemoteStream   func(*core.RemoteStream)
	onConnState      func(webrtc.PeerConnectionState)
}

func New(cfg Config, pc core.PeerConnection) *Session {
	s := &Session{
		cfg:     cfg,
		pc:      pc,
		streams: make(map[string]*core.RemoteStream),
		logger: log.With().
			Str("module", "peer").
			Str("room", string(cfg.Room)).
			Str("role", cfg.Role.String()).
			Logger(),
	}

	pc.OnICECandidate(func(c webrtc.ICECandidateInit) {
		s.post(func() {
			if s.state == StateClosed || s.onLocalCandidate == nil {
				return
			}
			s.onLocalCandidate(c)
		})
	})
	pc.OnTrack(func(t core.RemoteTrack) {
		s.post(func() { s.handleTrack(t) })
	})
	pc.OnConnectionStateChange(func(st webrtc.PeerConnectionState) {
		s.post(func() { s.handleConnState(st) })
	})
	return s
}

func (s *Session) post(fn func()) {
	if s.cfg.Post != nil {
		s.cfg.Post(fn)
		return
	}
	fn()
}

func (s *Session) State() State { return s.state }

func (s *Session) Role() Role { return s.cfg.Role }

// PendingCandidates is the number of remote candidates waiting for a remote description.
func (s *Session) PendingCandidates() int { return len(s.pending) }

func (s *Session) OnLocalCandidate(fn func(webrtc.ICECandidateInit)) { s.onLocalCandidate = fn }

// OnRemoteStream fires once per remote stream id. Later tracks of that stream
// are delivered through the stream's OnTrack.
func (s *Session) OnRemoteStream(fn func(*core.RemoteStream)) { s.onRemoteStream = fn }

func (s *Session) OnConnectionState(fn func(webrtc.PeerConnectionState)) { s.onConnState = fn }

func (s *Session) stateErr(op string) error {
	return &core.StateError{Op: op, State: s.state.String()}
}

func (s *Session) setState(next State) {
	s.logger.Debug().Str("from", s.state.String()).Str("to", next.String()).Msg("state")
	s.state = next
}

// AttachLocalTracks adds every track of media to the connection. It must run
// before any description is created or applied.
func (s *Session) AttachLocalTracks(media *core.LocalMedia) error {
	if s.state != StateCreated {
		return s.stateErr("attach-local-tracks")
	}
	for _, t := range media.Tracks() {
		if err := s.pc.AddTrack(t.TrackLocal()); err != nil {
			return &core.NegotiationError{Op: "add-track", Err: err}
		}
	}
	s.setState(StateHaveLocalTracks)
	if s.cfg.Role == RoleAnswerer {
		s.setState(StateAwaitingOffer)
	}
	return nil
}

func (s *Session) CreateOffer() (webrtc.SessionDescription, error) {
	if s.state != StateHaveLocalTracks {
		return webrtc.SessionDescription{}, s.stateErr("create-offer")
	}
	offer, err := s.pc.CreateOffer()
	if err != nil {
		return webrtc.SessionDescription{}, &core.NegotiationError{Op: "create-offer", Err: err}
	}
	if err := s.pc.SetLocalDescription(offer); err != nil {
		return webrtc.SessionDescription{}, &core.NegotiationError{Op: "set-local-offer", Err: err}
	}
	s.setState(StateLocalOfferSet)
	s.setState(StateAwaitingAnswer)
	return offer, nil
}

// HandleOffer applies a remote offer and returns the answer to transmit.
// When both sides offered, the side with the smaller participant id keeps its
// offer and HandleOffer returns (nil, nil); the other side rolls back and answers.
func (s *Session) HandleOffer(offer webrtc.SessionDescription) (*webrtc.SessionDescription, error) {
	switch s.state {
	case StateHaveLocalTracks, StateAwaitingOffer:
	case StateLocalOfferSet, StateAwaitingAnswer:
		if s.cfg.LocalID < s.cfg.RemoteID {
			s.logger.Info().Msg("glare: keeping local offer, ignoring remote offer")
			return nil, nil
		}
		s.logger.Info().Msg("glare: rolling back local offer to answer")
		if err := s.pc.SetLocalDescription(webrtc.SessionDescription{Type: webrtc.SDPTypeRollback}); err != nil {
			return nil, &core.NegotiationError{Op: "rollback", Err: err}
		}
		s.cfg.Role = RoleAnswerer
		s.setState(StateAwaitingOffer)
	default:
		return nil, s.stateErr("handle-offer")
	}

	if err := validateDescription(webrtc.SDPTypeOffer, offer); err != nil {
		return nil, &core.NegotiationError{Op: "validate-offer", Err: err}
	}
	if err := s.pc.SetRemoteDescription(offer); err != nil {
		return nil, &core.NegotiationError{Op: "set-remote-offer", Err: err}
	}
	s.setState(StateRemoteOfferSet)
	s.remoteSet = true
	s.drainCandidates()

	answer, err := s.pc.CreateAnswer()
	if err != nil {
		return nil, &core.NegotiationError{Op: "create-answer", Err: err}
	}
	if err := s.pc.SetLocalDescription(answer); err != nil {
		return nil, &core.NegotiationError{Op: "set-local-answer", Err: err}
	}
	s.setState(StateLocalAnswerSet)
	return &answer, nil
}

func (s *Session) HandleAnswer(answer webrtc.SessionDescription) error {
	if s.state != StateAwaitingAnswer {
		return s.stateErr("handle-answer")
	}
	if err := validateDescription(webrtc.SDPTypeAnswer, answer); err != nil {
		return &core.NegotiationError{Op: "validate-answer", Err: err}
	}
	if err := s.pc.SetRemoteDescription(answer); err != nil {
		return &core.NegotiationError{Op: "set-remote-answer", Err: err}
	}
	s.setState(StateRemoteAnswerSet)
	s.remoteSet = true
	s.drainCandidates()
	return nil
}

// HandleRemoteCandidate applies c, or queues it until a remote description exists.
func (s *Session) HandleRemoteCandidate(c webrtc.ICECandidateInit) error {
	if s.state == StateClosed {
		return s.stateErr("handle-remote-candidate")
	}
	if !s.remoteSet {
		s.pending = append(s.pending, c)
		s.logger.Debug().Int("pending", len(s.pending)).Msg("candidate queued")
		return nil
	}
	if err := s.pc.AddICECandidate(c); err != nil {
		return &core.NegotiationError{Op: "add-ice-candidate", Err: err}
	}
	return nil
}

func (s *Session) drainCandidates() {
	queued := s.pending
	s.pending = nil
	for _, c := range queued {
		if err := s.pc.AddICECandidate(c); err != nil {
			s.logger.Warn().Err(err).Str("candidate", c.Candidate).Msg("queued candidate rejected")
		}
	}
	if len(queued) > 0 {
		s.logger.Debug().Int("applied", len(queued)).Msg("queued candidates drained")
	}
}

func (s *Session) handleTrack(t core.RemoteTrack) {
	if s.state == StateClosed {
		return
	}
	s.logger.Info().
		Str("kind", t.Kind().String()).
		Str("track_id", t.ID()).
		Str("stream_id", t.StreamID()).
		Msg("remote track")
	if st, seen := s.streams[t.StreamID()]; seen {
		st.AddTrack(t)
		return
	}
	st := core.NewRemoteStream(t.StreamID())
	st.AddTrack(t)
	s.streams[t.StreamID()] = st
	if s.onRemoteStream != nil {
		s.onRemoteStream(st)
	}
}

func (s *Session) handleConnState(st webrtc.PeerConnectionState) {
	if s.state == StateClosed {
		return
	}
	s.logger.Info().Str("peer_connection_state", st.String()).Msg("peer state")
	if st == webrtc.PeerConnectionStateConnected &&
		(s.state == StateRemoteAnswerSet || s.state == StateLocalAnswerSet) {
		s.setState(StateConnected)
	}
	if s.onConnState != nil {
		s.onConnState(st)
	}
}

// Close releases the connection and buffered state. Idempotent.
func (s *Session) Close() error {
	if s.state == StateClosed {
		return nil
	}
	s.setState(StateClosed)
	s.pending = nil
	s.streams = nil
	if err := s.pc.Close(); err != nil && !errors.Is(err, webrtc.ErrConnectionClosed) {
		return err
	}
	return nil
}
