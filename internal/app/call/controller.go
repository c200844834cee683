// Package call sequences one counseling call: local media, the signaling
// channel and the peer session, from Start to a single teardown.
package call

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/dkeye/CounselCall/internal/app"
	"github.com/dkeye/CounselCall/internal/app/peer"
	"github.com/dkeye/CounselCall/internal/core"
	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	errNegotiationTimeout = errors.New("not connected before deadline")
	errICEFailed          = errors.New("ice connection failed")
)

const eventQueue = 64

// Deps are the collaborators a Controller drives.
type Deps struct {
	Acquirer core.MediaAcquirer
	Dialer   core.SignalDialer
	NewPeer  core.PeerConnectionFactory
	// Policy defaults to app.ClientOffers.
	Policy app.RolePolicy
}

// Options tune one call attempt.
type Options struct {
	Constraints core.MediaConstraints
	// NegotiationTimeout fails a call that is not connected in time. Zero disables it.
	NegotiationTimeout time.Duration
}

// Controller is the only call component the UI talks to. User actions and
// connection callbacks are serialized on one event loop goroutine; media
// acquisition and relay dialing run outside it and post their results back.
type Controller struct {
	self   domain.User
	remote domain.User
	deps   Deps
	opts   Options
	logger zerolog.Logger

	events chan func()
	done   chan struct{}

	mu       sync.Mutex
	status   core.Status
	err      error
	watchers []chan core.Status
	onRemote func(*core.RemoteStream)

	// owned by the event loop
	room      domain.CallRoomID
	media     *core.LocalMedia
	channel   core.SignalChannel
	session   *peer.Session
	timer     *time.Timer
	micMuted  bool
	videoOff  bool
	announced bool
	tornDown  bool
}

func New(self, remote domain.User, deps Deps, opts Options) *Controller {
	if deps.Policy == nil {
		deps.Policy = app.ClientOffers{}
	}
	c := &Controller{
		self:   self,
		remote: remote,
		deps:   deps,
		opts:   opts,
		events: make(chan func(), eventQueue),
		done:   make(chan struct{}),
		logger: log.With().Str("module", "call").Str("user_id", string(self.ID)).Logger(),
	}
	go c.run()
	return c
}

func (c *Controller) run() {
	defer close(c.done)
	for fn := range c.events {
		fn()
		if c.Status().Terminal() {
			return
		}
	}
}

// post queues fn on the event loop. Dropped once the call is over.
func (c *Controller) post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

// call runs fn on the event loop and waits for it. It reports false when the
// loop stopped before fn ran.
func (c *Controller) call(fn func()) bool {
	ran := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(ran) }:
	case <-c.done:
		return false
	}
	select {
	case <-ran:
		return true
	case <-c.done:
		select {
		case <-ran:
			return true
		default:
			return false
		}
	}
}

func (c *Controller) Status() core.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err is the failure that moved the call to failed, or nil.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// Done is closed once the call reached ended or failed and teardown finished.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Watch returns a channel receiving every later status transition. It is
// closed after the terminal status.
func (c *Controller) Watch() <-chan core.Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan core.Status, int(core.StatusFailed)+1)
	if c.status.Terminal() {
		ch <- c.status
		close(ch)
		return ch
	}
	c.watchers = append(c.watchers, ch)
	return ch
}

// OnRemoteStream sets the callback for each new remote stream. It runs on its
// own goroutine; tracks that join the stream later arrive through the
// stream's OnTrack.
func (c *Controller) OnRemoteStream(fn func(*core.RemoteStream)) {
	c.mu.Lock()
	c.onRemote = fn
	c.mu.Unlock()
}

func (c *Controller) setStatus(next core.Status, cause error) {
	c.mu.Lock()
	prev := c.status
	if prev.Terminal() || next == prev {
		c.mu.Unlock()
		return
	}
	c.status = next
	if next == core.StatusFailed {
		c.err = cause
	}
	for _, w := range c.watchers {
		w <- next
		if next.Terminal() {
			close(w)
		}
	}
	if next.Terminal() {
		c.watchers = nil
	}
	c.mu.Unlock()

	c.logger.Info().Str("from", prev.String()).Str("to", next.String()).Msg("status")
}

func (c *Controller) stateErr(op string) error {
	return &core.StateError{Op: op, State: c.Status().String()}
}

// Start runs acquire, join and peer setup for room and returns once
// negotiation is under way. Every failure is also visible through Status and Err.
func (c *Controller) Start(ctx context.Context, room domain.CallRoomID) (core.Status, error) {
	if err := room.Validate(); err != nil {
		return c.Status(), err
	}

	var startErr error
	if !c.call(func() {
		if c.status != core.StatusIdle {
			startErr = c.stateErr("start")
			return
		}
		c.room = room
		c.logger = c.logger.With().Str("room", string(room)).Logger()
		c.setStatus(core.StatusAcquiringMedia, nil)
	}) {
		return c.Status(), c.stateErr("start")
	}
	if startErr != nil {
		return c.Status(), startErr
	}

	media, err := c.deps.Acquirer.Acquire(ctx, c.opts.Constraints)
	if err != nil {
		c.call(func() { c.abort(ctx, err) })
		return c.result()
	}
	if !c.call(func() {
		c.media = media
		if c.tornDown {
			c.deps.Acquirer.Release(media)
			return
		}
		if ctx.Err() != nil {
			c.teardown(core.StatusEnded, nil)
			return
		}
		c.applyToggles()
		c.setStatus(core.StatusJoining, nil)
	}) {
		c.deps.Acquirer.Release(media)
		return c.result()
	}
	if c.Status() != core.StatusJoining {
		return c.result()
	}

	ch, err := c.deps.Dialer.Connect(ctx, room)
	if err != nil {
		c.call(func() { c.abort(ctx, err) })
		return c.result()
	}
	if !c.call(func() {
		if c.tornDown {
			c.closeChannel(ch)
			return
		}
		c.channel = ch
		c.watchChannel(ch)
		if ctx.Err() != nil {
			c.teardown(core.StatusEnded, nil)
			return
		}
		if err := c.negotiate(); err != nil {
			c.fail(err)
		}
	}) {
		c.closeChannel(ch)
	}
	return c.result()
}

func (c *Controller) result() (core.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.err
}

// abort ends the attempt after a failed suspension point. A cancelled ctx
// means the caller gave up, not that the call failed.
func (c *Controller) abort(ctx context.Context, err error) {
	if ctx.Err() != nil {
		c.teardown(core.StatusEnded, nil)
		return
	}
	c.fail(err)
}

func (c *Controller) negotiate() error {
	pc, err := c.deps.NewPeer()
	if err != nil {
		return &core.NegotiationError{Op: "new-peer-connection", Err: err}
	}
	role := peer.RoleAnswerer
	if c.deps.Policy.Offers(&c.self, &c.remote) {
		role = peer.RoleOfferer
	}
	c.session = peer.New(peer.Config{
		Room:     c.room,
		LocalID:  c.self.ID,
		RemoteID: c.remote.ID,
		Role:     role,
		Post:     c.post,
	}, pc)
	c.session.OnLocalCandidate(func(ci webrtc.ICECandidateInit) {
		c.send(core.KindICECandidate, ci)
	})
	c.session.OnRemoteStream(func(st *core.RemoteStream) {
		c.mu.Lock()
		fn := c.onRemote
		c.mu.Unlock()
		if fn != nil {
			go fn(st)
		}
	})
	c.session.OnConnectionState(c.handleConnState)

	if err := c.session.AttachLocalTracks(c.media); err != nil {
		return err
	}
	c.channel.OnMessage(func(env core.Envelope) {
		c.post(func() { c.handleSignal(env) })
	})
	c.setStatus(core.StatusNegotiating, nil)
	c.armTimer()
	c.logger.Info().Str("role", role.String()).Str("remote_id", string(c.remote.ID)).Msg("negotiating")
	return nil
}

func (c *Controller) armTimer() {
	d := c.opts.NegotiationTimeout
	if d <= 0 {
		return
	}
	c.timer = time.AfterFunc(d, func() {
		c.post(func() {
			if c.Status() == core.StatusNegotiating {
				c.fail(&core.NegotiationError{Op: "timeout", Err: errNegotiationTimeout})
			}
		})
	})
}

func (c *Controller) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) watchChannel(ch core.SignalChannel) {
	go func() {
		select {
		case <-ch.Done():
			c.post(func() { c.channelLost(ch) })
		case <-c.done:
		}
	}()
}

// channelLost fails a call that still needs the relay. A connected call keeps
// its media path without it.
func (c *Controller) channelLost(ch core.SignalChannel) {
	if c.tornDown || c.channel != ch {
		return
	}
	err := ch.Err()
	if c.Status() == core.StatusConnected {
		c.logger.Warn().Err(err).Msg("signaling lost, media continues")
		return
	}
	if !errors.Is(err, core.ErrSignalingUnavailable) {
		err = &core.SignalingUnavailableError{Err: err}
	}
	c.fail(err)
}

func (c *Controller) send(kind core.MessageKind, payload any) {
	if c.channel == nil || c.tornDown {
		return
	}
	if err := c.channel.Send(kind, payload); err != nil {
		c.logger.Warn().Err(err).Str("kind", string(kind)).Msg("signal send")
	}
}

func (c *Controller) handleSignal(env core.Envelope) {
	if c.tornDown || c.session == nil {
		return
	}
	switch env.Type {
	case core.KindJoinCall:
		c.handlePeerJoined()
	case core.KindLeaveCall:
		c.logger.Info().Msg("remote left")
		c.teardown(core.StatusEnded, nil)
	case core.KindOffer:
		var offer webrtc.SessionDescription
		if err := json.Unmarshal(env.Payload, &offer); err != nil {
			c.fail(&core.NegotiationError{Op: "decode-offer", Err: err})
			return
		}
		answer, err := c.session.HandleOffer(offer)
		if err != nil {
			c.negotiationFailed(err)
			return
		}
		if answer != nil {
			c.send(core.KindAnswer, answer)
		}
	case core.KindAnswer:
		var answer webrtc.SessionDescription
		if err := json.Unmarshal(env.Payload, &answer); err != nil {
			c.fail(&core.NegotiationError{Op: "decode-answer", Err: err})
			return
		}
		if err := c.session.HandleAnswer(answer); err != nil {
			c.negotiationFailed(err)
		}
	case core.KindICECandidate:
		var ci webrtc.ICECandidateInit
		if err := json.Unmarshal(env.Payload, &ci); err != nil {
			c.logger.Warn().Err(err).Msg("bad candidate payload")
			return
		}
		if err := c.session.HandleRemoteCandidate(ci); err != nil {
			c.logger.Warn().Err(err).Msg("remote candidate")
		}
	default:
		c.logger.Warn().Str("type", string(env.Type)).Msg("unknown signal")
	}
}

// handlePeerJoined sends the offer once the remote side is present. An
// answerer re-announces once so an offerer that joined later learns of it.
func (c *Controller) handlePeerJoined() {
	if c.session.Role() == peer.RoleOfferer {
		if c.session.State() != peer.StateHaveLocalTracks {
			return
		}
		offer, err := c.session.CreateOffer()
		if err != nil {
			c.fail(err)
			return
		}
		c.send(core.KindOffer, offer)
		return
	}
	if c.announced {
		return
	}
	c.announced = true
	if err := c.channel.Announce(); err != nil {
		c.logger.Warn().Err(err).Msg("re-announce")
	}
}

// negotiationFailed fails the call on SDP errors. Out-of-order descriptions
// are logged and dropped.
func (c *Controller) negotiationFailed(err error) {
	if errors.Is(err, core.ErrState) {
		c.logger.Warn().Err(err).Msg("description ignored")
		return
	}
	c.fail(err)
}

func (c *Controller) handleConnState(st webrtc.PeerConnectionState) {
	if c.tornDown {
		return
	}
	switch st {
	case webrtc.PeerConnectionStateConnected:
		if c.Status() == core.StatusNegotiating {
			c.stopTimer()
			c.setStatus(core.StatusConnected, nil)
		}
	case webrtc.PeerConnectionStateFailed:
		c.fail(&core.NegotiationError{Op: "ice", Err: errICEFailed})
	case webrtc.PeerConnectionStateDisconnected:
		c.logger.Warn().Msg("peer disconnected")
	}
}

// ToggleMic flips the microphone and reports whether it is now live.
func (c *Controller) ToggleMic() (bool, error) {
	return c.toggle("toggle-mic", &c.micMuted, c.deps.Acquirer.SetAudioEnabled)
}

// ToggleVideo flips the camera and reports whether it is now live.
func (c *Controller) ToggleVideo() (bool, error) {
	return c.toggle("toggle-video", &c.videoOff, c.deps.Acquirer.SetVideoEnabled)
}

func (c *Controller) toggle(op string, off *bool, apply func(*core.LocalMedia, bool)) (bool, error) {
	var (
		live bool
		err  error
	)
	if !c.call(func() {
		if c.status == core.StatusIdle || c.tornDown {
			err = c.stateErr(op)
			return
		}
		*off = !*off
		live = !*off
		// Without media yet the flag is applied when media arrives.
		if c.media != nil {
			apply(c.media, live)
		}
	}) {
		return false, c.stateErr(op)
	}
	return live, err
}

func (c *Controller) applyToggles() {
	if c.micMuted {
		c.deps.Acquirer.SetAudioEnabled(c.media, false)
	}
	if c.videoOff {
		c.deps.Acquirer.SetVideoEnabled(c.media, false)
	}
}

// End tears the call down. Safe in any status and idempotent.
func (c *Controller) End() {
	c.call(func() { c.teardown(core.StatusEnded, nil) })
}

func (c *Controller) fail(err error) {
	if c.tornDown {
		return
	}
	c.logger.Error().Err(err).Str("status", c.Status().String()).Msg("call failed")
	c.teardown(core.StatusFailed, err)
}

// teardown closes the peer session, the signaling channel and local media in
// that order, then moves to final. Runs once.
func (c *Controller) teardown(final core.Status, cause error) {
	if c.tornDown {
		return
	}
	c.tornDown = true
	c.stopTimer()
	if c.session != nil {
		if err := c.session.Close(); err != nil {
			c.logger.Warn().Err(err).Msg("peer close")
		}
	}
	if c.channel != nil {
		c.closeChannel(c.channel)
	}
	if c.media != nil {
		c.deps.Acquirer.Release(c.media)
	}
	c.setStatus(final, cause)
}

func (c *Controller) closeChannel(ch core.SignalChannel) {
	if err := ch.Close(); err != nil {
		c.logger.Warn().Err(err).Msg("signal close")
	}
}
