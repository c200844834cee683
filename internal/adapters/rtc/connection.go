// Package rtc adapts pion's PeerConnection to the call session.
package rtc

import (
	"errors"
	"fmt"
	"time"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/pion/interceptor"
	"github.com/pion/interceptor/pkg/intervalpli"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const DefaultSTUN = "stun:stun.l.google.com:19302"

type Settings struct {
	ICEServers []string
	// ICE timeouts; zero keeps pion's defaults.
	DisconnectedTimeout time.Duration
	FailedTimeout       time.Duration
	KeepAliveInterval   time.Duration
}

func DefaultConfiguration(servers []string) webrtc.Configuration {
	if len(servers) == 0 {
		servers = []string{DefaultSTUN}
	}
	return webrtc.Configuration{
		ICEServers: []webrtc.ICEServer{
			{
				URLs: servers,
			},
		},
	}
}

// NewAPI builds a webrtc API with the default codecs, the default
// interceptors (NACK, RTCP reports, TWCC) and a periodic PLI requester.
func NewAPI(s Settings) (*webrtc.API, error) {
	m := &webrtc.MediaEngine{}
	if err := m.RegisterDefaultCodecs(); err != nil {
		return nil, fmt.Errorf("register codecs: %w", err)
	}

	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(m, registry); err != nil {
		return nil, fmt.Errorf("register interceptors: %w", err)
	}
	pli, err := intervalpli.NewReceiverInterceptor()
	if err != nil {
		return nil, fmt.Errorf("pli interceptor: %w", err)
	}
	registry.Add(pli)

	se := webrtc.SettingEngine{}
	if s.DisconnectedTimeout > 0 || s.FailedTimeout > 0 {
		se.SetICETimeouts(s.DisconnectedTimeout, s.FailedTimeout, s.KeepAliveInterval)
	}

	return webrtc.NewAPI(
		webrtc.WithMediaEngine(m),
		webrtc.WithInterceptorRegistry(registry),
		webrtc.WithSettingEngine(se),
	), nil
}

// Factory returns a constructor for fresh peer connections sharing one API.
func Factory(s Settings) (core.PeerConnectionFactory, error) {
	api, err := NewAPI(s)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfiguration(s.ICEServers)
	return func() (core.PeerConnection, error) {
		return NewConnection(api, cfg)
	}, nil
}

// Connection implements core.PeerConnection over *webrtc.PeerConnection.
type Connection struct {
	pc     *webrtc.PeerConnection
	logger zerolog.Logger
}

func NewConnection(api *webrtc.API, cfg webrtc.Configuration) (*Connection, error) {
	pc, err := api.NewPeerConnection(cfg)
	if err != nil {
		return nil, err
	}
	c := &Connection{
		pc:     pc,
		logger: log.With().Str("module", "webrtc").Logger(),
	}
	pc.OnICEConnectionStateChange(func(s webrtc.ICEConnectionState) {
		c.logger.Info().Str("ice_state", s.String()).Msg("ICE state")
	})
	return c, nil
}

// AddTrack attaches a local track and drains the sender's RTCP so the
// interceptors see receiver reports.
func (c *Connection) AddTrack(track webrtc.TrackLocal) error {
	sender, err := c.pc.AddTrack(track)
	if err != nil {
		return err
	}
	go func() {
		buf := make([]byte, 1500)
		for {
			if _, _, err := sender.Read(buf); err != nil {
				return
			}
		}
	}()
	return nil
}

func (c *Connection) CreateOffer() (webrtc.SessionDescription, error) {
	return c.pc.CreateOffer(nil)
}

func (c *Connection) CreateAnswer() (webrtc.SessionDescription, error) {
	return c.pc.CreateAnswer(nil)
}

func (c *Connection) SetLocalDescription(d webrtc.SessionDescription) error {
	return c.pc.SetLocalDescription(d)
}

func (c *Connection) SetRemoteDescription(d webrtc.SessionDescription) error {
	return c.pc.SetRemoteDescription(d)
}

func (c *Connection) AddICECandidate(ci webrtc.ICECandidateInit) error {
	return c.pc.AddICECandidate(ci)
}

// OnICECandidate skips the nil end-of-gathering candidate.
func (c *Connection) OnICECandidate(fn func(webrtc.ICECandidateInit)) {
	c.pc.OnICECandidate(func(cand *webrtc.ICECandidate) {
		if cand != nil {
			fn(cand.ToJSON())
		}
	})
}

func (c *Connection) OnTrack(fn func(core.RemoteTrack)) {
	c.pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		c.logger.Info().
			Str("kind", track.Kind().String()).
			Str("track_id", track.ID()).
			Str("stream_id", track.StreamID()).
			Msg("OnTrack received")
		fn(track)
	})
}

func (c *Connection) OnConnectionStateChange(fn func(webrtc.PeerConnectionState)) {
	c.pc.OnConnectionStateChange(func(s webrtc.PeerConnectionState) {
		c.logger.Info().Str("peer_connection_state", s.String()).Msg("Peer state")
		fn(s)
	})
}

func (c *Connection) Close() error {
	err := c.pc.Close()
	if err != nil && !errors.Is(err, webrtc.ErrConnectionClosed) {
		c.logger.Error().Err(err).Msg("close error")
		return err
	}
	c.logger.Info().Msg("closed")
	return nil
}
