package media

import (
	"context"
	"maps"
	"sync"
	"sync/atomic"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// rtpSource is satisfied by *webrtc.TrackRemote.
type rtpSource interface {
	ReadRTP() (*rtp.Packet, interceptor.Attributes, error)
}

// PacketSink consumes remote RTP, e.g. a decoder feeding the UI.
type PacketSink interface {
	WriteRTP(*rtp.Packet) error
}

type SinkState int32

const (
	SinkActive SinkState = iota
	SinkPaused
	SinkRemoved
)

type sinkEntry struct {
	sink  PacketSink
	state atomic.Int32
}

func (e *sinkEntry) get() SinkState  { return SinkState(e.state.Load()) }
func (e *sinkEntry) set(s SinkState) { e.state.Store(int32(s)) }

// Playback reads one remote track and fans its packets out to sinks.
type Playback struct {
	src    rtpSource
	logger zerolog.Logger

	mu    sync.RWMutex
	sinks map[string]*sinkEntry
}

func NewPlayback(src rtpSource, trackID string) *Playback {
	return &Playback{
		src:    src,
		logger: log.With().Str("module", "media.playback").Str("track_id", trackID).Logger(),
		sinks:  make(map[string]*sinkEntry),
	}
}

func (p *Playback) AddSink(id string, s PacketSink) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sinks[id] = &sinkEntry{sink: s}
}

// Pause stops delivery to sink id without removing it.
func (p *Playback) Pause(id string, paused bool) {
	p.mu.RLock()
	e, ok := p.sinks[id]
	p.mu.RUnlock()
	if !ok {
		return
	}
	if paused {
		e.set(SinkPaused)
	} else {
		e.set(SinkActive)
	}
}

// Run reads until ctx ends or the track closes.
func (p *Playback) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			p.logger.Info().Msg("playback ctx done")
			p.removeAll()
			return
		default:
		}
		pkt, _, err := p.src.ReadRTP()
		if err != nil {
			p.logger.Info().Err(err).Msg("remote track ended")
			p.removeAll()
			return
		}
		p.forward(pkt)
	}
}

func (p *Playback) forward(pkt *rtp.Packet) {
	p.mu.RLock()
	snapshot := maps.Clone(p.sinks)
	p.mu.RUnlock()

	var dirty []string
	for id, e := range snapshot {
		switch e.get() {
		case SinkRemoved:
			dirty = append(dirty, id)
		case SinkPaused:
		case SinkActive:
			if err := e.sink.WriteRTP(pkt); err != nil {
				p.logger.Error().Err(err).Str("sink", id).Msg("sink write error, removing")
				e.set(SinkRemoved)
				dirty = append(dirty, id)
			}
		}
	}
	if len(dirty) > 0 {
		p.mu.Lock()
		for _, id := range dirty {
			delete(p.sinks, id)
		}
		p.mu.Unlock()
	}
}

func (p *Playback) removeAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, e := range p.sinks {
		e.set(SinkRemoved)
	}
}

// Meter is a PacketSink that only counts.
type Meter struct {
	Packets atomic.Uint64
	Bytes   atomic.Uint64
}

func (m *Meter) WriteRTP(pkt *rtp.Packet) error {
	m.Packets.Add(1)
	m.Bytes.Add(uint64(len(pkt.Payload)))
	return nil
}
