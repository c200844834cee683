package media

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/pion/interceptor"
	"github.com/pion/rtp"
	"github.com/stretchr/testify/assert"
)

type sliceSource struct {
	pkts []*rtp.Packet
	// before is called ahead of each read with the read index.
	before func(i int)
	i      int
}

func (s *sliceSource) ReadRTP() (*rtp.Packet, interceptor.Attributes, error) {
	if s.before != nil {
		s.before(s.i)
	}
	if s.i >= len(s.pkts) {
		return nil, nil, io.EOF
	}
	p := s.pkts[s.i]
	s.i++
	return p, nil, nil
}

type failingSink struct{ calls int }

func (f *failingSink) WriteRTP(*rtp.Packet) error {
	f.calls++
	return errors.New("decoder closed")
}

func TestPlaybackFanout(t *testing.T) {
	src := &sliceSource{pkts: batch(4)}
	p := NewPlayback(src, "remote-video")
	all, paused := &Meter{}, &Meter{}
	bad := &failingSink{}
	p.AddSink("all", all)
	p.AddSink("paused", paused)
	p.AddSink("bad", bad)
	p.Pause("paused", true)
	src.before = func(i int) {
		if i == 2 {
			p.Pause("paused", false)
		}
	}

	p.Run(context.Background())

	assert.EqualValues(t, 4, all.Packets.Load())
	assert.EqualValues(t, 4, all.Bytes.Load())
	assert.EqualValues(t, 2, paused.Packets.Load())
	assert.Equal(t, 1, bad.calls, "failed sink is dropped")
}

func TestPlaybackStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := &sliceSource{pkts: batch(3)}
	p := NewPlayback(src, "remote-audio")
	m := &Meter{}
	p.AddSink("m", m)

	p.Run(ctx)
	assert.Zero(t, m.Packets.Load())
	assert.Zero(t, src.i)
}
