// Package media captures local camera and microphone for a call.
package media

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const streamID = "counselcall"

// rtpReader is the packetized output of one capture track.
type rtpReader interface {
	Read() ([]*rtp.Packet, func(), error)
	Close() error
}

type TrackStats struct {
	Sent    uint64
	Dropped uint64
}

// rtpTrack pumps captured RTP into a static local track. While disabled the
// capture keeps running and packets are dropped, so toggling never touches SDP.
type rtpTrack struct {
	kind   core.TrackKind
	local  *webrtc.TrackLocalStaticRTP
	reader rtpReader
	source func() error

	enabled atomic.Bool
	sent    atomic.Uint64
	dropped atomic.Uint64

	stopOnce sync.Once
	stopErr  error
	cancel   context.CancelFunc
	done     chan struct{}
}

func capability(kind core.TrackKind) webrtc.RTPCodecCapability {
	if kind == core.TrackAudio {
		return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeOpus, ClockRate: 48000, Channels: 2}
	}
	return webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000}
}

// newRTPTrack starts pumping reader. source closes the capture device and may be nil.
func newRTPTrack(kind core.TrackKind, id string, reader rtpReader, source func() error) (*rtpTrack, error) {
	local, err := webrtc.NewTrackLocalStaticRTP(capability(kind), id, streamID)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	t := &rtpTrack{
		kind:   kind,
		local:  local,
		reader: reader,
		source: source,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	t.enabled.Store(true)
	go t.pump(ctx)
	return t, nil
}

func (t *rtpTrack) pump(ctx context.Context) {
	defer close(t.done)
	for {
		pkts, release, err := t.reader.Read()
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Str("module", "media").Str("track_id", t.ID()).Msg("capture read")
			}
			return
		}
		if !t.enabled.Load() {
			t.dropped.Add(uint64(len(pkts)))
		} else {
			for _, p := range pkts {
				if err := t.local.WriteRTP(p); err != nil {
					t.dropped.Add(1)
					continue
				}
				t.sent.Add(1)
			}
		}
		if release != nil {
			release()
		}
	}
}

func (t *rtpTrack) ID() string                    { return t.local.ID() }
func (t *rtpTrack) Kind() core.TrackKind          { return t.kind }
func (t *rtpTrack) Enabled() bool                 { return t.enabled.Load() }
func (t *rtpTrack) SetEnabled(on bool)            { t.enabled.Store(on) }
func (t *rtpTrack) TrackLocal() webrtc.TrackLocal { return t.local }

func (t *rtpTrack) Stats() TrackStats {
	return TrackStats{Sent: t.sent.Load(), Dropped: t.dropped.Load()}
}

// Stop closes the reader and the device, then waits for the pump to exit.
func (t *rtpTrack) Stop() error {
	t.stopOnce.Do(func() {
		t.cancel()
		errs := []error{t.reader.Close()}
		if t.source != nil {
			errs = append(errs, t.source())
		}
		<-t.done
		t.stopErr = errors.Join(errs...)
	})
	return t.stopErr
}

// classify maps a capture failure onto a device failure reason.
func classify(err error) *core.DeviceError {
	var de *core.DeviceError
	if errors.As(err, &de) {
		return de
	}
	reason := core.DeviceUnknown
	msg := strings.ToLower(err.Error())
	switch {
	case errors.Is(err, os.ErrPermission), strings.Contains(msg, "permission"):
		reason = core.DevicePermissionDenied
	case errors.Is(err, os.ErrNotExist), strings.Contains(msg, "not found"),
		strings.Contains(msg, "failed to find"), strings.Contains(msg, "no such device"):
		reason = core.DeviceNotFound
	case strings.Contains(msg, "busy"):
		reason = core.DeviceBusy
	}
	return &core.DeviceError{Reason: reason, Err: err}
}
