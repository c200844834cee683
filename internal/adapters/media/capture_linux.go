//go:build linux

package media

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/dkeye/CounselCall/internal/core"
	"github.com/pion/mediadevices"
	"github.com/pion/mediadevices/pkg/codec/opus"
	"github.com/pion/mediadevices/pkg/codec/vpx"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	_ "github.com/pion/mediadevices/pkg/driver/microphone"
	"github.com/pion/mediadevices/pkg/frame"
	"github.com/pion/mediadevices/pkg/prop"
	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog/log"
)

const rtpMTU = 1200

// Source captures V4L2 camera and ALSA/Pulse microphone through mediadevices,
// encoded as VP8 and Opus.
type Source struct {
	VideoBitRate int
}

func NewSource() *Source {
	return &Source{VideoBitRate: 1_500_000}
}

func (s *Source) Capture(ctx context.Context, c core.MediaConstraints) ([]core.LocalTrack, error) {
	if !c.Audio && !c.Video {
		return nil, &core.DeviceError{Reason: core.DeviceNotFound, Err: errors.New("no media kind requested")}
	}

	devices := mediadevices.EnumerateDevices()
	if len(devices) == 0 {
		return nil, &core.DeviceError{Reason: core.DeviceNotFound, Err: errors.New("no media devices")}
	}
	for _, d := range devices {
		log.Debug().Str("module", "media").Str("device_id", d.DeviceID).Str("label", d.Label).Msg("media device")
	}

	vpxParams, err := vpx.NewVP8Params()
	if err != nil {
		return nil, classify(err)
	}
	vpxParams.BitRate = s.VideoBitRate
	opusParams, err := opus.NewParams()
	if err != nil {
		return nil, classify(err)
	}

	constraints := mediadevices.MediaStreamConstraints{
		Codec: mediadevices.NewCodecSelector(
			mediadevices.WithVideoEncoders(&vpxParams),
			mediadevices.WithAudioEncoders(&opusParams),
		),
	}
	if c.Video {
		constraints.Video = func(mc *mediadevices.MediaTrackConstraints) {
			// Raw formats only; MJPEG nodes on some cameras emit broken frames.
			mc.FrameFormat = prop.FrameFormatOneOf{frame.FormatYUYV, frame.FormatI420, frame.FormatI444}
			if c.Width > 0 {
				mc.Width = prop.Int(c.Width)
			}
			if c.Height > 0 {
				mc.Height = prop.Int(c.Height)
			}
			if c.FrameRate > 0 {
				mc.FrameRate = prop.Float(c.FrameRate)
			}
		}
	}
	if c.Audio {
		constraints.Audio = func(mc *mediadevices.MediaTrackConstraints) {
			if c.SampleRate > 0 {
				mc.SampleRate = prop.Int(c.SampleRate)
			}
			if c.ChannelCount > 0 {
				mc.ChannelCount = prop.Int(c.ChannelCount)
			}
		}
	}

	stream, err := mediadevices.GetUserMedia(constraints)
	if err != nil {
		return nil, classify(err)
	}
	captured := stream.GetTracks()
	closeAll := func() {
		for _, t := range captured {
			_ = t.Close()
		}
	}
	if err := ctx.Err(); err != nil {
		closeAll()
		return nil, err
	}

	tracks := make([]core.LocalTrack, 0, len(captured))
	for _, mt := range captured {
		kind, mime := core.TrackVideo, webrtc.MimeTypeVP8
		if mt.Kind() == webrtc.RTPCodecTypeAudio {
			kind, mime = core.TrackAudio, webrtc.MimeTypeOpus
		}
		mt.OnEnded(func(err error) {
			if err != nil {
				log.Warn().Err(err).Str("module", "media").Str("track_id", mt.ID()).Msg("local track ended")
			}
		})
		reader, err := mt.NewRTPReader(mime, rand.Uint32(), rtpMTU)
		if err != nil {
			for _, t := range tracks {
				_ = t.Stop()
			}
			closeAll()
			return nil, classify(err)
		}
		t, err := newRTPTrack(kind, string(kind)+"-"+mt.ID(), reader, mt.Close)
		if err != nil {
			_ = reader.Close()
			for _, t := range tracks {
				_ = t.Stop()
			}
			closeAll()
			return nil, classify(err)
		}
		tracks = append(tracks, t)
	}
	return tracks, nil
}
