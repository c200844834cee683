// Command callclient joins one appointment call from the terminal using the
// local camera and microphone.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pion/webrtc/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/CounselCall/internal/adapters/api"
	capture "github.com/dkeye/CounselCall/internal/adapters/media"
	"github.com/dkeye/CounselCall/internal/adapters/rtc"
	sig "github.com/dkeye/CounselCall/internal/adapters/signal"
	"github.com/dkeye/CounselCall/internal/app/call"
	"github.com/dkeye/CounselCall/internal/app/media"
	"github.com/dkeye/CounselCall/internal/config"
	"github.com/dkeye/CounselCall/internal/core"
	"github.com/dkeye/CounselCall/internal/domain"
)

var errNotJoinable = errors.New("appointment is not joinable")

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("call failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, &api.Session{})
	self, err := client.Login(ctx, cfg.API.Token)
	if err != nil {
		return err
	}
	defer client.Logout()

	room := domain.CallRoomID(cfg.Call.AppointmentID)
	appt, err := api.Load(ctx, func(ctx context.Context) (*domain.Appointment, error) {
		return client.Appointment(ctx, room)
	}).Wait(ctx)
	if err != nil {
		return err
	}
	if !appt.Joinable() {
		return errNotJoinable
	}
	parties, err := domain.NewParties(self, appt)
	if err != nil {
		return err
	}

	newPeer, err := rtc.Factory(rtc.Settings{ICEServers: cfg.ICE.Servers})
	if err != nil {
		return err
	}
	ctrl := call.New(parties.Self, parties.Remote, call.Deps{
		Acquirer: media.NewAcquirer(capture.NewSource()),
		Dialer: sig.NewDialer(sig.Options{
			URL:         cfg.Signaling.URL,
			Token:       client.Session().Token(),
			SendQueue:   cfg.Signaling.SendQueue,
			DialTimeout: cfg.Signaling.DialTimeout,
			MaxRetry:    cfg.Signaling.MaxDialRetry,
		}),
		NewPeer: newPeer,
	}, call.Options{
		Constraints: core.MediaConstraints{
			Audio:        cfg.Media.Audio,
			Video:        cfg.Media.Video,
			Width:        cfg.Media.Width,
			Height:       cfg.Media.Height,
			FrameRate:    cfg.Media.FrameRate,
			SampleRate:   cfg.Media.SampleRate,
			ChannelCount: cfg.Media.ChannelCount,
		},
		NegotiationTimeout: cfg.Call.NegotiationTimeout,
	})

	playCtx, stopPlayback := context.WithCancel(ctx)
	defer stopPlayback()
	ctrl.OnRemoteStream(func(st *core.RemoteStream) {
		log.Info().Str("stream_id", st.ID()).Msg("remote stream")
		st.OnTrack(func(t core.RemoteTrack) {
			if remote, ok := t.(*webrtc.TrackRemote); ok {
				go play(playCtx, remote)
			}
		})
	})

	go func() {
		for st := range ctrl.Watch() {
			log.Info().Str("status", st.String()).Str("with", parties.Remote.DisplayName()).Msg("call status")
		}
	}()

	if _, err := ctrl.Start(ctx, parties.Room); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		ctrl.End()
		<-ctrl.Done()
		return nil
	case <-ctrl.Done():
		if ctrl.Status() == core.StatusFailed {
			return ctrl.Err()
		}
		return nil
	}
}

// play drains t and logs its receive rate until the track ends.
func play(ctx context.Context, t *webrtc.TrackRemote) {
	meter := &capture.Meter{}
	p := capture.NewPlayback(t, t.ID())
	p.AddSink("meter", meter)

	logger := log.With().Str("module", "callclient").Str("kind", t.Kind().String()).Logger()
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				logger.Info().
					Uint64("packets", meter.Packets.Load()).
					Uint64("bytes", meter.Bytes.Load()).
					Msg("remote media")
			}
		}
	}()
	p.Run(ctx)
}
