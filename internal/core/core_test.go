package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   error
	}{
		{"device", &DeviceError{Reason: DevicePermissionDenied}, ErrDevice},
		{"signaling", &SignalingUnavailableError{Endpoint: "ws://x", Err: errors.New("refused")}, ErrSignalingUnavailable},
		{"negotiation", &NegotiationError{Op: "set-remote", Err: errors.New("bad sdp")}, ErrNegotiation},
		{"state", &StateError{Op: "start", State: "connected"}, ErrState},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			wrapped := fmt.Errorf("call: %w", tc.err)
			assert.ErrorIs(t, wrapped, tc.is)
			for _, other := range []error{ErrDevice, ErrSignalingUnavailable, ErrNegotiation, ErrState} {
				if other != tc.is {
					assert.NotErrorIs(t, wrapped, other)
				}
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "acquiring-media", StatusAcquiringMedia.String())
	assert.Equal(t, "unknown", Status(42).String())
	assert.True(t, StatusFailed.Terminal())
	assert.False(t, StatusConnected.Terminal())
}

func TestLocalMediaMarkReleasedOnce(t *testing.T) {
	m := NewLocalMedia()
	assert.True(t, m.MarkReleased())
	assert.False(t, m.MarkReleased())
	assert.True(t, m.Released())
}
