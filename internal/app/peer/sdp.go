package peer

import (
	"errors"
	"fmt"

	"github.com/pion/sdp/v3"
	"github.com/pion/webrtc/v4"
)

var errNoMedia = errors.New("no media sections")

// validateDescription rejects descriptions that would only fail deeper in the
// peer connection with a less useful error.
func validateDescription(want webrtc.SDPType, desc webrtc.SessionDescription) error {
	if desc.Type != want {
		return fmt.Errorf("expected %s, got %s", want, desc.Type)
	}
	var parsed sdp.SessionDescription
	if err := parsed.Unmarshal([]byte(desc.SDP)); err != nil {
		return fmt.Errorf("malformed sdp: %w", err)
	}
	if len(parsed.MediaDescriptions) == 0 {
		return errNoMedia
	}
	return nil
}
