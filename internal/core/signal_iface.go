package core

import (
	"context"
	"encoding/json"

	"github.com/dkeye/CounselCall/internal/domain"
)

type MessageKind string

const (
	KindOffer        MessageKind = "offer"
	KindAnswer       MessageKind = "answer"
	KindICECandidate MessageKind = "ice-candidate"
	KindJoinCall     MessageKind = "join-call"
	KindLeaveCall    MessageKind = "leave-call"
)

// Negotiation reports whether k carries SDP or ICE data.
func (k MessageKind) Negotiation() bool {
	return k == KindOffer || k == KindAnswer || k == KindICECandidate
}

// Envelope is the wire shape exchanged with the signaling relay.
type Envelope struct {
	Type          MessageKind       `json:"type"`
	AppointmentID domain.CallRoomID `json:"appointmentId"`
	Payload       json.RawMessage   `json:"payload,omitempty"`
}

//go:generate mockgen -destination=mocks/mock_signal.go -package=mocks . SignalChannel,SignalDialer

// SignalChannel is a duplex channel to the relay scoped to one call room.
// Owned by the caller; the caller must Close() it.
type SignalChannel interface {
	// Send is fire-and-forget for offer, answer and ice-candidate.
	Send(kind MessageKind, payload any) error
	// Announce re-sends the join-call notification.
	Announce() error
	// OnMessage registers the single inbound handler. Delivery keeps relay order.
	OnMessage(func(Envelope))
	// Done is closed when the relay connection ends for any reason.
	Done() <-chan struct{}
	// Err reports why Done was closed. A lost relay is a *SignalingUnavailableError.
	Err() error
	// Close sends leave-call and closes the channel. Idempotent.
	Close() error
}

type SignalDialer interface {
	Connect(ctx context.Context, room domain.CallRoomID) (SignalChannel, error)
}
