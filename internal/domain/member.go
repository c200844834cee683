package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotParticipant  = errors.New("user is not a participant of the appointment")
	ErrSameParticipant = errors.New("appointment client and counselor are the same user")
)

// Parties is the pair of users on a one-to-one call, seen from Self.
// No transport or lifecycle logic here.
type Parties struct {
	Room   CallRoomID
	Self   User
	Remote User
}

// NewParties resolves the remote side of appt for self.
func NewParties(self *User, appt *Appointment) (*Parties, error) {
	if err := appt.ID.Validate(); err != nil {
		return nil, err
	}
	if appt.Client.ID == appt.Counselor.ID {
		return nil, ErrSameParticipant
	}
	p := &Parties{Room: appt.ID, Self: *self}
	switch self.ID {
	case appt.Client.ID:
		p.Remote = appt.Counselor
		p.Self.Role = RoleClient
		if p.Remote.Role == "" {
			p.Remote.Role = RoleCounselor
		}
	case appt.Counselor.ID:
		p.Remote = appt.Client
		p.Self.Role = RoleCounselor
		if p.Remote.Role == "" {
			p.Remote.Role = RoleClient
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotParticipant, self.ID)
	}
	return p, nil
}
