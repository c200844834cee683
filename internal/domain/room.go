package domain

import (
	"errors"
	"time"
)

// CallRoomID scopes signaling to the two participants of one appointment.
// It is the appointment id and never changes for the life of a call.
type CallRoomID string

var ErrRoomEmpty = errors.New("call room id empty")

func (id CallRoomID) Validate() error {
	if id == "" {
		return ErrRoomEmpty
	}
	return nil
}

type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

type Appointment struct {
	ID        CallRoomID        `json:"_id"`
	Date      time.Time         `json:"date"`
	Time      string            `json:"time"`
	Type      string            `json:"type"`
	Counselor User              `json:"counselor"`
	Client    User              `json:"client"`
	Status    AppointmentStatus `json:"status"`
}

// Joinable reports whether a call may be started for the appointment.
func (a *Appointment) Joinable() bool {
	return a.Status == AppointmentScheduled
}
