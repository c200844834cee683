package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAppointment() *Appointment {
	return &Appointment{
		ID:        "appt-1",
		Counselor: User{ID: "u-counselor", Role: RoleCounselor, FirstName: "Ada"},
		Client:    User{ID: "u-client", Role: RoleClient, FirstName: "Bob"},
		Status:    AppointmentScheduled,
	}
}

func TestNewUser(t *testing.T) {
	_, err := NewUser("", RoleClient, "a", "b")
	assert.ErrorIs(t, err, ErrUserIDEmpty)

	_, err = NewUser("u1", Role("admin"), "a", "b")
	assert.ErrorIs(t, err, ErrUnknownRole)

	u, err := NewUser("u1", RoleCounselor, "Ada", "Lovelace")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.DisplayName())
}

func TestNewParties(t *testing.T) {
	appt := testAppointment()

	t.Run("client side", func(t *testing.T) {
		p, err := NewParties(&User{ID: "u-client"}, appt)
		require.NoError(t, err)
		assert.Equal(t, CallRoomID("appt-1"), p.Room)
		assert.Equal(t, RoleClient, p.Self.Role)
		assert.Equal(t, UserID("u-counselor"), p.Remote.ID)
	})

	t.Run("counselor side", func(t *testing.T) {
		p, err := NewParties(&User{ID: "u-counselor"}, appt)
		require.NoError(t, err)
		assert.Equal(t, RoleCounselor, p.Self.Role)
		assert.Equal(t, UserID("u-client"), p.Remote.ID)
	})

	t.Run("outsider", func(t *testing.T) {
		_, err := NewParties(&User{ID: "u-other"}, appt)
		assert.ErrorIs(t, err, ErrNotParticipant)
	})

	t.Run("missing room", func(t *testing.T) {
		a := testAppointment()
		a.ID = ""
		_, err := NewParties(&User{ID: "u-client"}, a)
		assert.ErrorIs(t, err, ErrRoomEmpty)
	})
}

func TestAppointmentJoinable(t *testing.T) {
	a := testAppointment()
	assert.True(t, a.Joinable())
	a.Status = AppointmentCancelled
	assert.False(t, a.Joinable())
}
