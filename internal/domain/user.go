// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"
)

const (
	MaxUserIDLen   = 64
	MaxUsernameLen = 36
)

var (
	ErrUserIDEmpty   = errors.New("user id empty")
	ErrUserIDTooLong = errors.New("user id too long")
	ErrUnknownRole   = errors.New("unknown role")
	ErrNameTooLong   = errors.New("name too long")
)

type UserID string

type Role string

const (
	RoleClient    Role = "client"
	RoleCounselor Role = "counselor"
)

func (r Role) Valid() bool {
	return r == RoleClient || r == RoleCounselor
}

type User struct {
	ID        UserID `json:"_id"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// NewUser is a tiny helper to avoid ad-hoc struct literals in adapters.
func NewUser(id UserID, role Role, first, last string) (*User, error) {
	u := &User{ID: id, Role: role, FirstName: first, LastName: last}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (u *User) Validate() error {
	if len(u.ID) == 0 {
		return ErrUserIDEmpty
	}
	if len(u.ID) > MaxUserIDLen {
		return ErrUserIDTooLong
	}
	if !u.Role.Valid() {
		return ErrUnknownRole
	}
	if len(u.FirstName) > MaxUsernameLen || len(u.LastName) > MaxUsernameLen {
		return ErrNameTooLong
	}
	return nil
}

func (u *User) DisplayName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return string(u.ID)
	}
	return name
}
