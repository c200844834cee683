// Package api is the REST client for identity and appointment records.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog/log"
)

const authHeader = "x-auth-token"

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrNotFound        = errors.New("not found")
)

type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Body)
}

func (e *HTTPError) Unwrap() error {
	switch e.Status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthenticated
	case http.StatusNotFound:
		return ErrNotFound
	}
	return nil
}

type Client struct {
	session    *Session
	httpClient *resty.Client
}

func NewClient(baseURL string, timeout time.Duration, session *Session) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	c := &Client{session: session}
	c.httpClient = resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("User-Agent", "CounselCall/1.0").
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
			if r.Header.Get(authHeader) == "" {
				if token := session.Token(); token != "" {
					r.SetHeader(authHeader, token)
				}
			}
			return nil
		})
	return c
}

func (c *Client) Session() *Session { return c.session }

// Login resolves token to a user via GET /users/me and stores both in the session.
func (c *Client) Login(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, ErrUnauthenticated
	}
	var u domain.User
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader(authHeader, token).
		SetResult(&u).
		Get("/users/me")
	if err != nil {
		return nil, fmt.Errorf("load user request failed: %w", err)
	}
	if resp.IsError() {
		c.session.Clear()
		return nil, &HTTPError{Status: resp.StatusCode(), Body: resp.String()}
	}
	if err := u.Validate(); err != nil {
		c.session.Clear()
		return nil, fmt.Errorf("invalid user record: %w", err)
	}
	c.session.set(token, &u)
	log.Info().Str("module", "api").Str("user_id", string(u.ID)).Str("role", string(u.Role)).Msg("logged in")
	return &u, nil
}

func (c *Client) Logout() {
	c.session.Clear()
	log.Info().Str("module", "api").Msg("logged out")
}

func (c *Client) Appointment(ctx context.Context, id domain.CallRoomID) (*domain.Appointment, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if !c.session.Authenticated() {
		return nil, ErrUnauthenticated
	}
	var appt domain.Appointment
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetPathParam("id", string(id)).
		SetResult(&appt).
		Get("/appointments/{id}")
	if err != nil {
		return nil, fmt.Errorf("appointment request failed: %w", err)
	}
	if resp.IsError() {
		return nil, &HTTPError{Status: resp.StatusCode(), Body: resp.String()}
	}
	return &appt, nil
}
