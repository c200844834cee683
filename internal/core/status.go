package core

// Status is the lifecycle of one call attempt. Transitions only move forward;
// StatusEnded and StatusFailed are terminal.
type Status int

const (
	StatusIdle Status = iota
	StatusAcquiringMedia
	StatusJoining
	StatusNegotiating
	StatusConnected
	StatusEnded
	StatusFailed
)

var statusNames = [...]string{
	StatusIdle:           "idle",
	StatusAcquiringMedia: "acquiring-media",
	StatusJoining:        "joining",
	StatusNegotiating:    "negotiating",
	StatusConnected:      "connected",
	StatusEnded:          "ended",
	StatusFailed:         "failed",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return "unknown"
	}
	return statusNames[s]
}

func (s Status) Terminal() bool {
	return s == StatusEnded || s == StatusFailed
}
