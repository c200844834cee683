package peer

type State int

const (
	StateCreated State = iota
	StateHaveLocalTracks
	StateLocalOfferSet
	StateAwaitingAnswer
	StateRemoteAnswerSet
	StateAwaitingOffer
	StateRemoteOfferSet
	StateLocalAnswerSet
	StateConnected
	StateClosed
)

var stateNames = [...]string{
	StateCreated:         "created",
	StateHaveLocalTracks: "have-local-tracks",
	StateLocalOfferSet:   "local-offer-set",
	StateAwaitingAnswer:  "awaiting-answer",
	StateRemoteAnswerSet: "remote-answer-set",
	StateAwaitingOffer:   "awaiting-offer",
	StateRemoteOfferSet:  "remote-offer-set",
	StateLocalAnswerSet:  "local-answer-set",
	StateConnected:       "connected",
	StateClosed:          "closed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

type Role int

const (
	RoleOfferer Role = iota
	RoleAnswerer
)

func (r Role) String() string {
	if r == RoleOfferer {
		return "offerer"
	}
	return "answerer"
}
