package relay

import (
	"errors"
	"sync"

	"github.com/dkeye/CounselCall/internal/domain"
	"github.com/rs/zerolog/log"
)

const MaxParticipants = 2

var ErrRoomFull = errors.New("room is full")

type PublishResult struct {
	SentTo  int
	Dropped []*Conn
}

// room is a threadsafe in-memory pair of connections for one appointment.
// It never closes adapter-owned resources.
type room struct {
	id      domain.CallRoomID
	mu      sync.RWMutex
	members map[ConnID]*Conn
}

func newRoom(id domain.CallRoomID) *room {
	return &room{id: id, members: make(map[ConnID]*Conn, MaxParticipants)}
}

func (r *room) count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

func (r *room) add(c *Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.members) >= MaxParticipants {
		return ErrRoomFull
	}
	r.members[c.id] = c
	log.Info().Str("module", "relay.room").Str("room", string(r.id)).Str("conn", string(c.id)).Msg("member added")
	return nil
}

// remove reports how many members are left.
func (r *room) remove(id ConnID) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.members, id)
	log.Info().Str("module", "relay.room").Str("room", string(r.id)).Str("conn", string(id)).Msg("member removed")
	return len(r.members)
}

// forward sends data to every member except from.
func (r *room) forward(from ConnID, data []byte) PublishResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := PublishResult{}
	for id, m := range r.members {
		if id == from {
			continue
		}
		if err := m.TrySend(data); err != nil {
			res.Dropped = append(res.Dropped, m)
			continue
		}
		res.SentTo++
	}
	log.Debug().Str("module", "relay.room").Str("from", string(from)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("forward result")
	return res
}
