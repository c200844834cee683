package relay

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a participant whose send queue is full.
type Policy interface {
	OnBackpressure(c *Conn) BackpressureAction
}

// KickSlow disconnects a participant that cannot keep up.
type KickSlow struct{}

func (KickSlow) OnBackpressure(*Conn) BackpressureAction { return KickMember }
