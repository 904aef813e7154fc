package epidemic

// State is the infection state of a single node.
type State int

const (
	StateSusceptible State = iota
	StateInfected
	StateRemoved // terminal: a removed node never pushes again
)

func (s State) String() string {
	switch s {
	case StateSusceptible:
		return "susceptible"
	case StateInfected:
		return "infected"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// EventInfected is the notification emitted on the susceptible -> infected
// edge. It is the only event a node ever emits.
const EventInfected = "infected"
