package epidemic

// IObserver receives node state-change notifications. The owning Population
// is always subscribed; the sim layer may attach extra observers (e.g. an
// event-bus forwarder).
type IObserver interface {
	OnNotify(n *Node, event string)
}

// Node is a single member of a Population. It holds no back-reference to its
// population: partner selection and pushes take the Population explicitly.
type Node struct {
	ID        int
	state     State
	observers []IObserver
}

// NewNode creates a node in the susceptible state with the given index.
func NewNode(id int) *Node {
	return &Node{ID: id, state: StateSusceptible}
}

// State returns the node's current infection state.
func (n *Node) State() State {
	return n.state
}

// Subscribe registers an observer. Observers are notified in subscription
// order.
func (n *Node) Subscribe(o IObserver) {
	n.observers = append(n.observers, o)
}

// SetState commits a new state. Only the transition into Infected from a
// non-infected state notifies observers, and it notifies before the commit.
// No other validation is done here: keeping a removed node removed is the
// protocol's job, not the node's.
func (n *Node) SetState(s State) {
	if s == StateInfected && n.state != StateInfected {
		for _, o := range n.observers {
			o.OnNotify(n, EventInfected)
		}
	}
	n.state = s
}

// PickPartner selects a uniformly random node from pop, excluding this node,
// by resampling on a self-match. The population must have at least two nodes;
// protocol constructors enforce that precondition.
func (n *Node) PickPartner(pop *Population) *Node {
	for {
		idx := pop.rng.Intn(pop.Size())
		if idx != n.ID {
			return pop.Node(idx)
		}
	}
}

// PushMessage picks a random partner and infects it if it is susceptible.
// The partner is returned whether or not a transition happened, so that
// feedback-style protocols can inspect it.
func (n *Node) PushMessage(pop *Population) *Node {
	partner := n.PickPartner(pop)
	if partner.State() == StateSusceptible {
		partner.SetState(StateInfected)
	}
	return partner
}
