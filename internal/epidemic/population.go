package epidemic

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidPopulationSize = errors.New("invalid population size")
	ErrInvalidSeedIndex      = errors.New("seed index out of range")
)

// Population owns a fixed set of nodes for the lifetime of one simulation
// run. It subscribes itself to every node and aggregates infection counts
// through the notifications; removal accounting is driven directly by the
// protocols.
type Population struct {
	nodes []*Node
	rng   *rand.Rand

	infectedCount int // nodes that have EVER been infected, monotonic
	removedCount  int // nodes removed via Remove (feedback protocol only)
}

// NewPopulation builds size susceptible nodes, subscribes the population to
// each, then infects the node at seedIndex. The rng drives all partner
// selection and coin tosses for the run, so a fixed seed gives a
// reproducible run.
func NewPopulation(size, seedIndex int, rng *rand.Rand) (*Population, error) {
	if size < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidPopulationSize, size)
	}
	if seedIndex < 0 || seedIndex >= size {
		return nil, fmt.Errorf("%w: index %d, size %d", ErrInvalidSeedIndex, seedIndex, size)
	}

	p := &Population{
		nodes: make([]*Node, size),
		rng:   rng,
	}
	for i := 0; i < size; i++ {
		n := NewNode(i)
		n.Subscribe(p)
		p.nodes[i] = n
	}

	// Seed the contagion before any round begins. This counts towards
	// infectedCount via the normal notification path.
	p.nodes[seedIndex].SetState(StateInfected)

	return p, nil
}

// OnNotify implements IObserver. The infected notification is the sole path
// by which infectedCount changes.
func (p *Population) OnNotify(_ *Node, event string) {
	if event == EventInfected {
		p.infectedCount++
	}
}

// Subscribe attaches an extra observer to every node in the population.
func (p *Population) Subscribe(o IObserver) {
	for _, n := range p.nodes {
		n.Subscribe(o)
	}
}

// Size returns the fixed number of nodes.
func (p *Population) Size() int {
	return len(p.nodes)
}

// Node returns the node at index i.
func (p *Population) Node(i int) *Node {
	return p.nodes[i]
}

// InfectedCount is the number of nodes that have ever entered the infected
// state, including nodes removed since.
func (p *Population) InfectedCount() int {
	return p.infectedCount
}

// RemovedCount is the number of nodes removed through Remove.
func (p *Population) RemovedCount() int {
	return p.removedCount
}

// AnyInfected reports whether some node is currently infected (die-out check).
func (p *Population) AnyInfected() bool {
	for _, n := range p.nodes {
		if n.state == StateInfected {
			return true
		}
	}
	return false
}

// CoinToss returns true with probability prob, drawn from the run's RNG.
// prob outside [0,1] is a caller error; protocol constructors validate the
// parameters it is derived from.
func (p *Population) CoinToss(prob float64) bool {
	return p.rng.Float64() < prob
}

// Remove transitions n to removed and counts it. The blind-coin protocol
// deliberately bypasses this and flips node state directly: it reports no
// removal figure at all.
func (p *Population) Remove(n *Node) {
	n.SetState(StateRemoved)
	p.removedCount++
}
