package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"epidemic-simulation/internal/epidemic"
)

// BlindCoin runs push rounds in which every pushing node independently
// removes itself with probability 1/k, regardless of whether its push
// infected anyone. Removal here flips node state directly and is not counted
// anywhere: the variant reports only k and the infected count.
type BlindCoin struct {
	pop *epidemic.Population
	k   float64
	log *logrus.Entry
}

// NewBlindCoin validates k >= 1 so that 1/k is a well-defined probability.
// A logger may be nil.
func NewBlindCoin(pop *epidemic.Population, k float64, log *logrus.Entry) (*BlindCoin, error) {
	if pop.Size() < 2 {
		return nil, fmt.Errorf("%w: need >= 2 nodes, got %d", epidemic.ErrInvalidPopulationSize, pop.Size())
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidProbabilityParameter, k)
	}
	if log == nil {
		log = defaultLogger()
	}
	return &BlindCoin{pop: pop, k: k, log: log}, nil
}

func (b *BlindCoin) Name() string { return NameBlindCoin }

// Run executes rounds until either every node has been infected or no node is
// currently infected. Both predicates are re-evaluated before each node in
// the round, not once per round.
func (b *BlindCoin) Run() Result {
	round := 0
	for {
		round++
		for i := 0; i < b.pop.Size(); i++ {
			if b.pop.InfectedCount() == b.pop.Size() {
				return b.result(round, OutcomeSaturated)
			}
			if !b.pop.AnyInfected() {
				return b.result(round, OutcomeDiedOut)
			}
			n := b.pop.Node(i)
			if n.State() != epidemic.StateInfected {
				continue
			}
			n.PushMessage(b.pop)
			if b.pop.CoinToss(1 / b.k) {
				// Blind removal of the pusher. Deliberately not routed
				// through Population.Remove: this variant keeps no removal
				// tally.
				n.SetState(epidemic.StateRemoved)
			}
		}
		b.log.WithFields(logrus.Fields{
			"round":    round,
			"infected": b.pop.InfectedCount(),
		}).Debug("blind-coin round complete")

		// Re-check at the end of the round so a push by the round's last
		// node does not cost an extra round in the report.
		if b.pop.InfectedCount() == b.pop.Size() {
			return b.result(round, OutcomeSaturated)
		}
		if !b.pop.AnyInfected() {
			return b.result(round, OutcomeDiedOut)
		}
	}
}

func (b *BlindCoin) result(round int, outcome string) Result {
	return Result{
		Protocol: NameBlindCoin,
		Param:    b.k,
		Rounds:   round,
		Infected: b.pop.InfectedCount(),
		Outcome:  outcome,
	}
}
