package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"epidemic-simulation/internal/epidemic"
)

// FeedbackCounter runs at most k push rounds. A node removes itself after a
// push whose partner reads as infected, which covers both an already-infected
// partner and one the push itself just infected. Removals go through
// Population.Remove and are therefore counted, unlike in the blind-coin
// variant.
type FeedbackCounter struct {
	pop *epidemic.Population
	k   int
	log *logrus.Entry
}

// NewFeedbackCounter validates the round budget k >= 1. A logger may be nil.
func NewFeedbackCounter(pop *epidemic.Population, k int, log *logrus.Entry) (*FeedbackCounter, error) {
	if pop.Size() < 2 {
		return nil, fmt.Errorf("%w: need >= 2 nodes, got %d", epidemic.ErrInvalidPopulationSize, pop.Size())
	}
	if k < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRoundBudget, k)
	}
	if log == nil {
		log = defaultLogger()
	}
	return &FeedbackCounter{pop: pop, k: k, log: log}, nil
}

func (f *FeedbackCounter) Name() string { return NameFeedbackCounter }

// Run executes up to k rounds, stopping early on saturation or die-out. The
// two termination predicates are re-evaluated before each node within a
// round.
func (f *FeedbackCounter) Run() Result {
	for round := 0; round < f.k; round++ {
		for i := 0; i < f.pop.Size(); i++ {
			if f.pop.InfectedCount() == f.pop.Size() {
				return f.result(round+1, OutcomeSaturated)
			}
			if !f.pop.AnyInfected() {
				return f.result(round+1, OutcomeDiedOut)
			}
			n := f.pop.Node(i)
			if n.State() != epidemic.StateInfected {
				continue
			}
			partner := n.PushMessage(f.pop)
			if partner.State() == epidemic.StateInfected {
				// Feedback rule: the push was wasted on an infected partner,
				// so the pusher retires. Note the partner state is read after
				// the push, so a push that just infected its partner still
				// retires the pusher.
				f.pop.Remove(n)
			}
		}
		f.log.WithFields(logrus.Fields{
			"round":    round + 1,
			"infected": f.pop.InfectedCount(),
			"removed":  f.pop.RemovedCount(),
		}).Debug("feedback round complete")

		// Re-check at the end of the round: a push by the round's last node
		// can saturate the population, and in the final budget round that
		// must not be misreported as an exhausted budget.
		if f.pop.InfectedCount() == f.pop.Size() {
			return f.result(round+1, OutcomeSaturated)
		}
		if !f.pop.AnyInfected() {
			return f.result(round+1, OutcomeDiedOut)
		}
	}
	return f.result(f.k, OutcomeBudgetExhausted)
}

func (f *FeedbackCounter) result(rounds int, outcome string) Result {
	return Result{
		Protocol: NameFeedbackCounter,
		Param:    float64(f.k),
		Rounds:   rounds,
		Infected: f.pop.InfectedCount(),
		Removed:  f.pop.RemovedCount(),
		Outcome:  outcome,
	}
}
