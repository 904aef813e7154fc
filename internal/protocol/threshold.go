package protocol

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"epidemic-simulation/internal/epidemic"
)

// FixedThreshold runs push rounds until the ever-infected count reaches a
// fixed target. No node is ever removed in this variant.
type FixedThreshold struct {
	pop       *epidemic.Population
	threshold int
	log       *logrus.Entry
}

// NewFixedThreshold validates the parameters and clamps the threshold to the
// population size. A logger may be nil.
func NewFixedThreshold(pop *epidemic.Population, threshold int, log *logrus.Entry) (*FixedThreshold, error) {
	if pop.Size() < 2 {
		return nil, fmt.Errorf("%w: need >= 2 nodes, got %d", epidemic.ErrInvalidPopulationSize, pop.Size())
	}
	if threshold < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidThreshold, threshold)
	}
	if threshold > pop.Size() {
		threshold = pop.Size()
	}
	if log == nil {
		log = defaultLogger()
	}
	return &FixedThreshold{pop: pop, threshold: threshold, log: log}, nil
}

func (f *FixedThreshold) Name() string { return NameFixedThreshold }

// Run executes rounds until infectedCount reaches the threshold. The check
// runs before every node inside a round, so a round can be cut short the
// moment the threshold is hit; the remaining nodes in that round do not act.
func (f *FixedThreshold) Run() Result {
	round := 0
	for f.pop.InfectedCount() < f.threshold {
		round++
		for i := 0; i < f.pop.Size(); i++ {
			if f.pop.InfectedCount() >= f.threshold {
				break
			}
			if n := f.pop.Node(i); n.State() == epidemic.StateInfected {
				n.PushMessage(f.pop)
			}
		}
		f.log.WithFields(logrus.Fields{
			"round":    round,
			"infected": f.pop.InfectedCount(),
		}).Debug("threshold round complete")
	}

	return Result{
		Protocol: NameFixedThreshold,
		Param:    float64(f.threshold),
		Rounds:   round,
		Infected: f.pop.InfectedCount(),
		Outcome:  OutcomeThresholdMet,
	}
}
