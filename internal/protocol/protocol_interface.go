package protocol

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
)

var (
	ErrInvalidProbabilityParameter = errors.New("removal parameter k must be >= 1")
	ErrInvalidRoundBudget          = errors.New("round budget k must be >= 1")
	ErrInvalidThreshold            = errors.New("threshold must be >= 1")
)

// Protocol names as they appear in scenarios, results and metric labels.
const (
	NameFixedThreshold  = "threshold"
	NameBlindCoin       = "blindcoin"
	NameFeedbackCounter = "feedback"
)

// How a run ended.
const (
	OutcomeThresholdMet    = "threshold_met"
	OutcomeSaturated       = "saturated"
	OutcomeDiedOut         = "died_out"
	OutcomeBudgetExhausted = "budget_exhausted"
)

// IProtocol drives rounds over a population until its termination predicate
// holds. Each implementation owns its population for the duration of one run.
type IProtocol interface {
	Name() string
	Run() Result
}

// Result is the final report of a single run. Removed is only meaningful for
// the feedback protocol; the blind-coin protocol deliberately does not track
// removals.
type Result struct {
	Protocol string  `json:"protocol" msgpack:"protocol"`
	Param    float64 `json:"param" msgpack:"param"` // threshold or k, depending on protocol
	Rounds   int     `json:"rounds" msgpack:"rounds"`
	Infected int     `json:"infected" msgpack:"infected"`
	Removed  int     `json:"removed" msgpack:"removed"`
	Outcome  string  `json:"outcome" msgpack:"outcome"`
}

// defaultLogger returns a silenced logrus entry for protocols constructed
// without one (tests, one-off runs).
func defaultLogger() *logrus.Entry {
	l := logrus.New()
	l.Out = io.Discard
	return logrus.NewEntry(l)
}
