package epidemic

import (
	"math/rand"
	"testing"
)

// recorder counts notifications per event name.
type recorder struct {
	events []string
}

func (r *recorder) OnNotify(_ *Node, event string) {
	r.events = append(r.events, event)
}

func TestSetStateNotifiesOnInfectionEdgeOnly(t *testing.T) {
	tests := []struct {
		name        string
		transitions []State
		wantNotifs  int
	}{
		{"susceptible to infected", []State{StateInfected}, 1},
		{"re-set infected", []State{StateInfected, StateInfected}, 1},
		{"infected to removed", []State{StateInfected, StateRemoved}, 1},
		{"straight to removed", []State{StateRemoved}, 0},
		{"removed back to infected re-fires", []State{StateInfected, StateRemoved, StateInfected}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewNode(0)
			rec := &recorder{}
			n.Subscribe(rec)
			for _, s := range tt.transitions {
				n.SetState(s)
			}
			if got := len(rec.events); got != tt.wantNotifs {
				t.Fatalf("notifications = %d, want %d", got, tt.wantNotifs)
			}
			for _, ev := range rec.events {
				if ev != EventInfected {
					t.Fatalf("unexpected event %q", ev)
				}
			}
		})
	}
}

func TestSetStateNotifiesBeforeCommit(t *testing.T) {
	n := NewNode(0)
	var stateAtNotify State
	n.Subscribe(observerFunc(func(node *Node, _ string) {
		stateAtNotify = node.State()
	}))
	n.SetState(StateInfected)
	if stateAtNotify != StateSusceptible {
		t.Fatalf("observer saw state %v, want pre-commit %v", stateAtNotify, StateSusceptible)
	}
}

type observerFunc func(*Node, string)

func (f observerFunc) OnNotify(n *Node, event string) { f(n, event) }

func TestPickPartnerExcludesSelf(t *testing.T) {
	tests := []struct {
		name string
		size int
	}{
		{"two nodes", 2},
		{"five nodes", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rng := rand.New(rand.NewSource(1))
			pop, err := NewPopulation(tt.size, 0, rng)
			if err != nil {
				t.Fatalf("NewPopulation: %v", err)
			}
			n := pop.Node(0)
			for i := 0; i < 200; i++ {
				partner := n.PickPartner(pop)
				if partner.ID == n.ID {
					t.Fatalf("picked self on iteration %d", i)
				}
				if tt.size == 2 && partner.ID != 1 {
					t.Fatalf("two-node population must pick node 1, got %d", partner.ID)
				}
			}
		})
	}
}

func TestPushMessageInfectsOnlySusceptible(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(2, 0, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	seed := pop.Node(0)
	partner := seed.PushMessage(pop)
	if partner.ID != 1 {
		t.Fatalf("partner = %d, want 1", partner.ID)
	}
	if partner.State() != StateInfected {
		t.Fatalf("partner state = %v, want infected", partner.State())
	}
	if pop.InfectedCount() != 2 {
		t.Fatalf("infectedCount = %d, want 2", pop.InfectedCount())
	}

	// A second push returns the partner but changes nothing.
	again := seed.PushMessage(pop)
	if again.ID != 1 || pop.InfectedCount() != 2 {
		t.Fatalf("redundant push changed state: partner %d, infected %d", again.ID, pop.InfectedCount())
	}

	// A removed partner is returned untouched.
	partner.SetState(StateRemoved)
	third := seed.PushMessage(pop)
	if third.State() != StateRemoved {
		t.Fatalf("push reinfected a removed node: state %v", third.State())
	}
	if pop.InfectedCount() != 2 {
		t.Fatalf("infectedCount = %d after pushing to removed node, want 2", pop.InfectedCount())
	}
}
