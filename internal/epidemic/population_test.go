package epidemic

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewPopulationSeeding(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(10, 3, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	if got := pop.InfectedCount(); got != 1 {
		t.Fatalf("infectedCount after construction = %d, want 1", got)
	}
	for i := 0; i < pop.Size(); i++ {
		want := StateSusceptible
		if i == 3 {
			want = StateInfected
		}
		if got := pop.Node(i).State(); got != want {
			t.Fatalf("node %d state = %v, want %v", i, got, want)
		}
	}
}

func TestNewPopulationErrors(t *testing.T) {
	tests := []struct {
		name      string
		size      int
		seedIndex int
		wantErr   error
	}{
		{"zero size", 0, 0, ErrInvalidPopulationSize},
		{"negative size", -3, 0, ErrInvalidPopulationSize},
		{"negative seed index", 5, -1, ErrInvalidSeedIndex},
		{"seed index at size", 5, 5, ErrInvalidSeedIndex},
		{"seed index beyond size", 5, 17, ErrInvalidSeedIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPopulation(tt.size, tt.seedIndex, rand.New(rand.NewSource(1)))
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestCoinTossBoundaries(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(2, 0, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	for i := 0; i < 1000; i++ {
		if !pop.CoinToss(1) {
			t.Fatal("CoinToss(1) returned false")
		}
		if pop.CoinToss(0) {
			t.Fatal("CoinToss(0) returned true")
		}
	}
}

func TestInfectedCountIsEverInfected(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(4, 0, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	pop.Node(1).SetState(StateInfected)
	pop.Node(2).SetState(StateInfected)
	if got := pop.InfectedCount(); got != 3 {
		t.Fatalf("infectedCount = %d, want 3", got)
	}

	// Removing previously infected nodes must not shrink the ever-infected
	// count.
	pop.Remove(pop.Node(1))
	pop.Remove(pop.Node(2))
	if got := pop.InfectedCount(); got != 3 {
		t.Fatalf("infectedCount after removals = %d, want 3", got)
	}
	if got := pop.RemovedCount(); got != 2 {
		t.Fatalf("removedCount = %d, want 2", got)
	}
}

func TestAnyInfected(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(3, 0, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	if !pop.AnyInfected() {
		t.Fatal("AnyInfected = false right after seeding")
	}
	pop.Remove(pop.Node(0))
	if pop.AnyInfected() {
		t.Fatal("AnyInfected = true after the only infected node was removed")
	}
}

func TestSubscribeAttachesToEveryNode(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pop, err := NewPopulation(5, 0, rng)
	if err != nil {
		t.Fatalf("NewPopulation: %v", err)
	}

	rec := &recorder{}
	pop.Subscribe(rec)

	pop.Node(2).SetState(StateInfected)
	pop.Node(4).SetState(StateInfected)
	if got := len(rec.events); got != 2 {
		t.Fatalf("extra observer saw %d notifications, want 2", got)
	}
	// The population's own count must have moved in step.
	if got := pop.InfectedCount(); got != 3 {
		t.Fatalf("infectedCount = %d, want 3", got)
	}
}
