package sim

import (
	"os"
	"path/filepath"
	"testing"
)

func TestScenarioValidate(t *testing.T) {
	base := func() *Scenario {
		return &Scenario{
			Seed:       1,
			Population: PopulationCfg{Size: 20, SeedIndex: 0},
			Protocols:  []ProtocolCfg{{Name: "threshold", Threshold: 20}},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Scenario)
		wantErr bool
	}{
		{"valid minimal", func(sc *Scenario) {}, false},
		{"population too small", func(sc *Scenario) { sc.Population.Size = 1 }, true},
		{"seed index out of range", func(sc *Scenario) { sc.Population.SeedIndex = 20 }, true},
		{"negative seed index", func(sc *Scenario) { sc.Population.SeedIndex = -1 }, true},
		{"no protocols", func(sc *Scenario) { sc.Protocols = nil }, true},
		{"unknown protocol", func(sc *Scenario) { sc.Protocols[0].Name = "smallpox" }, true},
		{"threshold below one", func(sc *Scenario) { sc.Protocols[0].Threshold = 0 }, true},
		{"blindcoin k below one", func(sc *Scenario) {
			sc.Protocols = []ProtocolCfg{{Name: "blindcoin", K: 0.5}}
		}, true},
		{"feedback budget below one", func(sc *Scenario) {
			sc.Protocols = []ProtocolCfg{{Name: "feedback", K: 0}}
		}, true},
		{"valid blindcoin", func(sc *Scenario) {
			sc.Protocols = []ProtocolCfg{{Name: "blindcoin", K: 4}}
		}, false},
		{"valid feedback", func(sc *Scenario) {
			sc.Protocols = []ProtocolCfg{{Name: "feedback", K: 10}}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := base()
			tt.mutate(sc)
			err := sc.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestScenarioValidateDefaults(t *testing.T) {
	sc := &Scenario{
		Population: PopulationCfg{Size: 10},
		Protocols:  []ProtocolCfg{{Name: "threshold", Threshold: 5}},
	}
	if err := sc.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if sc.Repeats != 1 {
		t.Fatalf("Repeats default = %d, want 1", sc.Repeats)
	}
	if sc.Parallelism != 1 {
		t.Fatalf("Parallelism default = %d, want 1", sc.Parallelism)
	}
	if sc.Logging.ResultsFile != "results.json" {
		t.Fatalf("ResultsFile default = %q, want results.json", sc.Logging.ResultsFile)
	}
}

func TestLoadScenarioYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	data := `
seed: 9
population:
  size: 40
  seed_index: 2
protocols:
  - name: blindcoin
    k: 3
repeats: 7
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario: %v", err)
	}
	if sc.Seed != 9 || sc.Population.Size != 40 || sc.Population.SeedIndex != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if len(sc.Protocols) != 1 || sc.Protocols[0].Name != "blindcoin" || sc.Protocols[0].K != 3 {
		t.Fatalf("unexpected protocols: %+v", sc.Protocols)
	}
	if sc.Repeats != 7 {
		t.Fatalf("repeats = %d, want 7", sc.Repeats)
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
