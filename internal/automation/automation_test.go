package automation

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/san-kum/galaxysim/internal/storage"
)

const scenarioYAML = `name: halo comparison
description: same disk with two halos
steps:
  - name: light
    stars: 24
    seed: 5
    steps: 20
    halo_mass: 500000
  - name: heavy
    preset: heavy-halo
    stars: 24
    seed: 5
    steps: 20
    save: true
`

func writeScenario(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "halo comparison" || len(sc.Steps) != 2 {
		t.Fatalf("unexpected scenario: %+v", sc)
	}
	if sc.Steps[0].HaloMass != 5e5 || !sc.Steps[1].Save {
		t.Errorf("step fields not decoded: %+v", sc.Steps)
	}

	if _, err := LoadScenario(writeScenario(t, "name: empty\n")); err == nil {
		t.Error("expected error for scenario without steps")
	}
	if _, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestStepConfig(t *testing.T) {
	cfg, err := ScenarioStep{Preset: "heavy-halo", Stars: 10}.Config()
	if err != nil {
		t.Fatalf("config failed: %v", err)
	}
	if cfg.Stars != 10 || cfg.Physics.HaloMass != 3e6 || cfg.Dt != 0.05 {
		t.Errorf("preset not layered: %+v", cfg)
	}
	if cfg.Seed == 0 {
		t.Error("seed should be fixed for reproducible scenarios")
	}

	if _, err := (ScenarioStep{Preset: "nope"}).Config(); err == nil {
		t.Error("expected unknown preset error")
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t, scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	var log strings.Builder
	st := storage.New(t.TempDir())
	outcomes, err := RunScenario(context.Background(), sc, st, &log)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if outcomes[0].RunID != "" || outcomes[1].RunID == "" {
		t.Errorf("only the saved step should have a run id: %q %q", outcomes[0].RunID, outcomes[1].RunID)
	}
	if outcomes[0].Result.StepsTaken != 20 {
		t.Errorf("expected 20 steps, got %d", outcomes[0].Result.StepsTaken)
	}

	runs, err := st.List()
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected one stored run, got %v, %v", runs, err)
	}
	if runs[0].Info.Preset != "heavy-halo" {
		t.Errorf("preset not recorded: %+v", runs[0].Info)
	}
	if !strings.Contains(log.String(), "Running step 2/2: heavy") {
		t.Errorf("unexpected progress output:\n%s", log.String())
	}
}

func TestRunScenarioSaveWithoutStore(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Stars: 4, Steps: 2, Save: true}}}
	if _, err := RunScenario(context.Background(), sc, nil, io.Discard); err == nil {
		t.Error("expected error saving without a store")
	}
}
