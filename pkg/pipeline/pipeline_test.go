package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aryawin/karstgen/pkg/config"
	"github.com/aryawin/karstgen/pkg/geology"
)

func smallConfig() *config.GenerationConfig {
	cfg := config.DefaultConfig()
	cfg.Seed = 7
	cfg.Region = geology.Region{
		Min: geology.Vec3{X: -20, Y: -60, Z: -20},
		Max: geology.Vec3{X: 20, Y: -20, Z: 20},
	}
	cfg.Step = 4
	cfg.StageBudget = 0
	return cfg
}

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	if !errors.Is(err, ErrNilConfig) {
		t.Fatalf("expected ErrNilConfig, got %v", err)
	}

	var structured *GenError
	if !errors.As(err, &structured) {
		t.Error("error should be a structured GenError")
	}
}

func TestNewRejectsEmptyRegion(t *testing.T) {
	cfg := smallConfig()
	cfg.Region.Max = cfg.Region.Min
	if _, err := New(cfg); !errors.Is(err, ErrEmptyRegion) {
		t.Fatalf("expected ErrEmptyRegion, got %v", err)
	}
}

func TestNewRejectsInvalidParams(t *testing.T) {
	cfg := smallConfig()
	cfg.Step = -1
	if _, err := New(cfg); !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestRunHonorsCancellation(t *testing.T) {
	p, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := p.Run(ctx)
	if !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if result == nil {
		t.Fatal("cancelled run should still return the partial result")
	}
	if result.Success {
		t.Error("cancelled run should not be marked successful")
	}
}

func TestRunAssignsRunID(t *testing.T) {
	p, err := New(smallConfig())
	if err != nil {
		t.Fatal(err)
	}

	first, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if first.RunID == "" || first.RunID == second.RunID {
		t.Errorf("runs should carry distinct IDs: %q vs %q", first.RunID, second.RunID)
	}
}

func TestRunDeterministicArtifacts(t *testing.T) {
	cfg := smallConfig()

	p1, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r1, err := p1.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	p2, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := p2.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(r1.Points) != len(r2.Points) {
		t.Errorf("point counts differ: %d vs %d", len(r1.Points), len(r2.Points))
	}
	if len(r1.Formations) != len(r2.Formations) {
		t.Errorf("formation counts differ: %d vs %d", len(r1.Formations), len(r2.Formations))
	}
	if len(r1.Networks) != len(r2.Networks) {
		t.Errorf("network counts differ: %d vs %d", len(r1.Networks), len(r2.Networks))
	}
	if r1.Quality != r2.Quality {
		t.Errorf("quality differs: %f vs %f", r1.Quality, r2.Quality)
	}
}

func TestRunProgressMonotonic(t *testing.T) {
	cfg := smallConfig()
	var fractions []float64
	p, err := New(cfg, WithProgress(func(fraction float64, stage, detail string) {
		fractions = append(fractions, fraction)
	}))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if len(fractions) == 0 {
		t.Fatal("expected progress callbacks")
	}
	for i := 1; i < len(fractions); i++ {
		if fractions[i] < fractions[i-1] {
			t.Fatalf("progress went backwards at %d: %f -> %f", i, fractions[i-1], fractions[i])
		}
	}
	if last := fractions[len(fractions)-1]; last != 1.0 {
		t.Errorf("final progress should be 1.0, got %f", last)
	}
}

func TestStructuralStageOptional(t *testing.T) {
	cfg := smallConfig()
	cfg.Structural = false
	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Structural != nil {
		t.Error("structural report should be absent when the stage is disabled")
	}
}

func TestStageBudgetDegradesGracefully(t *testing.T) {
	cfg := smallConfig()
	cfg.StageBudget = time.Nanosecond

	p, err := New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	// Every stage deadline is already spent when the stage starts, so
	// each one returns its partial product with a warning instead of
	// failing the run.
	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("budget exhaustion must not fail the run: %v", err)
	}
	if !result.Success {
		t.Error("run should still count as successful")
	}

	exhausted := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "budget exhausted") {
			exhausted = true
			break
		}
	}
	if !exhausted {
		t.Errorf("expected a budget-exhausted warning, got %v", result.Warnings)
	}
}
