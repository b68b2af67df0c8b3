package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aryawin/karstgen/pkg/config"
	"github.com/aryawin/karstgen/pkg/export"
	"github.com/aryawin/karstgen/pkg/geology"
	"github.com/aryawin/karstgen/pkg/logging"
	"github.com/aryawin/karstgen/pkg/pipeline"
)

func main() {
	seed := flag.Int64("seed", 0, "Generation seed (0 = current time)")
	preset := flag.String("preset", "", "YAML preset file (empty = defaults)")
	out := flag.String("out", "cave.karst", "Output artifact path")
	size := flag.Float64("size", 100, "Region width/depth in world units")
	depth := flag.Float64("depth", 50, "Region height in world units")
	step := flag.Float64("step", 2, "Sample spacing in world units")
	verbose := flag.Bool("v", false, "Debug logging")
	flag.Parse()

	cfg, err := loadConfig(*preset)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *seed != 0 {
		cfg.Seed = *seed
	} else if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if *preset == "" {
		half := *size / 2
		cfg.Region = geology.Region{
			Min: geology.Vec3{X: -half, Y: -*depth, Z: -half},
			Max: geology.Vec3{X: half, Y: 0, Z: half},
		}
		cfg.Step = *step
	}

	level := logging.InfoLevel
	if *verbose {
		level = logging.DebugLevel
	}
	logger := logging.NewJSONLogger(os.Stderr, level)

	fmt.Printf("🗻 karstgen - seed %d, region %.0fx%.0fx%.0f\n",
		cfg.Seed,
		cfg.Region.Max.X-cfg.Region.Min.X,
		cfg.Region.Max.Y-cfg.Region.Min.Y,
		cfg.Region.Max.Z-cfg.Region.Min.Z)

	p, err := pipeline.New(cfg,
		pipeline.WithLogger(logger),
		pipeline.WithProgress(printProgress),
	)
	if err != nil {
		log.Fatalf("Failed to build pipeline: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := p.Run(ctx)
	if err != nil {
		log.Fatalf("Generation failed: %v", err)
	}

	fmt.Printf("\n✅ Generated %d formations in %d networks (%d flow paths) in %s\n",
		len(result.Formations), len(result.Networks), len(result.FlowPaths), result.Elapsed.Round(time.Millisecond))
	fmt.Printf("   Quality: %.2f\n", result.Quality)
	for _, w := range result.Warnings {
		fmt.Printf("   ⚠️  %s\n", w)
	}

	stats, err := export.Save(*out, &export.Artifact{
		RunID:      result.RunID,
		Seed:       cfg.Seed,
		CreatedAt:  time.Now().UTC(),
		Formations: result.Formations,
		Networks:   result.Networks,
		FlowPaths:  result.FlowPaths,
		Warnings:   result.Warnings,
		Quality:    result.Quality,
	})
	if err != nil {
		log.Fatalf("Failed to write artifact: %v", err)
	}
	fmt.Printf("💾 Wrote %s (%.0f%% compression)\n", *out, stats.CompressionRatio*100)
}

func loadConfig(preset string) (*config.GenerationConfig, error) {
	if preset == "" {
		return config.DefaultConfig(), nil
	}
	return config.Load(preset)
}

func printProgress(fraction float64, stage, detail string) {
	fmt.Printf("\r[%3.0f%%] %-22s %s", fraction*100, stage, detail)
	if fraction >= 1 {
		fmt.Println()
	}
}
