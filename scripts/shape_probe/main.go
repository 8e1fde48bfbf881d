package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/noah-isme/sma-rating-sync/internal/repository"
	"github.com/noah-isme/sma-rating-sync/pkg/config"
	appErrors "github.com/noah-isme/sma-rating-sync/pkg/errors"
)

type probe struct {
	Shape    string
	Students int
	Duration time.Duration
	Err      error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	var (
		base    string
		timeout time.Duration
	)
	flag.StringVar(&base, "base", cfg.API.Base, "Student API base URL")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	var probes []probe
	for _, shape := range []string{config.ShapeEnvelope, config.ShapeBare} {
		probes = append(probes, run(base, shape, timeout))
	}

	printReport(base, cfg.API.ListShape, probes)

	for _, p := range probes {
		if p.Shape == cfg.API.ListShape && p.Err != nil {
			os.Exit(1)
		}
	}
}

func run(base, shape string, timeout time.Duration) probe {
	apiCfg := config.APIConfig{Base: base, Timeout: timeout, ListShape: shape}
	repo := repository.NewStudentAPIRepository(apiCfg, nil, nil, nil, nil)

	start := time.Now()
	students, err := repo.List(context.Background())
	return probe{Shape: shape, Students: len(students), Duration: time.Since(start), Err: err}
}

func printReport(base, configured string, probes []probe) {
	fmt.Println("Student API Shape Probe")
	fmt.Println("=======================")
	fmt.Printf("Base: %s (configured shape: %s)\n", base, configured)
	for _, p := range probes {
		status := "OK"
		switch {
		case errors.Is(p.Err, appErrors.ErrUnexpectedShape):
			status = "MISMATCH"
		case p.Err != nil:
			status = "ERROR"
		}
		fmt.Printf("[%s] %s (%s)\n", status, p.Shape, p.Duration)
		if p.Err != nil {
			fmt.Printf("  Error: %v\n", p.Err)
		} else {
			fmt.Printf("  Students: %d\n", p.Students)
		}
	}
}
