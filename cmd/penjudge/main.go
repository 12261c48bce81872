// Package main provides the judge binary that plays the ink-depletion
// guessing protocol against a contestant over stdin/stdout.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hcollier/penjudge/internal/config"
	"github.com/hcollier/penjudge/internal/judge"
	"github.com/hcollier/penjudge/internal/observability"
	"github.com/hcollier/penjudge/internal/protocol"
	"github.com/hcollier/penjudge/internal/selftest"
)

// sentinel is written to stdout when the run dies before producing valid
// output, so a misbehaving contestant reads an unambiguous invalid marker
// instead of hanging on a half-finished conversation.
const sentinel = -1

func main() {
	configPath := flag.String("config", "", "path to configuration file; empty = built-in defaults")
	variantName := flag.String("variant", "small", "run variant: small, large, huge, or selftest")
	seedFlag := flag.Int64("seed", 0, "RNG seed; 0 = derive from the current time")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger = logger.With(zap.String("run_id", uuid.New().String()))

	if *variantName == "selftest" {
		if err := selftest.Run(logger); err != nil {
			logger.Error("self-test failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	variant, ok := cfg.Variant(*variantName)
	if !ok {
		log.Fatalf("unknown variant %q", *variantName)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = generateSeed(cfg.Judge.SeedMask)
	}

	params := judge.Params{
		Cases:       variant.CaseCount,
		Pens:        cfg.Judge.ItemsPerCase,
		NeedCorrect: variant.NeedCorrect,
		Seed:        seed,
	}
	if err := params.Validate(); err != nil {
		log.Fatalf("invalid run parameters: %v", err)
	}

	// The seed must be reported before play starts, so a failed run can be
	// replayed exactly.
	logger.Info("starting run",
		zap.String("variant", variant.Name),
		zap.Int("cases", params.Cases),
		zap.Int("pens", params.Pens),
		zap.Int("need_correct", params.NeedCorrect),
		zap.Int64("seed", params.Seed),
	)

	if err := runEngine(params, logger); err != nil {
		switch judge.KindOf(err) {
		case judge.KindVerdict:
			// Output already completed validly; no sentinel.
			logger.Error("verdict failure", zap.Error(err))
		case judge.KindProtocol:
			emitSentinel(logger)
			logger.Error("protocol violation", zap.Error(err))
		default:
			emitSentinel(logger)
			logger.Error("internal judge error",
				zap.String("type", fmt.Sprintf("%T", err)),
				zap.String("message", truncate(err.Error(), 1000)),
			)
		}
		os.Exit(1)
	}
	logger.Info("run passed")
}

// runEngine plays one full run, converting panics into internal-kind errors
// so the boundary always produces a well-defined terminal signal.
func runEngine(params judge.Params, logger *zap.Logger) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &judge.Error{Kind: judge.KindInternal, Err: fmt.Errorf("panic: %v", r)}
		}
	}()
	return judge.NewEngine(params, os.Stdin, os.Stdout, logger).Run()
}

// emitSentinel best-effort writes the invalid-output marker; the contestant
// may already have closed its side.
func emitSentinel(logger *zap.Logger) {
	protocol.NewWriter(os.Stdout, logger).WriteInt(sentinel)
}

// generateSeed derives a seed from the wall clock XORed with the configured
// mask, clamped to the non-negative range the RNG requires.
func generateSeed(mask int64) int64 {
	return (time.Now().UnixNano() ^ mask) & math.MaxInt64
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
