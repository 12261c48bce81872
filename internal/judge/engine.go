package judge

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/hcollier/penjudge/internal/protocol"
)

// Params fixes one judged run. Immutable once the engine starts.
type Params struct {
	// Cases is the number of independent game instances played in lock-step.
	Cases int
	// Pens is the number of pens per case (N).
	Pens int
	// NeedCorrect is the minimum number of correct cases for a passing run.
	NeedCorrect int
	// Seed drives the hidden-state RNG.
	Seed int64
}

// MaxRounds returns the round budget N*(N+1)/2: enough for any strategy that
// never wastes a write on a pen it knows is empty, and a hard stop for
// everything else.
func (p Params) MaxRounds() int {
	return p.Pens * (p.Pens + 1) / 2
}

// Validate checks the run parameter invariants.
//
// Postcondition: returns nil iff the parameters describe a playable run.
func (p Params) Validate() error {
	if p.Cases < 1 {
		return fmt.Errorf("cases must be >= 1, got %d", p.Cases)
	}
	if p.Pens < 1 {
		return fmt.Errorf("pens must be >= 1, got %d", p.Pens)
	}
	if p.NeedCorrect < 0 || p.NeedCorrect > p.Cases {
		return fmt.Errorf("need_correct must be in [0, %d], got %d", p.Cases, p.NeedCorrect)
	}
	if p.Seed < 0 {
		return fmt.Errorf("seed must be >= 0, got %d", p.Seed)
	}
	return nil
}

// Engine drives one full judged run over a line-oriented channel. It is
// strictly turn-based and single-threaded: one combined move line per round
// governs all cases simultaneously, and the engine owns the RNG and all case
// state for the run's duration.
type Engine struct {
	params Params
	in     *protocol.Reader
	out    *protocol.Writer
	logger *zap.Logger

	cases  []Case
	rounds int
}

// NewEngine creates an engine reading contestant lines from in and writing
// responses to out.
//
// Precondition: params.Validate() == nil; logger must be non-nil.
func NewEngine(params Params, in io.Reader, out io.Writer, logger *zap.Logger) *Engine {
	return &Engine{
		params: params,
		in:     protocol.NewReader(in),
		out:    protocol.NewWriter(out, logger),
		logger: logger,
	}
}

// Run plays the whole protocol: header line, round loop until the all-zero
// termination signal, then scoring of the final guesses. The returned error,
// if any, is a *Error whose Kind tells the boundary how to finish.
//
// Postcondition: on nil return the contestant met the correctness threshold
// and the input was fully consumed.
func (e *Engine) Run() error {
	e.out.WriteInts([]int{e.params.Cases, e.params.Pens, e.params.NeedCorrect})

	e.cases = NewCases(e.params.Cases, e.params.Pens, NewRNG(e.params.Seed))
	e.logger.Debug("cases initialized",
		zap.Int("cases", e.params.Cases),
		zap.Int("pens", e.params.Pens),
	)

	if err := e.playRounds(); err != nil {
		return err
	}
	return e.score()
}

// playRounds runs the PLAYING state until the termination signal. Each
// iteration reads one move per case, validates bounds, applies depletion, and
// emits one result per case.
func (e *Engine) playRounds() error {
	for {
		moves, err := e.readValues(e.params.Cases)
		if err != nil {
			return err
		}
		for _, move := range moves {
			if move < 0 || move > e.params.Pens {
				return protocolErr(&OutOfBoundsError{Token: strconv.Itoa(move)})
			}
		}
		if allZero(moves) {
			// The only exit from the round loop. A some-but-not-all zero
			// line is a normal round.
			e.logger.Debug("termination signal received", zap.Int("rounds", e.rounds))
			return nil
		}
		e.rounds++
		if e.rounds > e.params.MaxRounds() {
			return protocolErr(&TooManyRoundsError{})
		}

		results := make([]int, len(moves))
		for i, move := range moves {
			if move == 0 {
				results[i] = ResultSkipped
				continue
			}
			results[i] = e.cases[i].Write(move - 1)
		}
		e.out.WriteInts(results)
	}
}

// score reads the final guess line, validates every pair, counts correct
// cases, verifies the input is exhausted, and compares against the threshold.
func (e *Engine) score() error {
	guesses, err := e.readValues(2 * e.params.Cases)
	if err != nil {
		return err
	}

	correct := 0
	for i := range e.cases {
		v1, v2 := guesses[2*i], guesses[2*i+1]
		if v1 < 1 || v1 > e.params.Pens {
			return protocolErr(&OutOfBoundsError{Token: strconv.Itoa(v1)})
		}
		if v2 < 1 || v2 > e.params.Pens {
			return protocolErr(&OutOfBoundsError{Token: strconv.Itoa(v2)})
		}
		if v1 == v2 {
			return protocolErr(&SamePenTwiceError{})
		}
		if e.cases[i].Remaining(v1-1)+e.cases[i].Remaining(v2-1) >= e.params.Pens {
			correct++
		}
	}

	// After the guess line the input must be exhausted; here end of input is
	// the expected, non-error condition.
	if extra, err := e.in.ReadLine(); err == nil {
		return protocolErr(&AdditionalInputError{Extra: extra})
	} else if !errors.Is(err, protocol.ErrEndOfInput) {
		return protocolErr(protocol.ErrEndOfInput)
	}

	e.logger.Info("run scored",
		zap.Int("correct", correct),
		zap.Int("need_correct", e.params.NeedCorrect),
		zap.Int("rounds", e.rounds),
	)
	if correct < e.params.NeedCorrect {
		return verdictErr(&TooFewCorrectError{Correct: correct})
	}
	return nil
}

// readValues reads one line and parses exactly n integer tokens. Failing to
// produce a line mid-protocol is a violation, whatever the cause.
func (e *Engine) readValues(n int) ([]int, error) {
	line, err := e.in.ReadLine()
	if err != nil {
		if !errors.Is(err, protocol.ErrEndOfInput) {
			e.logger.Debug("read failed", zap.Error(err))
		}
		return nil, protocolErr(protocol.ErrEndOfInput)
	}
	values, err := protocol.ReadValues(line, n)
	if err != nil {
		return nil, protocolErr(err)
	}
	return values, nil
}

func allZero(values []int) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}
