// Package selftest replays scripted judge conversations through the real
// engine and checks their outcomes. This is the judge's built-in self-check
// mode; the scripts double as executable documentation of the protocol.
package selftest

import (
	_ "embed"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/hcollier/penjudge/internal/judge"
)

//go:embed scenarios.yaml
var scenariosYAML []byte

// Scenario is one scripted conversation and its expected outcome. The seed is
// fixed per script, so the hidden state is known and the expectations are
// exact.
type Scenario struct {
	Name        string   `yaml:"name"`
	Cases       int      `yaml:"cases"`
	Pens        int      `yaml:"pens"`
	NeedCorrect int      `yaml:"need_correct"`
	Seed        int64    `yaml:"seed"`
	Input       []string `yaml:"input"`
	// Want is the expected outcome kind: "ok", "protocol" or "verdict".
	Want string `yaml:"want"`
	// WantError, when set, is the exact expected error message.
	WantError string `yaml:"want_error,omitempty"`
	// WantOutput, when set, is the exact expected transcript including the
	// header line.
	WantOutput []string `yaml:"want_output,omitempty"`
}

type scenarioFile struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load parses the embedded scenario scripts.
//
// Postcondition: returns at least one scenario or a non-nil error.
func Load() ([]Scenario, error) {
	var file scenarioFile
	if err := yaml.Unmarshal(scenariosYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing scenarios: %w", err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios embedded")
	}
	return file.Scenarios, nil
}

// Run replays every embedded scenario and returns an error describing the
// first mismatch.
func Run(logger *zap.Logger) error {
	scenarios, err := Load()
	if err != nil {
		return err
	}
	for _, s := range scenarios {
		if err := s.Run(logger); err != nil {
			return fmt.Errorf("scenario %s: %w", s.Name, err)
		}
		logger.Debug("scenario passed", zap.String("scenario", s.Name))
	}
	logger.Info("self-test passed", zap.Int("scenarios", len(scenarios)))
	return nil
}

// Run replays s through a fresh engine and compares the outcome, message, and
// transcript against the script's expectations.
func (s Scenario) Run(logger *zap.Logger) error {
	in := strings.NewReader(strings.Join(s.Input, "\n"))
	var out strings.Builder
	eng := judge.NewEngine(judge.Params{
		Cases:       s.Cases,
		Pens:        s.Pens,
		NeedCorrect: s.NeedCorrect,
		Seed:        s.Seed,
	}, in, &out, logger)

	err := eng.Run()
	switch s.Want {
	case "ok":
		if err != nil {
			return fmt.Errorf("want success, got: %w", err)
		}
	case "protocol", "verdict":
		want := judge.KindProtocol
		if s.Want == "verdict" {
			want = judge.KindVerdict
		}
		if err == nil {
			return fmt.Errorf("want %s error, got success", s.Want)
		}
		if got := judge.KindOf(err); got != want {
			return fmt.Errorf("want %s error, got %s: %w", s.Want, got, err)
		}
		if s.WantError != "" && err.Error() != s.WantError {
			return fmt.Errorf("want error %q, got %q", s.WantError, err.Error())
		}
	default:
		return fmt.Errorf("unknown want %q", s.Want)
	}

	if s.WantOutput != nil {
		got := transcript(out.String())
		if !equalLines(got, s.WantOutput) {
			return fmt.Errorf("transcript mismatch: want %q, got %q", s.WantOutput, got)
		}
	}
	return nil
}

// transcript splits the engine's raw output into lines, dropping the final
// newline.
func transcript(out string) []string {
	out = strings.TrimRight(out, "\n")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
