// Package automation runs scripted sequences of protocols and step-size
// sweeps.
package automation

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/izzettinalhalil/pushover/internal/config"
	"github.com/izzettinalhalil/pushover/internal/driver"
	"github.com/izzettinalhalil/pushover/internal/logging"
	"github.com/izzettinalhalil/pushover/internal/metrics"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/izzettinalhalil/pushover/internal/storage"
)

var ErrUnknownPreset = errors.New("automation: unknown preset")

// Scenario defines a scripted sequence of protocols.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a preset (or the default configuration) and
// overrides the fields that are set.
type ScenarioStep struct {
	Name        string    `yaml:"name"`
	Preset      string    `yaml:"preset"`
	CycleType   string    `yaml:"cycle_type"`
	StepSize    float64   `yaml:"step_size"`
	ScaleFactor float64   `yaml:"scale_factor"`
	Cycles      int       `yaml:"cycles"`
	Peaks       []float64 `yaml:"peaks"`
	Save        bool      `yaml:"save"`
}

// LoadScenario loads a scenario from a YAML file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	return &scenario, nil
}

// Config resolves the step into a full configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if s.Preset != "" {
		cfg = config.GetPreset(s.Preset)
		if cfg == nil {
			return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, s.Preset)
		}
	}
	if s.Name != "" {
		cfg.Name = s.Name
	}
	if s.CycleType != "" {
		cfg.CycleType = s.CycleType
	}
	if s.StepSize != 0 {
		cfg.StepSize = s.StepSize
	}
	if s.ScaleFactor != 0 {
		cfg.ScaleFactor = s.ScaleFactor
	}
	if s.Cycles != 0 {
		cfg.Cycles = s.Cycles
	}
	if len(s.Peaks) > 0 {
		cfg.Peaks = append([]float64(nil), s.Peaks...)
	}
	return cfg, nil
}

// Options configure a scenario run.
type Options struct {
	// Solvers builds one solver per step. Nil uses a tracking solver.
	Solvers driver.SolverFactory
	// Store receives the steps marked save. Nil disables saving.
	Store *storage.Store
	Log   *zap.Logger
}

// StepResult is the outcome of one scenario step.
type StepResult struct {
	Name     string
	RunID    string
	Schedule *protocol.Schedule
	Result   *driver.Result
}

// RunScenario builds and runs every step in order, stopping at the first
// failing step. Results of the steps run so far are returned.
func RunScenario(ctx context.Context, scenario *Scenario, opts Options) ([]StepResult, error) {
	log := logging.OrNop(opts.Log)
	solvers := opts.Solvers
	if solvers == nil {
		solvers = func() driver.Solver { return driver.NewTrackingSolver() }
	}

	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		log.Info("scenario step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("protocol", cfg.Name),
		)

		sched, err := cfg.Schedule()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		d := driver.New(solvers(), log)
		for _, m := range metrics.Defaults() {
			d.AddMetric(m)
		}
		result, runErr := d.Run(ctx, sched)

		sr := StepResult{Name: cfg.Name, Schedule: sched, Result: result}
		if step.Save && opts.Store != nil && result != nil {
			id, err := opts.Store.Save(sched, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
			sr.RunID = id
		}
		results = append(results, sr)

		if runErr != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, runErr)
		}
	}

	return results, nil
}
