package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/izzettinalhalil/pushover/internal/cycle"
	"github.com/izzettinalhalil/pushover/internal/protocol"
	"github.com/izzettinalhalil/pushover/internal/units"
)

const (
	DefaultCycleType   = "Full"
	DefaultCycles      = 1
	DefaultStepRatio   = 0.001 // step size as a fraction of the scale factor
	DefaultControlNode = 141
	DefaultControlDOF  = 1
	DefaultUnit        = "inch"
)

type Config struct {
	Name             string         `yaml:"name"`
	CycleType        string         `yaml:"cycle_type"`
	LenientCycleType bool           `yaml:"lenient_cycle_type"`
	StepSize         float64        `yaml:"step_size"`
	ScaleFactor      float64        `yaml:"scale_factor"`
	Cycles           int            `yaml:"cycles"`
	Peaks            []float64      `yaml:"peaks"`
	Building         units.Building `yaml:"building"`
	Control          ControlConfig  `yaml:"control"`
}

// ControlConfig names the node and degree of freedom driven by the analysis.
type ControlConfig struct {
	Node int    `yaml:"node"`
	DOF  int    `yaml:"dof"`
	Unit string `yaml:"unit"`
}

func DefaultConfig() *Config {
	u := units.Imperial()
	return &Config{
		Name:      "example7",
		CycleType: DefaultCycleType,
		Cycles:    DefaultCycles,
		Peaks:     append([]float64(nil), protocol.ExampleSevenPeaks...),
		Building:  units.ExampleSevenBuilding(u),
		Control: ControlConfig{
			Node: DefaultControlNode,
			DOF:  DefaultControlDOF,
			Unit: u.LengthLabel,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of base. Keys absent from the file keep the
// values of base. A nil base means DefaultConfig.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseOver(data, base)
}

// Parse decodes YAML on top of the defaults.
func Parse(data []byte) (*Config, error) {
	return ParseOver(data, DefaultConfig())
}

// ParseOver decodes data into a copy of base; base itself is left untouched.
func ParseOver(data []byte, base *Config) (*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}
	cfg := *base
	cfg.Peaks = append([]float64(nil), base.Peaks...)
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Type resolves the cycle type label.
func (c *Config) Type() (cycle.Type, error) {
	if c.LenientCycleType {
		return cycle.ParseTypeLenient(c.CycleType), nil
	}
	return cycle.ParseType(c.CycleType)
}

// EffectiveScaleFactor falls back to the building height, then to 1.
func (c *Config) EffectiveScaleFactor() float64 {
	if c.ScaleFactor != 0 {
		return c.ScaleFactor
	}
	if h := c.Building.Height(); h != 0 {
		return h
	}
	return 1
}

// EffectiveStepSize falls back to a fixed fraction of the scale factor.
func (c *Config) EffectiveStepSize() float64 {
	if c.StepSize != 0 {
		return c.StepSize
	}
	sf := c.EffectiveScaleFactor()
	if sf < 0 {
		sf = -sf
	}
	return DefaultStepRatio * sf
}

func (c *Config) Protocol() (protocol.Protocol, error) {
	typ, err := c.Type()
	if err != nil {
		return protocol.Protocol{}, fmt.Errorf("config %q: %w", c.Name, err)
	}

	cycles := c.Cycles
	if cycles == 0 {
		cycles = DefaultCycles
	}

	p := protocol.Protocol{
		Name:        c.Name,
		Peaks:       append([]float64(nil), c.Peaks...),
		StepSize:    c.EffectiveStepSize(),
		Type:        typ,
		ScaleFactor: c.EffectiveScaleFactor(),
		Cycles:      cycles,
		Unit:        c.Control.Unit,
	}
	if err := p.Validate(); err != nil {
		return protocol.Protocol{}, fmt.Errorf("config %q: %w", c.Name, err)
	}
	return p, nil
}

func (c *Config) Schedule() (*protocol.Schedule, error) {
	p, err := c.Protocol()
	if err != nil {
		return nil, err
	}
	return p.Build()
}
