package config

import (
	"sort"

	"github.com/izzettinalhalil/pushover/internal/units"
)

var imperial = units.Imperial()

var Presets = map[string]*Config{
	"example7": {
		Name: "example7", CycleType: "Full", Cycles: 1,
		Peaks:    []float64{0.005, 0.01, 0.025, 0.05, 0.1},
		Building: units.ExampleSevenBuilding(imperial),
		Control:  ControlConfig{Node: 141, DOF: 1, Unit: "inch"},
	},
	"push": {
		Name: "push", CycleType: "Push", Cycles: 1,
		Peaks:    []float64{0.02},
		Building: units.ExampleSevenBuilding(imperial),
		Control:  ControlConfig{Node: 141, DOF: 1, Unit: "inch"},
	},
	"half": {
		Name: "half", CycleType: "Half", Cycles: 2,
		Peaks:    []float64{0.005, 0.01, 0.02},
		Building: units.ExampleSevenBuilding(imperial),
		Control:  ControlConfig{Node: 141, DOF: 1, Unit: "inch"},
	},
	"quick": {
		Name: "quick", CycleType: "Full", Cycles: 1,
		Peaks: []float64{1.0, 2.0}, StepSize: 0.1, ScaleFactor: 1,
		Control: ControlConfig{Node: 1, DOF: 1, Unit: "inch"},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *p
	c.Peaks = append([]float64(nil), p.Peaks...)
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
