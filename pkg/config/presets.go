package config

import (
	"sort"

	"github.com/restpot/restpot/pkg/utils/ptr"
)

const (
	// CalciumNone selects the 3-ion GHK form.
	CalciumNone = "none"

	PresetMain   = "main"
	PresetNernst = "nernst"
	PresetGHKpK  = "ghk-pk"
	PresetGHKKo  = "ghk-ko"
)

var kOutValues = []float64{5, 10, 15, 25, 35, 100, 150, 180, 200, 220}

func mainPreset() *RawFileConfig {
	return &RawFileConfig{
		R:       ptr.To(8.314),
		T:       ptr.To(310.0),
		F:       ptr.To(96485.0),
		Nernst:  rawIon(0, 140, 5, ptr.To(1)),
		K:       rawIon(1.0, 140, 5, nil),
		Na:      rawIon(0.04, 15, 145, nil),
		Cl:      rawIon(0.45, 10, 120, nil),
		Ca:      rawIon(0.01, 0.0001, 1.8, nil),
		Calcium: ptr.To("linear"),
		Sweep: &RawSweep{
			Parameter: ptr.To("K_out"),
			Values:    kOutValues,
		},
	}
}

var presets = map[string]func() *RawFileConfig{
	PresetMain: mainPreset,
	PresetNernst: func() *RawFileConfig {
		c := mainPreset()
		c.F = ptr.To(6485.0)
		c.Nernst = rawIon(0, 200, 5, ptr.To(1))
		return c
	},
	PresetGHKpK: func() *RawFileConfig {
		c := mainPreset()
		c.T = ptr.To(294.15)
		c.K = rawIon(0.01, 140, 5, nil)
		c.KEstimates = []float64{0.008, 0.01, 0.012}
		c.Na = rawIon(2, 15, 50, nil)
		c.Cl = rawIon(0.45, 10, 120, nil)
		c.Ca = rawIon(0.0001, 0.00001, 13.5, nil)
		c.Calcium = ptr.To("sqrt")
		return c
	},
	PresetGHKKo: func() *RawFileConfig {
		c := mainPreset()
		c.T = ptr.To(294.15)
		c.K = rawIon(2, 140, 5, nil)
		c.Na = rawIon(0.1, 15, 145, nil)
		c.Cl = rawIon(0.45, 10, 110, nil)
		c.Calcium = ptr.To(CalciumNone)
		return c
	},
}

// Preset returns a fresh copy of the named built-in profile.
func Preset(name string) (*RawFileConfig, bool) {
	f, ok := presets[name]
	if !ok {
		return nil, false
	}
	return f(), true
}

// PresetNames returns the names of all built-in profiles, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func rawIon(p, in, out float64, valence *int) *RawIon {
	return &RawIon{
		Permeability: ptr.To(p),
		In:           ptr.To(in),
		Out:          ptr.To(out),
		Valence:      valence,
	}
}
