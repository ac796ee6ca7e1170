package config

import "github.com/restpot/restpot/pkg/potential"

// Config is a source of calculator inputs.
type Config interface {
	Constants() potential.Constants
	// NernstIon returns the single ion used by the Nernst calculator.
	NernstIon() potential.Ion
	// GHKInput returns the multi-ion input. Ca is nil for a 3-ion profile.
	GHKInput() potential.GHKInput
	SweepParameter() string
	SweepValues() []float64

	SetConstants(potential.Constants)
	SetNernstIon(potential.Ion)
	SetGHKInput(potential.GHKInput)
	SetCalcium(mode string)
	SetSweep(parameter string, values []float64)

	// Load reads the configuration from the source.
	Load() error
	// Save saves the configuration to the source.
	Save() error
}
