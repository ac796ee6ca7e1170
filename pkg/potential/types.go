package potential

import (
	"fmt"
	"strings"

	pkgerrors "github.com/pkg/errors"
)

// Constants holds the physical constants used by every calculator.
type Constants struct {
	// R is the gas constant in J/(mol*K).
	R float64 `json:"R"`
	// T is the temperature in Kelvin.
	T float64 `json:"T"`
	// F is the Faraday constant in C/mol.
	F float64 `json:"F"`
}

// DefaultConstants returns R, F and body temperature (310 K).
func DefaultConstants() Constants {
	return Constants{R: 8.314, T: 310, F: 96485}
}

// Validate checks that all constants are strictly positive.
func (c Constants) Validate() error {
	if c.R <= 0 || c.T <= 0 || c.F <= 0 {
		return pkgerrors.Wrapf(ErrInvalidInput, "constants must be positive, got R=%g T=%g F=%g", c.R, c.T, c.F)
	}
	return nil
}

// thermalVoltage returns RT/F in millivolts.
func (c Constants) thermalVoltage() float64 {
	return (c.R * c.T) / c.F * 1000
}

// Ion describes one permeant ion species. Concentrations are in mM.
type Ion struct {
	Permeability float64 `json:"permeability"`
	In           float64 `json:"in"`
	Out          float64 `json:"out"`
	// Valence is only used by Nernst.
	Valence int `json:"valence,omitempty"`
}

// Result is a computed potential in millivolts.
type Result struct {
	Value float64 `json:"value"`
}

func (r Result) String() string {
	return fmt.Sprintf("%.2f mV", r.Value)
}

// CalciumMode selects how the calcium term enters the 4-ion GHK sum.
type CalciumMode string

const (
	// CalciumLinear weights Ca like K and Na: P_Ca*Ca_out over P_Ca*Ca_in.
	CalciumLinear CalciumMode = "linear"
	// CalciumSqrt weights Ca by the square root of its concentrations and
	// replaces P_K with the mean of three potassium permeability estimates.
	CalciumSqrt CalciumMode = "sqrt"
)

// ParseCalciumMode parses "linear" or "sqrt" (case-insensitive).
func ParseCalciumMode(s string) (CalciumMode, error) {
	switch CalciumMode(strings.ToLower(strings.TrimSpace(s))) {
	case CalciumLinear:
		return CalciumLinear, nil
	case CalciumSqrt:
		return CalciumSqrt, nil
	default:
		return "", pkgerrors.Wrapf(ErrInvalidInput, "unknown calcium mode %q, expected %q or %q", s, CalciumLinear, CalciumSqrt)
	}
}

// GHKInput bundles the inputs of a GHK computation. A nil Ca selects the
// 3-ion form.
type GHKInput struct {
	K  Ion  `json:"K"`
	Na Ion  `json:"Na"`
	Cl Ion  `json:"Cl"`
	Ca *Ion `json:"Ca,omitempty"`

	Calcium CalciumMode `json:"calcium,omitempty"`
	// KEstimates are the three potassium permeability estimates averaged by
	// the sqrt-Ca variant. K.Permeability is ignored in that mode.
	KEstimates []float64 `json:"kEstimates,omitempty"`
}

// Parameters lists the names accepted by GHKInput.Set.
var Parameters = []string{
	"K_in", "K_out", "Na_in", "Na_out", "Cl_in", "Cl_out", "Ca_in", "Ca_out",
	"P_K", "P_Na", "P_Cl", "P_Ca",
}

// Set assigns v to the named input. Calcium names require Ca to be set,
// and P_K is rejected in sqrt calcium mode where it has no effect.
func (in *GHKInput) Set(name string, v float64) error {
	ca := func() (*Ion, error) {
		if in.Ca == nil {
			return nil, pkgerrors.Wrapf(ErrUnknownParameter, "%s requires a calcium term", name)
		}
		return in.Ca, nil
	}

	switch name {
	case "K_in":
		in.K.In = v
	case "K_out":
		in.K.Out = v
	case "P_K":
		if in.Ca != nil && in.Calcium == CalciumSqrt {
			return pkgerrors.Wrap(ErrUnknownParameter, "P_K is replaced by kEstimates in sqrt calcium mode")
		}
		in.K.Permeability = v
	case "Na_in":
		in.Na.In = v
	case "Na_out":
		in.Na.Out = v
	case "P_Na":
		in.Na.Permeability = v
	case "Cl_in":
		in.Cl.In = v
	case "Cl_out":
		in.Cl.Out = v
	case "P_Cl":
		in.Cl.Permeability = v
	case "Ca_in", "Ca_out", "P_Ca":
		ion, err := ca()
		if err != nil {
			return err
		}
		switch name {
		case "Ca_in":
			ion.In = v
		case "Ca_out":
			ion.Out = v
		default:
			ion.Permeability = v
		}
	default:
		return pkgerrors.Wrapf(ErrUnknownParameter, "%q (known: %s)", name, strings.Join(Parameters, ", "))
	}

	return nil
}

// Clone returns a deep copy, so a sweep can mutate it freely.
func (in GHKInput) Clone() GHKInput {
	out := in
	if in.Ca != nil {
		ca := *in.Ca
		out.Ca = &ca
	}
	if in.KEstimates != nil {
		out.KEstimates = append([]float64(nil), in.KEstimates...)
	}
	return out
}
