package potential

import (
	"math"

	pkgerrors "github.com/pkg/errors"
)

// Nernst returns the equilibrium potential of a single ion with valence z,
// given its intracellular (in) and extracellular (out) concentrations.
//
//	E = RT/(zF) * 1000 * ln(out/in)
func Nernst(c Constants, z int, in, out float64) (Result, error) {
	if in <= 0 || out <= 0 {
		return Result{}, pkgerrors.Wrapf(ErrInvalidInput, "ion concentrations must be greater than zero, got in=%g out=%g", in, out)
	}
	if z == 0 {
		return Result{}, pkgerrors.Wrap(ErrInvalidInput, "valence must not be zero")
	}
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	vt := (c.R * c.T) / (float64(z) * c.F) * 1000

	return Result{Value: vt * math.Log(out/in)}, nil
}

// GHK3 returns the Goldman-Hodgkin-Katz potential for potassium, sodium and
// chloride. Chloride is anionic, so its in/out terms are swapped relative to
// the cations. Only the combined denominator is checked.
func GHK3(c Constants, k, na, cl Ion) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	num := k.Permeability*k.Out + na.Permeability*na.Out + cl.Permeability*cl.In
	den := k.Permeability*k.In + na.Permeability*na.In + cl.Permeability*cl.Out

	return ratio(c, num, den)
}

// GHK4 is GHK3 with an added calcium term weighted according to mode.
//
// In CalciumSqrt mode the potassium permeability is the arithmetic mean of
// exactly three kEstimates and k.Permeability is ignored. Neither mode is the
// textbook divalent GHK treatment.
func GHK4(c Constants, mode CalciumMode, k, na, cl, ca Ion, kEstimates ...float64) (Result, error) {
	if err := c.Validate(); err != nil {
		return Result{}, err
	}

	var caOut, caIn float64

	switch mode {
	case CalciumLinear:
		caOut, caIn = ca.Out, ca.In
	case CalciumSqrt:
		if len(kEstimates) != 3 {
			return Result{}, pkgerrors.Wrapf(ErrInvalidInput, "sqrt calcium mode needs 3 potassium permeability estimates, got %d", len(kEstimates))
		}
		k.Permeability = (kEstimates[0] + kEstimates[1] + kEstimates[2]) / 3
		caOut, caIn = math.Sqrt(ca.Out), math.Sqrt(ca.In)
	default:
		return Result{}, pkgerrors.Wrapf(ErrInvalidInput, "unknown calcium mode %q", mode)
	}

	num := k.Permeability*k.Out + na.Permeability*na.Out + cl.Permeability*cl.In + ca.Permeability*caOut
	den := k.Permeability*k.In + na.Permeability*na.In + cl.Permeability*cl.Out + ca.Permeability*caIn

	return ratio(c, num, den)
}

// Compute dispatches in to GHK3 or GHK4.
func Compute(c Constants, in GHKInput) (Result, error) {
	if in.Ca == nil {
		return GHK3(c, in.K, in.Na, in.Cl)
	}

	mode := in.Calcium
	if mode == "" {
		mode = CalciumLinear
	}

	return GHK4(c, mode, in.K, in.Na, in.Cl, *in.Ca, in.KEstimates...)
}

func ratio(c Constants, num, den float64) (Result, error) {
	if den == 0 {
		return Result{}, pkgerrors.Wrap(ErrDivisionByZero, "denominator is zero; check input values")
	}

	return Finite(Result{Value: c.thermalVoltage() * math.Log(num/den)}, nil)
}

// Finite passes r and err through, turning a NaN or infinite r into
// ErrInvalidInput. A non-positive GHK numerator or denominator produces one.
func Finite(r Result, err error) (Result, error) {
	if err != nil {
		return r, err
	}
	if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) {
		return Result{}, pkgerrors.Wrapf(ErrInvalidInput, "result is not finite (%v); check for negative concentrations", r.Value)
	}
	return r, nil
}
