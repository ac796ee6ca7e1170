package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
)

// inputFlags are the value overrides shared by the calculate commands. Only
// flags the user actually sets are applied on top of the profile.
type inputFlags struct {
	fs *pflag.FlagSet

	r, t, f float64

	params     map[string]*float64
	calcium    string
	kEstimates []float64

	jsonOutput bool
	remote     bool
}

func addConstantFlags(in *inputFlags, f *pflag.FlagSet) {
	in.fs = f
	f.Float64Var(&in.r, "R", 0, "gas constant, J/(mol*K)")
	f.Float64Var(&in.t, "T", 0, "temperature, K")
	f.Float64Var(&in.f, "F", 0, "Faraday constant, C/mol")
	f.BoolVar(&in.jsonOutput, "json", false, "print the result as JSON")
	f.BoolVar(&in.remote, "remote", false, "compute on a running restpot daemon")
}

func addGHKFlags(in *inputFlags, f *pflag.FlagSet, withCalcium bool) {
	in.params = map[string]*float64{}
	for _, name := range potential.Parameters {
		if !withCalcium && strings.Contains(name, "Ca") {
			continue
		}
		v := new(float64)
		in.params[name] = v
		f.Float64Var(v, name, 0, describeParameter(name))
	}
	if withCalcium {
		f.StringVar(&in.calcium, "calcium", "", `calcium term: "linear" or "sqrt"`)
		f.Float64SliceVar(&in.kEstimates, "k-estimates", nil, "three potassium permeability estimates averaged by the sqrt calcium mode")
	}
}

func describeParameter(name string) string {
	ion, what, _ := strings.Cut(name, "_")
	switch {
	case ion == "P":
		return what + " permeability (relative)"
	case what == "in":
		return "intracellular " + ion + " concentration, mM"
	default:
		return "extracellular " + ion + " concentration, mM"
	}
}

func (in *inputFlags) changed(name string) bool {
	return in.fs != nil && in.fs.Changed(name)
}

// loadProfile builds the effective inputs: preset, then --profile, then flags.
func loadProfile(defaultPreset string) (*config.File, error) {
	name := presetName
	if name == "" {
		name = defaultPreset
	}
	base, ok := config.Preset(name)
	if !ok {
		return nil, unknownPresetError(name)
	}

	var f *config.File
	if configPath != "" {
		var err error
		f, err = config.NewFile(configPath, base)
		if err != nil {
			return nil, err
		}
	} else {
		f = config.NewFileFromConfig(nil, base, "")
	}

	logrus.WithField("preset", name).WithFields(f.LogrusFields()).Debug("profile loaded")

	return f, nil
}

func (in *inputFlags) applyConstants(c config.Config) potential.Constants {
	consts := c.Constants()
	if in.changed("R") {
		consts.R = in.r
	}
	if in.changed("T") {
		consts.T = in.t
	}
	if in.changed("F") {
		consts.F = in.f
	}
	c.SetConstants(consts)
	return consts
}

func (in *inputFlags) applyGHK(c config.Config) (potential.GHKInput, error) {
	if in.changed("calcium") {
		mode := strings.ToLower(strings.TrimSpace(in.calcium))
		if mode != config.CalciumNone {
			if _, err := potential.ParseCalciumMode(mode); err != nil {
				return potential.GHKInput{}, err
			}
		}
		c.SetCalcium(mode)
	}

	ghk := c.GHKInput()
	for _, name := range potential.Parameters {
		v, ok := in.params[name]
		if !ok || !in.changed(name) {
			continue
		}
		if err := ghk.Set(name, *v); err != nil {
			return potential.GHKInput{}, err
		}
	}
	if in.changed("k-estimates") {
		ghk.KEstimates = append([]float64(nil), in.kEstimates...)
	}

	c.SetGHKInput(ghk)
	return ghk, nil
}

func unknownPresetError(name string) error {
	return fmt.Errorf("unknown preset %q (known: %s)", name, strings.Join(config.PresetNames(), ", "))
}

// presetChosen reports whether the user picked the inputs explicitly.
func presetChosen() bool {
	return presetName != "" || configPath != ""
}

// validateSweepParameter rejects names GHKInput.Set does not know.
func validateSweepParameter(cmd *cobra.Command, name string) error {
	for _, p := range potential.Parameters {
		if p == name {
			return nil
		}
	}
	return fmt.Errorf("%s: unknown parameter %q (known: %s)", cmd.Name(), name, strings.Join(potential.Parameters, ", "))
}
