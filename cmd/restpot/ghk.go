package main

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/types"
)

func NewGHKCommand() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:     "ghk",
		GroupID: gCalculate,
		Short:   "Compute the GHK membrane potential for K, Na and Cl",
		Long: `Compute the Goldman-Hodgkin-Katz membrane potential for potassium, sodium
and chloride:

  Vm = RT/F * 1000 * ln((P_K*K_out + P_Na*Na_out + P_Cl*Cl_in) /
                        (P_K*K_in  + P_Na*Na_in  + P_Cl*Cl_out))   [mV]

Chloride is anionic, so its in/out terms are swapped. Only the combined
denominator is checked; it must not be zero.
The default inputs come from the "main" preset, without its calcium term.`,
		Example: `  restpot ghk
  restpot ghk --K_out 20
  restpot ghk --preset ghk-ko --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadProfile(config.PresetMain)
			if err != nil {
				return err
			}
			conf.SetCalcium(config.CalciumNone)

			return runGHK(cmd, &in, conf, "ghk")
		},
	}

	f := cmd.Flags()
	addConstantFlags(&in, f)
	addGHKFlags(&in, f, false)

	return cmd
}

func NewGHK4Command() *cobra.Command {
	var in inputFlags

	cmd := &cobra.Command{
		Use:     "ghk4",
		GroupID: gCalculate,
		Short:   "Compute the GHK membrane potential for K, Na, Cl and Ca",
		Long: `Compute the Goldman-Hodgkin-Katz membrane potential with an added calcium
term. Two calcium treatments are available:

  linear  Ca weighted like K and Na: P_Ca*Ca_out over P_Ca*Ca_in
  sqrt    Ca weighted by sqrt(Ca_out) over sqrt(Ca_in), and P_K replaced by
          the mean of three potassium estimates (--k-estimates)

Neither is the textbook divalent GHK treatment.
The default inputs come from the "main" preset for linear and from the
"ghk-pk" preset for sqrt.`,
		Example: `  restpot ghk4
  restpot ghk4 --calcium sqrt
  restpot ghk4 --calcium sqrt --k-estimates 0.008,0.01,0.012 --T 294.15`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			calcium := strings.ToLower(strings.TrimSpace(in.calcium))
			preset := config.PresetMain
			if calcium == string(potential.CalciumSqrt) && !presetChosen() {
				preset = config.PresetGHKpK
			}
			conf, err := loadProfile(preset)
			if err != nil {
				return err
			}
			if !in.changed("calcium") && conf.GHKInput().Ca == nil {
				conf.SetCalcium(string(potential.CalciumLinear))
			}
			if in.changed("calcium") && calcium == config.CalciumNone {
				return fmt.Errorf("ghk4 needs a calcium term; use 'restpot ghk' for the 3-ion form")
			}

			return runGHK(cmd, &in, conf, "ghk4")
		},
	}

	f := cmd.Flags()
	addConstantFlags(&in, f)
	addGHKFlags(&in, f, true)

	return cmd
}

func runGHK(cmd *cobra.Command, in *inputFlags, conf config.Config, name string) error {
	consts := in.applyConstants(conf)
	ghk, err := in.applyGHK(conf)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"calculator": name,
		"calcium":    ghk.Calcium,
		"K":          ghk.K,
		"Na":         ghk.Na,
		"Cl":         ghk.Cl,
	}).Debug("computing GHK potential")

	var r potential.Result
	if in.remote {
		r, err = newAPIClient().GHK(types.GHKRequest{Constants: &consts, Input: ghk})
	} else {
		r, err = potential.Compute(consts, ghk)
	}
	if err != nil {
		return err
	}

	if in.jsonOutput {
		return printJSON(cmd, resultJSON{
			Calculator:  name,
			PotentialMV: r.Value,
			Constants:   consts,
			GHK:         &ghk,
			Remote:      in.remote,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Membrane potential: %s\n", bold("%.2f mV", r.Value))
	return nil
}
