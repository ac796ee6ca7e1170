package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/types"
)

func NewNernstCommand() *cobra.Command {
	var (
		in      inputFlags
		valence int
		ionIn   float64
		ionOut  float64
	)

	cmd := &cobra.Command{
		Use:     "nernst",
		GroupID: gCalculate,
		Short:   "Compute the Nernst equilibrium potential of one ion",
		Long: `Compute the Nernst equilibrium potential of one ion species:

  E = RT/(zF) * 1000 * ln(out/in)   [mV]

Concentrations must be positive and the valence non-zero.
The default inputs come from the "nernst" preset.`,
		Example: `  restpot nernst
  restpot nernst --F 96485 --in 140 --out 5
  restpot nernst -z -1 --in 10 --out 120`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadProfile(config.PresetNernst)
			if err != nil {
				return err
			}

			consts := in.applyConstants(conf)
			ion := conf.NernstIon()
			if cmd.Flags().Changed("valence") {
				ion.Valence = valence
			}
			if cmd.Flags().Changed("in") {
				ion.In = ionIn
			}
			if cmd.Flags().Changed("out") {
				ion.Out = ionOut
			}

			logrus.WithFields(logrus.Fields{
				"z":   ion.Valence,
				"in":  ion.In,
				"out": ion.Out,
			}).Debug("computing nernst potential")

			var r potential.Result
			if in.remote {
				r, err = newAPIClient().Nernst(types.NernstRequest{
					Constants: &consts,
					Valence:   ion.Valence,
					In:        ion.In,
					Out:       ion.Out,
				})
			} else {
				r, err = potential.Nernst(consts, ion.Valence, ion.In, ion.Out)
			}
			if err != nil {
				return err
			}

			if in.jsonOutput {
				return printJSON(cmd, resultJSON{
					Calculator:  "nernst",
					PotentialMV: r.Value,
					Constants:   consts,
					Nernst:      &ion,
					Remote:      in.remote,
				})
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Equilibrium potential: %s\n", bold("%.2f mV", r.Value))
			return nil
		},
	}

	f := cmd.Flags()
	addConstantFlags(&in, f)
	f.IntVarP(&valence, "valence", "z", 0, "ion charge number, e.g. 1 for K+, -1 for Cl-, 2 for Ca2+")
	f.Float64Var(&ionIn, "in", 0, "intracellular concentration, mM")
	f.Float64Var(&ionOut, "out", 0, "extracellular concentration, mM")

	return cmd
}
