package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/sweep"
	"github.com/restpot/restpot/pkg/types"
)

func NewSweepCommand() *cobra.Command {
	var (
		in     inputFlags
		vary   string
		values []float64
	)

	cmd := &cobra.Command{
		Use:     "sweep",
		GroupID: gCalculate,
		Short:   "Compute the GHK potential across a list of values of one input",
		Long: `Compute the GHK membrane potential once per sample value of one input,
holding every other input fixed. Rows are printed in input order. A sample
that fails (e.g. a zero denominator) prints its value and the error, and the
sweep continues.

The default inputs come from the "ghk-ko" preset, which varies K_out.`,
		Example: `  restpot sweep
  restpot sweep --vary Na_out --values 50,100,145
  restpot sweep --preset main --vary Ca_out --values 0.5,1,1.8,2.5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadProfile(config.PresetGHKKo)
			if err != nil {
				return err
			}

			consts := in.applyConstants(conf)
			ghk, err := in.applyGHK(conf)
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("vary") {
				vary = conf.SweepParameter()
			}
			if err := validateSweepParameter(cmd, vary); err != nil {
				return err
			}
			if !cmd.Flags().Changed("values") {
				values = conf.SweepValues()
			}
			// Surface a parameter the inputs cannot take (e.g. Ca_out on a
			// 3-ion profile) once, instead of on every row.
			probe := ghk.Clone()
			if err := probe.Set(vary, 0); err != nil {
				return err
			}

			var rows []sweep.Row
			if in.remote {
				resp, err := newAPIClient().Sweep(types.SweepRequest{
					Constants: &consts,
					Input:     ghk,
					Parameter: vary,
					Values:    values,
				})
				if err != nil {
					return err
				}
				rows = resp.SweepRows()
			} else {
				rows = sweep.Run(values, func(x float64) (potential.Result, error) {
					sample := ghk.Clone()
					if err := sample.Set(vary, x); err != nil {
						return potential.Result{}, err
					}
					return potential.Compute(consts, sample)
				})
			}

			logrus.WithFields(logrus.Fields{
				"parameter":  vary,
				"samples":    len(rows),
				"failed":     sweep.Failed(rows),
				"increasing": sweep.Monotonic(rows),
			}).Debug("sweep finished")

			if in.jsonOutput {
				return printJSON(cmd, types.SweepResponse{
					Parameter:  vary,
					Rows:       types.NewSweepRows(rows),
					Increasing: sweep.Monotonic(rows),
				})
			}

			sweep.Print(cmd.OutOrStdout(), vary, rows)
			return nil
		},
	}

	f := cmd.Flags()
	addConstantFlags(&in, f)
	addGHKFlags(&in, f, true)
	f.StringVar(&vary, "vary", "", "input to vary, e.g. K_out (default from the profile)")
	f.Float64SliceVar(&values, "values", nil, "ordered sample values (default from the profile)")

	return cmd
}
