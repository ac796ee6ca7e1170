package main

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
)

func NewProfileCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profile",
		GroupID: gCalculate,
		Short:   "Inspect and write input profiles",
		Long: `A profile is a JSON file holding constants, ion permeabilities and
concentrations, the calcium mode and the default sweep. Fields missing from
the file fall back to the selected preset.`,
	}

	cmd.AddCommand(
		newProfilePresetsCommand(),
		newProfileShowCommand(),
		newProfileInitCommand(),
		newProfilePotentialCommand(),
	)

	return cmd
}

func newProfilePresetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "presets",
		Short: "List the built-in presets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range config.PresetNames() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

func newProfileShowCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective profile as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if remote {
				raw, err := newAPIClient().GetProfile()
				if err != nil {
					return err
				}
				return printJSON(cmd, raw)
			}

			conf, err := loadProfile(config.PresetMain)
			if err != nil {
				return err
			}
			raw, err := config.NewRawFileConfigFromConfig(conf)
			if err != nil {
				return err
			}
			return printJSON(cmd, raw)
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "show the profile loaded by a running restpot daemon")

	return cmd
}

func newProfileInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init <file>",
		Short: "Write the effective profile to a file",
		Args:  cobra.ExactArgs(1),
		Example: `  restpot profile init cell.json
  restpot --preset ghk-pk profile init pk.json
  restpot --profile old.json profile init complete.json`,
		RunE: func(_ *cobra.Command, args []string) error {
			src, err := loadProfile(config.PresetMain)
			if err != nil {
				return err
			}
			raw, err := config.NewRawFileConfigFromConfig(src)
			if err != nil {
				return err
			}

			f := config.NewFileFromConfig(raw, nil, args[0])
			if err := f.Save(); err != nil {
				return err
			}

			logrus.WithFields(f.LogrusFields()).Infof("wrote profile to %s", args[0])
			return nil
		},
	}
}

func newProfilePotentialCommand() *cobra.Command {
	var remote bool

	cmd := &cobra.Command{
		Use:   "potential",
		Short: "Compute the GHK potential of the effective profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				r   potential.Result
				err error
			)
			if remote {
				r, err = newAPIClient().GetProfilePotential()
			} else {
				var conf *config.File
				conf, err = loadProfile(config.PresetMain)
				if err != nil {
					return err
				}
				r, err = potential.Compute(conf.Constants(), conf.GHKInput())
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Membrane potential: %s\n", bold("%.2f mV", r.Value))
			return nil
		},
	}

	cmd.Flags().BoolVar(&remote, "remote", false, "use the profile loaded by a running restpot daemon")

	return cmd
}
