package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/restpot/restpot/pkg/client"
	"github.com/restpot/restpot/pkg/potential"
)

var (
	logLevel       = "info"
	unixSocketPath = filepath.Join(os.TempDir(), "restpot.sock")
	configPath     = ""
	presetName     = ""
)

var (
	gCalculate    = "Calculate:"
	gService      = "Service:"
	commandGroups = []string{
		gCalculate,
		gService,
	}
)

func setupLogger() error {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("failed to parse log level: %v", err)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{})
	if term.IsTerminal(int(os.Stderr.Fd())) {
		logrus.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: time.Kitchen,
		})
	}

	return nil
}

func handleCmdError(err error) {
	switch {
	case errors.Is(err, client.ErrDaemonNotRunning):
		fmt.Fprintln(os.Stderr, "\nError: restpot daemon is not running")
		fmt.Fprintf(os.Stderr, "Start it with 'restpot daemon' or check --daemon-socket (%s)\n", unixSocketPath)
	case errors.Is(err, client.ErrPermissionDenied):
		fmt.Fprintln(os.Stderr, "\nError: Permission Denied")
		fmt.Fprintln(os.Stderr, "  - Restart the daemon with '--allow-non-root-access' to grant permissions to your user")
	case errors.Is(err, potential.ErrInvalidInput):
		fmt.Fprintln(os.Stderr, "\nThe inputs are outside the domain of the equation.")
		fmt.Fprintln(os.Stderr, "Concentrations passed to the Nernst equation must be positive and the valence non-zero.")
	case errors.Is(err, potential.ErrDivisionByZero):
		fmt.Fprintln(os.Stderr, "\nThe weighted GHK denominator is zero.")
		fmt.Fprintln(os.Stderr, "At least one permeability and its matching concentration must be non-zero.")
	}
}

func main() {
	cmd := NewCommand()
	if err := cmd.Execute(); err != nil {
		handleCmdError(err)
		os.Exit(1)
	}
}

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "restpot",
		Short: "restpot computes membrane equilibrium and resting potentials",
		Long: `restpot computes membrane equilibrium and resting potentials from ion
permeabilities and concentrations, using the Nernst equation and the
Goldman-Hodgkin-Katz equation with 3 or 4 ion species.

Inputs come from a built-in preset (see 'restpot profile presets'), optionally
overlaid by a JSON profile (--profile) and by per-value flags.`,
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return setupLogger()
		},
	}

	globalFlags := cmd.PersistentFlags()
	globalFlags.StringVarP(&logLevel, "log-level", "l", "info", "log level (trace, debug, info, warn, error, fatal, panic)")
	globalFlags.StringVar(&configPath, "profile", configPath, "JSON profile file; missing fields fall back to the preset")
	globalFlags.StringVar(&presetName, "preset", presetName, "built-in preset to start from (default depends on the command)")
	globalFlags.StringVar(&unixSocketPath, "daemon-socket", unixSocketPath, "restpot daemon unix socket path")

	for _, i := range commandGroups {
		cmd.AddGroup(&cobra.Group{
			ID:    i,
			Title: i,
		})
	}

	cmd.AddCommand(
		NewNernstCommand(),
		NewGHKCommand(),
		NewGHK4Command(),
		NewSweepCommand(),
		NewProfileCommand(),
		NewDaemonCommand(),
		NewWatchCommand(),
		NewVersionCommand(),
	)

	return cmd
}
