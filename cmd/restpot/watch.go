package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/events"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/scheduler"
)

func NewWatchCommand() *cobra.Command {
	var (
		in       inputFlags
		cronExpr string
	)

	cmd := &cobra.Command{
		Use:     "watch",
		GroupID: gService,
		Short:   "Recompute the GHK potential of a profile on a schedule",
		Long: `Reload the profile and print its GHK membrane potential on a cron schedule,
until interrupted. Edits to the --profile file are picked up on the next run.
A profile that fails to load is retried a few times before that run is skipped.

With --remote, print the potentials a running daemon publishes instead (see
'restpot daemon --recompute-cron').`,
		Example: `  restpot watch --profile cell.json
  restpot watch --profile cell.json --cron "*/30 * * * * *"
  restpot watch --remote`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.remote {
				return followDaemon(cmd)
			}

			conf, err := loadProfile(config.PresetMain)
			if err != nil {
				return err
			}

			reload := func() error {
				if configPath != "" {
					if err := conf.Load(); err != nil {
						return err
					}
				}
				return in.applyConstants(conf).Validate()
			}

			task := func() error {
				consts := in.applyConstants(conf)
				ghk, err := in.applyGHK(conf)
				if err != nil {
					return err
				}
				r, err := potential.Compute(consts, ghk)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  Membrane potential: %s\n",
					time.Now().Format(time.DateTime), bold("%.2f mV", r.Value))
				return nil
			}

			s := scheduler.New(task, reload, func(err error) {
				logrus.Errorf("watch: %v", err)
			}).Sequential()
			if err := s.Schedule(cronExpr); err != nil {
				return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
			}

			// Print once right away instead of waiting for the first tick.
			if err := reload(); err != nil {
				return err
			}
			if err := task(); err != nil {
				return err
			}

			s.Start()

			sigc := make(chan os.Signal, 1)
			signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
			defer signal.Stop(sigc)

			sig := <-sigc
			logrus.Debugf("caught signal \"%s\": stopping", sig)
			s.Stop()
			<-s.Done()

			return nil
		},
	}

	f := cmd.Flags()
	addConstantFlags(&in, f)
	addGHKFlags(&in, f, true)
	f.StringVar(&cronExpr, "cron", "@every 10s", "cron expression (seconds optional) or descriptor")

	return cmd
}

// followDaemon prints potential events from the daemon until interrupted or
// the daemon goes away.
func followDaemon(cmd *cobra.Command) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ch, err := newAPIClient().SubscribeEvents(ctx)
	if err != nil {
		return err
	}

	for ev := range ch {
		switch ev.Name {
		case events.PotentialRecomputed:
			p, err := events.DecodeAs[events.PotentialEvent](ev)
			if err != nil {
				logrus.Warnf("failed to decode %s event: %v", ev.Name, err)
				continue
			}
			ts := time.Unix(p.Ts, 0).Format(time.DateTime)
			if p.Error != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  Error: %s\n", ts, p.Error)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  Membrane potential: %s\n", ts, bold("%.2f mV", p.Value))
		case events.ProfileReloaded:
			logrus.Info("daemon reloaded its profile")
		default:
			logrus.Debugf("ignoring event %q", ev.Name)
		}
	}

	if ctx.Err() == nil {
		logrus.Warn("daemon closed the event stream")
	}
	return nil
}
