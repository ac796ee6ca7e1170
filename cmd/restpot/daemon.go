package main

import (
	"fmt"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/daemon"
	"github.com/restpot/restpot/pkg/version"
)

var (
	// allowNonRootAccess indicates whether to allow non-root users to access the restpot daemon.
	allowNonRootAccess = false
	// recomputeCron is the schedule on which the daemon logs the profile potential.
	recomputeCron = ""
	// maxRequestSize caps daemon request bodies, e.g. "1MB".
	maxRequestSize = "1MB"
	// redisAddr, if set, makes the daemon cache sweep results in Redis.
	redisAddr = ""
	cacheTTL  = time.Hour
	cacheSize = 1024
)

// NewDaemonCommand .
func NewDaemonCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "daemon",
		Short:   "Run the restpot daemon in the foreground",
		GroupID: gService,
		Long: `Serve the calculators over HTTP on a unix socket. Other restpot commands
reach it with --remote. The daemon reloads its profile on SIGHUP.`,
		Example: `  restpot daemon --profile cell.json
  restpot daemon --recompute-cron "@every 1m"
  restpot daemon --redis-addr localhost:6379 --cache-ttl 10m`,
		RunE: func(_ *cobra.Command, _ []string) error {
			name := presetName
			if name == "" {
				name = config.PresetMain
			}
			base, ok := config.Preset(name)
			if !ok {
				return unknownPresetError(name)
			}

			var limit datasize.ByteSize
			if err := limit.UnmarshalText([]byte(maxRequestSize)); err != nil {
				return fmt.Errorf("invalid --max-request-size %q: %w", maxRequestSize, err)
			}

			logrus.WithFields(logrus.Fields{
				"version": version.Version,
				"commit":  version.GitCommit,
				"preset":  name,
			}).Info("restpot daemon starting")

			return daemon.Run(daemon.Options{
				ConfigPath:     configPath,
				Base:           base,
				UnixSocketPath: unixSocketPath,
				AllowNonRoot:   allowNonRootAccess,
				RecomputeCron:  recomputeCron,
				MaxRequestSize: limit,
				RedisAddr:      redisAddr,
				CacheTTL:       cacheTTL,
				CacheSize:      cacheSize,
			})
		},
	}

	f := cmd.Flags()

	f.BoolVar(&allowNonRootAccess, "allow-non-root-access", false,
		"Allow non-root users to access the daemon.")
	f.StringVar(&recomputeCron, "recompute-cron", "",
		"Cron expression on which to recompute and log the profile potential, e.g. \"@every 1m\".")
	f.StringVar(&maxRequestSize, "max-request-size", maxRequestSize,
		"Largest accepted request body, e.g. 512KB or 4MB.")
	f.StringVar(&redisAddr, "redis-addr", "",
		"Cache sweep results in the Redis server at this address (host:port) instead of in memory.")
	f.DurationVar(&cacheTTL, "cache-ttl", cacheTTL,
		"How long Redis keeps a cached sweep result.")
	f.IntVar(&cacheSize, "cache-size", cacheSize,
		"Number of sweep results kept by the in-memory cache.")

	return cmd
}
