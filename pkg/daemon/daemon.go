package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/c2h5oh/datasize"
	"github.com/gin-gonic/gin"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restpot/restpot/pkg/cache"
	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/events"
	"github.com/restpot/restpot/pkg/scheduler"
)

var (
	conf   config.Config
	sseHub = events.NewEventHub()

	maxRequestBytes = int64(datasize.MB)

	resultCache cache.Cache = cache.NewMemory(defaultCacheSize)
)

const defaultCacheSize = 1024

// Options configures Run.
type Options struct {
	// ConfigPath is the JSON profile served by GET /profile and used when a
	// request omits its constants.
	ConfigPath string
	// Base is the preset that fills fields missing from the profile.
	Base *config.RawFileConfig

	UnixSocketPath string
	AllowNonRoot   bool

	// MaxRequestSize caps request bodies. Zero keeps the 1MB default.
	MaxRequestSize datasize.ByteSize

	// RedisAddr, if set, caches sweep responses in Redis instead of memory.
	RedisAddr string
	// CacheTTL is how long Redis keeps a cached response.
	CacheTTL time.Duration
	// CacheSize is the number of responses the in-memory cache holds.
	CacheSize int

	// RecomputeCron, if set, recomputes the profile potential on this
	// schedule and logs it.
	RecomputeCron string
}

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.Use(limitBody(maxRequestBytes))
	router.GET("/profile", getProfile)
	router.GET("/profile/potential", getProfilePotential)
	router.POST("/nernst", postNernst)
	router.POST("/ghk", postGHK)
	router.POST("/sweep", postSweep)
	router.GET("/version", getVersion)
	router.GET("/events", getEvents)

	return router
}

func Run(opts Options) error {
	if opts.MaxRequestSize > 0 {
		maxRequestBytes = int64(opts.MaxRequestSize.Bytes())
	}
	logrus.Infof("request bodies are limited to %s", datasize.ByteSize(maxRequestBytes).HumanReadable())
	if opts.RedisAddr != "" {
		rc := cache.NewRedis(opts.RedisAddr, opts.CacheTTL)
		defer func() {
			if err := rc.Close(); err != nil {
				logrus.Warnf("failed to close redis client: %v", err)
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rc.Ping(ctx)
		cancel()
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to reach redis at %s", opts.RedisAddr)
		}
		resultCache = rc
		logrus.WithFields(logrus.Fields{
			"addr": opts.RedisAddr,
			"ttl":  opts.CacheTTL,
		}).Info("caching sweep results in redis")
	} else if opts.CacheSize > 0 {
		resultCache = cache.NewMemory(opts.CacheSize)
	}

	router := setupRoutes()

	f, err := config.NewFile(opts.ConfigPath, opts.Base)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to parse profile during startup")
	}
	conf = f
	logrus.WithFields(f.LogrusFields()).Infof("profile loaded")

	// Receive SIGHUP to reload the profile
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			err := conf.Load()
			if err != nil {
				logrus.Errorf("failed to reload profile: %v", err)
				continue
			}
			logrus.WithFields(f.LogrusFields()).Infof("profile reloaded")
			sseHub.Publish(events.ProfileReloaded, events.ProfileEvent{
				Path: opts.ConfigPath,
				Ts:   time.Now().Unix(),
			})
		}
	}()

	srv := &http.Server{
		Handler: router,
	}

	// A stale socket from a previous run would make Listen fail.
	if err := os.Remove(opts.UnixSocketPath); err != nil && !os.IsNotExist(err) {
		return pkgerrors.Wrapf(err, "failed to remove stale socket %s", opts.UnixSocketPath)
	}

	l, err := net.Listen("unix", opts.UnixSocketPath)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to listen on %s", opts.UnixSocketPath)
	}

	if opts.AllowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", opts.UnixSocketPath)
		err = os.Chmod(opts.UnixSocketPath, 0777)
		if err != nil {
			return pkgerrors.Wrapf(err, "failed to chmod %s", opts.UnixSocketPath)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	var sched *scheduler.Scheduler
	if opts.RecomputeCron != "" {
		sched = scheduler.New(recomputeProfile, nil, func(err error) {
			logrus.Errorf("scheduled recompute failed: %v", err)
		})
		if err := sched.Schedule(opts.RecomputeCron); err != nil {
			return pkgerrors.Wrapf(err, "invalid recompute schedule %q", opts.RecomputeCron)
		}
		sched.Start()
	}

	// Handle common process-killing signals, so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	// Wait for a SIGINT or SIGTERM:
	sig := <-sigc
	logrus.Infof("caught signal \"%s\": shutting down.", sig)

	if sched != nil {
		sched.Stop()
	}

	// Ends open /events streams so Shutdown does not wait on them.
	sseHub.Close()

	logrus.Info("shutting down http server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err = srv.Shutdown(ctx)
	if err != nil {
		logrus.Errorf("failed to shutdown http server: %v", err)
	}
	cancel()

	logrus.Info("exiting")
	return nil
}
