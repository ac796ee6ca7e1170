package daemon

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/restpot/restpot/pkg/cache"
	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/sweep"
	"github.com/restpot/restpot/pkg/types"
	"github.com/restpot/restpot/pkg/version"
)

const (
	jsonContentType = "application/json; charset=utf-8"
	// cacheHeader tells clients whether a sweep was served from the cache.
	cacheHeader = "X-Restpot-Cache"
)

func getProfile(c *gin.Context) {
	fc, err := config.NewRawFileConfigFromConfig(conf)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}
	c.IndentedJSON(http.StatusOK, fc)
}

func getProfilePotential(c *gin.Context) {
	r, err := potential.Compute(conf.Constants(), conf.GHKInput())
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	respond(c, r)
}

func postNernst(c *gin.Context) {
	var req types.NernstRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBadRequest(c, err)
		return
	}

	r, err := potential.Nernst(constants(req.Constants), req.Valence, req.In, req.Out)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	logrus.WithFields(logrus.Fields{
		"valence": req.Valence,
		"in":      req.In,
		"out":     req.Out,
		"mV":      r.Value,
	}).Debug("computed nernst potential")

	respond(c, r)
}

func postGHK(c *gin.Context) {
	var req types.GHKRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBadRequest(c, err)
		return
	}

	r, err := potential.Compute(constants(req.Constants), req.Input)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	respond(c, r)
}

func postSweep(c *gin.Context) {
	var req types.SweepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithBadRequest(c, err)
		return
	}

	// Reject unknown names up front rather than failing every row.
	probe := req.Input.Clone()
	if err := probe.Set(req.Parameter, 0); err != nil {
		abortWithDomainError(c, err)
		return
	}

	consts := constants(req.Constants)
	req.Constants = &consts

	key := ""
	if b, err := json.Marshal(req); err == nil {
		key = cache.Key("sweep", b)
		if v, ok := resultCache.Get(c.Request.Context(), key); ok {
			c.Header(cacheHeader, "hit")
			c.Data(http.StatusOK, jsonContentType, []byte(v))
			return
		}
	}

	rows := sweep.Run(req.Values, func(x float64) (potential.Result, error) {
		in := req.Input.Clone()
		if err := in.Set(req.Parameter, x); err != nil {
			return potential.Result{}, err
		}
		return potential.Compute(consts, in)
	})

	b, err := json.MarshalIndent(types.SweepResponse{
		Parameter:  req.Parameter,
		Rows:       types.NewSweepRows(rows),
		Increasing: sweep.Monotonic(rows),
	}, "", "    ")
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err)
		return
	}

	if key != "" {
		if err := resultCache.Set(c.Request.Context(), key, string(b)); err != nil {
			logrus.WithField("key", key).Warnf("failed to cache sweep: %v", err)
		}
	}

	c.Header(cacheHeader, "miss")
	c.Data(http.StatusOK, jsonContentType, b)
}

// getEvents streams daemon events as server-sent events until the client
// goes away.
func getEvents(c *gin.Context) {
	ch := sseHub.Subscribe()
	defer sseHub.Unsubscribe(ch)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	// Send headers now so clients see the stream open before the first event.
	c.Writer.WriteHeaderNow()
	c.Writer.Flush()

	c.Stream(func(_ io.Writer) bool {
		select {
		case ev, ok := <-ch:
			if !ok {
				return false
			}
			c.SSEvent(ev.Name, string(ev.Data))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}

func getVersion(c *gin.Context) {
	c.IndentedJSON(http.StatusOK, version.Version)
}

// constants falls back to the profile when a request omits them.
func constants(c *potential.Constants) potential.Constants {
	if c != nil {
		return *c
	}
	return conf.Constants()
}

func respond(c *gin.Context, r potential.Result) {
	r, err := potential.Finite(r, nil)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}
	c.IndentedJSON(http.StatusOK, r)
}

func abortWithBadRequest(c *gin.Context, err error) {
	code := http.StatusBadRequest
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		code = http.StatusRequestEntityTooLarge
	}
	c.IndentedJSON(code, types.ErrorResponse{Error: err.Error(), Kind: types.KindBadRequest})
	_ = c.Error(err)
	c.Abort()
}

func abortWithDomainError(c *gin.Context, err error) {
	c.IndentedJSON(http.StatusUnprocessableEntity, types.ErrorResponse{Error: err.Error(), Kind: types.KindOf(err)})
	_ = c.Error(err)
	c.Abort()
}
