package client

import (
	"encoding/json"

	pkgerrors "github.com/pkg/errors"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/types"
)

func (c *Client) Nernst(req types.NernstRequest) (potential.Result, error) {
	ret, err := c.Post("/nernst", req)
	if err != nil {
		return potential.Result{}, pkgerrors.Wrapf(err, "failed to compute nernst potential")
	}
	return parseResult(ret)
}

func (c *Client) GHK(req types.GHKRequest) (potential.Result, error) {
	ret, err := c.Post("/ghk", req)
	if err != nil {
		return potential.Result{}, pkgerrors.Wrapf(err, "failed to compute GHK potential")
	}
	return parseResult(ret)
}

func (c *Client) Sweep(req types.SweepRequest) (*types.SweepResponse, error) {
	ret, err := c.Post("/sweep", req)
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to run sweep")
	}

	var resp types.SweepResponse
	if err := json.Unmarshal([]byte(ret), &resp); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal sweep")
	}
	return &resp, nil
}

func (c *Client) GetProfile() (*config.RawFileConfig, error) {
	ret, err := c.Get("/profile")
	if err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to get profile")
	}

	var conf config.RawFileConfig
	if err := json.Unmarshal([]byte(ret), &conf); err != nil {
		return nil, pkgerrors.Wrapf(err, "failed to unmarshal profile")
	}
	return &conf, nil
}

func (c *Client) GetProfilePotential() (potential.Result, error) {
	ret, err := c.Get("/profile/potential")
	if err != nil {
		return potential.Result{}, pkgerrors.Wrapf(err, "failed to get profile potential")
	}
	return parseResult(ret)
}

func (c *Client) GetVersion() (string, error) {
	ret, err := c.Get("/version")
	if err != nil {
		return "", pkgerrors.Wrapf(err, "failed to get version")
	}

	var v string
	if err := json.Unmarshal([]byte(ret), &v); err != nil {
		return "", pkgerrors.Wrapf(err, "failed to unmarshal version")
	}
	return v, nil
}

func parseResult(ret string) (potential.Result, error) {
	var r potential.Result
	if err := json.Unmarshal([]byte(ret), &r); err != nil {
		return potential.Result{}, pkgerrors.Wrapf(err, "failed to unmarshal result")
	}
	return r, nil
}
