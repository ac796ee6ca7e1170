package types

import (
	"github.com/restpot/restpot/pkg/potential"
)

// Error kinds carried in ErrorResponse.Kind.
const (
	KindInvalidInput   = "invalid_input"
	KindDivisionByZero = "division_by_zero"
	KindBadRequest     = "bad_request"
)

// NernstRequest is the body of POST /nernst. A nil Constants means "use the
// server profile".
type NernstRequest struct {
	Constants *potential.Constants `json:"constants,omitempty"`
	Valence   int                  `json:"valence"`
	In        float64              `json:"in"`
	Out       float64              `json:"out"`
}

// GHKRequest is the body of POST /ghk.
type GHKRequest struct {
	Constants *potential.Constants `json:"constants,omitempty"`
	Input     potential.GHKInput   `json:"input"`
}

// SweepRequest is the body of POST /sweep.
type SweepRequest struct {
	Constants *potential.Constants `json:"constants,omitempty"`
	Input     potential.GHKInput   `json:"input"`
	Parameter string               `json:"parameter"`
	Values    []float64            `json:"values"`
}

// SweepRow is one sample of a SweepResponse. Value is nil when Error is set.
type SweepRow struct {
	Sample float64  `json:"sample"`
	Value  *float64 `json:"value"`
	Error  string   `json:"error,omitempty"`
	Kind   string   `json:"kind,omitempty"`
}

type SweepResponse struct {
	Parameter  string     `json:"parameter"`
	Rows       []SweepRow `json:"rows"`
	Increasing bool       `json:"increasing"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
