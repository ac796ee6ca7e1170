package main

import (
	"encoding/json"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/restpot/restpot/pkg/client"
	"github.com/restpot/restpot/pkg/potential"
)

// resultJSON is the --json form of a single-value calculation.
type resultJSON struct {
	Calculator  string              `json:"calculator"`
	PotentialMV float64             `json:"potentialMV"`
	Constants   potential.Constants `json:"constants"`
	Nernst      *potential.Ion      `json:"nernst,omitempty"`
	GHK         *potential.GHKInput `json:"ghk,omitempty"`
	Remote      bool                `json:"remote,omitempty"`
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newAPIClient() *client.Client {
	return client.NewClient(unixSocketPath)
}

func bold(format string, a ...interface{}) string {
	return color.New(color.Bold).Sprintf(format, a...)
}
