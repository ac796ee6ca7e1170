package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/restpot/restpot/pkg/config"
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/types"
)

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	color.NoColor = true
	presetName = ""
	configPath = ""
	logLevel = "info"
	maxRequestSize = "1MB"

	var out bytes.Buffer
	cmd := NewCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	err := cmd.Execute()

	return out.String(), err
}

func TestCalculateCommands(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "nernst preset",
			args: []string{"nernst"},
			want: "Equilibrium potential: -1466.08 mV\n",
		},
		{
			name: "nernst potassium",
			args: []string{"nernst", "--F", "96485", "--in", "140", "--out", "5"},
			want: "Equilibrium potential: -89.01 mV\n",
		},
		{
			name: "nernst anion",
			args: []string{"nernst", "--F", "96485", "-z", "-1", "--in", "5", "--out", "140"},
			want: "Equilibrium potential: -89.01 mV\n",
		},
		{
			name: "ghk 3-ion",
			args: []string{"ghk"},
			want: "Membrane potential: -67.93 mV\n",
		},
		{
			name: "ghk4 linear",
			args: []string{"ghk4"},
			want: "Membrane potential: -67.90 mV\n",
		},
		{
			name: "ghk4 sqrt",
			args: []string{"ghk4", "--calcium", "sqrt"},
			want: "Membrane potential: 5.13 mV\n",
		},
		{
			name: "profile potential",
			args: []string{"--preset", "ghk-pk", "profile", "potential"},
			want: "Membrane potential: 5.13 mV\n",
		},
		{
			name: "ghk4 sqrt is case-insensitive",
			args: []string{"ghk4", "--calcium", " SQRT"},
			want: "Membrane potential: 5.13 mV\n",
		},
		{
			name: "ghk with flag override",
			args: []string{"ghk", "--preset", "ghk-ko", "--K_out", "25"},
			want: "Membrane potential: -39.74 mV\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(t, tt.args...)
			if err != nil {
				t.Fatalf("%v returned error: %v", tt.args, err)
			}
			if got != tt.want {
				t.Errorf("%v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}
}

func TestCalculateErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{
			name: "nernst zero concentration",
			args: []string{"nernst", "--in", "0"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "ghk zero denominator",
			args: []string{"ghk", "--P_K", "0", "--P_Na", "0", "--P_Cl", "0"},
			want: potential.ErrDivisionByZero,
		},
		{
			name: "sqrt with two estimates",
			args: []string{"ghk4", "--calcium", "sqrt", "--k-estimates", "1,2"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "unknown calcium mode",
			args: []string{"ghk4", "--calcium", "quadratic"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "ghk zero faraday",
			args: []string{"ghk", "--F", "0"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "ghk negative temperature",
			args: []string{"ghk", "--T", "-5"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "nernst zero gas constant",
			args: []string{"nernst", "--R", "0"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "ghk non-finite result",
			args: []string{"ghk", "--K_out", "-1000", "--P_K", "2"},
			want: potential.ErrInvalidInput,
		},
		{
			name: "sweep P_K in sqrt mode",
			args: []string{"sweep", "--preset", "ghk-pk", "--vary", "P_K", "--values", "0.001,1,100"},
			want: potential.ErrUnknownParameter,
		},
		{
			name: "sweep calcium on 3-ion profile",
			args: []string{"sweep", "--vary", "Ca_out"},
			want: potential.ErrUnknownParameter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if !errors.Is(err, tt.want) {
				t.Errorf("%v error = %v, want %v", tt.args, err, tt.want)
			}
		})
	}

	if _, err := execute(t, "ghk4", "--calcium", "none"); err == nil {
		t.Errorf("ghk4 --calcium none should fail")
	}
	if _, err := execute(t, "sweep", "--vary", "K_mid"); err == nil {
		t.Errorf("sweep with an unknown parameter should fail")
	}
	if _, err := execute(t, "ghk", "--preset", "nope"); err == nil {
		t.Errorf("unknown preset should fail")
	}
}

func TestSweepCommand(t *testing.T) {
	got, err := execute(t, "sweep")
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	want := []string{
		"K_out (mM) | Membrane Potential (mV)",
		strings.Repeat("-", 35),
		"               -61.71",
		"               -54.21",
		"               -48.42",
		"               -39.74",
		"               -33.29",
		"               -10.47",
		"                -0.94",
		"                 3.43",
		"                 5.98",
		"                 8.29",
	}
	if len(lines) != len(want) {
		t.Fatalf("sweep wrote %d lines, want %d:\n%s", len(lines), len(want), got)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestSweepCommandContinuesPastFailures(t *testing.T) {
	got, err := execute(t, "sweep",
		"--P_Na", "0", "--P_Cl", "0",
		"--vary", "P_K", "--values", "1,0,2")
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("sweep wrote %d lines, want 5:\n%s", len(lines), got)
	}
	if want := "         0 | Error: denominator is zero; check input values: division by zero"; lines[3] != want {
		t.Errorf("failure row = %q, want %q", lines[3], want)
	}
	// Only K terms remain, so the potential does not depend on P_K.
	if lines[2] != lines[4] {
		t.Errorf("rows around the failure differ: %q vs %q", lines[2], lines[4])
	}
}

func TestSweepCommandJSON(t *testing.T) {
	got, err := execute(t, "sweep", "--values", "5,220", "--json")
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}

	var resp types.SweepResponse
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatalf("failed to decode sweep JSON: %v\n%s", err, got)
	}
	if resp.Parameter != "K_out" || len(resp.Rows) != 2 || !resp.Increasing {
		t.Errorf("unexpected sweep response: %+v", resp)
	}
	for _, r := range resp.Rows {
		if r.Value == nil || r.Error != "" {
			t.Errorf("row %v should have succeeded: %+v", r.Sample, r)
		}
	}
}

func TestSweepCommandJSONNonFinite(t *testing.T) {
	got, err := execute(t, "sweep", "--values", "5,-1000,220", "--json")
	if err != nil {
		t.Fatalf("sweep returned error: %v", err)
	}

	var resp types.SweepResponse
	if err := json.Unmarshal([]byte(got), &resp); err != nil {
		t.Fatalf("failed to decode sweep JSON: %v\n%s", err, got)
	}
	if len(resp.Rows) != 3 {
		t.Fatalf("sweep returned %d rows, want 3: %+v", len(resp.Rows), resp.Rows)
	}
	if bad := resp.Rows[1]; bad.Value != nil || bad.Error == "" || bad.Kind != types.KindInvalidInput {
		t.Errorf("row -1000 should fail with %s: %+v", types.KindInvalidInput, bad)
	}
	for _, i := range []int{0, 2} {
		if r := resp.Rows[i]; r.Value == nil || r.Error != "" {
			t.Errorf("row %v should have succeeded: %+v", r.Sample, r)
		}
	}
}

func TestProfileInitRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pk.json")

	if _, err := execute(t, "--preset", "ghk-pk", "profile", "init", path); err != nil {
		t.Fatalf("profile init returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("profile was not written: %v", err)
	}

	// The written profile is complete, so any preset underneath gives the
	// same result.
	got, err := execute(t, "--profile", path, "--preset", "main", "ghk4")
	if err != nil {
		t.Fatalf("ghk4 returned error: %v", err)
	}
	if want := "Membrane potential: 5.13 mV\n"; got != want {
		t.Errorf("ghk4 with written profile = %q, want %q", got, want)
	}
}

func TestProfileShowAndPresets(t *testing.T) {
	got, err := execute(t, "profile", "presets")
	if err != nil {
		t.Fatalf("profile presets returned error: %v", err)
	}
	if want := strings.Join(config.PresetNames(), "\n") + "\n"; got != want {
		t.Errorf("profile presets = %q, want %q", got, want)
	}

	got, err = execute(t, "--preset", "ghk-ko", "profile", "show")
	if err != nil {
		t.Fatalf("profile show returned error: %v", err)
	}
	var raw config.RawFileConfig
	if err := json.Unmarshal([]byte(got), &raw); err != nil {
		t.Fatalf("failed to decode profile: %v\n%s", err, got)
	}
	if raw.T == nil || *raw.T != 294.15 {
		t.Errorf("profile T = %v, want 294.15", raw.T)
	}
	if raw.Calcium == nil || *raw.Calcium != config.CalciumNone {
		t.Errorf("profile calcium = %v, want %q", raw.Calcium, config.CalciumNone)
	}
}

func TestDaemonRejectsBadRequestSize(t *testing.T) {
	if _, err := execute(t, "daemon", "--max-request-size", "lots"); err == nil {
		t.Errorf("daemon should reject an unparsable --max-request-size")
	}
	if _, err := execute(t, "daemon", "--preset", "nope"); err == nil {
		t.Errorf("daemon should reject an unknown preset")
	}
}

func TestRemoteWithoutDaemon(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "missing.sock")
	_, err := execute(t, "--daemon-socket", sock, "nernst", "--remote")
	if err == nil {
		t.Fatalf("remote nernst without a daemon should fail")
	}
}
