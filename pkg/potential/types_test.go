package potential

import (
	"errors"
	"testing"
)

func TestParseCalciumMode(t *testing.T) {
	tests := []struct {
		in      string
		want    CalciumMode
		wantErr bool
	}{
		{in: "linear", want: CalciumLinear},
		{in: " SQRT ", want: CalciumSqrt},
		{in: "", wantErr: true},
		{in: "divalent", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCalciumMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCalciumMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseCalciumMode(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestConstantsValidate(t *testing.T) {
	if err := DefaultConstants().Validate(); err != nil {
		t.Errorf("default constants should be valid: %v", err)
	}
	for _, c := range []Constants{
		{R: 0, T: 310, F: 96485},
		{R: 8.314, T: -1, F: 96485},
		{R: 8.314, T: 310, F: 0},
	} {
		if err := c.Validate(); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidInput", c, err)
		}
	}
}

func TestGHKInputSet(t *testing.T) {
	in := GHKInput{}
	for i, name := range []string{"K_in", "K_out", "P_K", "Na_in", "Na_out", "P_Na", "Cl_in", "Cl_out", "P_Cl"} {
		if err := in.Set(name, float64(i+1)); err != nil {
			t.Fatalf("Set(%s) unexpected error: %v", name, err)
		}
	}
	want := GHKInput{
		K:  Ion{In: 1, Out: 2, Permeability: 3},
		Na: Ion{In: 4, Out: 5, Permeability: 6},
		Cl: Ion{In: 7, Out: 8, Permeability: 9},
	}
	if in.K != want.K || in.Na != want.Na || in.Cl != want.Cl {
		t.Errorf("Set() produced %+v, want %+v", in, want)
	}

	if err := in.Set("Ca_out", 1.8); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set(Ca_out) without calcium = %v, want ErrUnknownParameter", err)
	}
	in.Ca = &Ion{}
	if err := in.Set("Ca_out", 1.8); err != nil || in.Ca.Out != 1.8 {
		t.Errorf("Set(Ca_out) = %v, Ca = %+v", err, in.Ca)
	}
	if err := in.Set("Mg_out", 1); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set(Mg_out) = %v, want ErrUnknownParameter", err)
	}

	// The sqrt calcium mode averages kEstimates instead of using P_K.
	in.Calcium = CalciumSqrt
	if err := in.Set("P_K", 5); !errors.Is(err, ErrUnknownParameter) {
		t.Errorf("Set(P_K) in sqrt mode = %v, want ErrUnknownParameter", err)
	}
	if in.K.Permeability != 3 {
		t.Errorf("Set(P_K) in sqrt mode changed P_K to %v", in.K.Permeability)
	}
	in.Calcium = CalciumLinear
	if err := in.Set("P_K", 5); err != nil || in.K.Permeability != 5 {
		t.Errorf("Set(P_K) in linear mode = %v, P_K = %v", err, in.K.Permeability)
	}
}

func TestGHKInputClone(t *testing.T) {
	orig := GHKInput{Ca: &Ion{Out: 1.8}, KEstimates: []float64{1, 2, 3}}
	cp := orig.Clone()
	cp.Ca.Out = 2
	cp.KEstimates[0] = 9

	if orig.Ca.Out != 1.8 || orig.KEstimates[0] != 1 {
		t.Errorf("Clone() shares state with the original: %+v", orig)
	}
}
