package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/utils/ptr"
)

var _ Config = &File{}

// File is a JSON profile on disk. Fields missing from the file fall back to
// a base profile, which defaults to the "main" preset.
type File struct {
	c        *RawFileConfig
	base     *RawFileConfig
	mu       *sync.RWMutex
	filepath string
}

func NewFile(configPath string, base *RawFileConfig) (*File, error) {
	f := &File{
		base:     orMain(base),
		filepath: configPath,
		mu:       &sync.RWMutex{},
	}
	err := f.Load()
	if err != nil {
		return nil, err
	}

	return f, nil
}

func NewFileFromConfig(c, base *RawFileConfig, configPath string) *File {
	if c == nil {
		c = &RawFileConfig{}
	}

	f := &File{
		c:        c,
		base:     orMain(base),
		mu:       &sync.RWMutex{},
		filepath: configPath,
	}

	return f
}

func orMain(base *RawFileConfig) *RawFileConfig {
	if base == nil {
		return mainPreset()
	}
	return base
}

type RawIon struct {
	Permeability *float64 `json:"permeability,omitempty"`
	In           *float64 `json:"in,omitempty"`
	Out          *float64 `json:"out,omitempty"`
	Valence      *int     `json:"valence,omitempty"`
}

type RawSweep struct {
	Parameter *string   `json:"parameter,omitempty"`
	Values    []float64 `json:"values,omitempty"`
}

type RawFileConfig struct {
	R *float64 `json:"R,omitempty"`
	T *float64 `json:"T,omitempty"`
	F *float64 `json:"F,omitempty"`

	Nernst *RawIon `json:"nernst,omitempty"`

	K  *RawIon `json:"K,omitempty"`
	Na *RawIon `json:"Na,omitempty"`
	Cl *RawIon `json:"Cl,omitempty"`
	Ca *RawIon `json:"Ca,omitempty"`
	// Calcium is "none", "linear" or "sqrt".
	Calcium    *string   `json:"calcium,omitempty"`
	KEstimates []float64 `json:"kEstimates,omitempty"`

	Sweep *RawSweep `json:"sweep,omitempty"`
}

// NewRawFileConfigFromConfig materializes every field of c.
func NewRawFileConfigFromConfig(c Config) (*RawFileConfig, error) {
	if c == nil {
		return nil, pkgerrors.New("config is nil")
	}

	consts := c.Constants()
	n := c.NernstIon()
	in := c.GHKInput()

	raw := &RawFileConfig{
		R:      ptr.To(consts.R),
		T:      ptr.To(consts.T),
		F:      ptr.To(consts.F),
		Nernst: toRawIon(n),
		K:      toRawIon(in.K),
		Na:     toRawIon(in.Na),
		Cl:     toRawIon(in.Cl),
		Sweep: &RawSweep{
			Parameter: ptr.To(c.SweepParameter()),
			Values:    c.SweepValues(),
		},
	}
	if in.Ca == nil {
		raw.Calcium = ptr.To(CalciumNone)
	} else {
		raw.Ca = toRawIon(*in.Ca)
		raw.Calcium = ptr.To(string(in.Calcium))
	}
	if len(in.KEstimates) > 0 {
		raw.KEstimates = in.KEstimates
	}

	return raw, nil
}

func toRawIon(i potential.Ion) *RawIon {
	r := &RawIon{
		Permeability: ptr.To(i.Permeability),
		In:           ptr.To(i.In),
		Out:          ptr.To(i.Out),
	}
	if i.Valence != 0 {
		r.Valence = ptr.To(i.Valence)
	}
	return r
}

func valueOr(v, fallback *float64) float64 {
	if v != nil {
		return *v
	}
	if fallback != nil {
		return *fallback
	}
	return 0
}

func mergeIon(r, base *RawIon) potential.Ion {
	if r == nil {
		r = &RawIon{}
	}
	if base == nil {
		base = &RawIon{}
	}

	ion := potential.Ion{
		Permeability: valueOr(r.Permeability, base.Permeability),
		In:           valueOr(r.In, base.In),
		Out:          valueOr(r.Out, base.Out),
	}
	if r.Valence != nil {
		ion.Valence = *r.Valence
	} else if base.Valence != nil {
		ion.Valence = *base.Valence
	}

	return ion
}

func (f *File) Constants() potential.Constants {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	return potential.Constants{
		R: valueOr(f.c.R, f.base.R),
		T: valueOr(f.c.T, f.base.T),
		F: valueOr(f.c.F, f.base.F),
	}
}

func (f *File) NernstIon() potential.Ion {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	ion := mergeIon(f.c.Nernst, f.base.Nernst)
	if ion.Valence == 0 {
		ion.Valence = 1
	}

	return ion
}

func (f *File) GHKInput() potential.GHKInput {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	in := potential.GHKInput{
		K:  mergeIon(f.c.K, f.base.K),
		Na: mergeIon(f.c.Na, f.base.Na),
		Cl: mergeIon(f.c.Cl, f.base.Cl),
	}

	var mode string
	if f.c.Calcium != nil {
		mode = *f.c.Calcium
	} else if f.base.Calcium != nil {
		mode = *f.base.Calcium
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	if mode != CalciumNone && (f.c.Ca != nil || f.base.Ca != nil) {
		ca := mergeIon(f.c.Ca, f.base.Ca)
		in.Ca = &ca
		in.Calcium = potential.CalciumMode(mode)
		if mode == "" {
			in.Calcium = potential.CalciumLinear
		}
	}

	if f.c.KEstimates != nil {
		in.KEstimates = append([]float64(nil), f.c.KEstimates...)
	} else if f.base.KEstimates != nil {
		in.KEstimates = append([]float64(nil), f.base.KEstimates...)
	}

	return in
}

func (f *File) SweepParameter() string {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Sweep != nil && f.c.Sweep.Parameter != nil {
		return *f.c.Sweep.Parameter
	}
	if f.base.Sweep != nil && f.base.Sweep.Parameter != nil {
		return *f.base.Sweep.Parameter
	}

	return "K_out"
}

func (f *File) SweepValues() []float64 {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c.Sweep != nil && f.c.Sweep.Values != nil {
		return append([]float64(nil), f.c.Sweep.Values...)
	}
	if f.base.Sweep != nil {
		return append([]float64(nil), f.base.Sweep.Values...)
	}

	return nil
}

func (f *File) SetConstants(c potential.Constants) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.R, f.c.T, f.c.F = &c.R, &c.T, &c.F
}

func (f *File) SetNernstIon(i potential.Ion) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Nernst = toRawIon(i)
}

func (f *File) SetGHKInput(in potential.GHKInput) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.K = toRawIon(in.K)
	f.c.Na = toRawIon(in.Na)
	f.c.Cl = toRawIon(in.Cl)
	if in.Ca == nil {
		f.c.Ca = nil
		f.c.Calcium = ptr.To(CalciumNone)
	} else {
		f.c.Ca = toRawIon(*in.Ca)
		f.c.Calcium = ptr.To(string(in.Calcium))
	}
	f.c.KEstimates = append([]float64(nil), in.KEstimates...)
}

// SetCalcium sets the calcium mode ("none", "linear" or "sqrt") without
// touching the calcium concentrations.
func (f *File) SetCalcium(mode string) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.c.Calcium = &mode
}

func (f *File) SetSweep(parameter string, values []float64) {
	if f.c == nil {
		panic("config is nil")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.c.Sweep = &RawSweep{
		Parameter: &parameter,
		Values:    append([]float64(nil), values...),
	}
}

func (f *File) Load() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	fp, err := os.Open(f.filepath)
	if err != nil {
		if os.IsNotExist(err) {
			// If the file does not exist, fall back to the base profile.
			// Do not make f.c a nil.
			f.c = &RawFileConfig{}
			return nil
		}
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	// Since we want to tell if the file is empty, using json.Decoder will
	// not work.
	b, err := io.ReadAll(fp)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to read file %s", f.filepath)
	}

	if strings.TrimSpace(string(b)) == "" {
		f.c = &RawFileConfig{}
		return nil
	}

	conf := RawFileConfig{}
	err = json.Unmarshal(b, &conf)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to unmarshal profile from file %s", f.filepath)
	}
	f.c = &conf

	return nil
}

func (f *File) Save() error {
	f.mu.RLock()
	defer f.mu.RUnlock()

	if f.c == nil {
		return pkgerrors.New("config is nil")
	}
	if f.filepath == "" {
		return pkgerrors.New("profile has no file path")
	}

	fp, err := os.OpenFile(f.filepath, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to open file %s", f.filepath)
	}
	defer func(fp *os.File) {
		err := fp.Close()
		if err != nil {
			logrus.Warnf("failed to close file %s", f.filepath)
		}
	}(fp)

	enc := json.NewEncoder(fp)
	enc.SetIndent("", "  ")
	err = enc.Encode(f.c)
	if err != nil {
		return pkgerrors.Wrapf(err, "failed to encode profile to file %s", f.filepath)
	}

	return nil
}

func (f *File) LogrusFields() logrus.Fields {
	if f.c == nil {
		panic("config is nil")
	}

	c := f.Constants()
	in := f.GHKInput()
	ions := 3
	if in.Ca != nil {
		ions = 4
	}

	return logrus.Fields{
		"R":       c.R,
		"T":       c.T,
		"F":       c.F,
		"ions":    ions,
		"calcium": in.Calcium,
		"sweep":   f.SweepParameter(),
		"samples": len(f.SweepValues()),
	}
}
