package types

import (
	"github.com/restpot/restpot/pkg/potential"
	"github.com/restpot/restpot/pkg/sweep"
)

// NewSweepRows converts sweep rows to their wire form.
func NewSweepRows(rows []sweep.Row) []SweepRow {
	out := make([]SweepRow, 0, len(rows))
	for _, r := range rows {
		if r.Err != nil {
			out = append(out, SweepRow{Sample: r.Sample, Error: r.Err.Error(), Kind: KindOf(r.Err)})
			continue
		}
		v := r.Result.Value
		out = append(out, SweepRow{Sample: r.Sample, Value: &v})
	}
	return out
}

// SweepRows converts wire rows back to sweep rows.
func (s *SweepResponse) SweepRows() []sweep.Row {
	out := make([]sweep.Row, 0, len(s.Rows))
	for _, r := range s.Rows {
		if r.Value == nil {
			out = append(out, sweep.Row{Sample: r.Sample, Err: ErrorOf(r.Kind, r.Error)})
			continue
		}
		out = append(out, sweep.Row{Sample: r.Sample, Result: potential.Result{Value: *r.Value}})
	}
	return out
}
