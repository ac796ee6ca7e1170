// Package sweep evaluates a potential over an ordered list of sample values
// of one input, holding every other input fixed.
package sweep

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"

	"github.com/restpot/restpot/pkg/potential"
)

// Func computes a potential for one sample value.
type Func func(x float64) (potential.Result, error)

// Row is the outcome of one sample. Exactly one of Result and Err is meaningful.
type Row struct {
	Sample float64          `json:"sample"`
	Result potential.Result `json:"result"`
	Err    error            `json:"-"`
}

// Run evaluates f for every sample, in order. A failing sample is recorded
// in its row and does not stop the sweep.
func Run(samples []float64, f Func) []Row {
	rows := make([]Row, 0, len(samples))

	for _, x := range samples {
		r, err := f(x)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"sample": x,
				"error":  err,
			}).Debug("sample failed")
			rows = append(rows, Row{Sample: x, Err: err})
			continue
		}
		rows = append(rows, Row{Sample: x, Result: r})
	}

	return rows
}

// Monotonic reports whether the successful rows are strictly increasing.
// Fewer than two successful rows count as increasing.
func Monotonic(rows []Row) bool {
	var prev *float64
	for i := range rows {
		if rows[i].Err != nil {
			continue
		}
		v := rows[i].Result.Value
		if prev != nil && v <= *prev {
			return false
		}
		prev = &v
	}
	return true
}

// Failed returns the number of rows that carry an error.
func Failed(rows []Row) int {
	n := 0
	for _, r := range rows {
		if r.Err != nil {
			n++
		}
	}
	return n
}

// Print writes rows as a two-column table headed by label, e.g. "K_out".
// Failed rows print the raw sample and the error instead of a value, in a
// differently shaped line than successful rows.
func Print(w io.Writer, label string, rows []Row) {
	unit := " (mM)"
	if strings.HasPrefix(label, "P_") {
		// Permeabilities are relative and unitless.
		unit = ""
	}
	fmt.Fprintf(w, "%s%s | Membrane Potential (mV)\n", label, unit)
	fmt.Fprintln(w, strings.Repeat("-", 35))

	for _, r := range rows {
		if r.Err != nil {
			fmt.Fprintf(w, "%10v | %s\n", r.Sample, color.RedString("Error: %v", r.Err))
			continue
		}
		fmt.Fprintf(w, "%21.2f\n", r.Result.Value)
	}
}
