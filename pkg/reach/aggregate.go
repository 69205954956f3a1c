// Package reach works on the ordered list of river sections that make up a reach.
//
// Order is physical downstream order. A section's identity is its position in
// the list, and each section's downstream reach length is the distance to the
// next one. [Aggregate] turns the list into the aligned series that the chart
// consumes, and [Sequence] owns the list while it is being edited.
package reach

import (
	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/section"
	"github.com/matzehuels/revetment/pkg/sizing"
)

// Series holds four aligned series, one entry per section.
type Series struct {
	Distance  []float64 `json:"distance"`
	Empirical []float64 `json:"empirical"`
	Stability []float64 `json:"stability"`
	Average   []float64 `json:"average"`
}

// Len returns the number of points in the series.
func (s Series) Len() int { return len(s.Distance) }

// Distances returns the cumulative downstream distance of each section.
// The first section sits at 0 and each later section sits at the sum of the
// reach lengths of the sections before it, excluding its own.
func Distances(sections []section.Section) []float64 {
	out := make([]float64, len(sections))
	for i := 1; i < len(sections); i++ {
		out[i] = out[i-1] + sections[i-1].Inputs().DownstreamReachLength
	}
	return out
}

// Aggregate sizes every section with both methods and returns the aligned series.
// Nothing is cached; the series is rebuilt on each call. The first failing
// section aborts the run and its error code is preserved.
func Aggregate(sections []section.Section, opts ...sizing.Option) (Series, error) {
	n := len(sections)
	out := Series{
		Distance:  Distances(sections),
		Empirical: make([]float64, n),
		Stability: make([]float64, n),
		Average:   make([]float64, n),
	}

	for i, s := range sections {
		emp, err := sizing.EmpiricalD50(s)
		if err != nil {
			return Series{}, errors.Context(err, "section %d (%s): empirical method", i+1, s.Name())
		}
		stab, err := sizing.StabilityD50(s, opts...)
		if err != nil {
			return Series{}, errors.Context(err, "section %d (%s): stability method", i+1, s.Name())
		}
		out.Empirical[i] = emp
		out.Stability[i] = stab
		out.Average[i] = (emp + stab) / 2
	}
	return out, nil
}
