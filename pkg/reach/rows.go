package reach

import (
	"strconv"

	"github.com/matzehuels/revetment/pkg/section"
	"github.com/matzehuels/revetment/pkg/sizing"
)

// Row is one line of the section table.
type Row struct {
	Index     int
	Name      string
	Inputs    section.Inputs
	Distance  float64
	Depth     float64
	Slope     float64
	BankAngle float64
	Empirical float64
	Stability float64
}

// Average returns the mean of the two estimates.
func (r Row) Average() float64 { return (r.Empirical + r.Stability) / 2 }

// Rows returns table rows for sections, with both diameters computed.
func Rows(sections []section.Section, opts ...sizing.Option) ([]Row, error) {
	series, err := Aggregate(sections, opts...)
	if err != nil {
		return nil, err
	}
	rows := make([]Row, len(sections))
	for i, s := range sections {
		rows[i] = Row{
			Index:     i + 1,
			Name:      s.Name(),
			Inputs:    s.Inputs(),
			Distance:  series.Distance[i],
			Depth:     s.Depth(),
			Slope:     s.Slope(),
			BankAngle: s.BankAngle(),
			Empirical: series.Empirical[i],
			Stability: series.Stability[i],
		}
	}
	return rows, nil
}

// FormatGeometry formats a geometry or hydraulics value to 2 decimal places.
func FormatGeometry(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }

// FormatDiameter formats a stone diameter to 3 decimal places.
func FormatDiameter(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
