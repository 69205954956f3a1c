// Package section models one surveyed river reach and the geometry derived from it.
//
// A [Section] is an immutable value. It is built with [New] from plain [Inputs],
// which validates every field, joins the material and protection-zone tables and
// derives flow depth, bed slope and bank angle exactly once. Editing a section
// means building a new one with [Section.With]; there is no way to change a field
// in place, so the joined coefficients and derived geometry can never go stale.
package section

import (
	"math"
	"strings"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
)

// MaxVelocity is the highest accepted depth-averaged velocity in m/s.
const MaxVelocity = 4.0

// BoundaryLayer describes the near-bed flow regime.
type BoundaryLayer string

// Supported boundary layer states.
const (
	Full      BoundaryLayer = "full"
	Disrupted BoundaryLayer = "disrupted"
)

// ParseBoundaryLayer converts user input into a BoundaryLayer.
func ParseBoundaryLayer(s string) (BoundaryLayer, error) {
	b := BoundaryLayer(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case Full, Disrupted:
		return b, nil
	}
	return "", errors.New(errors.ErrCodeInvalidBoundaryLayer, "unknown boundary layer state: %q (must be full or disrupted)", s)
}

// Inputs are the user-supplied values for one reach.
type Inputs struct {
	Name                      string
	Velocity                  float64 // m/s
	FlowRate                  float64 // m³/s
	InvertElevation           float64 // mAD
	DownstreamInvertElevation float64 // mAD
	DownstreamReachLength     float64 // m
	WaterLevel                float64 // mAD
	BankSlope                 float64 // horizontal-to-vertical ratio, consumed via atan
	RevetmentType             material.Material
	TurbulenceIntensity       float64
	TurbulenceFactor          float64
	BoundaryLayer             BoundaryLayer
	Zone                      material.Zone
}

// Section is a validated reach with its joined coefficients and derived geometry.
// The zero value is not a valid section; the sizing methods reject it.
type Section struct {
	in    Inputs
	props material.Properties
	mu    float64

	depth     float64
	slope     float64
	bankAngle float64
}

// New validates in, joins the material tables and derives the reach geometry.
func New(in Inputs) (Section, error) {
	if err := errors.ValidateSectionName(in.Name); err != nil {
		return Section{}, err
	}
	for _, f := range in.numericFields() {
		if err := errors.ValidateFinite(f.name, f.value); err != nil {
			return Section{}, err
		}
	}
	if in.Velocity > MaxVelocity {
		return Section{}, errors.New(errors.ErrCodeInvalidVelocity, "velocity %.4g m/s exceeds the %.1f m/s limit", in.Velocity, MaxVelocity)
	}
	if in.DownstreamReachLength <= 0 {
		return Section{}, errors.New(errors.ErrCodeInvalidInput, "%s must be positive, got %v", FieldDownstreamReachLength, in.DownstreamReachLength)
	}
	if in.WaterLevel <= in.InvertElevation {
		return Section{}, errors.New(errors.ErrCodeInvalidInput, "%s %v must be above %s %v", FieldWaterLevel, in.WaterLevel, FieldInvertElevation, in.InvertElevation)
	}

	layer, err := ParseBoundaryLayer(string(in.BoundaryLayer))
	if err != nil {
		return Section{}, err
	}
	in.BoundaryLayer = layer

	props, err := material.Lookup(in.RevetmentType)
	if err != nil {
		return Section{}, err
	}
	mu, err := material.ZoneMultiplier(in.RevetmentType, in.Zone)
	if err != nil {
		return Section{}, err
	}

	return Section{
		in:        in,
		props:     props,
		mu:        mu,
		depth:     in.WaterLevel - in.InvertElevation,
		slope:     (in.InvertElevation - in.DownstreamInvertElevation) / in.DownstreamReachLength,
		bankAngle: math.Atan(in.BankSlope) * 180 / math.Pi,
	}, nil
}

// With returns a new section built from a copy of s's inputs with edit applied.
// The lookup join and derived geometry are recomputed from scratch.
func (s Section) With(edit func(*Inputs)) (Section, error) {
	in := s.in
	if edit != nil {
		edit(&in)
	}
	return New(in)
}

// Matches checks persisted coefficients against the ones joined from the tables.
func (s Section) Matches(p material.Properties, mu float64) error {
	checks := []struct {
		field     string
		got, want float64
	}{
		{FieldRho, p.Rho, s.props.Rho},
		{FieldRhoStability, p.RhoStability, s.props.RhoStability},
		{FieldPhi, p.Phi, s.props.Phi},
		{FieldPsi, p.Psi, s.props.Psi},
		{FieldMu, mu, s.mu},
	}
	for _, c := range checks {
		if c.got != c.want {
			return errors.New(errors.ErrCodeInvalidInput, "%s = %v does not match %v for %s in a %s zone", c.field, c.got, c.want, s.in.RevetmentType, s.in.Zone)
		}
	}
	return nil
}

// Inputs returns a copy of the section's inputs.
func (s Section) Inputs() Inputs { return s.in }

// Name returns the section name.
func (s Section) Name() string { return s.in.Name }

// Properties returns the material coefficients joined at construction.
func (s Section) Properties() material.Properties { return s.props }

// Mu returns the protection-zone stability multiplier.
func (s Section) Mu() float64 { return s.mu }

// Depth returns the flow depth in m (water level minus invert).
func (s Section) Depth() float64 { return s.depth }

// Slope returns the bed slope to the downstream section as a ratio.
func (s Section) Slope() float64 { return s.slope }

// BankAngle returns the bank angle in degrees.
func (s Section) BankAngle() float64 { return s.bankAngle }

type numericField struct {
	name  string
	value float64
}

func (in Inputs) numericFields() []numericField {
	return []numericField{
		{FieldVelocity, in.Velocity},
		{FieldFlowRate, in.FlowRate},
		{FieldInvertElevation, in.InvertElevation},
		{FieldDownstreamInvertElevation, in.DownstreamInvertElevation},
		{FieldDownstreamReachLength, in.DownstreamReachLength},
		{FieldWaterLevel, in.WaterLevel},
		{FieldBankSlope, in.BankSlope},
		{FieldTurbulenceIntensity, in.TurbulenceIntensity},
		{FieldTurbulenceFactor, in.TurbulenceFactor},
	}
}
