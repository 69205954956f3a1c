package section

import (
	"strconv"
	"strings"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
)

// Field names shared by the form boundary and the persisted record format.
const (
	FieldName                      = "name"
	FieldVelocity                  = "velocity"
	FieldFlowRate                  = "flowRate"
	FieldInvertElevation           = "invertElevation"
	FieldDownstreamInvertElevation = "downstreamInvertElevation"
	FieldDownstreamReachLength     = "downstreamReachLength"
	FieldWaterLevel                = "waterLevel"
	FieldBankSlope                 = "bankSlope"
	FieldRevetmentType             = "revetmentType"
	FieldTurbulenceIntensity       = "turbulenceIntensity"
	FieldTurbulenceFactor          = "turbulenceFactor"
	FieldBoundaryLayer             = "boundaryLayerState"
	FieldZone                      = "zone"

	FieldRho          = "rho"
	FieldRhoStability = "rhoStability"
	FieldPhi          = "phi"
	FieldPsi          = "psi"
	FieldMu           = "mu"
)

// ParseFloat parses a raw numeric field. Empty, non-numeric and non-finite
// text fails with ErrCodeInvalidInput naming the field.
func ParseFloat(field, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s is required", field)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New(errors.ErrCodeInvalidInput, "%s must be a number, got %q", field, raw)
	}
	if err := errors.ValidateFinite(field, v); err != nil {
		return 0, err
	}
	return v, nil
}

// ParseInputs converts raw form values keyed by field name into Inputs.
// Every field is required. Variant fields are parsed but only checked against
// the lookup tables by New.
func ParseInputs(fields map[string]string) (Inputs, error) {
	var in Inputs
	if err := ApplyFields(&in, fields); err != nil {
		return Inputs{}, err
	}
	for _, key := range []string{FieldName, FieldRevetmentType, FieldBoundaryLayer, FieldZone} {
		if strings.TrimSpace(fields[key]) == "" {
			return Inputs{}, errors.New(errors.ErrCodeInvalidInput, "%s is required", key)
		}
	}
	for _, f := range in.numericFields() {
		if _, ok := fields[f.name]; !ok {
			return Inputs{}, errors.New(errors.ErrCodeInvalidInput, "%s is required", f.name)
		}
	}
	return in, nil
}

// ApplyFields overwrites the fields of in that are present in fields.
// It backs both ParseInputs and partial edits.
func ApplyFields(in *Inputs, fields map[string]string) error {
	numeric := map[string]*float64{
		FieldVelocity:                  &in.Velocity,
		FieldFlowRate:                  &in.FlowRate,
		FieldInvertElevation:           &in.InvertElevation,
		FieldDownstreamInvertElevation: &in.DownstreamInvertElevation,
		FieldDownstreamReachLength:     &in.DownstreamReachLength,
		FieldWaterLevel:                &in.WaterLevel,
		FieldBankSlope:                 &in.BankSlope,
		FieldTurbulenceIntensity:       &in.TurbulenceIntensity,
		FieldTurbulenceFactor:          &in.TurbulenceFactor,
	}

	for key, raw := range fields {
		if dst, ok := numeric[key]; ok {
			v, err := ParseFloat(key, raw)
			if err != nil {
				return err
			}
			*dst = v
			continue
		}
		switch key {
		case FieldName:
			in.Name = strings.TrimSpace(raw)
		case FieldRevetmentType:
			in.RevetmentType = material.Material(strings.ToLower(strings.TrimSpace(raw)))
		case FieldBoundaryLayer:
			in.BoundaryLayer = BoundaryLayer(strings.ToLower(strings.TrimSpace(raw)))
		case FieldZone:
			in.Zone = material.Zone(strings.ToLower(strings.TrimSpace(raw)))
		default:
			return errors.New(errors.ErrCodeInvalidInput, "unknown field: %q", key)
		}
	}
	return nil
}
