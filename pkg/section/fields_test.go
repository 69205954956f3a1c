package section

import (
	"strings"
	"testing"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
)

func formFields() map[string]string {
	return map[string]string{
		FieldName:                      "XS-02",
		FieldVelocity:                  "2.5",
		FieldFlowRate:                  "30",
		FieldInvertElevation:           "8.4",
		FieldDownstreamInvertElevation: "8.1",
		FieldDownstreamReachLength:     "150",
		FieldWaterLevel:                "10.2",
		FieldBankSlope:                 "0.4",
		FieldRevetmentType:             "Gabion",
		FieldTurbulenceIntensity:       "0.2",
		FieldTurbulenceFactor:          "1.5",
		FieldBoundaryLayer:             "disrupted",
		FieldZone:                      "transition",
	}
}

func TestParseInputs(t *testing.T) {
	in, err := ParseInputs(formFields())
	if err != nil {
		t.Fatalf("ParseInputs() error: %v", err)
	}

	want := Inputs{
		Name:                      "XS-02",
		Velocity:                  2.5,
		FlowRate:                  30,
		InvertElevation:           8.4,
		DownstreamInvertElevation: 8.1,
		DownstreamReachLength:     150,
		WaterLevel:                10.2,
		BankSlope:                 0.4,
		RevetmentType:             material.Gabion,
		TurbulenceIntensity:       0.2,
		TurbulenceFactor:          1.5,
		BoundaryLayer:             Disrupted,
		Zone:                      material.Transition,
	}
	if in != want {
		t.Errorf("ParseInputs() = %+v, want %+v", in, want)
	}

	if _, err := New(in); err != nil {
		t.Errorf("New(ParseInputs()) error: %v", err)
	}
}

func TestParseInputsRejects(t *testing.T) {
	tests := []struct {
		name  string
		field string
		value string
		drop  bool
	}{
		{"non-numeric velocity", FieldVelocity, "fast", false},
		{"empty water level", FieldWaterLevel, "", false},
		{"NaN text", FieldBankSlope, "NaN", false},
		{"Inf text", FieldFlowRate, "+Inf", false},
		{"missing ti", FieldTurbulenceIntensity, "", true},
		{"missing name", FieldName, "", true},
		{"unknown field", "colour", "red", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := formFields()
			if tt.drop {
				delete(fields, tt.field)
			} else {
				fields[tt.field] = tt.value
			}

			_, err := ParseInputs(fields)
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Fatalf("ParseInputs() error = %v, want %s", err, errors.ErrCodeInvalidInput)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("ParseInputs() error %q should name %q", err, tt.field)
			}
		})
	}
}

func TestApplyFieldsPartial(t *testing.T) {
	in := validInputs()
	err := ApplyFields(&in, map[string]string{
		FieldVelocity: "1.25",
		FieldZone:     "Transition",
	})
	if err != nil {
		t.Fatalf("ApplyFields() error: %v", err)
	}
	if in.Velocity != 1.25 {
		t.Errorf("Velocity = %v, want 1.25", in.Velocity)
	}
	if in.Zone != material.Transition {
		t.Errorf("Zone = %q, want %q", in.Zone, material.Transition)
	}
	if in.WaterLevel != 12.0 {
		t.Errorf("WaterLevel changed to %v", in.WaterLevel)
	}
}

func TestParseFloat(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{"1.5", 1.5, false},
		{" -2 ", -2, false},
		{"1e-3", 0.001, false},
		{"", 0, true},
		{"1,5", 0, true},
		{"inf", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseFloat("x", tt.raw)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFloat(%q) error = %v, wantErr %v", tt.raw, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFloat(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
