package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/section"
)

type record struct {
	Name                      string  `json:"name" yaml:"name"`
	Velocity                  float64 `json:"velocity" yaml:"velocity"`
	FlowRate                  float64 `json:"flowRate" yaml:"flowRate"`
	InvertElevation           float64 `json:"invertElevation" yaml:"invertElevation"`
	DownstreamInvertElevation float64 `json:"downstreamInvertElevation" yaml:"downstreamInvertElevation"`
	DownstreamReachLength     float64 `json:"downstreamReachLength" yaml:"downstreamReachLength"`
	WaterLevel                float64 `json:"waterLevel" yaml:"waterLevel"`
	BankSlope                 float64 `json:"bankSlope" yaml:"bankSlope"`
	RevetmentType             string  `json:"revetmentType" yaml:"revetmentType"`
	TurbulenceIntensity       float64 `json:"turbulenceIntensity" yaml:"turbulenceIntensity"`
	TurbulenceFactor          float64 `json:"turbulenceFactor" yaml:"turbulenceFactor"`
	BoundaryLayerState        string  `json:"boundaryLayerState" yaml:"boundaryLayerState"`
	Zone                      string  `json:"zone" yaml:"zone"`
	Rho                       float64 `json:"rho" yaml:"rho"`
	RhoStability              float64 `json:"rhoStability" yaml:"rhoStability"`
	Phi                       float64 `json:"phi" yaml:"phi"`
	Psi                       float64 `json:"psi" yaml:"psi"`
	Mu                        float64 `json:"mu" yaml:"mu"`
}

func toRecords(sections []section.Section) []record {
	out := make([]record, len(sections))
	for i, s := range sections {
		in := s.Inputs()
		p := s.Properties()
		out[i] = record{
			Name:                      in.Name,
			Velocity:                  in.Velocity,
			FlowRate:                  in.FlowRate,
			InvertElevation:           in.InvertElevation,
			DownstreamInvertElevation: in.DownstreamInvertElevation,
			DownstreamReachLength:     in.DownstreamReachLength,
			WaterLevel:                in.WaterLevel,
			BankSlope:                 in.BankSlope,
			RevetmentType:             string(in.RevetmentType),
			TurbulenceIntensity:       in.TurbulenceIntensity,
			TurbulenceFactor:          in.TurbulenceFactor,
			BoundaryLayerState:        string(in.BoundaryLayer),
			Zone:                      string(in.Zone),
			Rho:                       p.Rho,
			RhoStability:              p.RhoStability,
			Phi:                       p.Phi,
			Psi:                       p.Psi,
			Mu:                        s.Mu(),
		}
	}
	return out
}

// WriteJSON encodes sections as an indented JSON array of records.
// An empty list is written as [] rather than null.
func WriteJSON(w io.Writer, sections []section.Section) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toRecords(sections)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes sections as a YAML sequence of records.
func WriteYAML(w io.Writer, sections []section.Section) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(toRecords(sections)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes sections to a JSON file at path.
func ExportJSON(path string, sections []section.Section) error {
	return exportFile(path, sections, WriteJSON)
}

// ExportYAML writes sections to a YAML file at path.
func ExportYAML(path string, sections []section.Section) error {
	return exportFile(path, sections, WriteYAML)
}

// Export writes sections to path in the format given by its extension.
func Export(path string, sections []section.Section) error {
	switch Format(path) {
	case FormatJSON:
		return ExportJSON(path, sections)
	case FormatYAML:
		return ExportYAML(path, sections)
	}
	return unsupportedExtension(path)
}

func exportFile(path string, sections []section.Section, write func(io.Writer, []section.Section) error) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "create %s", path)
	}
	if err := write(f, sections); err != nil {
		f.Close()
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return f.Close()
}

// File formats recognised by [Import] and [Export].
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Format returns the record format for path, or "" if the extension is not supported.
func Format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

func unsupportedExtension(path string) error {
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported file extension %q (use .json, .yaml or .yml)", filepath.Ext(path))
}
