package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/section"
)

var coefficientFields = []string{
	section.FieldRho,
	section.FieldRhoStability,
	section.FieldPhi,
	section.FieldPsi,
	section.FieldMu,
}

// ReadJSON decodes a JSON array of records from r and rebuilds the sections.
//
// Each record is validated with [section.New]. Coefficients stored in the
// record must match the lookup tables. Records written by the browser
// calculator are translated first. ReadJSON does not close r.
func ReadJSON(r io.Reader) ([]section.Section, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw []map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON")
	}
	return fromMaps(raw)
}

// ReadYAML decodes a YAML sequence of records from r and rebuilds the sections.
// An empty document yields an empty list.
func ReadYAML(r io.Reader) ([]section.Section, error) {
	var raw []map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil && err != io.EOF {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML")
	}
	return fromMaps(raw)
}

// ImportJSON reads sections from a JSON file at path.
func ImportJSON(path string) ([]section.Section, error) {
	return importFile(path, ReadJSON)
}

// ImportYAML reads sections from a YAML file at path.
func ImportYAML(path string) ([]section.Section, error) {
	return importFile(path, ReadYAML)
}

// Import reads sections from path in the format given by its extension.
func Import(path string) ([]section.Section, error) {
	switch Format(path) {
	case FormatJSON:
		return ImportJSON(path)
	case FormatYAML:
		return ImportYAML(path)
	}
	return nil, unsupportedExtension(path)
}

func importFile(path string, read func(io.Reader) ([]section.Section, error)) ([]section.Section, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open %s", path)
	}
	sections, err := read(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Context(err, "%s", path)
	}
	return sections, nil
}

func fromMaps(raw []map[string]any) ([]section.Section, error) {
	out := make([]section.Section, 0, len(raw))
	for i, m := range raw {
		s, err := fromMap(m)
		if err != nil {
			return nil, errors.Context(err, "record %d", i+1)
		}
		out = append(out, s)
	}
	return out, nil
}

func fromMap(m map[string]any) (section.Section, error) {
	if m == nil {
		return section.Section{}, errors.New(errors.ErrCodeInvalidFormat, "record is empty")
	}
	if isLegacy(m) {
		m = translateLegacy(m)
	}

	fields := make(map[string]string, len(m))
	for k, v := range m {
		s, ok, err := scalar(k, v)
		if err != nil {
			return section.Section{}, err
		}
		if ok {
			fields[k] = s
		}
	}

	stored := make(map[string]string, len(coefficientFields))
	for _, k := range coefficientFields {
		if v, ok := fields[k]; ok {
			stored[k] = v
			delete(fields, k)
		}
	}

	in, err := section.ParseInputs(fields)
	if err != nil {
		return section.Section{}, err
	}
	s, err := section.New(in)
	if err != nil {
		return section.Section{}, err
	}
	if err := checkCoefficients(s, stored); err != nil {
		return section.Section{}, err
	}
	return s, nil
}

// checkCoefficients compares the coefficients present in a record with the
// ones joined from the lookup tables. Absent coefficients are not checked.
func checkCoefficients(s section.Section, stored map[string]string) error {
	p := s.Properties()
	mu := s.Mu()
	targets := map[string]*float64{
		section.FieldRho:          &p.Rho,
		section.FieldRhoStability: &p.RhoStability,
		section.FieldPhi:          &p.Phi,
		section.FieldPsi:          &p.Psi,
		section.FieldMu:           &mu,
	}
	for k, raw := range stored {
		v, err := section.ParseFloat(k, raw)
		if err != nil {
			return err
		}
		*targets[k] = v
	}
	return s.Matches(p, mu)
}

// scalar converts a decoded value to the text form section.ParseInputs expects.
// Null values are reported as absent.
func scalar(key string, v any) (string, bool, error) {
	switch x := v.(type) {
	case nil:
		return "", false, nil
	case string:
		return x, true, nil
	case json.Number:
		return x.String(), true, nil
	case int:
		return strconv.Itoa(x), true, nil
	case int64:
		return strconv.FormatInt(x, 10), true, nil
	case uint64:
		return strconv.FormatUint(x, 10), true, nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true, nil
	}
	return "", false, errors.New(errors.ErrCodeInvalidInput, "%s must be a number or string, got %T", key, v)
}
