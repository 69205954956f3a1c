package io

import "github.com/matzehuels/revetment/pkg/section"

// legacyKeys maps browser calculator keys to record keys.
var legacyKeys = map[string]string{
	"sectionName":                   section.FieldName,
	"velocity_m_per_s":              section.FieldVelocity,
	"flow_rate_m3_per_s":            section.FieldFlowRate,
	"invert_elevation_mAD":          section.FieldInvertElevation,
	"ds_reach_invert_elevation_mAD": section.FieldDownstreamInvertElevation,
	"ds_reach_length_m":             section.FieldDownstreamReachLength,
	"water_level_mAD":               section.FieldWaterLevel,
	"bank_slope":                    section.FieldBankSlope,
	"revetmentType":                 section.FieldRevetmentType,
	"ti":                            section.FieldTurbulenceIntensity,
	"kt":                            section.FieldTurbulenceFactor,
	"bdrylayer":                     section.FieldBoundaryLayer,
	"zone":                          section.FieldZone,
	"rho":                           section.FieldRho,
	"rho_pil":                       section.FieldRhoStability,
	"phi":                           section.FieldPhi,
	"psi":                           section.FieldPsi,
	"mu":                            section.FieldMu,
}

func isLegacy(m map[string]any) bool {
	_, ok := m["sectionName"]
	if !ok {
		_, ok = m["velocity_m_per_s"]
	}
	return ok
}

// translateLegacy renames browser keys and drops the derived values
// (depth, slope, alpha) it stored alongside the inputs.
func translateLegacy(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nk, ok := legacyKeys[k]; ok {
			out[nk] = v
		}
	}
	return out
}
