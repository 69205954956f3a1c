// Package io reads and writes ordered section lists as plain records.
//
// # Record Format
//
// A document is an array of records, one per section, in downstream order.
// JSON and YAML share the same keys:
//
//	[
//	  {
//	    "name": "XS-01",
//	    "velocity": 3,
//	    "flowRate": 45,
//	    "invertElevation": 10,
//	    "downstreamInvertElevation": 9.9,
//	    "downstreamReachLength": 100,
//	    "waterLevel": 12,
//	    "bankSlope": 0.5,
//	    "revetmentType": "riprap",
//	    "turbulenceIntensity": 0.1,
//	    "turbulenceFactor": 1,
//	    "boundaryLayerState": "full",
//	    "zone": "continuous",
//	    "rho": 2.65,
//	    "rhoStability": 1.6,
//	    "phi": 40,
//	    "psi": 0.035,
//	    "mu": 1
//	  }
//	]
//
// The last five keys are the material and zone coefficients joined when the
// section was built. They are always written. On read they are optional, but
// any that are present must equal the current lookup tables, otherwise the
// record is rejected with INVALID_INPUT. Numeric fields accept numbers or
// numeric strings.
//
// Records saved by the original browser calculator (keys such as
// "sectionName", "velocity_m_per_s" and "bdrylayer") are detected per record
// and imported as well. Derived values stored in those records are ignored
// and recomputed.
//
// # Import and Export
//
// [ReadJSON], [WriteJSON], [ReadYAML] and [WriteYAML] work on streams.
// [Import] and [Export] pick the format from the file extension (.json, .yaml
// or .yml); any other extension fails with INVALID_FORMAT.
//
//	sections, err := io.Import("reach.json")
//	if err != nil {
//	    return err
//	}
//	err = io.Export("reach.yaml", sections)
//
// Every record is rebuilt through [section.New], so a round trip reproduces
// the derived geometry and both diameter estimates exactly.
package io
