// Package material holds the revetment material tables used by the sizing methods.
//
// Two lookups are provided:
//
//   - [Lookup] maps a revetment material to its density ratios, angle of repose
//     and stability coefficient.
//   - [ZoneMultiplier] maps a (material, protection zone) pair to the stability
//     multiplier mu used by the Pilarczyk method.
//
// Both are total over the defined variants and fail with a coded error for
// anything else. The tables cannot be modified at runtime.
//
// Note that Rho and RhoStability differ for the same material: the
// Escarameia & May method uses the stone specific gravity, while the Pilarczyk
// method uses the relative density of the protection element. The values come
// from the source data and are not a typo.
package material

import (
	"strings"

	"github.com/matzehuels/revetment/pkg/errors"
)

// Material identifies a revetment material.
type Material string

// Supported revetment materials.
const (
	Riprap   Material = "riprap"
	Gabion   Material = "gabion"
	Concrete Material = "concrete"
)

// Zone identifies where along a reach the revetment sits.
type Zone string

// Supported protection zones.
const (
	Continuous Zone = "continuous"
	Transition Zone = "transition"
)

// Properties are the per-material coefficients joined into every river section.
type Properties struct {
	Rho          float64 // stone specific gravity (Escarameia & May)
	RhoStability float64 // relative density used by the Pilarczyk method
	Phi          float64 // angle of repose, degrees
	Psi          float64 // stability coefficient
}

var properties = map[Material]Properties{
	Riprap:   {Rho: 2.65, RhoStability: 1.6, Phi: 40, Psi: 0.035},
	Gabion:   {Rho: 2.65, RhoStability: 0.96, Phi: 40, Psi: 0.07},
	Concrete: {Rho: 1.8, RhoStability: 0.96, Phi: 40, Psi: 0.07},
}

type zoneKey struct {
	material Material
	zone     Zone
}

// Continuous zones carry the lower multiplier.
var multipliers = map[zoneKey]float64{
	{Riprap, Continuous}:   1,
	{Riprap, Transition}:   1.5,
	{Gabion, Continuous}:   0.75,
	{Gabion, Transition}:   1,
	{Concrete, Continuous}: 0.75,
	{Concrete, Transition}: 1,
}

// Lookup returns the coefficients for m.
func Lookup(m Material) (Properties, error) {
	p, ok := properties[m]
	if !ok {
		return Properties{}, errors.New(errors.ErrCodeUnknownMaterial, "unknown revetment material: %q (must be one of: riprap, gabion, concrete)", m)
	}
	return p, nil
}

// ZoneMultiplier returns the stability multiplier mu for material m in zone z.
// Any pair outside the six defined ones fails with ErrCodeUnknownZone.
func ZoneMultiplier(m Material, z Zone) (float64, error) {
	mu, ok := multipliers[zoneKey{m, z}]
	if !ok {
		return 0, errors.New(errors.ErrCodeUnknownZone, "no protection zone %q for material %q (zone must be continuous or transition)", z, m)
	}
	return mu, nil
}

// ParseMaterial converts user input into a Material.
func ParseMaterial(s string) (Material, error) {
	m := Material(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Lookup(m); err != nil {
		return "", err
	}
	return m, nil
}

// ParseZone converts user input into a Zone.
func ParseZone(s string) (Zone, error) {
	z := Zone(strings.ToLower(strings.TrimSpace(s)))
	switch z {
	case Continuous, Transition:
		return z, nil
	}
	return "", errors.New(errors.ErrCodeUnknownZone, "unknown protection zone: %q (must be continuous or transition)", s)
}

// Materials returns the supported materials in display order.
func Materials() []Material {
	return []Material{Riprap, Gabion, Concrete}
}

// Zones returns the supported protection zones in display order.
func Zones() []Zone {
	return []Zone{Continuous, Transition}
}
