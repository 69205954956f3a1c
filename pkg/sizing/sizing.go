// Package sizing estimates the median stone diameter (D50) a revetment needs.
//
// Two independent methods are provided:
//
//   - [EmpiricalD50]: the Escarameia & May velocity and turbulence-intensity formula.
//   - [StabilityD50]: the Pilarczyk shear-stress and side-slope stability formula,
//     solved for the nominal diameter by bisection.
//
// Both methods work on a validated [section.Section], are pure and hold no
// state, so they may be called concurrently. Results are in meters and already
// converted from nominal to sieve diameter with [NominalToSieve].
package sizing

import (
	"math"

	"github.com/matzehuels/revetment/pkg/errors"
	"github.com/matzehuels/revetment/pkg/material"
	"github.com/matzehuels/revetment/pkg/section"
)

const gravity = 9.81

// Solution is the outcome of the stability bisection.
type Solution struct {
	Dn50       float64 // nominal diameter in m
	Iterations int     // bisection steps taken, starting at 1
}

// D50 returns the sieve diameter of the solution.
func (s Solution) D50() float64 { return NominalToSieve(s.Dn50) }

// NominalToSieve converts a nominal diameter to the equivalent sieve diameter.
func NominalToSieve(dn50 float64) float64 {
	return 0.5 * (dn50/0.91 + dn50/0.84)
}

// EmpiricalD50 estimates D50 with the Escarameia & May method.
func EmpiricalD50(s section.Section) (float64, error) {
	in := s.Inputs()

	var k float64
	switch in.BoundaryLayer {
	case section.Full:
		k = 0.82
	case section.Disrupted:
		k = 0.87
	default:
		return 0, errors.New(errors.ErrCodeInvalidBoundaryLayer, "unknown boundary layer state: %q", in.BoundaryLayer)
	}
	ub := k * 1.25 * in.Velocity
	ub2 := ub * ub

	var ci float64
	switch in.RevetmentType {
	case material.Riprap:
		ci = 12.3*in.TurbulenceIntensity - 0.2
	case material.Concrete:
		ci = 9.22*in.TurbulenceIntensity - 0.15
	case material.Gabion:
		ci = 12.3*in.TurbulenceIntensity - 1.65
	default:
		return 0, errors.New(errors.ErrCodeUnknownMaterial, "unknown revetment type: %q", in.RevetmentType)
	}

	rho := s.Properties().Rho
	if rho == 1 {
		return 0, errors.New(errors.ErrCodeDegenerateMaterial, "relative density of %s is 1, submerged weight is zero", in.RevetmentType)
	}

	dn50 := ci * ub2 / (2 * gravity * (rho - 1))
	return NominalToSieve(dn50), nil
}

// StabilityD50 estimates D50 with the Pilarczyk method.
func StabilityD50(s section.Section, opts ...Option) (float64, error) {
	sol, err := SolveStabilityDn50(s, opts...)
	if err != nil {
		return 0, err
	}
	return sol.D50(), nil
}

// SolveStabilityDn50 searches for the nominal diameter d with d ≈ f(d), where
//
//	f(d) = (mu/rhoStability)·(0.035/psi)·(kt·kh(d)/ks)·u²/(2g),  u = 2/3·V
//
// The search starts at the midpoint of the bracket. When f(d) > d the lower
// bound rises to d, otherwise the upper bound falls to d. The converged value
// is f(d), not d.
func SolveStabilityDn50(s section.Section, opts ...Option) (Solution, error) {
	in := s.Inputs()
	if in.BoundaryLayer != section.Full && in.BoundaryLayer != section.Disrupted {
		return Solution{}, errors.New(errors.ErrCodeInvalidBoundaryLayer, "unknown boundary layer state: %q", in.BoundaryLayer)
	}
	if _, err := material.Lookup(in.RevetmentType); err != nil {
		return Solution{}, err
	}

	ks, err := SideSlopeFactor(s)
	if err != nil {
		return Solution{}, err
	}

	p := s.Properties()
	u := 2.0 / 3.0 * in.Velocity
	coeff := (s.Mu() / p.RhoStability) * (0.035 / p.Psi) * (in.TurbulenceFactor / ks) * u * u / (2 * gravity)

	cfg := newSolver(opts)
	lower, upper := cfg.lower, cfg.upper
	d := (lower + upper) / 2

	for i := 1; i <= cfg.maxIter; i++ {
		f := coeff * DepthFactor(in.BoundaryLayer, s.Depth(), d)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Solution{}, errors.New(errors.ErrCodeConvergenceFailure, "stability formula is not finite at d = %.4g m (depth %.4g m)", d, s.Depth())
		}
		if math.Abs(f-d) < cfg.tol {
			return Solution{Dn50: f, Iterations: i}, nil
		}
		if f > d {
			lower = d
		} else {
			upper = d
		}
		d = (lower + upper) / 2
	}

	return Solution{}, errors.New(errors.ErrCodeConvergenceFailure, "solution did not converge after %d iterations", cfg.maxIter)
}

// SideSlopeFactor returns ks = kd·kl for the section's bank angle and material.
//
//	kd = cos α · sqrt(1 - (tan α / tan φ)²)
//	kl = sin(φ - slope) / sin φ
//
// The bed slope enters kl as if it were an angle in degrees even though it is a
// dimensionless ratio. Existing designs were sized this way, so the behavior
// is kept.
func SideSlopeFactor(s section.Section) (float64, error) {
	alpha := radians(s.BankAngle())
	phi := radians(s.Properties().Phi)

	r := math.Tan(alpha) / math.Tan(phi)
	if r*r > 1 {
		return 0, errors.New(errors.ErrCodeUnstableSlope, "bank angle %.2f° exceeds the %.0f° angle of repose of %s", s.BankAngle(), s.Properties().Phi, s.Inputs().RevetmentType)
	}
	kd := math.Cos(alpha) * math.Sqrt(1-r*r)
	kl := math.Sin(radians(s.Properties().Phi-s.Slope())) / math.Sin(phi)

	ks := kd * kl
	if !(ks > 0) {
		return 0, errors.New(errors.ErrCodeUnstableSlope, "side slope factor %.4g is not positive for bank angle %.2f°", ks, s.BankAngle())
	}
	return ks, nil
}

// DepthFactor returns kh for a trial diameter d in a flow of the given depth.
func DepthFactor(layer section.BoundaryLayer, depth, d float64) float64 {
	if layer == section.Full {
		x := 2 / math.Log10(12*depth/d)
		return x * x
	}
	return math.Pow(d/depth, 0.2)
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }
