package sizing

// Default bisection parameters for the stability method.
const (
	DefaultMaxIterations = 10000
	DefaultTolerance     = 1e-3
	DefaultLower         = 0.0
	DefaultUpper         = 2.0
)

// Option configures the stability solver.
type Option func(*solver)

type solver struct {
	maxIter      int
	tol          float64
	lower, upper float64
}

func newSolver(opts []Option) solver {
	s := solver{
		maxIter: DefaultMaxIterations,
		tol:     DefaultTolerance,
		lower:   DefaultLower,
		upper:   DefaultUpper,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithMaxIterations caps the number of bisection steps. Non-positive values are ignored.
func WithMaxIterations(n int) Option {
	return func(s *solver) {
		if n > 0 {
			s.maxIter = n
		}
	}
}

// WithTolerance sets the convergence tolerance |f(d) - d|. Non-positive values are ignored.
func WithTolerance(tol float64) Option {
	return func(s *solver) {
		if tol > 0 {
			s.tol = tol
		}
	}
}

// WithBracket sets the initial search interval in meters. An empty or inverted
// interval is ignored.
func WithBracket(lower, upper float64) Option {
	return func(s *solver) {
		if upper > lower {
			s.lower, s.upper = lower, upper
		}
	}
}
