package bishop

import "fmt"

// Outcome tags how an analysis terminated
type Outcome int

const (
	// NoIntersection means the circle crosses the ground fewer than twice;
	// there is no slip mass and no slices.
	NoIntersection Outcome = iota
	// Degenerate means the slices produce no net driving moment; FS is 0.
	Degenerate
	// Converged means successive estimates met the tolerance.
	Converged
	// IterationCapped means the iteration limit was reached first; FS is
	// the last estimate.
	IterationCapped
)

var outcomeNames = map[Outcome]string{
	NoIntersection:  "no_intersection",
	Degenerate:      "degenerate",
	Converged:       "converged",
	IterationCapped: "iteration_capped",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("outcome(%d)", int(o))
}

// Description is a human readable explanation of the outcome
func (o Outcome) Description() string {
	switch o {
	case Converged:
		return "Converged"
	case IterationCapped:
		return "Iteration limit reached (not converged)"
	case Degenerate:
		return "Degenerate geometry (no driving moment)"
	case NoIntersection:
		return "No valid slip mass"
	}
	return o.String()
}

// MarshalText implements encoding.TextMarshaler
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (o *Outcome) UnmarshalText(text []byte) error {
	for k, v := range outcomeNames {
		if v == string(text) {
			*o = k
			return nil
		}
	}
	return fmt.Errorf("unknown outcome %q", string(text))
}

// Result is the outcome of one analysis. FS is rounded to 3 decimals and is
// only meaningful when HasValue reports true.
type Result struct {
	Outcome    Outcome   `json:"outcome"`
	FS         float64   `json:"fs"`
	RawFS      float64   `json:"raw_fs"`
	Span       Span      `json:"span"`
	Slices     []Slice   `json:"slices"`
	Iterations int       `json:"iterations"`
	History    []float64 `json:"history,omitempty"`
	Driving    float64   `json:"driving"`
	Resisting  float64   `json:"resisting"`
}

// HasSlipMass reports whether the circle produced a slip mass
func (r Result) HasSlipMass() bool {
	return r.Outcome != NoIntersection
}

// HasValue reports whether FS is a stability value. Degenerate results carry
// FS = 0 but are not a measure of stability.
func (r Result) HasValue() bool {
	return r.Outcome == Converged || r.Outcome == IterationCapped
}

// Converged reports whether the solver met its tolerance
func (r Result) Converged() bool {
	return r.Outcome == Converged
}

// Analyze runs the full pipeline: locate the slip mass, cut it into slices
// and solve for the factor of safety.
func Analyze(in Input) Result {
	opts := in.Options.withDefaults()

	span, ok := LocateSpan(in.Circle, in.Ground, opts)
	if !ok {
		return Result{Outcome: NoIntersection, Slices: []Slice{}}
	}

	slices := Discretize(span, in.Circle, in.Ground, in.Water, in.Soil, opts.Slices)
	sol := Solve(slices, in.Soil, opts)

	res := Result{
		Span:       span,
		Slices:     slices,
		Iterations: sol.Iterations,
		History:    sol.History,
		Driving:    sol.Driving,
		Resisting:  sol.Resisting,
		RawFS:      sol.FS,
		FS:         Round(sol.FS, 3),
	}

	switch {
	case sol.Degenerate:
		res.Outcome = Degenerate
		res.FS, res.RawFS = 0, 0
	case sol.Converged:
		res.Outcome = Converged
	default:
		res.Outcome = IterationCapped
	}

	return res
}
