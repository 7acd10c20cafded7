// Package criteria holds the acceptance limits used to judge a computed
// factor of safety.
package criteria

import "strings"

// Status bands used when no loading condition is specified
const (
	FailureLimit  = 1.0 // FS below this: failure likely
	MarginalLimit = 1.5 // FS below this: marginal stability
)

// Status classifies a factor of safety
type Status int

const (
	NotApplicable Status = iota
	Failure
	Marginal
	Stable
)

func (s Status) String() string {
	switch s {
	case Failure:
		return "DANGER: SLOPE FAILURE LIKELY"
	case Marginal:
		return "Caution: Marginal Stability"
	case Stable:
		return "Stable Condition"
	}
	return "N/A"
}

// Classify places a factor of safety in a status band. hasValue is false
// when the analysis produced no stability value.
func Classify(fs float64, hasValue bool) Status {
	if !hasValue {
		return NotApplicable
	}
	switch {
	case fs < FailureLimit:
		return Failure
	case fs < MarginalLimit:
		return Marginal
	}
	return Stable
}

// LoadingCondition is a design situation with a minimum required FS
// Based on USACE EM 1110-2-1902 Table 3-1 (new earth dams)
type LoadingCondition struct {
	ID          string
	Description string
	MinimumFS   float64
	Slope       string // slope to be analysed
}

// LoadingConditions lists the standard earth-dam design situations
var LoadingConditions = []LoadingCondition{
	{
		ID:          "eoc",
		Description: "End of construction",
		MinimumFS:   1.3,
		Slope:       "Upstream and downstream",
	},
	{
		ID:          "steady",
		Description: "Long-term steady seepage",
		MinimumFS:   1.5,
		Slope:       "Downstream",
	},
	{
		ID:          "surcharge",
		Description: "Maximum surcharge pool",
		MinimumFS:   1.4,
		Slope:       "Downstream",
	},
	{
		ID:          "drawdown",
		Description: "Rapid drawdown",
		MinimumFS:   1.1,
		Slope:       "Upstream",
	},
}

// FindCondition looks up a loading condition by ID (case-insensitive)
func FindCondition(id string) (LoadingCondition, bool) {
	for _, lc := range LoadingConditions {
		if strings.EqualFold(lc.ID, id) {
			return lc, true
		}
	}
	return LoadingCondition{}, false
}

// Check holds the comparison of a computed FS against a loading condition
type Check struct {
	Condition LoadingCondition
	FS        float64
	Ratio     float64 // FS / MinimumFS
	Adequate  bool
	Message   string
}

// Evaluate compares fs with the minimum for the loading condition
func (lc LoadingCondition) Evaluate(fs float64, hasValue bool) Check {
	chk := Check{Condition: lc, FS: fs}
	if !hasValue {
		chk.Message = "No factor of safety available for this slip surface"
		return chk
	}

	chk.Ratio = fs / lc.MinimumFS
	chk.Adequate = fs >= lc.MinimumFS
	if chk.Adequate {
		chk.Message = "FS meets the required minimum for " + strings.ToLower(lc.Description)
	} else {
		chk.Message = "FS is below the required minimum for " + strings.ToLower(lc.Description)
	}
	return chk
}
