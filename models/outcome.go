package models

import "fmt"

// Outcome is the 1X2 result of a match. The integer values are stored
// in predictions.predicted_outcome and used as classifier labels.
type Outcome int

const (
	OutcomeHome Outcome = iota
	OutcomeDraw
	OutcomeAway
)

// Outcomes lists every outcome in feature/probability order.
var Outcomes = [3]Outcome{OutcomeHome, OutcomeDraw, OutcomeAway}

func (o Outcome) String() string {
	switch o {
	case OutcomeHome:
		return "Home"
	case OutcomeDraw:
		return "Draw"
	case OutcomeAway:
		return "Away"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Valid reports whether o is one of Home, Draw or Away.
func (o Outcome) Valid() bool {
	return o >= OutcomeHome && o <= OutcomeAway
}

// ParseOutcome maps the odds.outcome column value back to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown outcome %q", s)
}

// OutcomeFromScore derives the result from the final score.
func OutcomeFromScore(home, away int) Outcome {
	switch {
	case home > away:
		return OutcomeHome
	case home == away:
		return OutcomeDraw
	default:
		return OutcomeAway
	}
}
