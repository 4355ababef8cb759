package entity

// Outcome is how a finished game ended.
type Outcome string

const (
	OutcomeXWins Outcome = "x"
	OutcomeOWins Outcome = "o"
	OutcomeDraw  Outcome = "draw"
)

// OutcomeFor maps a winning mark to its outcome; any other mark is a draw.
func OutcomeFor(winner Mark) Outcome {
	switch winner {
	case MarkX:
		return OutcomeXWins
	case MarkO:
		return OutcomeOWins
	default:
		return OutcomeDraw
	}
}

type Score struct {
	XWins int `json:"x_wins"`
	OWins int `json:"o_wins"`
	Draws int `json:"draws"`
}

// Add returns the score with the outcome counted once more.
func (that Score) Add(outcome Outcome) Score {
	switch outcome {
	case OutcomeXWins:
		that.XWins++
	case OutcomeOWins:
		that.OWins++
	case OutcomeDraw:
		that.Draws++
	}

	return that
}
