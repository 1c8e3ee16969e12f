package reconcile

import (
	"errors"
	"log/slog"

	"github.com/lehigh-university-libraries/sku-images/internal/images"
)

// Renamer moves image files. images.Store implements it.
type Renamer interface {
	Exists(fileName string) (bool, error)
	Rename(from, to string) error
}

// Status is the result of executing one move
type Status string

const (
	StatusApplied Status = "applied"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Outcome records what happened to one move
type Outcome struct {
	Move   Move   `json:"move" yaml:"move"`
	Status Status `json:"status" yaml:"status"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// ApplyResult summarizes the execution of a list of moves
type ApplyResult struct {
	Outcomes []Outcome `json:"outcomes" yaml:"outcomes"`
	Applied  int       `json:"applied" yaml:"applied"`
	Skipped  int       `json:"skipped" yaml:"skipped"`
	Failed   int       `json:"failed" yaml:"failed"`
}

// Apply executes moves one at a time. A move whose target already exists on
// disk or was produced earlier in this run is skipped; a filesystem error is
// recorded and execution continues. Nothing is rolled back.
func Apply(r Renamer, moves []Move) ApplyResult {
	var result ApplyResult
	produced := make(map[string]bool, len(moves))

	for _, m := range moves {
		outcome := Outcome{Move: m}

		exists, err := r.Exists(m.To)
		switch {
		case err != nil:
			outcome.Status = StatusFailed
			outcome.Error = err.Error()
		case exists || produced[m.To]:
			outcome.Status = StatusSkipped
			outcome.Error = m.To + " already exists"
		default:
			err = r.Rename(m.From, m.To)
			switch {
			case errors.Is(err, images.ErrTargetExists):
				outcome.Status = StatusSkipped
				outcome.Error = m.To + " already exists"
			case err != nil:
				outcome.Status = StatusFailed
				outcome.Error = err.Error()
			default:
				outcome.Status = StatusApplied
				produced[m.To] = true
			}
		}

		switch outcome.Status {
		case StatusApplied:
			result.Applied++
			slog.Debug("Renamed image", "from", m.From, "to", m.To)
		case StatusSkipped:
			result.Skipped++
			slog.Warn("Skipping rename, target exists", "from", m.From, "to", m.To)
		case StatusFailed:
			result.Failed++
			slog.Error("Failed to rename image", "from", m.From, "to", m.To, "error", outcome.Error)
		}

		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}
