package labels

import (
	"context"

	"github.com/existflow/quickadd/internal/logger"
	"github.com/existflow/quickadd/internal/model"
)

// Step identifies a stage of the label sequence
type Step string

const (
	StepCreate Step = "create"
	StepAttach Step = "attach"
)

// Outcome is the result of one label step
type Outcome struct {
	Label *model.Label
	Step  Step
	Err   error
}

// OK reports whether the step succeeded
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Creator creates labels remotely
type Creator interface {
	CreateLabel(ctx context.Context, title, color string) (*model.Label, error)
}

// Attacher links labels to tasks
type Attacher interface {
	AttachLabel(ctx context.Context, taskID, labelID int64) error
}

// CreatePending creates every pending label, one at a time. Created labels
// get the server id and color in place; failed ones stay pending.
func CreatePending(ctx context.Context, creator Creator, labels []*model.Label) []Outcome {
	var outcomes []Outcome
	for _, l := range labels {
		if !l.IsPending() {
			continue
		}

		created, err := creator.CreateLabel(ctx, l.Title, l.HexColor)
		if err == nil && (created == nil || created.ID == nil) {
			err = errMissingID
		}
		if err != nil {
			logger.Warn("Failed to create label", logger.F("label", l.Title), logger.Err(err))
			outcomes = append(outcomes, Outcome{Label: l, Step: StepCreate, Err: err})
			continue
		}

		l.ID = model.Int64(*created.ID)
		if created.HexColor != "" {
			l.HexColor = created.HexColor
		}
		outcomes = append(outcomes, Outcome{Label: l, Step: StepCreate})
	}
	return outcomes
}

// AttachAll attaches every label that has an id to the task. Failures are
// recorded and the remaining labels are still attempted.
func AttachAll(ctx context.Context, attacher Attacher, taskID int64, labels []*model.Label) []Outcome {
	var outcomes []Outcome
	for _, l := range labels {
		if l.IsPending() {
			continue
		}

		err := attacher.AttachLabel(ctx, taskID, l.IDValue())
		if err != nil {
			logger.Warn("Failed to attach label",
				logger.F("label", l.Title),
				logger.F("task", taskID),
				logger.Err(err))
		}
		outcomes = append(outcomes, Outcome{Label: l, Step: StepAttach, Err: err})
	}
	return outcomes
}

// Failed returns the outcomes that did not succeed
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}
