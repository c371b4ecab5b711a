package interfaces

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// ErrEmptyCompletion is returned by a Narrator when the service answered with no text
var ErrEmptyCompletion = goerr.New("empty completion")

// NarrativeInput is the unit-filtered snapshot sent to the completion service
type NarrativeInput struct {
	Unit      types.UnitSelector
	Risks     []*model.Risk
	Documents []*model.Document
}

// Narrator produces a free-text strategic analysis
type Narrator interface {
	Generate(ctx context.Context, input NarrativeInput) (string, error)
}
