package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/utils/async"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

const analysisTimeout = 2 * time.Minute

// AnalysisReportTitle prefixes the title of reports sent to the notifier
const AnalysisReportTitle = "Análise Estratégica de Riscos"

// AnalysisResult is the outcome of one analysis run
type AnalysisResult struct {
	Token   uint64              `json:"token"`
	Unit    types.UnitSelector  `json:"unit"`
	Text    string              `json:"text"`
	Blocks  []model.ReportBlock `json:"blocks"`
	Failed  bool                `json:"failed"`
	Running bool                `json:"running"`
	At      time.Time           `json:"at,omitzero"`
}

// AnalysisUseCase requests narrative analyses. Only the result of the most
// recently issued request is kept; older ones are returned to their caller and dropped.
type AnalysisUseCase struct {
	register *RegisterUseCase
	narrator interfaces.Narrator
	notifier interfaces.Notifier
	now      func() time.Time

	mu      sync.Mutex
	issued  uint64
	pending types.UnitSelector
	latest  *AnalysisResult
}

// NewAnalysisUseCase creates a new AnalysisUseCase. narrator and notifier may be nil.
func NewAnalysisUseCase(register *RegisterUseCase, narrator interfaces.Narrator, notifier interfaces.Notifier, now func() time.Time) *AnalysisUseCase {
	if now == nil {
		now = time.Now
	}
	return &AnalysisUseCase{
		register: register,
		narrator: narrator,
		notifier: notifier,
		now:      now,
	}
}

// Run performs an analysis for unit and waits for the result
func (uc *AnalysisUseCase) Run(ctx context.Context, unit types.UnitSelector) *AnalysisResult {
	token := uc.issue(unit)
	return uc.complete(ctx, token, unit)
}

// Start issues a token and runs the analysis in the background
func (uc *AnalysisUseCase) Start(ctx context.Context, unit types.UnitSelector) uint64 {
	token := uc.issue(unit)

	async.Dispatch(ctx, "analysis", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
		defer cancel()
		uc.complete(ctx, token, unit)
		return nil
	})

	return token
}

// Latest returns the stored result. Running is true while the latest request is in flight.
// It returns nil when nothing was ever requested.
func (uc *AnalysisUseCase) Latest() *AnalysisResult {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if uc.issued == 0 {
		return nil
	}

	running := uc.latest == nil || uc.latest.Token != uc.issued
	if uc.latest == nil {
		return &AnalysisResult{Token: uc.issued, Unit: uc.pending, Running: true}
	}

	out := *uc.latest
	out.Blocks = append([]model.ReportBlock(nil), uc.latest.Blocks...)
	if running {
		out.Token = uc.issued
		out.Unit = uc.pending
		out.Running = true
	}
	return &out
}

func (uc *AnalysisUseCase) issue(unit types.UnitSelector) uint64 {
	if unit == "" {
		unit = types.UnitSelectorAll
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.issued++
	uc.pending = unit
	return uc.issued
}

func (uc *AnalysisUseCase) complete(ctx context.Context, token uint64, unit types.UnitSelector) *AnalysisResult {
	if unit == "" {
		unit = types.UnitSelectorAll
	}
	logger := logging.From(ctx).With("token", token, "unit", unit)

	input := interfaces.NarrativeInput{
		Unit:      unit,
		Risks:     model.FilterRisks(uc.register.Risks(), unit, types.LevelFilterAll),
		Documents: model.FilterDocuments(uc.register.Documents(), unit, types.StatusFilterAll),
	}

	result := &AnalysisResult{Token: token, Unit: unit}
	text, err := uc.generate(ctx, input)
	switch {
	case errors.Is(err, interfaces.ErrEmptyCompletion) || (err == nil && strings.TrimSpace(text) == ""):
		logger.Warn("completion service returned no text")
		analysisTotal.WithLabelValues("empty").Inc()
		result.Text = MessageAnalysisEmpty
		result.Failed = true
	case err != nil:
		errutil.Handle(ctx, goerr.Wrap(err, "narrative analysis failed", goerr.V(TokenKey, token)), "narrative analysis failed")
		analysisTotal.WithLabelValues("error").Inc()
		result.Text = MessageAnalysisFailed
		result.Failed = true
	default:
		analysisTotal.WithLabelValues("ok").Inc()
		result.Text = text
	}
	result.Blocks = model.ParseReport(result.Text)
	result.At = uc.now()

	if !uc.store(result) {
		logger.Info("analysis result superseded by a newer request, dropped")
		return result
	}
	logger.Info("analysis completed", "failed", result.Failed)

	if uc.notifier != nil && !result.Failed {
		title := AnalysisReportTitle + " - " + UnitLabel(unit)
		if err := uc.notifier.PostReport(ctx, title, result.Text); err != nil {
			errutil.Handle(ctx, goerr.Wrap(err, "failed to post analysis report", goerr.V(TokenKey, token)), "failed to post analysis report")
		}
	}

	return result
}

func (uc *AnalysisUseCase) generate(ctx context.Context, input interfaces.NarrativeInput) (string, error) {
	if uc.narrator == nil {
		return "", goerr.New("no completion service configured")
	}

	started := time.Now()
	defer func() {
		analysisDuration.Observe(time.Since(started).Seconds())
	}()

	return uc.narrator.Generate(ctx, input)
}

// store keeps result only if no newer request was issued meanwhile
func (uc *AnalysisUseCase) store(result *AnalysisResult) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if result.Token != uc.issued {
		return false
	}
	uc.latest = result
	return true
}
