package usecase

import (
	"context"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/service/export"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// ExportUseCase renders dashboard views as PDF reports
type ExportUseCase struct {
	dashboard *DashboardUseCase
	analysis  *AnalysisUseCase
	now       func() time.Time
}

// NewExportUseCase creates a new ExportUseCase. analysis may be nil.
func NewExportUseCase(dashboard *DashboardUseCase, analysis *AnalysisUseCase, now func() time.Time) *ExportUseCase {
	if now == nil {
		now = time.Now
	}
	return &ExportUseCase{dashboard: dashboard, analysis: analysis, now: now}
}

// WritePDF writes the view selected by q. The latest analysis is included
// when it succeeded for the same unit.
func (uc *ExportUseCase) WritePDF(ctx context.Context, w io.Writer, q DashboardQuery) error {
	d := uc.dashboard.Build(q)

	in := export.Input{
		UnitLabel:   d.UnitLabel,
		Risks:       d.Risks,
		Documents:   d.Documents,
		Summary:     d.Summary,
		GeneratedAt: uc.now(),
	}
	if uc.analysis != nil {
		if latest := uc.analysis.Latest(); latest != nil && !latest.Running && !latest.Failed && latest.Unit == d.Unit {
			in.Analysis = latest.Text
		}
	}

	if err := export.RenderPDF(w, in); err != nil {
		return goerr.Wrap(err, "failed to export dashboard", goerr.V("unit", d.Unit))
	}

	logging.From(ctx).Info("dashboard exported",
		"unit", d.Unit,
		"risks", len(d.Risks),
		"documents", len(d.Documents),
		"with_analysis", in.Analysis != "")
	return nil
}
