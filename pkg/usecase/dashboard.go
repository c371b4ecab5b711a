package usecase

import (
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// DashboardQuery holds the three selector values of the dashboard
type DashboardQuery struct {
	Unit   types.UnitSelector
	Level  types.LevelFilter
	Status types.StatusFilter
}

// Dashboard is a derived, read-only view of the collections
type Dashboard struct {
	Unit      types.UnitSelector `json:"unit"`
	UnitLabel string             `json:"unitLabel"`
	Risks     []*model.Risk      `json:"risks"`
	Documents []*model.Document  `json:"documents"`
	Summary   *model.Summary     `json:"summary"`
	Matrix    *model.Matrix      `json:"matrix"`
}

// DashboardUseCase derives filtered views from a RegisterUseCase
type DashboardUseCase struct {
	register *RegisterUseCase
}

// NewDashboardUseCase creates a new DashboardUseCase instance
func NewDashboardUseCase(register *RegisterUseCase) *DashboardUseCase {
	return &DashboardUseCase{register: register}
}

// UnitLabel returns the display label of a unit selector
func UnitLabel(unit types.UnitSelector) string {
	if unit.IsAll() {
		return UnitLabelConsolidated
	}
	return unit.String()
}

// Build filters both collections and computes the summary and matrix from the filtered sets.
// Zero values in q select everything.
func (uc *DashboardUseCase) Build(q DashboardQuery) *Dashboard {
	q = q.normalize()

	risks := model.FilterRisks(uc.register.Risks(), q.Unit, q.Level)
	docs := model.FilterDocuments(uc.register.Documents(), q.Unit, q.Status)

	return &Dashboard{
		Unit:      q.Unit,
		UnitLabel: UnitLabel(q.Unit),
		Risks:     risks,
		Documents: docs,
		Summary:   model.Aggregate(risks, docs),
		Matrix:    model.BuildMatrix(risks),
	}
}

func (q DashboardQuery) normalize() DashboardQuery {
	if q.Unit == "" {
		q.Unit = types.UnitSelectorAll
	}
	if q.Level == "" {
		q.Level = types.LevelFilterAll
	}
	if q.Status == "" {
		q.Status = types.StatusFilterAll
	}
	return q
}
