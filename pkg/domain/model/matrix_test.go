package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

func TestBuildMatrix(t *testing.T) {
	m := model.BuildMatrix(model.SeedRisks())

	t.Run("layout", func(t *testing.T) {
		gt.Array(t, m.Rows).Length(5)
		gt.Value(t, m.Rows[0].Probability).Equal(5)
		gt.Value(t, m.Rows[4].Probability).Equal(1)
		for _, row := range m.Rows {
			gt.Array(t, row.Cells).Length(5)
			gt.Value(t, row.Cells[0].Impact).Equal(1)
			gt.Value(t, row.Cells[4].Impact).Equal(5)
		}
	})

	t.Run("placement by rounded impact", func(t *testing.T) {
		// r1: probability 3, impact 4.8
		gt.Value(t, riskIDs(m.Cell(3, 5).Risks)).Equal([]model.RiskID{"r1"})
		// r5: probability 3, impact 3.8
		gt.Value(t, riskIDs(m.Cell(3, 4).Risks)).Equal([]model.RiskID{"r5"})
		gt.Value(t, riskIDs(m.Cell(2, 5).Risks)).Equal([]model.RiskID{"r2"})
		gt.Value(t, riskIDs(m.Cell(2, 4).Risks)).Equal([]model.RiskID{"r3"})
		gt.Value(t, riskIDs(m.Cell(4, 2).Risks)).Equal([]model.RiskID{"r4"})
		gt.Array(t, m.Cell(1, 1).Risks).Length(0)
	})

	t.Run("every risk lands exactly once", func(t *testing.T) {
		total := 0
		for _, row := range m.Rows {
			for _, cell := range row.Cells {
				total += len(cell.Risks)
			}
		}
		gt.Value(t, total).Equal(5)
	})

	t.Run("colors", func(t *testing.T) {
		gt.Value(t, m.Cell(5, 5).Color).Equal(types.MatrixColorRed)
		gt.Value(t, m.Cell(3, 5).Color).Equal(types.MatrixColorRed)
		gt.Value(t, m.Cell(2, 4).Color).Equal(types.MatrixColorOrange)
		gt.Value(t, m.Cell(2, 2).Color).Equal(types.MatrixColorYellow)
		gt.Value(t, m.Cell(1, 3).Color).Equal(types.MatrixColorGreen)
	})

	t.Run("outside grid", func(t *testing.T) {
		gt.Value(t, m.Cell(0, 1)).Nil()
		gt.Value(t, m.Cell(1, 6)).Nil()
	})

	t.Run("impact 4.6 goes to column 5", func(t *testing.T) {
		r := &model.Risk{ID: "x", Probability: 1, Impact: 4.6}
		gt.Array(t, model.BuildMatrix([]*model.Risk{r}).Cell(1, 5).Risks).Length(1)
	})
}
