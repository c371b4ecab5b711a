package model

import "github.com/secmon-lab/themis/pkg/domain/types"

// MatrixCell is one cell of the 5x5 heat map
type MatrixCell struct {
	Probability int               `json:"probability"`
	Impact      int               `json:"impact"`
	Color       types.MatrixColor `json:"color"`
	Risks       []*Risk           `json:"risks"`
}

// MatrixRow is all cells of a given probability, impact 1 to 5
type MatrixRow struct {
	Probability int          `json:"probability"`
	Cells       []MatrixCell `json:"cells"`
}

// Matrix is the probability x impact heat map, probability 5 first
type Matrix struct {
	Rows []MatrixRow `json:"rows"`
}

// BuildMatrix places each risk in the cell of its rounded probability and
// rounded impact. Risks outside 1..5 appear in no cell.
func BuildMatrix(risks []*Risk) *Matrix {
	m := &Matrix{Rows: make([]MatrixRow, 0, MaxScore)}
	for p := MaxScore; p >= MinScore; p-- {
		row := MatrixRow{Probability: p, Cells: make([]MatrixCell, 0, MaxScore)}
		for i := MinScore; i <= MaxScore; i++ {
			row.Cells = append(row.Cells, MatrixCell{
				Probability: p,
				Impact:      i,
				Color:       MatrixColorOf(p, float64(i)),
				Risks:       []*Risk{},
			})
		}
		m.Rows = append(m.Rows, row)
	}

	for _, r := range risks {
		p := r.Probability
		i := roundImpact(r.Impact)
		if p < MinScore || p > MaxScore || i < MinScore || i > MaxScore {
			continue
		}
		cell := &m.Rows[MaxScore-p].Cells[i-MinScore]
		cell.Risks = append(cell.Risks, r)
	}

	return m
}

// Cell returns the cell at probability p and impact i, or nil outside the grid
func (m *Matrix) Cell(p, i int) *MatrixCell {
	if p < MinScore || p > MaxScore || i < MinScore || i > MaxScore {
		return nil
	}
	return &m.Rows[MaxScore-p].Cells[i-MinScore]
}
