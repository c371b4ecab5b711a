package model

import "github.com/secmon-lab/themis/pkg/domain/types"

// FilterRisks keeps the risks matching both the unit selector and the level filter, in order
func FilterRisks(risks []*Risk, unit types.UnitSelector, level types.LevelFilter) []*Risk {
	out := make([]*Risk, 0, len(risks))
	for _, r := range risks {
		if unit.Matches(r.Unit) && level.Matches(r.Level) {
			out = append(out, r)
		}
	}
	return out
}

// FilterDocuments keeps the documents matching both the unit selector and the status filter, in order
func FilterDocuments(docs []*Document, unit types.UnitSelector, status types.StatusFilter) []*Document {
	out := make([]*Document, 0, len(docs))
	for _, d := range docs {
		if unit.Matches(d.Unit) && status.Matches(d.Status) {
			out = append(out, d)
		}
	}
	return out
}
