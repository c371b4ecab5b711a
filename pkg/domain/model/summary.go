package model

import "github.com/secmon-lab/themis/pkg/domain/types"

// Chart labels of the document distribution
const (
	DocumentSliceManuals  = "Manuais"
	DocumentSliceNorms    = "Normas"
	DocumentSlicePolicies = "Políticas"
)

// CategoryCount is one bar of the risks-by-category chart
type CategoryCount struct {
	Category types.Category `json:"name"`
	Count    int            `json:"value"`
}

// SliceCount is one slice of the documents-by-type chart
type SliceCount struct {
	Name  string `json:"name"`
	Count int    `json:"value"`
}

// Summary holds the KPIs and chart series of a dashboard view
type Summary struct {
	CriticalOrAbove int             `json:"criticalOrAbove"`
	ActivePolicies  int             `json:"activePolicies"`
	Norms           int             `json:"norms"`
	Manuals         int             `json:"manuals"`
	RisksByCategory []CategoryCount `json:"risksByCategory"`
	DocumentsByType []SliceCount    `json:"documentsByType"`
}

// Aggregate computes the summary of already filtered collections.
// The Políticas slice holds the published policy count, same as ActivePolicies.
func Aggregate(risks []*Risk, docs []*Document) *Summary {
	s := &Summary{
		RisksByCategory: []CategoryCount{},
	}

	for _, r := range risks {
		if r.Level.IsSevere() {
			s.CriticalOrAbove++
		}
	}

	for _, d := range docs {
		switch d.Type {
		case types.DocumentTypePolicy:
			if d.Status == types.DocumentStatusPublished {
				s.ActivePolicies++
			}
		case types.DocumentTypeNorm:
			s.Norms++
		case types.DocumentTypeManual:
			s.Manuals++
		}
	}

	for _, bucket := range types.AllCategories() {
		count := 0
		for _, r := range risks {
			if r.Category.InBucket(bucket) {
				count++
			}
		}
		if count > 0 {
			s.RisksByCategory = append(s.RisksByCategory, CategoryCount{Category: bucket, Count: count})
		}
	}

	s.DocumentsByType = []SliceCount{
		{Name: DocumentSliceManuals, Count: s.Manuals},
		{Name: DocumentSliceNorms, Count: s.Norms},
		{Name: DocumentSlicePolicies, Count: s.ActivePolicies},
	}

	return s
}
