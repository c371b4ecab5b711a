package model

import (
	"github.com/google/uuid"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// RiskID identifies a risk. Seeded risks use short ids such as "r1".
type RiskID string

// NewRiskID generates an id for a risk created by the user
func NewRiskID() RiskID {
	return RiskID("new-" + uuid.New().String())
}

func (id RiskID) String() string {
	return string(id)
}

// Factor names one of the five impact factors. The value is the stored field name.
type Factor string

const (
	FactorManagement    Factor = "factorManagement"
	FactorRegulation    Factor = "factorRegulation"
	FactorFunctionality Factor = "factorFunctionality"
	FactorLGPD          Factor = "factorLGPD"
	FactorCustomer      Factor = "factorCustomer"
)

func AllFactors() []Factor {
	return []Factor{
		FactorManagement,
		FactorRegulation,
		FactorFunctionality,
		FactorLGPD,
		FactorCustomer,
	}
}

func (f Factor) IsValid() bool {
	switch f {
	case FactorManagement, FactorRegulation, FactorFunctionality, FactorLGPD, FactorCustomer:
		return true
	default:
		return false
	}
}

// Factors is the set of five impact factors, each in 1..5
type Factors struct {
	Management    int
	Regulation    int
	Functionality int
	LGPD          int
	Customer      int
}

// Risk is an entry of the risk register. Field names follow the stored JSON format.
type Risk struct {
	ID                  RiskID          `json:"id"`
	Code                string          `json:"code"`
	Title               string          `json:"title"`
	Category            types.Category  `json:"category"`
	FactorManagement    int             `json:"factorManagement"`
	FactorRegulation    int             `json:"factorRegulation"`
	FactorFunctionality int             `json:"factorFunctionality"`
	FactorLGPD          int             `json:"factorLGPD"`
	FactorCustomer      int             `json:"factorCustomer"`
	Probability         int             `json:"probability"`
	Impact              float64         `json:"impact"`
	Level               types.RiskLevel `json:"level"`
	Unit                types.Unit      `json:"unit"`
	Owner               string          `json:"owner"`
}

// NewRisk returns a placeholder risk with the lowest scores, already rescored
func NewRisk() *Risk {
	r := &Risk{
		ID:                  NewRiskID(),
		Code:                "NOVO-00",
		Title:               "Novo Risco",
		Category:            types.CategoryOperational,
		FactorManagement:    1,
		FactorRegulation:    1,
		FactorFunctionality: 1,
		FactorLGPD:          1,
		FactorCustomer:      1,
		Probability:         1,
		Unit:                types.UnitInsurer,
		Owner:               "Responsável",
	}
	r.Rescore()
	return r
}

// Factors returns the five impact factors
func (r *Risk) Factors() Factors {
	return Factors{
		Management:    r.FactorManagement,
		Regulation:    r.FactorRegulation,
		Functionality: r.FactorFunctionality,
		LGPD:          r.FactorLGPD,
		Customer:      r.FactorCustomer,
	}
}

func (r *Risk) factor(f Factor) *int {
	switch f {
	case FactorManagement:
		return &r.FactorManagement
	case FactorRegulation:
		return &r.FactorRegulation
	case FactorFunctionality:
		return &r.FactorFunctionality
	case FactorLGPD:
		return &r.FactorLGPD
	case FactorCustomer:
		return &r.FactorCustomer
	default:
		return nil
	}
}

// Rescore recomputes Impact and Level from the factors and probability.
// Every change to a factor or the probability must go through it.
func (r *Risk) Rescore() {
	r.Impact = DeriveImpact(r.Factors())
	r.Level = RiskLevelOf(r.Probability, r.Impact).Label
}

// Classification returns the full level (code, label and score) of the risk
func (r *Risk) Classification() Level {
	return RiskLevelOf(r.Probability, r.Impact)
}

// ImpactLabel returns the label of the rounded impact
func (r *Risk) ImpactLabel() types.ImpactLabel {
	return ImpactLabelOf(r.Impact)
}

// Apply applies u to the risk. On error the risk is left unchanged.
func (r *Risk) Apply(u RiskUpdate) error {
	next := *r
	if err := u.apply(&next); err != nil {
		return err
	}
	if u.rescores() {
		next.Rescore()
	}
	*r = next
	return nil
}

// Clone returns a copy of the risk
func (r *Risk) Clone() *Risk {
	if r == nil {
		return nil
	}
	c := *r
	return &c
}

// CloneRisks deep copies a slice of risks
func CloneRisks(risks []*Risk) []*Risk {
	out := make([]*Risk, len(risks))
	for i, r := range risks {
		out[i] = r.Clone()
	}
	return out
}
