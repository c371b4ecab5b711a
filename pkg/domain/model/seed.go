package model

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// Seed is the dataset used when nothing has been persisted yet
type Seed struct {
	Risks     []*Risk
	Documents []*Document
}

// DefaultSeed returns the built-in demo dataset
func DefaultSeed() *Seed {
	return &Seed{
		Risks:     SeedRisks(),
		Documents: SeedDocuments(),
	}
}

// Validate checks ids, enumerations and score ranges of every record
func (s *Seed) Validate() error {
	riskIDs := make(map[RiskID]struct{}, len(s.Risks))
	for i, r := range s.Risks {
		if r == nil || r.ID == "" {
			return goerr.Wrap(ErrInvalidSeed, "risk id is required", goerr.V("index", i))
		}
		if _, ok := riskIDs[r.ID]; ok {
			return goerr.Wrap(ErrInvalidSeed, "duplicated risk id", goerr.V(RiskIDKey, r.ID))
		}
		riskIDs[r.ID] = struct{}{}

		if !r.Unit.IsValid() {
			return goerr.Wrap(types.ErrInvalidUnit, "invalid risk unit", goerr.V(RiskIDKey, r.ID), goerr.V(ValueKey, r.Unit))
		}
		if err := checkScore("probability", r.Probability); err != nil {
			return goerr.Wrap(err, "invalid risk", goerr.V(RiskIDKey, r.ID))
		}
		for _, f := range AllFactors() {
			if err := checkScore(string(f), *r.factor(f)); err != nil {
				return goerr.Wrap(err, "invalid risk", goerr.V(RiskIDKey, r.ID))
			}
		}
	}

	docIDs := make(map[DocumentID]struct{}, len(s.Documents))
	for i, d := range s.Documents {
		if d == nil || d.ID == "" {
			return goerr.Wrap(ErrInvalidSeed, "document id is required", goerr.V("index", i))
		}
		if _, ok := docIDs[d.ID]; ok {
			return goerr.Wrap(ErrInvalidSeed, "duplicated document id", goerr.V(DocumentIDKey, d.ID))
		}
		docIDs[d.ID] = struct{}{}

		if !d.Unit.IsValid() {
			return goerr.Wrap(types.ErrInvalidUnit, "invalid document unit", goerr.V(DocumentIDKey, d.ID), goerr.V(ValueKey, d.Unit))
		}
		if !d.Type.IsValid() {
			return goerr.Wrap(types.ErrInvalidDocumentType, "invalid document type", goerr.V(DocumentIDKey, d.ID), goerr.V(ValueKey, d.Type))
		}
		if !d.Status.IsValid() {
			return goerr.Wrap(types.ErrInvalidDocumentStatus, "invalid document status", goerr.V(DocumentIDKey, d.ID), goerr.V(ValueKey, d.Status))
		}
		if _, err := time.Parse(DateLayout, d.LastUpdated); err != nil {
			return goerr.Wrap(ErrInvalidDate, "invalid document date", goerr.V(DocumentIDKey, d.ID), goerr.V(ValueKey, d.LastUpdated))
		}
	}

	return nil
}

// Clone deep copies the seed and rescores every risk
func (s *Seed) Clone() *Seed {
	c := &Seed{
		Risks:     CloneRisks(s.Risks),
		Documents: CloneDocuments(s.Documents),
	}
	for _, r := range c.Risks {
		r.Rescore()
	}
	return c
}

// SeedRisks returns a fresh copy of the five demo risks, rescored
func SeedRisks() []*Risk {
	risks := []*Risk{
		{
			ID:                  "r1",
			Code:                "OP-001",
			Title:               "Fraude em Sinistros",
			Category:            types.CategoryOperational,
			FactorManagement:    5,
			FactorRegulation:    4,
			FactorFunctionality: 5,
			FactorLGPD:          5,
			FactorCustomer:      5,
			Probability:         3,
			Unit:                types.UnitInsurer,
			Owner:               "Equipe de Fraude",
		},
		{
			ID:                  "r2",
			Code:                "LGPD-02",
			Title:               "Vazamento de Dados LGPD",
			Category:            types.CategoryLegalRegulatory,
			FactorManagement:    5,
			FactorRegulation:    5,
			FactorFunctionality: 5,
			FactorLGPD:          5,
			FactorCustomer:      5,
			Probability:         2,
			Unit:                types.UnitPayments,
			Owner:               "DPO",
		},
		{
			ID:                  "r3",
			Code:                "TEC-05",
			Title:               "Falha no Gateway de Pagamento",
			Category:            types.CategoryTechnological,
			FactorManagement:    4,
			FactorRegulation:    3,
			FactorFunctionality: 5,
			FactorLGPD:          3,
			FactorCustomer:      5,
			Probability:         2,
			Unit:                types.UnitPayments,
			Owner:               "CTO",
		},
		{
			ID:                  "r4",
			Code:                "FIN-01",
			Title:               "Inadimplência de Prêmios",
			Category:            types.CategoryFinancial,
			FactorManagement:    3,
			FactorRegulation:    2,
			FactorFunctionality: 2,
			FactorLGPD:          1,
			FactorCustomer:      2,
			Probability:         4,
			Unit:                types.UnitInsurer,
			Owner:               "CFO",
		},
		{
			ID:                  "r5",
			Code:                "REG-03",
			Title:               "Alterações Regulatórias SUSEP",
			Category:            types.CategoryRegulatory,
			FactorManagement:    4,
			FactorRegulation:    5,
			FactorFunctionality: 3,
			FactorLGPD:          4,
			FactorCustomer:      3,
			Probability:         3,
			Unit:                types.UnitInsurer,
			Owner:               "Compliance",
		},
	}
	for _, r := range risks {
		r.Rescore()
	}
	return risks
}

// SeedDocuments returns a fresh copy of the seven demo documents
func SeedDocuments() []*Document {
	return []*Document{
		{
			ID:          "1",
			Title:       "Política de Subscrição de Riscos",
			Type:        types.DocumentTypePolicy,
			Unit:        types.UnitInsurer,
			Status:      types.DocumentStatusPublished,
			LastUpdated: "2023-10-15",
			Description: "Diretrizes para aceitação de novos riscos de seguros.",
		},
		{
			ID:          "2",
			Title:       "Manual de Sinistros",
			Type:        types.DocumentTypeManual,
			Unit:        types.UnitInsurer,
			Status:      types.DocumentStatusPublished,
			LastUpdated: "2023-11-02",
			Description: "Procedimentos operacionais para regulação de sinistros.",
		},
		{
			ID:          "3",
			Title:       "Norma de PLD/FT",
			Type:        types.DocumentTypeNorm,
			Unit:        types.UnitInsurer,
			Status:      types.DocumentStatusReview,
			LastUpdated: "2024-01-10",
			Description: "Prevenção à Lavagem de Dinheiro e Financiamento do Terrorismo.",
		},
		{
			ID:          "4",
			Title:       "Política de Segurança Cibernética",
			Type:        types.DocumentTypePolicy,
			Unit:        types.UnitPayments,
			Status:      types.DocumentStatusPublished,
			LastUpdated: "2023-12-05",
			Description: "Diretrizes de proteção de dados e infraestrutura de pagamentos.",
		},
		{
			ID:          "5",
			Title:       "Manual de Integração API",
			Type:        types.DocumentTypeManual,
			Unit:        types.UnitPayments,
			Status:      types.DocumentStatusPublished,
			LastUpdated: "2024-02-20",
			Description: "Guia técnico para parceiros integrarem ao gateway.",
		},
		{
			ID:          "6",
			Title:       "Norma de Reconciliação Financeira",
			Type:        types.DocumentTypeNorm,
			Unit:        types.UnitPayments,
			Status:      types.DocumentStatusDraft,
			LastUpdated: "2024-03-01",
			Description: "Regras para conciliação diária de transações.",
		},
		{
			ID:          "7",
			Title:       "Política de Gestão de Liquidez",
			Type:        types.DocumentTypePolicy,
			Unit:        types.UnitPayments,
			Status:      types.DocumentStatusPublished,
			LastUpdated: "2023-09-20",
			Description: "Controle de fluxo de caixa e reservas obrigatórias.",
		},
	}
}
