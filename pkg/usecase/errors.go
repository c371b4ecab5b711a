package usecase

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors for use case layer
var (
	ErrStorageWrite = goerr.New("failed to write collections to storage")
)

// User facing messages. Kept in Portuguese like the rest of the stored data.
const (
	MessageSaveFailed     = "Erro ao salvar dados. Verifique o armazenamento do navegador."
	MessageAnalysisFailed = "Erro ao conectar com o serviço de inteligência artificial. Verifique sua chave de API."
	MessageAnalysisEmpty  = "Não foi possível gerar a análise no momento."
	UnitLabelConsolidated = "Visão Consolidada"
)

// Context keys for error values
const (
	KeyKey        = "key"
	RiskIDKey     = "risk_id"
	DocumentIDKey = "document_id"
	TokenKey      = "token"
)
