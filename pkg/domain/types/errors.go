package types

import "github.com/m-mizutani/goerr/v2"

var (
	ErrInvalidUnit           = goerr.New("invalid unit")
	ErrInvalidRiskLevel      = goerr.New("invalid risk level")
	ErrInvalidCategory       = goerr.New("invalid category")
	ErrInvalidDocumentType   = goerr.New("invalid document type")
	ErrInvalidDocumentStatus = goerr.New("invalid document status")
	ErrInvalidStatusFilter   = goerr.New("invalid status filter")
)

// ValueKey is the goerr key holding the rejected input
const ValueKey = "value"
