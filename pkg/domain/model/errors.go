package model

import "github.com/m-mizutani/goerr/v2"

var (
	ErrScoreOutOfRange    = goerr.New("score out of range")
	ErrUnknownField       = goerr.New("unknown field")
	ErrInvalidUpdateValue = goerr.New("invalid update value")
	ErrInvalidDate        = goerr.New("invalid date")
	ErrInvalidSeed        = goerr.New("invalid seed data")
)

// Context keys for error values
const (
	FieldKey      = "field"
	ValueKey      = "value"
	RiskIDKey     = "risk_id"
	DocumentIDKey = "document_id"
)

// Score bounds of factors and probability
const (
	MinScore = 1
	MaxScore = 5
)
