package types

import "github.com/m-mizutani/goerr/v2"

// RiskLevel is the five-tier severity label of a risk
type RiskLevel string

const (
	RiskLevelSmall    RiskLevel = "Pequeno"
	RiskLevelModerate RiskLevel = "Moderado"
	RiskLevelHigh     RiskLevel = "Alto"
	RiskLevelLarge    RiskLevel = "Grande"
	RiskLevelCritical RiskLevel = "Crítico"
)

// AllRiskLevels returns all levels from lowest to highest
func AllRiskLevels() []RiskLevel {
	return []RiskLevel{
		RiskLevelSmall,
		RiskLevelModerate,
		RiskLevelHigh,
		RiskLevelLarge,
		RiskLevelCritical,
	}
}

func (l RiskLevel) IsValid() bool {
	switch l {
	case RiskLevelSmall,
		RiskLevelModerate,
		RiskLevelHigh,
		RiskLevelLarge,
		RiskLevelCritical:
		return true
	default:
		return false
	}
}

// IsSevere reports whether the level counts toward the critical-or-above KPI (Alto and up)
func (l RiskLevel) IsSevere() bool {
	switch l {
	case RiskLevelHigh, RiskLevelLarge, RiskLevelCritical:
		return true
	default:
		return false
	}
}

func (l RiskLevel) String() string {
	return string(l)
}

// ParseRiskLevel parses a stored level label
func ParseRiskLevel(s string) (RiskLevel, error) {
	l := RiskLevel(s)
	if !l.IsValid() {
		return "", goerr.Wrap(ErrInvalidRiskLevel, "parse risk level", goerr.V(ValueKey, s))
	}
	return l, nil
}

// LevelCode is the short code of a risk level
type LevelCode string

const (
	LevelCodeRP LevelCode = "RP"
	LevelCodeRM LevelCode = "RM"
	LevelCodeRA LevelCode = "RA"
	LevelCodeRG LevelCode = "RG"
	LevelCodeRC LevelCode = "RC"
)

func AllLevelCodes() []LevelCode {
	return []LevelCode{LevelCodeRP, LevelCodeRM, LevelCodeRA, LevelCodeRG, LevelCodeRC}
}

func (c LevelCode) IsValid() bool {
	switch c {
	case LevelCodeRP, LevelCodeRM, LevelCodeRA, LevelCodeRG, LevelCodeRC:
		return true
	default:
		return false
	}
}

func (c LevelCode) String() string {
	return string(c)
}

// ParseLevelCode parses a level code such as "RA"
func ParseLevelCode(s string) (LevelCode, error) {
	c := LevelCode(s)
	if !c.IsValid() {
		return "", goerr.Wrap(ErrInvalidRiskLevel, "parse level code", goerr.V(ValueKey, s))
	}
	return c, nil
}

// LevelFilter selects every level or exactly one
type LevelFilter string

// LevelFilterAll disables level filtering
const LevelFilterAll LevelFilter = "Todos"

func AllLevelFilters() []LevelFilter {
	filters := []LevelFilter{LevelFilterAll}
	for _, l := range AllRiskLevels() {
		filters = append(filters, LevelFilter(l))
	}
	return filters
}

func (f LevelFilter) IsValid() bool {
	return f == LevelFilterAll || RiskLevel(f).IsValid()
}

// Matches reports whether a risk with level l passes the filter
func (f LevelFilter) Matches(l RiskLevel) bool {
	return f == LevelFilterAll || RiskLevel(f) == l
}

func (f LevelFilter) String() string {
	return string(f)
}

// ParseLevelFilter parses a filter. Empty input selects all levels.
func ParseLevelFilter(s string) (LevelFilter, error) {
	if s == "" {
		return LevelFilterAll, nil
	}
	f := LevelFilter(s)
	if !f.IsValid() {
		return "", goerr.Wrap(ErrInvalidRiskLevel, "parse level filter", goerr.V(ValueKey, s))
	}
	return f, nil
}
