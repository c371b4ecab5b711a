package types

import "github.com/m-mizutani/goerr/v2"

// Unit is a business unit of the group
type Unit string

const (
	UnitInsurer  Unit = "Seguradora"
	UnitPayments Unit = "Ciclos Pay"
)

// AllUnits returns all units in display order
func AllUnits() []Unit {
	return []Unit{UnitInsurer, UnitPayments}
}

func (u Unit) IsValid() bool {
	switch u {
	case UnitInsurer, UnitPayments:
		return true
	default:
		return false
	}
}

func (u Unit) String() string {
	return string(u)
}

// ParseUnit parses a stored unit name
func ParseUnit(s string) (Unit, error) {
	u := Unit(s)
	if !u.IsValid() {
		return "", goerr.Wrap(ErrInvalidUnit, "parse unit", goerr.V(ValueKey, s))
	}
	return u, nil
}

// UnitSelector selects either every unit or a single one
type UnitSelector string

// UnitSelectorAll is the consolidated view over all units
const UnitSelectorAll UnitSelector = "Consolidado"

// SelectUnit returns the selector matching only u
func SelectUnit(u Unit) UnitSelector {
	return UnitSelector(u)
}

// AllUnitSelectors returns the consolidated view followed by each unit
func AllUnitSelectors() []UnitSelector {
	selectors := []UnitSelector{UnitSelectorAll}
	for _, u := range AllUnits() {
		selectors = append(selectors, SelectUnit(u))
	}
	return selectors
}

func (s UnitSelector) IsAll() bool {
	return s == UnitSelectorAll
}

func (s UnitSelector) IsValid() bool {
	return s.IsAll() || Unit(s).IsValid()
}

// Matches reports whether u is selected
func (s UnitSelector) Matches(u Unit) bool {
	return s.IsAll() || Unit(s) == u
}

func (s UnitSelector) String() string {
	return string(s)
}

// ParseUnitSelector parses a selector. Empty input selects all units.
func ParseUnitSelector(s string) (UnitSelector, error) {
	if s == "" {
		return UnitSelectorAll, nil
	}
	sel := UnitSelector(s)
	if !sel.IsValid() {
		return "", goerr.Wrap(ErrInvalidUnit, "parse unit selector", goerr.V(ValueKey, s))
	}
	return sel, nil
}
