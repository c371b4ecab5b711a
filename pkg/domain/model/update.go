package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// RiskUpdate is a single-field change to a risk. Only the Set* constructors
// in this package can produce one.
type RiskUpdate interface {
	// Field is the stored field name that the update changes
	Field() string
	apply(r *Risk) error
	rescores() bool
}

type riskUpdate struct {
	field   string
	rescore bool
	fn      func(r *Risk) error
}

func (u *riskUpdate) Field() string { return u.field }
func (u *riskUpdate) apply(r *Risk) error { return u.fn(r) }
func (u *riskUpdate) rescores() bool { return u.rescore }

func checkScore(field string, v int) error {
	if v < MinScore || v > MaxScore {
		return goerr.Wrap(ErrScoreOutOfRange, "score must be between 1 and 5",
			goerr.V(FieldKey, field), goerr.V(ValueKey, v))
	}
	return nil
}

// SetRiskCode changes the risk code
func SetRiskCode(code string) RiskUpdate {
	return &riskUpdate{field: "code", fn: func(r *Risk) error {
		r.Code = code
		return nil
	}}
}

// SetRiskTitle changes the risk title
func SetRiskTitle(title string) RiskUpdate {
	return &riskUpdate{field: "title", fn: func(r *Risk) error {
		r.Title = title
		return nil
	}}
}

// SetRiskCategory accepts free text; unknown categories are only excluded from the chart buckets.
// None of the text setters rescore the risk.
func SetRiskCategory(category types.Category) RiskUpdate {
	return &riskUpdate{field: "category", fn: func(r *Risk) error {
		r.Category = category
		return nil
	}}
}

// SetRiskUnit moves the risk to another business unit
func SetRiskUnit(unit types.Unit) RiskUpdate {
	return &riskUpdate{field: "unit", fn: func(r *Risk) error {
		if !unit.IsValid() {
			return goerr.Wrap(types.ErrInvalidUnit, "set risk unit", goerr.V(ValueKey, unit))
		}
		r.Unit = unit
		return nil
	}}
}

// SetRiskOwner changes the person or area accountable for the risk
func SetRiskOwner(owner string) RiskUpdate {
	return &riskUpdate{field: "owner", fn: func(r *Risk) error {
		r.Owner = owner
		return nil
	}}
}

// SetRiskProbability sets the probability (1..5) and rescores the risk
func SetRiskProbability(p int) RiskUpdate {
	return &riskUpdate{field: "probability", rescore: true, fn: func(r *Risk) error {
		if err := checkScore("probability", p); err != nil {
			return err
		}
		r.Probability = p
		return nil
	}}
}

// SetRiskFactor sets one impact factor (1..5) and rescores the risk
func SetRiskFactor(f Factor, v int) RiskUpdate {
	return &riskUpdate{field: string(f), rescore: true, fn: func(r *Risk) error {
		ptr := r.factor(f)
		if ptr == nil {
			return goerr.Wrap(ErrUnknownField, "set risk factor", goerr.V(FieldKey, f))
		}
		if err := checkScore(string(f), v); err != nil {
			return err
		}
		*ptr = v
		return nil
	}}
}

// ParseRiskUpdate decodes the {field, value} wire form into a typed update.
// impact and level are derived and cannot be set.
func ParseRiskUpdate(field string, raw json.RawMessage) (RiskUpdate, error) {
	switch field {
	case "code", "title", "owner", "category", "unit":
		s, err := decodeString(field, raw)
		if err != nil {
			return nil, err
		}
		switch field {
		case "code":
			return SetRiskCode(s), nil
		case "title":
			return SetRiskTitle(s), nil
		case "owner":
			return SetRiskOwner(s), nil
		case "category":
			return SetRiskCategory(types.Category(s)), nil
		default:
			unit, err := types.ParseUnit(s)
			if err != nil {
				return nil, err
			}
			return SetRiskUnit(unit), nil
		}

	case "probability":
		v, err := decodeInt(field, raw)
		if err != nil {
			return nil, err
		}
		if err := checkScore(field, v); err != nil {
			return nil, err
		}
		return SetRiskProbability(v), nil
	}

	if f := Factor(field); f.IsValid() {
		v, err := decodeInt(field, raw)
		if err != nil {
			return nil, err
		}
		if err := checkScore(field, v); err != nil {
			return nil, err
		}
		return SetRiskFactor(f, v), nil
	}

	return nil, goerr.Wrap(ErrUnknownField, "parse risk update", goerr.V(FieldKey, field))
}

// DocumentUpdate is a single-field change to a document
type DocumentUpdate interface {
	Field() string
	apply(d *Document) error
}

type documentUpdate struct {
	field string
	fn    func(d *Document) error
}

func (u *documentUpdate) Field() string { return u.field }
func (u *documentUpdate) apply(d *Document) error { return u.fn(d) }

// SetDocumentTitle changes the document title
func SetDocumentTitle(title string) DocumentUpdate {
	return &documentUpdate{field: "title", fn: func(d *Document) error {
		d.Title = title
		return nil
	}}
}

// SetDocumentType changes the document kind
func SetDocumentType(t types.DocumentType) DocumentUpdate {
	return &documentUpdate{field: "type", fn: func(d *Document) error {
		if !t.IsValid() {
			return goerr.Wrap(types.ErrInvalidDocumentType, "set document type", goerr.V(ValueKey, t))
		}
		d.Type = t
		return nil
	}}
}

// SetDocumentUnit moves the document to another business unit
func SetDocumentUnit(unit types.Unit) DocumentUpdate {
	return &documentUpdate{field: "unit", fn: func(d *Document) error {
		if !unit.IsValid() {
			return goerr.Wrap(types.ErrInvalidUnit, "set document unit", goerr.V(ValueKey, unit))
		}
		d.Unit = unit
		return nil
	}}
}

// SetDocumentStatus changes the lifecycle status
func SetDocumentStatus(status types.DocumentStatus) DocumentUpdate {
	return &documentUpdate{field: "status", fn: func(d *Document) error {
		if !status.IsValid() {
			return goerr.Wrap(types.ErrInvalidDocumentStatus, "set document status", goerr.V(ValueKey, status))
		}
		d.Status = status
		return nil
	}}
}

// SetDocumentLastUpdated takes a YYYY-MM-DD date
func SetDocumentLastUpdated(date string) DocumentUpdate {
	return &documentUpdate{field: "lastUpdated", fn: func(d *Document) error {
		if _, err := time.Parse(DateLayout, date); err != nil {
			return goerr.Wrap(ErrInvalidDate, "set document date", goerr.V(ValueKey, date))
		}
		d.LastUpdated = date
		return nil
	}}
}

// SetDocumentDescription changes the document description
func SetDocumentDescription(description string) DocumentUpdate {
	return &documentUpdate{field: "description", fn: func(d *Document) error {
		d.Description = description
		return nil
	}}
}

// ParseDocumentUpdate decodes the {field, value} wire form into a typed update
func ParseDocumentUpdate(field string, raw json.RawMessage) (DocumentUpdate, error) {
	switch field {
	case "title", "type", "unit", "status", "lastUpdated", "description":
	default:
		return nil, goerr.Wrap(ErrUnknownField, "parse document update", goerr.V(FieldKey, field))
	}

	s, err := decodeString(field, raw)
	if err != nil {
		return nil, err
	}

	switch field {
	case "title":
		return SetDocumentTitle(s), nil
	case "type":
		t, err := types.ParseDocumentType(s)
		if err != nil {
			return nil, err
		}
		return SetDocumentType(t), nil
	case "unit":
		u, err := types.ParseUnit(s)
		if err != nil {
			return nil, err
		}
		return SetDocumentUnit(u), nil
	case "status":
		st, err := types.ParseDocumentStatus(s)
		if err != nil {
			return nil, err
		}
		return SetDocumentStatus(st), nil
	case "lastUpdated":
		if _, err := time.Parse(DateLayout, s); err != nil {
			return nil, goerr.Wrap(ErrInvalidDate, "parse document date", goerr.V(ValueKey, s))
		}
		return SetDocumentLastUpdated(s), nil
	default:
		return SetDocumentDescription(s), nil
	}
}

func decodeString(field string, raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", goerr.Wrap(ErrInvalidUpdateValue, "value must be a string",
			goerr.V(FieldKey, field), goerr.V(ValueKey, string(raw)))
	}
	return s, nil
}

// decodeInt accepts a JSON number with no fractional part, or a string holding
// one, since form inputs often send numbers as text or as "3.0".
func decodeInt(field string, raw json.RawMessage) (int, error) {
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		if v, ok := integral(f); ok {
			return v, nil
		}
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			if v, ok := integral(f); ok {
				return v, nil
			}
		}
	}

	return 0, goerr.Wrap(ErrInvalidUpdateValue, "value must be an integer",
		goerr.V(FieldKey, field), goerr.V(ValueKey, string(raw)))
}

func integral(f float64) (int, bool) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
