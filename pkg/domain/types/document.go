package types

import "github.com/m-mizutani/goerr/v2"

// DocumentType is the kind of normative document
type DocumentType string

const (
	DocumentTypePolicy DocumentType = "Política"
	DocumentTypeNorm   DocumentType = "Norma"
	DocumentTypeManual DocumentType = "Manual"
)

func AllDocumentTypes() []DocumentType {
	return []DocumentType{DocumentTypePolicy, DocumentTypeNorm, DocumentTypeManual}
}

func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypePolicy, DocumentTypeNorm, DocumentTypeManual:
		return true
	default:
		return false
	}
}

func (t DocumentType) String() string {
	return string(t)
}

func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !t.IsValid() {
		return "", goerr.Wrap(ErrInvalidDocumentType, "parse document type", goerr.V(ValueKey, s))
	}
	return t, nil
}

// DocumentStatus is the lifecycle status of a document
type DocumentStatus string

const (
	DocumentStatusPublished DocumentStatus = "Published"
	DocumentStatusDraft     DocumentStatus = "Draft"
	DocumentStatusReview    DocumentStatus = "Review"
)

func AllDocumentStatuses() []DocumentStatus {
	return []DocumentStatus{DocumentStatusPublished, DocumentStatusDraft, DocumentStatusReview}
}

func (s DocumentStatus) IsValid() bool {
	switch s {
	case DocumentStatusPublished, DocumentStatusDraft, DocumentStatusReview:
		return true
	default:
		return false
	}
}

// Label returns the Portuguese display label of the status
func (s DocumentStatus) Label() string {
	switch s {
	case DocumentStatusPublished:
		return string(StatusFilterPublished)
	case DocumentStatusReview:
		return string(StatusFilterReview)
	case DocumentStatusDraft:
		return string(StatusFilterDraft)
	default:
		return string(s)
	}
}

func (s DocumentStatus) String() string {
	return string(s)
}

func ParseDocumentStatus(s string) (DocumentStatus, error) {
	st := DocumentStatus(s)
	if !st.IsValid() {
		return "", goerr.Wrap(ErrInvalidDocumentStatus, "parse document status", goerr.V(ValueKey, s))
	}
	return st, nil
}

// StatusFilter is the display label used to filter documents by status
type StatusFilter string

const (
	StatusFilterAll       StatusFilter = "Todos"
	StatusFilterPublished StatusFilter = "Publicado"
	StatusFilterReview    StatusFilter = "Em Revisão"
	StatusFilterDraft     StatusFilter = "Rascunho"
)

func AllStatusFilters() []StatusFilter {
	return []StatusFilter{
		StatusFilterAll,
		StatusFilterPublished,
		StatusFilterReview,
		StatusFilterDraft,
	}
}

func (f StatusFilter) IsValid() bool {
	switch f {
	case StatusFilterAll, StatusFilterPublished, StatusFilterReview, StatusFilterDraft:
		return true
	default:
		return false
	}
}

// Status translates the label into the stored status. ok is false for StatusFilterAll.
func (f StatusFilter) Status() (status DocumentStatus, ok bool) {
	switch f {
	case StatusFilterPublished:
		return DocumentStatusPublished, true
	case StatusFilterReview:
		return DocumentStatusReview, true
	case StatusFilterDraft:
		return DocumentStatusDraft, true
	default:
		return "", false
	}
}

// Matches reports whether a document with status s passes the filter
func (f StatusFilter) Matches(s DocumentStatus) bool {
	want, ok := f.Status()
	if !ok {
		return f == StatusFilterAll
	}
	return want == s
}

func (f StatusFilter) String() string {
	return string(f)
}

// ParseStatusFilter parses a filter label. Empty input selects all statuses.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" {
		return StatusFilterAll, nil
	}
	f := StatusFilter(s)
	if !f.IsValid() {
		return "", goerr.Wrap(ErrInvalidStatusFilter, "parse status filter", goerr.V(ValueKey, s))
	}
	return f, nil
}
