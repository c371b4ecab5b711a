package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/secmon-lab/themis/pkg/domain/types"
)

// DateLayout is the stored format of Document.LastUpdated
const DateLayout = "2006-01-02"

// DocumentID identifies a normative document
type DocumentID string

// NewDocumentID generates an id for a document created by the user
func NewDocumentID() DocumentID {
	return DocumentID("new-doc-" + uuid.New().String())
}

func (id DocumentID) String() string {
	return string(id)
}

// Document is a policy, norm or manual
type Document struct {
	ID          DocumentID           `json:"id"`
	Title       string               `json:"title"`
	Type        types.DocumentType   `json:"type"`
	Unit        types.Unit           `json:"unit"`
	Status      types.DocumentStatus `json:"status"`
	LastUpdated string               `json:"lastUpdated"`
	Description string               `json:"description"`
}

// NewDocument returns a draft policy dated today
func NewDocument(today time.Time) *Document {
	return &Document{
		ID:          NewDocumentID(),
		Title:       "Novo Documento",
		Type:        types.DocumentTypePolicy,
		Unit:        types.UnitInsurer,
		Status:      types.DocumentStatusDraft,
		LastUpdated: today.Format(DateLayout),
	}
}

// Apply applies u to the document. On error the document is left unchanged.
func (d *Document) Apply(u DocumentUpdate) error {
	next := *d
	if err := u.apply(&next); err != nil {
		return err
	}
	*d = next
	return nil
}

func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

func CloneDocuments(docs []*Document) []*Document {
	out := make([]*Document, len(docs))
	for i, d := range docs {
		out[i] = d.Clone()
	}
	return out
}
