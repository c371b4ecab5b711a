package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/repository/memory"
	"github.com/secmon-lab/themis/pkg/usecase"
)

// failingStore rejects every write
type failingStore struct {
	*memory.Memory
}

func (s *failingStore) Set(ctx context.Context, key string, value []byte) error {
	return errors.New("quota exceeded")
}

type mockNarrator struct {
	text string
}

func (m *mockNarrator) Generate(ctx context.Context, input interfaces.NarrativeInput) (string, error) {
	return m.text, nil
}

func newServer(t *testing.T, store interfaces.KVStore, opts ...usecase.Option) (*httpctrl.Server, *usecase.UseCases) {
	t.Helper()
	uc := usecase.New(store, opts...)
	return httpctrl.New(uc), uc
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	srv, _ := newServer(t, memory.New())

	rec := do(t, srv, http.MethodGet, "/health", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Body.String()).Equal("ok")
}

func TestMetrics(t *testing.T) {
	srv, _ := newServer(t, memory.New())

	do(t, srv, http.MethodPost, "/api/risks", nil)
	rec := do(t, srv, http.MethodGet, "/metrics", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains("themis_register_mutations_total")
}

func TestRisks(t *testing.T) {
	t.Run("list with filters", func(t *testing.T) {
		srv, _ := newServer(t, memory.New())

		rec := do(t, srv, http.MethodGet, "/api/risks?unit=Seguradora", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)

		var risks []*model.Risk
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &risks)).Required()
		gt.Array(t, risks).Length(3)

		rec = do(t, srv, http.MethodGet, "/api/risks?level=Grande", nil)
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &risks)).Required()
		gt.Array(t, risks).Length(1)
		gt.Value(t, risks[0].ID).Equal(model.RiskID("r1"))
	})

	t.Run("invalid filter", func(t *testing.T) {
		srv, _ := newServer(t, memory.New())

		rec := do(t, srv, http.MethodGet, "/api/risks?unit=Banco", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

		rec = do(t, srv, http.MethodGet, "/api/risks?level=Enorme", nil)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("add update remove", func(t *testing.T) {
		srv, uc := newServer(t, memory.New())

		rec := do(t, srv, http.MethodPost, "/api/risks", nil)
		gt.Value(t, rec.Code).Equal(http.StatusCreated)
		var created model.Risk
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()

		rec = do(t, srv, http.MethodPatch, "/api/risks/"+created.ID.String(), map[string]any{
			"field": "probability",
			"value": "5",
		})
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		var updated model.Risk
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated)).Required()
		gt.Value(t, updated.Probability).Equal(5)
		gt.Value(t, updated.Level).Equal(types.RiskLevelModerate)

		rec = do(t, srv, http.MethodDelete, "/api/risks/"+created.ID.String(), nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"removed":true`)
		gt.Array(t, uc.Register.Risks()).Length(5)
	})

	t.Run("unknown id is a no-op", func(t *testing.T) {
		srv, _ := newServer(t, memory.New())

		rec := do(t, srv, http.MethodPatch, "/api/risks/missing", map[string]any{"field": "title", "value": "x"})
		gt.Value(t, rec.Code).Equal(http.StatusNoContent)
		gt.Value(t, rec.Body.Len()).Equal(0)

		rec = do(t, srv, http.MethodDelete, "/api/risks/missing", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"removed":false`)
	})

	t.Run("invalid updates", func(t *testing.T) {
		srv, uc := newServer(t, memory.New())

		testCases := []map[string]any{
			{"field": "probability", "value": 0},
			{"field": "factorLGPD", "value": 6},
			{"field": "level", "value": "Pequeno"},
			{"field": "impact", "value": 1},
			{"field": "unit", "value": "Banco"},
			{"field": "", "value": "x"},
		}
		for _, body := range testCases {
			rec := do(t, srv, http.MethodPatch, "/api/risks/r1", body)
			gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		}

		gt.Bool(t, uc.Register.State().Dirty).False()
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := newServer(t, memory.New())

		req := httptest.NewRequest(http.MethodPatch, "/api/risks/r1", strings.NewReader("{"))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
	})
}

func TestDocuments(t *testing.T) {
	srv, uc := newServer(t, memory.New(), usecase.WithClock(func() time.Time {
		return time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	}))

	rec := do(t, srv, http.MethodGet, "/api/documents?status=Em%20Revis%C3%A3o", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	var docs []*model.Document
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &docs)).Required()
	gt.Array(t, docs).Length(1)
	gt.Value(t, docs[0].ID).Equal(model.DocumentID("3"))

	rec = do(t, srv, http.MethodPost, "/api/documents", nil)
	gt.Value(t, rec.Code).Equal(http.StatusCreated)
	var created model.Document
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
	gt.Value(t, created.LastUpdated).Equal("2024-03-05")

	rec = do(t, srv, http.MethodPatch, "/api/documents/"+created.ID.String(), map[string]any{
		"field": "status",
		"value": "Published",
	})
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	rec = do(t, srv, http.MethodPatch, "/api/documents/"+created.ID.String(), map[string]any{
		"field": "type",
		"value": "Procedimento",
	})
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)

	rec = do(t, srv, http.MethodDelete, "/api/documents/1", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Array(t, uc.Register.Documents()).Length(7)
}

func TestSave(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		store := memory.New()
		srv, _ := newServer(t, store)

		do(t, srv, http.MethodPost, "/api/risks", nil)
		rec := do(t, srv, http.MethodGet, "/api/state", nil)
		gt.String(t, rec.Body.String()).Contains(`"dirty":true`)

		rec = do(t, srv, http.MethodPost, "/api/save", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.String(t, rec.Body.String()).Contains(`"state":"saved"`)

		data, err := store.Get(context.Background(), usecase.KeyRisks)
		gt.NoError(t, err).Required()
		var risks []*model.Risk
		gt.NoError(t, json.Unmarshal(data, &risks)).Required()
		gt.Array(t, risks).Length(6)
	})

	t.Run("storage failure", func(t *testing.T) {
		srv, uc := newServer(t, &failingStore{Memory: memory.New()})

		do(t, srv, http.MethodPost, "/api/risks", nil)
		rec := do(t, srv, http.MethodPost, "/api/save", nil)
		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
		gt.String(t, rec.Body.String()).Contains(usecase.MessageSaveFailed)
		gt.String(t, rec.Body.String()).Contains(`"state":"idle"`)
		gt.Bool(t, uc.Register.State().Dirty).True()
	})

	t.Run("reset", func(t *testing.T) {
		srv, uc := newServer(t, memory.New())

		do(t, srv, http.MethodDelete, "/api/risks/r1", nil)
		rec := do(t, srv, http.MethodPost, "/api/reset", nil)
		gt.Value(t, rec.Code).Equal(http.StatusOK)
		gt.Array(t, uc.Register.Risks()).Length(5)
	})
}

func TestDashboard(t *testing.T) {
	srv, _ := newServer(t, memory.New())

	rec := do(t, srv, http.MethodGet, "/api/dashboard?unit=Ciclos%20Pay", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var d usecase.Dashboard
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d)).Required()
	gt.Value(t, d.UnitLabel).Equal("Ciclos Pay")
	gt.Array(t, d.Risks).Length(2)
	gt.Array(t, d.Documents).Length(4)
	gt.Value(t, d.Summary.ActivePolicies).Equal(2)
	gt.Array(t, d.Matrix.Rows).Length(5)

	rec = do(t, srv, http.MethodGet, "/api/dashboard?status=Arquivado", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}

func TestExport(t *testing.T) {
	srv, _ := newServer(t, memory.New())

	rec := do(t, srv, http.MethodGet, "/api/export.pdf?unit=Seguradora", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)
	gt.Value(t, rec.Header().Get("Content-Type")).Equal("application/pdf")
	gt.Bool(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-"))).True()
}

func TestAnalysis(t *testing.T) {
	srv, uc := newServer(t, memory.New(), usecase.WithNarrator(&mockNarrator{text: "### Resumo\n- ação"}))

	rec := do(t, srv, http.MethodGet, "/api/analysis", nil)
	gt.Value(t, rec.Code).Equal(http.StatusNoContent)

	rec = do(t, srv, http.MethodPost, "/api/analysis?unit=Seguradora", nil)
	gt.Value(t, rec.Code).Equal(http.StatusAccepted)
	gt.String(t, rec.Body.String()).Contains(`"token":1`)

	deadline := time.Now().Add(5 * time.Second)
	for uc.Analysis.Latest().Running && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	rec = do(t, srv, http.MethodGet, "/api/analysis", nil)
	gt.Value(t, rec.Code).Equal(http.StatusOK)

	var result usecase.AnalysisResult
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result)).Required()
	gt.Value(t, result.Token).Equal(uint64(1))
	gt.Value(t, result.Unit).Equal(types.SelectUnit(types.UnitInsurer))
	gt.Bool(t, result.Failed).False()
	gt.Array(t, result.Blocks).Length(2)

	rec = do(t, srv, http.MethodPost, "/api/analysis?unit=Banco", nil)
	gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
}
