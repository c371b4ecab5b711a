package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

type removeResponse struct {
	Removed bool `json:"removed"`
}

func listRisksHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, model.FilterRisks(uc.Register.Risks(), q.Unit, q.Level))
	}
}

func addRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusCreated, uc.Register.AddRisk(r.Context()))
	}
}

// updateRiskHandler answers 204 without a body when the id is unknown
func updateRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.RiskID(chi.URLParam(r, "id"))

		req, err := decodeUpdate(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		update, err := model.ParseRiskUpdate(req.Field, req.Value)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid risk update", goerr.V(usecase.RiskIDKey, id)))
			return
		}

		risk, err := uc.Register.UpdateRisk(r.Context(), id, update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if risk == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusOK, risk)
	}
}

func removeRiskHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.RiskID(chi.URLParam(r, "id"))
		writeJSON(w, r, http.StatusOK, removeResponse{Removed: uc.Register.RemoveRisk(r.Context(), id)})
	}
}

func listDocumentsHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, model.FilterDocuments(uc.Register.Documents(), q.Unit, q.Status))
	}
}

func addDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusCreated, uc.Register.AddDocument(r.Context()))
	}
}

func updateDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.DocumentID(chi.URLParam(r, "id"))

		req, err := decodeUpdate(w, r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		update, err := model.ParseDocumentUpdate(req.Field, req.Value)
		if err != nil {
			writeError(w, r, goerr.Wrap(err, "invalid document update", goerr.V(usecase.DocumentIDKey, id)))
			return
		}

		doc, err := uc.Register.UpdateDocument(r.Context(), id, update)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if doc == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusOK, doc)
	}
}

func removeDocumentHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := model.DocumentID(chi.URLParam(r, "id"))
		writeJSON(w, r, http.StatusOK, removeResponse{Removed: uc.Register.RemoveDocument(r.Context(), id)})
	}
}

type stateResponse struct {
	usecase.SaveStatus
	Message string `json:"message,omitempty"`
}

// saveHandler persists both collections. Storage failures answer 500 with the user facing message.
func saveHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := uc.Register.Persist(r.Context()); err != nil {
			errutil.Handle(r.Context(), err, "failed to save collections")
			writeJSON(w, r, http.StatusInternalServerError, stateResponse{
				SaveStatus: uc.Register.State(),
				Message:    usecase.MessageSaveFailed,
			})
			return
		}
		writeJSON(w, r, http.StatusOK, stateResponse{SaveStatus: uc.Register.State()})
	}
}

func resetHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uc.Register.Reset(r.Context())
		writeJSON(w, r, http.StatusOK, stateResponse{SaveStatus: uc.Register.State()})
	}
}

func stateHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, stateResponse{SaveStatus: uc.Register.State()})
	}
}

