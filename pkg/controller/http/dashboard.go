package http

import (
	"bytes"
	"net/http"

	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

func dashboardHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, uc.Dashboard.Build(q))
	}
}

func exportHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q, err := parseQuery(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := uc.Export.WritePDF(r.Context(), &buf, q); err != nil {
			writeError(w, r, err)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="themis-report.pdf"`)
		w.WriteHeader(http.StatusOK)
		safe.Write(r.Context(), w, buf.Bytes())
	}
}

type startAnalysisResponse struct {
	Token uint64             `json:"token"`
	Unit  types.UnitSelector `json:"unit"`
}

func startAnalysisHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unit, err := types.ParseUnitSelector(r.URL.Query().Get("unit"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		token := uc.Analysis.Start(r.Context(), unit)
		writeJSON(w, r, http.StatusAccepted, startAnalysisResponse{Token: token, Unit: unit})
	}
}

// latestAnalysisHandler answers 204 until an analysis was requested
func latestAnalysisHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		latest := uc.Analysis.Latest()
		if latest == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, r, http.StatusOK, latest)
	}
}
