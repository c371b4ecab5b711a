package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
	"github.com/secmon-lab/themis/pkg/utils/safe"
)

// maxBodySize limits PATCH request bodies
const maxBodySize = 1 << 20

var badRequestErrors = []error{
	model.ErrScoreOutOfRange,
	model.ErrUnknownField,
	model.ErrInvalidUpdateValue,
	model.ErrInvalidDate,
	types.ErrInvalidUnit,
	types.ErrInvalidRiskLevel,
	types.ErrInvalidCategory,
	types.ErrInvalidDocumentType,
	types.ErrInvalidDocumentStatus,
	types.ErrInvalidStatusFilter,
}

// statusOf maps domain validation errors to 400 and everything else to 500
func statusOf(err error) int {
	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "failed to marshal response"), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	safe.Write(r.Context(), w, data)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	errutil.HandleHTTP(r.Context(), w, err, statusOf(err))
}

// updateRequest is the body of PATCH requests
type updateRequest struct {
	Field string          `json:"field"`
	Value json.RawMessage `json:"value"`
}

func decodeUpdate(w http.ResponseWriter, r *http.Request) (*updateRequest, error) {
	var req updateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		return nil, goerr.Wrap(model.ErrInvalidUpdateValue, "failed to decode update request", goerr.V("cause", err.Error()))
	}
	if req.Field == "" {
		return nil, goerr.Wrap(model.ErrUnknownField, "field is required")
	}
	return &req, nil
}

func parseQuery(r *http.Request) (usecase.DashboardQuery, error) {
	q := r.URL.Query()

	unit, err := types.ParseUnitSelector(q.Get("unit"))
	if err != nil {
		return usecase.DashboardQuery{}, err
	}
	level, err := types.ParseLevelFilter(q.Get("level"))
	if err != nil {
		return usecase.DashboardQuery{}, err
	}
	status, err := types.ParseStatusFilter(q.Get("status"))
	if err != nil {
		return usecase.DashboardQuery{}, err
	}

	return usecase.DashboardQuery{Unit: unit, Level: level, Status: status}, nil
}
