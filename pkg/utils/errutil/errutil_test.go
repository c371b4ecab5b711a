package errutil_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/utils/errutil"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("writes status and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := goerr.New("invalid level", goerr.V("level", "Médio"))

		errutil.HandleHTTP(context.Background(), w, err, http.StatusBadRequest)

		gt.Value(t, w.Code).Equal(http.StatusBadRequest)
		gt.String(t, w.Body.String()).Contains("invalid level")
	})

	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, errors.New("boom"), http.StatusInternalServerError)
		gt.Value(t, w.Code).Equal(http.StatusInternalServerError)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), w, nil, http.StatusInternalServerError)
		gt.Value(t, w.Body.Len()).Equal(0)
	})
}

func TestHandleNil(t *testing.T) {
	errutil.Handle(context.Background(), nil, "ignored")
}
