package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

func TestFromFallsBackToDefault(t *testing.T) {
	gt.Value(t, logging.From(context.Background())).Equal(logging.Default())

	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := logging.With(context.Background(), logger)
	gt.Value(t, logging.From(ctx)).Equal(logger)
}

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input   string
		want    slog.Level
		wantErr bool
	}{
		{input: "debug", want: slog.LevelDebug},
		{input: "", want: slog.LevelInfo},
		{input: "warn", want: slog.LevelWarn},
		{input: "error", want: slog.LevelError},
		{input: "verbose", want: slog.LevelInfo, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			got, err := logging.ParseLevel(tc.input)
			if tc.wantErr {
				gt.Value(t, err).NotNil()
				return
			}
			gt.NoError(t, err)
			gt.Value(t, got).Equal(tc.want)
		})
	}
}

func TestNewJSONRedactsSecrets(t *testing.T) {
	type credential struct {
		User   string
		APIKey string
	}

	var buf bytes.Buffer
	logger, err := logging.New(&buf, slog.LevelInfo, logging.FormatJSON)
	gt.NoError(t, err).Required()

	logger.Info("configured", "cred", credential{User: "blue", APIKey: "very-secret-key"})

	var out map[string]any
	gt.NoError(t, json.Unmarshal(buf.Bytes(), &out)).Required()
	gt.Bool(t, strings.Contains(buf.String(), "very-secret-key")).False()
	gt.String(t, buf.String()).Contains("blue")
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	_, err := logging.New(&bytes.Buffer{}, slog.LevelInfo, logging.Format("xml"))
	gt.Value(t, err).NotNil()
}
