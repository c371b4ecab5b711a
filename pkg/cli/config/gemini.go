package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/service/narrative"
	"github.com/urfave/cli/v3"
)

// Gemini holds configuration for the Gemini LLM client
type Gemini struct {
	projectID string
	location  string
	model     string
	prompt    string
}

// Flags returns CLI flags for Gemini configuration
func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini API (analysis is disabled if empty)",
			Category:    "Gemini",
			Sources:     cli.EnvVars("THEMIS_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Category:    "Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("THEMIS_GEMINI_LOCATION"),
			Destination: &g.location,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model name",
			Category:    "Gemini",
			Value:       narrative.DefaultModel,
			Sources:     cli.EnvVars("THEMIS_GEMINI_MODEL"),
			Destination: &g.model,
		},
		&cli.StringFlag{
			Name:        "gemini-system-prompt",
			Usage:       "Additional system prompt for analysis requests",
			Category:    "Gemini",
			Sources:     cli.EnvVars("THEMIS_GEMINI_SYSTEM_PROMPT"),
			Destination: &g.prompt,
		},
	}
}

func (g Gemini) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("project_id", g.projectID),
		slog.String("location", g.location),
		slog.String("model", g.model),
		slog.Int("system_prompt.len", len(g.prompt)),
	)
}

// Configure creates the narrator backed by Gemini.
// Returns nil if projectID is not configured; analysis requests then fail with the connection message.
func (g *Gemini) Configure(ctx context.Context) (interfaces.Narrator, error) {
	if g.projectID == "" {
		return nil, nil
	}

	model := g.model
	if model == "" {
		model = narrative.DefaultModel
	}

	client, err := gemini.New(ctx, g.projectID, g.location, gemini.WithModel(model))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client")
	}

	var opts []narrative.Option
	if g.prompt != "" {
		opts = append(opts, narrative.WithSystemPrompt(g.prompt))
	}

	narrator, err := narrative.New(client, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create narrator")
	}

	return narrator, nil
}
