package narrative

import (
	"bytes"
	"context"
	_ "embed"
	"strconv"
	"strings"
	"text/template"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/utils/logging"
)

// DefaultModel is the Gemini model used when none is configured
const DefaultModel = "gemini-2.5-flash"

// ContextOverall is the prompt context line when every unit is selected
const ContextOverall = "Visão Geral Consolidada"

//go:embed prompt/analysis.md
var analysisPromptTmpl string

var analysisPrompt = template.Must(template.New("analysis").Parse(analysisPromptTmpl))

// Client implements interfaces.Narrator on top of a gollem LLM client
type Client struct {
	llmClient    gollem.LLMClient
	systemPrompt string
}

var _ interfaces.Narrator = (*Client)(nil)

// Option is a functional option for Client configuration
type Option func(*Client)

// WithSystemPrompt sets an additional system prompt for every session
func WithSystemPrompt(prompt string) Option {
	return func(c *Client) {
		c.systemPrompt = prompt
	}
}

// New creates a new narrative client with the provided LLM client
func New(llmClient gollem.LLMClient, opts ...Option) (*Client, error) {
	if llmClient == nil {
		return nil, goerr.New("LLM client is required")
	}

	c := &Client{llmClient: llmClient}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Generate asks the completion service for a strategic analysis of input.
// It returns interfaces.ErrEmptyCompletion when the response carries no text.
func (c *Client) Generate(ctx context.Context, input interfaces.NarrativeInput) (string, error) {
	prompt, err := BuildPrompt(input)
	if err != nil {
		return "", err
	}

	var sessionOpts []gollem.SessionOption
	if c.systemPrompt != "" {
		sessionOpts = append(sessionOpts, gollem.WithSessionSystemPrompt(c.systemPrompt))
	}

	session, err := c.llmClient.NewSession(ctx, sessionOpts...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create LLM session")
	}

	resp, err := session.GenerateContent(ctx, gollem.Text(prompt))
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate content from LLM")
	}

	if resp == nil {
		return "", goerr.Wrap(interfaces.ErrEmptyCompletion, "nil response")
	}
	text := strings.Join(resp.Texts, "")
	if strings.TrimSpace(text) == "" {
		return "", goerr.Wrap(interfaces.ErrEmptyCompletion, "response has no text")
	}

	logging.From(ctx).Debug("analysis generated",
		"unit", input.Unit,
		"risks", len(input.Risks),
		"documents", len(input.Documents),
		"length", len(text))

	return text, nil
}

type promptRisk struct {
	Title       string
	Level       string
	Probability int
	Impact      string
}

type promptDocument struct {
	Title  string
	Type   string
	Status string
}

type promptData struct {
	Context   string
	Risks     []promptRisk
	Documents []promptDocument
}

// BuildPrompt renders the analysis prompt. Impact is printed without trailing zeros.
func BuildPrompt(input interfaces.NarrativeInput) (string, error) {
	data := promptData{
		Context:   ContextOverall,
		Risks:     make([]promptRisk, 0, len(input.Risks)),
		Documents: make([]promptDocument, 0, len(input.Documents)),
	}
	if input.Unit != "" && !input.Unit.IsAll() {
		data.Context = input.Unit.String()
	}

	for _, r := range input.Risks {
		data.Risks = append(data.Risks, promptRisk{
			Title:       r.Title,
			Level:       r.Level.String(),
			Probability: r.Probability,
			Impact:      strconv.FormatFloat(r.Impact, 'f', -1, 64),
		})
	}
	for _, d := range input.Documents {
		data.Documents = append(data.Documents, promptDocument{
			Title:  d.Title,
			Type:   d.Type.String(),
			Status: d.Status.String(),
		})
	}

	var buf bytes.Buffer
	if err := analysisPrompt.Execute(&buf, data); err != nil {
		return "", goerr.Wrap(err, "failed to execute analysis prompt template")
	}
	return buf.String(), nil
}
