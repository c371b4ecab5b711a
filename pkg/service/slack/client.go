package slack

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/slack-go/slack"
)

// maxSectionText is the Slack limit for the text of one section block
const maxSectionText = 3000

// Notifier posts analysis reports to a Slack channel
type Notifier struct {
	api       *slack.Client
	channelID string
	footer    string
}

var _ interfaces.Notifier = (*Notifier)(nil)

// Option is a functional option for Notifier configuration
type Option func(*notifierConfig)

type notifierConfig struct {
	apiURL string
	footer string
}

// WithAPIURL points the client at another Slack API endpoint. The URL must end with "/".
func WithAPIURL(url string) Option {
	return func(c *notifierConfig) {
		c.apiURL = url
	}
}

// WithFooter adds a context line under every report
func WithFooter(footer string) Option {
	return func(c *notifierConfig) {
		c.footer = footer
	}
}

// New creates a new Slack notifier with the provided bot token and channel
func New(token, channelID string, opts ...Option) (*Notifier, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channelID == "" {
		return nil, goerr.New("Slack channel is required")
	}

	var cfg notifierConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var clientOpts []slack.Option
	if cfg.apiURL != "" {
		clientOpts = append(clientOpts, slack.OptionAPIURL(cfg.apiURL))
	}

	return &Notifier{
		api:       slack.New(token, clientOpts...),
		channelID: channelID,
		footer:    cfg.footer,
	}, nil
}

// PostReport posts the report as Block Kit sections, with text as the notification fallback
func (n *Notifier) PostReport(ctx context.Context, title, text string) error {
	blocks := BuildReportBlocks(title, text, n.footer)

	channel, ts, err := n.api.PostMessageContext(ctx, n.channelID,
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(title, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post report to Slack", goerr.V("channel_id", n.channelID))
	}

	logging.From(ctx).Info("report posted to Slack", "channel", channel, "ts", ts)
	return nil
}

// BuildReportBlocks converts a report into a header followed by mrkdwn sections.
// Headings and bold lines become bold text and list items become bullets.
func BuildReportBlocks(title, text, footer string) []slack.Block {
	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, title, false, false)),
	}

	var lines []string
	for _, b := range model.ParseReport(text) {
		line := strings.TrimSpace(b.Text)
		switch b.Kind {
		case model.BlockHeading, model.BlockBold:
			if line != "" {
				line = "*" + line + "*"
			}
		case model.BlockListItem:
			line = "• " + line
		}
		lines = append(lines, line)
	}

	for _, chunk := range splitSections(lines, maxSectionText) {
		blocks = append(blocks, slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, chunk, false, false), nil, nil))
	}

	if footer != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject(slack.MarkdownType, footer, false, false)))
	}

	return blocks
}

// splitSections joins lines into chunks no longer than limit. A single
// longer line is cut at the limit.
func splitSections(lines []string, limit int) []string {
	var chunks []string
	var sb strings.Builder

	flush := func() {
		if s := strings.TrimSpace(sb.String()); s != "" {
			chunks = append(chunks, s)
		}
		sb.Reset()
	}

	for _, line := range lines {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if sb.Len()+len(line)+1 > limit {
			flush()
		}
		if sb.Len() > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(line)
	}
	flush()

	return chunks
}
