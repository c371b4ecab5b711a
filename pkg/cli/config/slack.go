package config

import (
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/interfaces"
	"github.com/secmon-lab/themis/pkg/service/slack"
	"github.com/urfave/cli/v3"
)

// Slack holds configuration for posting analysis reports
type Slack struct {
	botToken  string
	channelID string
	apiURL    string
	footer    string
}

func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token (reports are not posted if empty)",
			Category:    "Slack",
			Destination: &x.botToken,
			Sources:     cli.EnvVars("THEMIS_SLACK_BOT_TOKEN"),
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel ID that receives analysis reports",
			Category:    "Slack",
			Destination: &x.channelID,
			Sources:     cli.EnvVars("THEMIS_SLACK_CHANNEL"),
		},
		&cli.StringFlag{
			Name:        "slack-api-url",
			Usage:       "Slack API base URL",
			Category:    "Slack",
			Destination: &x.apiURL,
			Sources:     cli.EnvVars("THEMIS_SLACK_API_URL"),
		},
		&cli.StringFlag{
			Name:        "slack-footer",
			Usage:       "Context line appended to every report",
			Category:    "Slack",
			Value:       "Gerado pelo Themis",
			Destination: &x.footer,
			Sources:     cli.EnvVars("THEMIS_SLACK_FOOTER"),
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot_token.len", len(x.botToken)),
		slog.String("channel_id", x.channelID),
	)
}

// Configure creates the report notifier. Returns nil if no bot token is set.
func (x *Slack) Configure() (interfaces.Notifier, error) {
	if x.botToken == "" {
		return nil, nil
	}
	if x.channelID == "" {
		return nil, goerr.Wrap(ErrMissingArgument, "slack-channel is required with slack-bot-token",
			goerr.V(FlagKey, "slack-channel"))
	}

	var opts []slack.Option
	if x.apiURL != "" {
		opts = append(opts, slack.WithAPIURL(x.apiURL))
	}
	if x.footer != "" {
		opts = append(opts, slack.WithFooter(x.footer))
	}

	notifier, err := slack.New(x.botToken, x.channelID, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Slack notifier")
	}
	return notifier, nil
}
