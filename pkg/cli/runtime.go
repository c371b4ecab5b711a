package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/cli/config"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// runtime bundles the configuration shared by every command that touches the collections
type runtime struct {
	store  config.Store
	seed   config.Seed
	gemini config.Gemini
	slack  config.Slack
}

func (x *runtime) Flags() []cli.Flag {
	var flags []cli.Flag
	flags = append(flags, x.store.Flags()...)
	flags = append(flags, x.seed.Flags()...)
	flags = append(flags, x.gemini.Flags()...)
	flags = append(flags, x.slack.Flags()...)
	return flags
}

// setup opens the store, builds the use cases and loads the collections.
// The returned function closes the store.
func (x *runtime) setup(ctx context.Context) (*usecase.UseCases, func(), error) {
	logger := logging.Default()
	logger.Info("Configuring runtime",
		"store", x.store,
		"seed", x.seed,
		"gemini", x.gemini,
		"slack", x.slack,
	)

	seed, err := x.seed.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to load seed")
	}

	narrator, err := x.gemini.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure Gemini")
	}
	if narrator == nil {
		logger.Info("Gemini project not configured, analysis requests will fail")
	}

	notifier, err := x.slack.Configure()
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to configure Slack")
	}

	store, err := x.store.Configure(ctx)
	if err != nil {
		return nil, nil, goerr.Wrap(err, "failed to initialize store")
	}
	closer := func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close store", "error", err.Error())
		}
	}

	opts := []usecase.Option{usecase.WithSeed(seed)}
	if narrator != nil {
		opts = append(opts, usecase.WithNarrator(narrator))
	}
	if notifier != nil {
		opts = append(opts, usecase.WithNotifier(notifier))
		logger.Info("Slack report notifier enabled")
	}

	uc := usecase.New(store, opts...)

	loaded, err := uc.Register.Load(ctx)
	if err != nil {
		closer()
		return nil, nil, goerr.Wrap(err, "failed to load collections")
	}
	logger.Info("Collections loaded",
		"risks", loaded.Risks,
		"documents", loaded.Documents,
		"risks_from_seed", loaded.RisksFromSeed,
		"documents_from_seed", loaded.DocumentsFromSeed,
	)

	return uc, closer, nil
}

func unitFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "unit",
		Aliases:     []string{"u"},
		Usage:       "Business unit (Consolidado, Seguradora, Ciclos Pay)",
		Value:       types.UnitSelectorAll.String(),
		Destination: dst,
	}
}
