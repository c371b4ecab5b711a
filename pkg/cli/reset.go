package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdReset() *cli.Command {
	var rt runtime

	return &cli.Command{
		Name:  "reset",
		Usage: "Overwrite the persisted collections with the seed dataset",
		Flags: rt.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := rt.setup(ctx)
			if err != nil {
				return err
			}
			defer closer()

			uc.Register.Reset(ctx)
			if err := uc.Register.Persist(ctx); err != nil {
				return goerr.Wrap(err, "failed to persist seed dataset")
			}

			logging.Default().Info("Collections reset",
				"risks", len(uc.Register.Risks()),
				"documents", len(uc.Register.Documents()),
			)
			return nil
		},
	}
}
