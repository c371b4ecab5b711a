package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/secmon-lab/themis/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdExport() *cli.Command {
	var output string
	var unit, level, status string
	var withAnalysis bool
	var rt runtime

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Path of the PDF file to write",
			Value:       "themis-report.pdf",
			Destination: &output,
		},
		unitFlag(&unit),
		&cli.StringFlag{
			Name:        "level",
			Usage:       "Risk level filter (Todos, Pequeno, Moderado, Alto, Grande, Crítico)",
			Value:       types.LevelFilterAll.String(),
			Destination: &level,
		},
		&cli.StringFlag{
			Name:        "status",
			Usage:       "Document status filter (Todos, Publicado, Em Revisão, Rascunho)",
			Value:       types.StatusFilterAll.String(),
			Destination: &status,
		},
		&cli.BoolFlag{
			Name:        "analysis",
			Usage:       "Generate an analysis for the unit and include it in the report",
			Destination: &withAnalysis,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:  "export",
		Usage: "Write the dashboard report as PDF",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			q, err := parseDashboardQuery(unit, level, status)
			if err != nil {
				return err
			}

			uc, closer, err := rt.setup(ctx)
			if err != nil {
				return err
			}
			defer closer()

			if withAnalysis {
				if result := uc.Analysis.Run(ctx, q.Unit); result.Failed {
					logging.Default().Warn("Analysis failed, report is written without it", "message", result.Text)
				}
			}

			// #nosec G304 - path is expected to be provided by CLI argument
			f, err := os.Create(output)
			if err != nil {
				return goerr.Wrap(err, "failed to create output file", goerr.V("path", output))
			}
			defer safe.Close(ctx, f)

			if err := uc.Export.WritePDF(ctx, f, q); err != nil {
				return goerr.Wrap(err, "failed to write PDF", goerr.V("path", output))
			}

			logging.Default().Info("Report written", "path", output, "unit", q.Unit)
			return nil
		},
	}
}

func parseDashboardQuery(unit, level, status string) (usecase.DashboardQuery, error) {
	u, err := types.ParseUnitSelector(unit)
	if err != nil {
		return usecase.DashboardQuery{}, goerr.Wrap(err, "invalid --unit")
	}
	l, err := types.ParseLevelFilter(level)
	if err != nil {
		return usecase.DashboardQuery{}, goerr.Wrap(err, "invalid --level")
	}
	s, err := types.ParseStatusFilter(status)
	if err != nil {
		return usecase.DashboardQuery{}, goerr.Wrap(err, "invalid --status")
	}
	return usecase.DashboardQuery{Unit: u, Level: l, Status: s}, nil
}
