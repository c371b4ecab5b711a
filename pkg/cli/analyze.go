package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/themis/pkg/domain/model"
	"github.com/secmon-lab/themis/pkg/domain/types"
	"github.com/secmon-lab/themis/pkg/usecase"
	"github.com/urfave/cli/v3"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	boldColor    = color.New(color.Bold)
	bulletColor  = color.New(color.FgYellow)
	failedColor  = color.New(color.FgRed)
)

func cmdAnalyze() *cli.Command {
	var unit string
	var raw bool
	var rt runtime

	flags := []cli.Flag{
		unitFlag(&unit),
		&cli.BoolFlag{
			Name:        "raw",
			Usage:       "Print the completion text without formatting",
			Destination: &raw,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:    "analyze",
		Aliases: []string{"a"},
		Usage:   "Generate a strategic risk analysis and print it",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			selector, err := types.ParseUnitSelector(unit)
			if err != nil {
				return goerr.Wrap(err, "invalid --unit")
			}

			uc, closer, err := rt.setup(ctx)
			if err != nil {
				return err
			}
			defer closer()

			result := uc.Analysis.Run(ctx, selector)
			if raw {
				fmt.Fprintln(os.Stdout, result.Text)
			} else {
				renderReport(color.Output, usecase.UnitLabel(selector), result)
			}

			if result.Failed {
				return goerr.New("analysis failed", goerr.V("unit", selector))
			}
			return nil
		},
	}
}

func renderReport(w io.Writer, unitLabel string, result *usecase.AnalysisResult) {
	_, _ = headingColor.Fprintf(w, "%s - %s\n\n", usecase.AnalysisReportTitle, unitLabel)

	if result.Failed {
		_, _ = failedColor.Fprintln(w, result.Text)
		return
	}

	for _, b := range result.Blocks {
		switch b.Kind {
		case model.BlockHeading:
			_, _ = headingColor.Fprintln(w, b.Text)
		case model.BlockBold:
			_, _ = boldColor.Fprintln(w, b.Text)
		case model.BlockListItem:
			_, _ = bulletColor.Fprint(w, "  •")
			_, _ = fmt.Fprintln(w, b.Text)
		default:
			_, _ = fmt.Fprintln(w, b.Text)
		}
	}
}
