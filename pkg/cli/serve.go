package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	httpctrl "github.com/secmon-lab/themis/pkg/controller/http"
	"github.com/secmon-lab/themis/pkg/service/worker"
	"github.com/secmon-lab/themis/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var autosaveInterval time.Duration
	var enableMetrics bool
	var rt runtime

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("THEMIS_ADDR"),
			Destination: &addr,
		},
		&cli.DurationFlag{
			Name:        "autosave-interval",
			Usage:       "Interval of automatic saves of unsaved changes (0 disables)",
			Value:       time.Minute,
			Sources:     cli.EnvVars("THEMIS_AUTOSAVE_INTERVAL"),
			Destination: &autosaveInterval,
		},
		&cli.BoolFlag{
			Name:        "metrics",
			Usage:       "Expose Prometheus metrics on /metrics",
			Value:       true,
			Sources:     cli.EnvVars("THEMIS_METRICS"),
			Destination: &enableMetrics,
		},
	}
	flags = append(flags, rt.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			uc, closer, err := rt.setup(ctx)
			if err != nil {
				return err
			}
			defer closer()

			var autosave *worker.AutosaveWorker
			if autosaveInterval > 0 {
				autosave = worker.NewAutosaveWorker(uc.Register, autosaveInterval)
				if err := autosave.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start autosave worker")
				}
			} else {
				logging.Default().Info("Autosave disabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc, httpctrl.WithMetrics(enableMetrics)),
				ReadHeaderTimeout: 30 * time.Second,
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr, "metrics", enableMetrics)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				// Stop after the server so no handler mutates the collections past the final save
				if autosave != nil {
					autosave.Stop()
				} else if uc.Register.State().Dirty {
					logging.Default().Warn("Unsaved changes are discarded", "state", uc.Register.State())
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
