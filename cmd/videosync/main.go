package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/amaumene/videosync/internal/config"
	"github.com/amaumene/videosync/internal/models"
	"github.com/amaumene/videosync/internal/progress"
	"github.com/amaumene/videosync/internal/synth"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "videosync",
		Short:         "Synchronize video provider catalogs into publishable posts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the scheduler and the HTTP server",
			RunE: func(cmd *cobra.Command, args []string) error {
				return serve()
			},
		},
		newSyncCommand(),
		newPreviewCommand(),
	)
	return root
}

// bootstrap loads the configuration and assembles the application
func bootstrap() (*App, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	app, cleanup, err := initializeApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	app.Logger.WithField("config_dir", cfg.ConfigDir).Info("Configuration loaded")

	if err := app.Controller.RecoverInterrupted(); err != nil {
		cleanup()
		return nil, nil, err
	}
	return app, cleanup, nil
}

func serve() error {
	app, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	logger := app.Logger
	logger.Info("Starting videosync")

	if err := app.Scheduler.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer app.Scheduler.Stop()

	ctx, cancel := signalContext()
	defer cancel()

	if err := app.Server.Start(ctx); err != nil {
		return err
	}

	logger.Info("Shutdown complete")
	return nil
}

func newSyncCommand() *cobra.Command {
	var (
		origins []string
		limit   int
		author  string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Run one synchronization and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			req := app.Scheduler.Request()
			if len(origins) > 0 {
				if req.Origins, err = parseOrigins(origins); err != nil {
					return err
				}
			}
			if cmd.Flags().Changed("limit") {
				req.Limit = limit
			}

			ctx, cancel := signalContext()
			defer cancel()
			if author != "" {
				ctx = synth.WithAuthor(ctx, author)
			}

			ch := progress.NewChannel(progress.NewLogSink(app.Logger, logrus.Fields{"trigger": "cli"}))
			run, err := app.Scheduler.Trigger(ctx, req, ch)
			if err != nil {
				return err
			}

			fmt.Printf("run %s: created=%d updated=%d skipped=%d failed=%d\n",
				run.ID, run.Created, run.Updated, run.Skipped, run.Failed)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&origins, "origins", nil, "origins to synchronize (default SYNC_ORIGINS)")
	cmd.Flags().IntVar(&limit, "limit", 0, "records per origin (default SYNC_LIMIT)")
	cmd.Flags().StringVar(&author, "author", "", "author of the created posts")
	return cmd
}

func newPreviewCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "preview <origin>",
		Short: "Print the posts an origin would produce without storing them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			origin, err := models.ParseOrigin(strings.ToLower(args[0]))
			if err != nil {
				return err
			}

			app, cleanup, err := bootstrap()
			if err != nil {
				return err
			}
			defer cleanup()

			ctx, cancel := signalContext()
			defer cancel()

			posts, err := app.Controller.Preview(ctx, origin, limit)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(posts)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "records to preview")
	return cmd
}

func parseOrigins(names []string) ([]models.Origin, error) {
	origins := make([]models.Origin, 0, len(names))
	for _, name := range names {
		origin, err := models.ParseOrigin(strings.ToLower(strings.TrimSpace(name)))
		if err != nil {
			return nil, err
		}
		origins = append(origins, origin)
	}
	return origins, nil
}

// signalContext is cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
