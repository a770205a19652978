// mediaview serves the media gallery and players of the learning platform
// on top of the backend media API.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/btmxh/mediaview/internal/config"
	"github.com/btmxh/mediaview/internal/db"
	"github.com/btmxh/mediaview/internal/errs"
	"github.com/btmxh/mediaview/internal/gallery"
	"github.com/btmxh/mediaview/internal/html"
	"github.com/btmxh/mediaview/internal/media"
	"github.com/btmxh/mediaview/internal/mediaapi"
	"github.com/btmxh/mediaview/internal/player"
	"github.com/btmxh/mediaview/internal/routes"
	"github.com/btmxh/mediaview/internal/services"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Build-time variables set via -ldflags.
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "mediaview",
		Short:         "mediaview - media gallery and players for the learning platform",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(probeCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		slog.Error("mediaview failed", "err", err)
		os.Exit(1)
	}
}

func setup() (config.Config, error) {
	cfg, err := config.Load()

	logHandler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      cfg.LogLevel,
		TimeFormat: time.TimeOnly,
	})
	slog.SetDefault(slog.New(logHandler))

	return cfg, err
}

func newClient(cfg config.Config) *mediaapi.Client {
	return mediaapi.NewClient(mediaapi.Options{
		BaseURL:   cfg.MediaAPIURL,
		PublicURL: cfg.MediaPublicURL,
		Timeout:   cfg.MediaFetchTimeout,
	})
}

func initDB(ctx context.Context, cfg config.Config) error {
	if cfg.DatabaseURL == "" {
		return db.ErrNoDatabase
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		return err
	}

	if err := db.Migrate(ctx); err != nil {
		db.CloseDB()
		db.DB = nil
		return err
	}

	return nil
}

func serveCmd() *cobra.Command {
	var assetsDir string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}
			slog.Info("Starting mediaview", "version", version, "built", buildTime)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var recorder *services.PlaybackRecorder
			if err := initDB(ctx, cfg); err != nil {
				slog.Warn("Playback events will not be recorded", "err", err)
			} else {
				defer db.CloseDB()
				recorder = services.NewPlaybackRecorder(services.StorePlaybackEvent, services.DefaultPlaybackBuffer)
				slog.Info("Database connection initialized")
			}

			client := newClient(cfg)
			sessions := services.NewSessionManager(client, services.SessionOptions{
				Gallery: []gallery.Option{
					gallery.WithColumns(cfg.GalleryColumns),
					gallery.WithThumbnailConcurrency(cfg.ThumbnailConcurrency),
				},
				Player:   []player.Option{player.WithLookupTimeout(cfg.MediaFetchTimeout)},
				Recorder: recorder,
			})
			defer sessions.Close()

			router, err := routes.CreateMainRouter(routes.Deps{
				Config:    cfg,
				Client:    client,
				Sessions:  sessions,
				AssetsDir: assetsDir,
			})
			if err != nil {
				return err
			}

			server := &http.Server{Addr: cfg.Addr, Handler: router}
			group, ctx := errgroup.WithContext(ctx)

			group.Go(func() error {
				var err error
				if cfg.TLS() {
					slog.Info("Starting HTTPS server", slog.String("addr", cfg.Addr), slog.String("cert", cfg.CertFile), slog.String("key", cfg.KeyFile))
					err = server.ListenAndServeTLS(cfg.CertFile, cfg.KeyFile)
				} else {
					slog.Info("Starting HTTP server", slog.String("addr", cfg.Addr))
					err = server.ListenAndServe()
				}
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			})

			group.Go(func() error {
				sessions.Run(ctx, cfg.SessionTTL)
				return nil
			})

			if recorder != nil {
				group.Go(func() error {
					recorder.Run(ctx)
					return nil
				})
			}

			group.Go(func() error {
				<-ctx.Done()
				slog.Info("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			})

			return group.Wait()
		},
	}

	cmd.Flags().StringVar(&assetsDir, "assets", "./web", "Directory holding the scripts/ and styles/ assets")
	return cmd
}

// probeCmd runs a player against the backend and prints every fragment it
// renders, which is handy when a media item does not show up.
func probeCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "probe <media-id>",
		Short: "Load a media item in a player and print the rendered fragments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			client := newClient(cfg)
			out := cmd.OutOrStdout()
			container := player.ContainerFunc(func(v player.View) {
				fmt.Fprintf(out, "--- %s\n", v.Phase)
				if err := html.RenderPlayer(out, "probe", v, false); err != nil {
					fmt.Fprintf(out, "render failed: %v\n", err)
				}
			})

			p := player.New(container, client, player.WithLookupTimeout(cfg.MediaFetchTimeout))
			if err := p.LoadMedia(cmd.Context(), args[0], media.Descriptor{Kind: media.MediaKind(kind)}); err != nil {
				return err
			}

			thumbnail, err := client.Thumbnail(cmd.Context(), args[0])
			if err != nil {
				fmt.Fprintf(out, "thumbnail: %v\n", err)
			} else {
				fmt.Fprintf(out, "thumbnail: %s\n", thumbnail)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "type", "t", "", "Known media type, skips the metadata lookup")
	return cmd
}

func historyCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history <media-id>",
		Short: "Print the recorded playback events of a media item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup()
			if err != nil {
				return err
			}

			if err := initDB(cmd.Context(), cfg); err != nil {
				return err
			}
			defer db.CloseDB()

			capture := errs.NewCapturingErrorHandler()
			tx := db.BeginTx(cmd.Context(), capture)
			if tx == nil {
				return capture.Err()
			}
			defer tx.Rollback()

			count, hasErr := services.CountPlaybackEvents(tx, args[0])
			if hasErr {
				return capture.Err()
			}
			events, hasErr := services.RecentPlaybackEvents(tx, args[0], limit)
			if hasErr {
				return capture.Err()
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%d event(s) recorded for %s\n", count, args[0])
			for _, ev := range events {
				fmt.Fprintf(out, "%s  %-7s  %-8s  %s  %s\n", ev.At.Format(time.RFC3339), ev.Event, ev.Kind, ev.Session, ev.Message)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of events to print")
	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mediaview %s\nBuilt: %s\n", version, buildTime)
		},
	}
}
