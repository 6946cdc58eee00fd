// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command hexframes renders one map frame per row of an H3 cell report.
//
// Run without arguments it reads ../build/report.csv and writes
// out/0.png, out/1.png, ... The out directory must already exist.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/isaacbrodsky/hexframes"
)

var configPath string

func main() {
	_ = godotenv.Load(".env")
	log := setupLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "Render one frame per report row",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			return render(cmd.Context(), cfg, log)
		},
	}
	rootCmd := &cobra.Command{
		Use:           "hexframes",
		Short:         "Render animation frames of H3 cell reports",
		Args:          cobra.NoArgs,
		RunE:          renderCmd.RunE,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv("HEXFRAMES_CONFIG"), "YAML config file")

	var fps int
	var animPath string
	animateCmd := &cobra.Command{
		Use:   "animate",
		Short: "Assemble rendered frames into an MJPEG video",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			switch {
			case animPath != "":
				cfg.Animation.Path = animPath
			case cfg.Animation.Path == "":
				cfg.Animation.Path = filepath.Join(cfg.OutDir, "animation.avi")
			}
			if fps > 0 {
				cfg.Animation.FPS = fps
			}
			rows, err := hexframes.ReadReport(cfg.Report)
			if err != nil {
				return err
			}
			return animate(cfg, len(rows), log)
		},
	}
	animateCmd.Flags().StringVarP(&animPath, "output", "o", "", "Video file (default from config, or animation.avi in the output directory)")
	animateCmd.Flags().IntVar(&fps, "fps", 0, "Frames per second (default from config)")

	var delay time.Duration
	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Render, then render again every time the report changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			run := func(ctx context.Context) error { return render(ctx, cfg, log) }
			if err := run(cmd.Context()); err != nil {
				return err
			}
			return hexframes.Watch(cmd.Context(), cfg.Report, delay, log, run)
		},
	}
	watchCmd.Flags().DurationVar(&delay, "delay", 500*time.Millisecond, "Quiet period before rendering a change")

	rootCmd.AddCommand(renderCmd, animateCmd, watchCmd)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error("hexframes failed", "err", err)
		os.Exit(1)
	}
}

func loadConfig() (hexframes.Config, error) {
	cfg, err := hexframes.LoadConfig(configPath)
	if err != nil {
		return hexframes.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

func render(ctx context.Context, cfg hexframes.Config, log *slog.Logger) error {
	rows, err := hexframes.ReadReport(cfg.Report)
	if err != nil {
		return err
	}
	log.Info("report loaded", "path", cfg.Report, "rows", len(rows))

	r, closeFn, err := cfg.NewRenderer(ctx, log)
	if err != nil {
		return err
	}
	defer closeFn()

	saved, err := r.RenderAll(ctx, rows)
	if err != nil {
		return err
	}
	log.Info("frames rendered", "frames", len(rows), "found", len(saved), "dir", cfg.OutDir)

	if cfg.Export.Path != "" {
		if err := hexframes.ExportFound(cfg.Export.Path, rows, saved, cfg.Export.Tolerance); err != nil {
			return err
		}
		log.Info("found cells exported", "path", cfg.Export.Path)
	}
	if cfg.Animation.Path != "" && len(rows) > 0 {
		return animate(cfg, len(rows), log)
	}
	return nil
}

func animate(cfg hexframes.Config, frames int, log *slog.Logger) error {
	if err := hexframes.Animate(cfg.OutDir, frames, cfg.Format, cfg.Animation.Path, cfg.Animation.FPS); err != nil {
		return err
	}
	log.Info("animation written", "path", cfg.Animation.Path, "frames", frames, "fps", cfg.Animation.FPS)
	return nil
}
