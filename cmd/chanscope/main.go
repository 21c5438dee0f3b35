package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/kirillov6/chanscope/internal/app"
	"github.com/kirillov6/chanscope/internal/config"
	"github.com/kirillov6/chanscope/internal/service"
	"github.com/kirillov6/chanscope/internal/util"
)

func main() {
	cliApp := &cli.App{
		Name:  "chanscope",
		Usage: "Scan a YouTube channel's uploads and export engagement metrics",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "channel", Aliases: []string{"c"}, Usage: "Channel id, handle, URL or name", Required: true},
			&cli.IntFlag{Name: "max-videos", Aliases: []string{"n"}, Value: 100, Usage: "Maximum uploads to analyze"},
			&cli.IntFlag{Name: "period-days", Aliases: []string{"p"}, Usage: "Only analyze uploads from the last N days"},
			&cli.BoolFlag{Name: "playlists", Usage: "Include the channel's playlists in the export"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output file path (defaults to channel_<id>_<date>.json in the state dir)"},
		},
		Action: run,
	}

	if err := cliApp.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := util.NewLogger(cfg.Logging.Level, cfg.Logging.File)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("chanscope starting",
		zap.String("channel", c.String("channel")),
		zap.String("log_level", cfg.Logging.Level))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := app.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to assemble application services", zap.Error(err))
		return err
	}
	defer container.Close()

	result, err := container.Analyzer.Analyze(ctx, c.String("channel"), service.Options{
		MaxVideos:        c.Int("max-videos"),
		PeriodDays:       c.Int("period-days"),
		IncludePlaylists: c.Bool("playlists"),
	})
	if err != nil {
		logger.Error("Scan failed", zap.Error(err))
		return err
	}

	path, err := container.Sink.Write(result.Snapshot, c.String("out"))
	if err != nil {
		logger.Error("Failed to write snapshot", zap.Error(err))
		return err
	}

	if result.Report.Partial() {
		logger.Warn("Snapshot is partial",
			zap.Int("failures", len(result.Report.Failures)),
			zap.Int("items_dropped", result.Report.ItemsDropped))
		for _, failure := range result.Report.Failures {
			logger.Warn("Unit failed",
				zap.String("unit", failure.Unit),
				zap.String("reason", failure.Reason))
		}
	}

	used, remaining, day := container.Ledger.Status()
	logger.Info("Quota status",
		zap.String("day", day),
		zap.Int("used", used),
		zap.Int("remaining", remaining))

	fmt.Println(path)
	return nil
}
