package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"oven_dashboard/internal/config"
	"oven_dashboard/internal/logger"
	"oven_dashboard/internal/render"
	"oven_dashboard/internal/report"
	"oven_dashboard/internal/repository"
	"oven_dashboard/internal/repository/db"
	"oven_dashboard/internal/service"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.Get(logger.InfoLevel).Errorw("run_failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "ofen-dashboard [input.csv]",
		Short: "Render oven controller CSV exports as an HTML dashboard",
		Long: "ofen-dashboard reads a CSV export of oven controllers, detects its encoding and " +
			"delimiter, and writes one interactive chart per device with preheat/runtime phases " +
			"and setpoint/actual temperatures.",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, cmd.Flags())
			if err != nil {
				return err
			}
			input := cfg.Input.Path
			if len(args) == 1 {
				input = args[0]
			}
			if err := run(cmd.Context(), cfg, input, logger.Get(cfg.Log.Level)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), cfg.Dashboard.Output)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&configPath, "config", "", "config file (default configs/config.yml)")
	f.String("out", "", "output HTML file (default ofen_dashboard.html)")
	f.String("fragments-dir", "", "also write one HTML file per device into this directory")
	f.String("report", "", "write a YAML run report to this file")
	f.String("sqlite", "", "export records and intervals into this SQLite file")
	f.String("log-level", "", "debug, info, warn or error")
	f.String("order", "", "device order: appearance or smart")
	f.String("timezone", "", "IANA zone of the export timestamps (default Local)")
	return cmd
}

// run executes one pipeline pass and writes every requested output.
func run(ctx context.Context, cfg *config.Config, input string, log *logger.Logger) error {
	raw, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	log.Infow("input_read", "path", input, "size", humanize.Bytes(uint64(len(raw))))

	svc, err := service.NewService(cfg, log)
	if err != nil {
		return err
	}
	res, err := svc.Process(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", input, err)
	}

	dash := render.NewDashboard(cfg.Chart)
	summary := render.Summary{
		Title:   cfg.Dashboard.Title,
		Source:  input,
		Dialect: res.Dialect,
		Records: len(res.Records),
		Skipped: len(res.Skipped),
	}
	if err := dash.WriteFile(cfg.Dashboard.Output, res.Charts, summary); err != nil {
		return err
	}
	outputs := []string{cfg.Dashboard.Output}
	log.Infow("dashboard_written",
		"path", cfg.Dashboard.Output,
		"devices", humanize.Comma(int64(len(res.Charts))),
		"records", humanize.Comma(int64(len(res.Records))),
	)

	if dir := cfg.Dashboard.FragmentsDir; dir != "" {
		paths, err := dash.WriteFragments(dir, res.Charts)
		if err != nil {
			return err
		}
		outputs = append(outputs, paths...)
		log.Infow("fragments_written", "dir", dir, "files", len(paths))
	}

	if path := cfg.Export.SQLite; path != "" {
		if err := exportSQLite(ctx, path, input, res, log); err != nil {
			return err
		}
		outputs = append(outputs, path)
	}

	if path := cfg.Export.Report; path != "" {
		if err := report.Write(path, report.New(input, res, outputs)); err != nil {
			return err
		}
		log.Infow("report_written", "path", path)
	}

	if len(res.Skipped) > 0 {
		log.Warnw("rows_skipped", "count", len(res.Skipped), "first_row", res.Skipped[0].Row)
	}
	return nil
}

func exportSQLite(ctx context.Context, path, input string, res *service.Result, log *logger.Logger) error {
	sqlDB, err := db.InitDB(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	runID, err := service.NewExportService(repository.NewRepository(sqlDB), log).Export(ctx, input, res)
	if err != nil {
		return fmt.Errorf("sqlite export: %w", err)
	}
	log.Infow("sqlite_written", "path", path, "run_id", runID, "intervals", len(res.Intervals()))
	return nil
}
