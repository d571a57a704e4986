package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akulishov/timegrid/config"
	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/infra/source"
	"github.com/akulishov/timegrid/pkg/export"
)

var snapshotFormat string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch and normalize the timetable once, print it and exit",
	RunE:  runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotFormat, "format", "f", "json", "output format (json or csv)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	src, err := source.New(cfg.Source)
	if err != nil {
		return fmt.Errorf("source: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	table, err := src.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	snap, err := schedule.Parse(table, time.Now())
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	switch snapshotFormat {
	case "json":
		return export.WriteSnapshotJSON(cmd.OutOrStdout(), snap)
	case "csv":
		return export.WriteSnapshotCSV(cmd.OutOrStdout(), snap)
	default:
		return fmt.Errorf("unknown format %q", snapshotFormat)
	}
}
