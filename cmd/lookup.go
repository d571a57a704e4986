package cmd

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/akulishov/timegrid/config"
	"github.com/akulishov/timegrid/core/index"
	"github.com/akulishov/timegrid/core/schedule"
	"github.com/akulishov/timegrid/infra/source"
)

var lookupRoom bool

var lookupCmd = &cobra.Command{
	Use:   "lookup <subject|room>",
	Short: "Find where a subject is taught or what a room hosts this week",
	Args:  cobra.ExactArgs(1),
	RunE:  runLookup,
}

func init() {
	lookupCmd.Flags().BoolVarP(&lookupRoom, "room", "r", false, "treat the argument as a room designator")
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
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

	kind := index.BySubject
	if lookupRoom {
		kind = index.ByRoom
	}
	week := index.Build(snap, kind).Lookup(args[0])
	if week == nil {
		fmt.Fprintln(cmd.OutOrStdout(), "no occurrences")
		return nil
	}
	for d := range week {
		secondaries := make([]string, 0, len(week[d]))
		for s := range week[d] {
			secondaries = append(secondaries, s)
		}
		sort.Strings(secondaries)
		for _, sec := range secondaries {
			classes := make([]string, 0, len(week[d][sec]))
			for c := range week[d][sec] {
				classes = append(classes, c)
			}
			sort.Strings(classes)
			for _, class := range classes {
				fmt.Fprintf(cmd.OutOrStdout(), "day %d  %s  %s  slots %v\n", d, sec, class, week[d][sec][class])
			}
		}
	}
	return nil
}
