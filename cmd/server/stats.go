package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/hizbtrack/internal/calculator"
	"github.com/mmynk/hizbtrack/internal/models"
	"github.com/mmynk/hizbtrack/internal/storage"
	"github.com/mmynk/hizbtrack/internal/tracker"
)

// writeTimer is implemented by backends that record when a key was last written.
type writeTimer interface {
	UpdatedAt(ctx context.Context, key string) (int64, error)
}

// lastSaved returns when the document under key was last written, or the zero
// time if the backend does not track it or nothing has been saved.
func lastSaved(ctx context.Context, backend storage.Backend, key string) (time.Time, error) {
	wt, ok := backend.(writeTimer)
	if !ok {
		return time.Time{}, nil
	}
	ts, err := wt.UpdatedAt(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(ts, 0).UTC(), nil
}

func statsCmd(opts *options) *cobra.Command {
	var (
		topN  int
		month string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the group's progress summary",
		Long: `Print the group's progress summary from the configured storage.

With --month, the top performers are ranked by units completed in that month.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if month != "" {
				if _, err := models.ParseMonth(month); err != nil {
					return err
				}
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			backend, err := openBackend(cmd.Context(), cfg.Storage)
			if err != nil {
				return err
			}
			defer backend.Close()

			doc, err := tracker.New(backend, tracker.WithKey(cfg.Storage.Key)).Load(cmd.Context())
			if err != nil {
				return err
			}
			saved, err := lastSaved(cmd.Context(), backend, cfg.Storage.Key)
			if err != nil {
				return err
			}
			return printStats(cmd.OutOrStdout(), doc, saved, topN, month)
		},
	}

	cmd.Flags().IntVarP(&topN, "top", "n", 3, "Number of top performers to list")
	cmd.Flags().StringVarP(&month, "month", "m", "", "Rank by units completed in this month (YYYY-MM)")
	return cmd
}

func printStats(w io.Writer, doc *models.GroupData, saved time.Time, topN int, month string) error {
	summary := calculator.Summarize(doc, topN)
	top := summary.Top
	if month != "" {
		top = calculator.TopPerformersForMonth(doc.Members, month, topN)
	}

	fmt.Fprintf(w, "%s\n", doc.Name)
	fmt.Fprintf(w, "Members:         %d\n", summary.MemberCount)
	// The group figure is measured against the group default for every member.
	fmt.Fprintf(w, "Group progress:  %.1f%% (%d/%d)\n", summary.GroupPercent, summary.CompletedUnits, len(doc.Members)*doc.TotalUnits)
	fmt.Fprintf(w, "Average:         %.1f%%\n", summary.AveragePercent)
	if summary.CapacityUnits != len(doc.Members)*doc.TotalUnits {
		fmt.Fprintf(w, "Own capacities:  %d units\n", summary.CapacityUnits)
	}
	if !saved.IsZero() {
		fmt.Fprintf(w, "Last saved:      %s\n", saved.Format(time.RFC3339))
	}

	if month != "" {
		fmt.Fprintf(w, "\nTop performers for %s:\n", month)
	} else {
		fmt.Fprintf(w, "\nTop performers:\n")
	}
	if len(top) == 0 {
		fmt.Fprintln(w, "  (none)")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, m := range top {
		if month != "" {
			units, _ := m.History.Get(month)
			fmt.Fprintf(tw, "  %d.\t%s\t%d\n", i+1, m.Name, units)
		} else {
			fmt.Fprintf(tw, "  %d.\t%s\t%d/%d\t%.1f%%\n", i+1, m.Name, m.CompletedUnits, m.TotalUnits, calculator.MemberPercent(m))
		}
	}
	return tw.Flush()
}
