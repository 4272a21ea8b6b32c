package cmd

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/kilianp07/wsnlife/config"
	"github.com/kilianp07/wsnlife/core/runlog"
)

func newRunsCmd(load func() (*config.Config, error)) *cobra.Command {
	runs := &cobra.Command{
		Use:   "runs",
		Short: "Inspect recorded runs",
	}
	var (
		since       time.Duration
		minLifetime int
		limit       int
	)
	ls := &cobra.Command{
		Use:   "ls",
		Short: "List recorded runs, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			store, err := runlog.Open(cfg.RunLog)
			if err != nil {
				return err
			}
			defer store.Close()

			q := runlog.RunQuery{MinLifetime: minLifetime, Limit: limit}
			if since > 0 {
				q.Start = time.Now().Add(-since)
			}
			recs, err := store.Query(cmd.Context(), q)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTIME\tSENSORS\tLIVE\tTARGETS\tLIFETIME\tSTEPS\tTRIALS")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n",
					r.ID, r.Timestamp.Format(time.RFC3339), r.Params.Sensors, r.LiveSensors,
					r.Params.Targets, r.Lifetime, r.StepCount, r.Stats.Trials)
			}
			return tw.Flush()
		},
	}
	ls.Flags().DurationVar(&since, "since", 0, "only runs started within this duration")
	ls.Flags().IntVar(&minLifetime, "min-lifetime", 0, "only runs reaching at least this lifetime")
	ls.Flags().IntVar(&limit, "limit", 0, "keep only the newest N runs")
	runs.AddCommand(ls)
	return runs
}
