package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenized/votechain/cmd/votechain/bootstrap"
	"github.com/tokenized/votechain/internal/report"
	"github.com/tokenized/votechain/pkg/scheduler"

	"github.com/spf13/cobra"
	"github.com/tokenized/pkg/logger"
)

var cmdWatch = &cobra.Command{
	Use:   "watch",
	Short: "Reload polls periodically and print the totals",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		ctx, done, app := setup()
		defer done()

		interval := time.Duration(app.Config.Watch.Interval) * time.Second
		if interval <= 0 {
			interval = 15 * time.Second
		}

		show := func(ctx context.Context) {
			if err := reload(ctx, c, app); err != nil {
				logger.Warn(ctx, "Reload failed : %s", err)
				return
			}
			printTotals(c, app)
		}

		show(ctx)

		sch := scheduler.NewScheduler()
		sch.ScheduleJob(ctx, scheduler.NewPeriodicProcess("reload", scheduler.ProcessFunc(show),
			interval))

		logger.Info(ctx, "Watching polls every %s", interval)
		if err := sch.Run(ctx); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

func printTotals(c *cobra.Command, app *bootstrap.App) {
	r := report.Build(app.Service.Polls(), app.Service.Stats(), app.Identity.State(), time.Now())

	fmt.Fprintf(c.OutOrStdout(), "%s\n", r.GeneratedAt.Format(time.RFC3339))
	for _, e := range r.Entries {
		leader := "no votes"
		if e.Winner != nil {
			leader = e.Winner.Candidate
		}
		fmt.Fprintf(c.OutOrStdout(), "  #%d %-30s %6d votes  %s\n", e.ID, e.Title, e.TotalVotes, leader)
	}
}
