package cmd

import (
	"time"

	"github.com/tokenized/votechain/internal/report"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
)

const (
	FlagJSON = "json"
	FlagRaw  = "raw"
)

var cmdPolls = &cobra.Command{
	Use:   "polls",
	Short: "List all polls with their results",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		ctx, done, app := setup()
		defer done()

		if err := reload(ctx, c, app); err != nil {
			return err
		}

		if raw, _ := c.Flags().GetBool(FlagRaw); raw {
			spew.Fdump(c.OutOrStdout(), app.Service.Polls())
			return nil
		}

		r := report.Build(app.Service.Polls(), app.Service.Stats(), app.Identity.State(),
			time.Now())

		if asJSON, _ := c.Flags().GetBool(FlagJSON); asJSON {
			return report.WriteJSON(c.OutOrStdout(), r)
		}
		return report.WriteText(c.OutOrStdout(), r)
	},
}

var cmdStats = &cobra.Command{
	Use:   "stats",
	Short: "Show poll and vote totals",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		ctx, done, app := setup()
		defer done()

		if err := reload(ctx, c, app); err != nil {
			return err
		}

		r := report.Build(app.Service.Polls(), app.Service.Stats(), app.Identity.State(),
			time.Now())
		return report.WriteStats(c.OutOrStdout(), r)
	},
}

func init() {
	cmdPolls.Flags().Bool(FlagJSON, false, "Write the polls as JSON")
	cmdPolls.Flags().Bool(FlagRaw, false, "Dump the fetched polls")
}
