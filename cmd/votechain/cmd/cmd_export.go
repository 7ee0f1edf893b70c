package cmd

import (
	"fmt"
	"time"

	"github.com/tokenized/votechain/cmd/votechain/bootstrap"
	"github.com/tokenized/votechain/internal/report"

	"github.com/spf13/cobra"
)

var cmdExport = &cobra.Command{
	Use:   "export <key>",
	Short: "Write a JSON report of all polls to storage",
	Args:  cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		ctx, done, app := setup()
		defer done()

		if err := reload(ctx, c, app); err != nil {
			return err
		}

		r := report.Build(app.Service.Polls(), app.Service.Stats(), app.Identity.State(),
			time.Now())

		if err := report.Export(ctx, bootstrap.NewStorage(app.Config), args[0], r); err != nil {
			return err
		}

		fmt.Fprintf(c.OutOrStdout(), "Exported %d polls to %s\n", len(r.Entries), args[0])
		return nil
	},
}
