package cmd

import (
	"github.com/spf13/cobra"
)

var cmdCreate = &cobra.Command{
	Use:   "create <title> <candidate> <candidate>...",
	Short: "Create a poll",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		ctx, done, app := setup()
		defer done()

		ctx, cancel := withTxTimeout(ctx, app)
		defer cancel()

		return resultError(c, app.Service.SubmitPoll(ctx, args[0], args[1:]))
	},
}
