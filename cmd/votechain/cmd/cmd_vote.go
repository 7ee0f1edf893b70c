package cmd

import (
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var cmdVote = &cobra.Command{
	Use:   "vote <poll-id> <candidate-index>",
	Short: "Vote for a candidate in a poll",
	Args:  cobra.ExactArgs(2),
	RunE: func(c *cobra.Command, args []string) error {
		pollID, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return errors.Wrap(err, "poll id")
		}

		candidate, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return errors.Wrap(err, "candidate index")
		}

		ctx, done, app := setup()
		defer done()

		ctx, cancel := withTxTimeout(ctx, app)
		defer cancel()

		return resultError(c, app.Service.SubmitVote(ctx, pollID, candidate))
	},
}
