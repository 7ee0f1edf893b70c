package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tokenized/votechain/cmd/votechain/bootstrap"
	"github.com/tokenized/votechain/internal/voting"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tokenized/pkg/logger"
)

// errReported is returned by commands that already printed their failure.
var errReported = errors.New("reported")

var vcCmd = &cobra.Command{
	Use:           "votechain",
	Short:         "VoteChain CLI",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	vcCmd.AddCommand(cmdPolls)
	vcCmd.AddCommand(cmdStats)
	vcCmd.AddCommand(cmdCreate)
	vcCmd.AddCommand(cmdVote)
	vcCmd.AddCommand(cmdWhoAmI)
	vcCmd.AddCommand(cmdWatch)
	vcCmd.AddCommand(cmdExport)

	if err := vcCmd.Execute(); err != nil {
		if err != errReported {
			fmt.Fprintf(os.Stderr, "Error : %s\n", err)
		}
		os.Exit(1)
	}
}

// setup returns a context cancelled by interrupt and the wired app.
func setup() (context.Context, context.CancelFunc, *bootstrap.App) {
	ctx := bootstrap.NewContextWithDevelopmentLogger()
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)

	cfg := bootstrap.NewConfigFromEnv(ctx)

	w, err := bootstrap.NewWallet(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "Load wallet : %s", err)
	}

	app, err := bootstrap.NewApp(ctx, cfg, w)
	if err != nil {
		logger.Fatal(ctx, "Start : %s", err)
	}

	return ctx, func() {
		app.Close()
		cancel()
	}, app
}

// withTxTimeout bounds the wait for a transaction when configured.
func withTxTimeout(ctx context.Context, app *bootstrap.App) (context.Context, context.CancelFunc) {
	if app.Config.Ethereum.TxTimeout == 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(app.Config.Ethereum.TxTimeout)*time.Second)
}

// resultError prints a submission result and returns an error when it didn't succeed.
func resultError(c *cobra.Command, result voting.Result) error {
	out := c.OutOrStdout()
	if result.Outcome != voting.OutcomeSuccess {
		out = os.Stderr
	}

	fmt.Fprintf(out, "%s\n", result.Message)
	if len(result.TxHash) > 0 {
		fmt.Fprintf(out, "Transaction : %s\n", result.TxHash)
	}

	if result.Outcome != voting.OutcomeSuccess {
		return errReported
	}
	return nil
}

// reload refreshes the polls and prints the load failure notice on error.
func reload(ctx context.Context, c *cobra.Command, app *bootstrap.App) error {
	if err := app.Service.Reload(ctx); err != nil {
		if notice, ok := app.Service.Notice(); ok {
			fmt.Fprintf(os.Stderr, "%s\n", notice.Message)
		}
		return err
	}
	return nil
}
