package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cmdWhoAmI = &cobra.Command{
	Use:   "whoami",
	Short: "Show the connected account",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		_, done, app := setup()
		defer done()

		out := c.OutOrStdout()
		state := app.Identity.State()
		if !state.IsConnected {
			fmt.Fprintln(out, "Not connected")
			return nil
		}

		fmt.Fprintf(out, "Address : %s\n", state.Address.Hex())
		if state.IsAdmin {
			fmt.Fprintln(out, "Role    : admin")
		} else {
			fmt.Fprintln(out, "Role    : voter")
		}

		for _, address := range app.Wallet.Addresses() {
			if address != state.Address {
				fmt.Fprintf(out, "Also    : %s\n", address.Hex())
			}
		}
		return nil
	},
}
