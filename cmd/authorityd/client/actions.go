package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/rpc"
)

var actionsCmd = &cobra.Command{
	Use:   "list-actions",
	Short: i18n.G("List every action id known to the policy catalog"),
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmdErr = listActions()
	},
}

func init() {
	rootCmd.AddCommand(actionsCmd)
}

func listActions() error {
	client, closeConn, err := newClient()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := clientContext()
	defer cancel()

	resp, err := client.EnumerateActions(ctx, &rpc.EnumerateActionsRequest{})
	if err = checkConn(err); err != nil {
		return err
	}
	for _, id := range resp.ActionIDs {
		fmt.Println(id)
	}
	return nil
}
