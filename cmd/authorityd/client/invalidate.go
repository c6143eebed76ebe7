package client

import (
	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/rpc"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate",
	Short: i18n.G("Drop the daemon's in-memory authorization cache"),
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmdErr = invalidate()
	},
}

func init() {
	rootCmd.AddCommand(invalidateCmd)
}

func invalidate() error {
	client, closeConn, err := newClient()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := clientContext()
	defer cancel()

	_, err = client.Invalidate(ctx, &rpc.InvalidateRequest{})
	return checkConn(err)
}
