package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/rpc"
)

var (
	flagAllowInteractive bool
	flagRevokeOneShot    bool

	checkCmd = &cobra.Command{
		Use:   "check-authorization ACTION_ID SUBJECT",
		Short: i18n.G("Ask whether SUBJECT is authorized for ACTION_ID"),
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			cmdErr = checkAuthorization(args[0], args[1])
		},
	}
)

func init() {
	checkCmd.Flags().BoolVar(&flagAllowInteractive, "allow-interactive", false, i18n.G("permit a challenge response for actions that require authentication"))
	checkCmd.Flags().BoolVar(&flagRevokeOneShot, "revoke-one-shot", true, i18n.G("consume a matching process-one-shot authorization on success"))
	rootCmd.AddCommand(checkCmd)
}

func checkAuthorization(actionID, subject string) error {
	client, closeConn, err := newClient()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := clientContext()
	defer cancel()

	resp, err := client.CheckAuthorization(ctx, &rpc.CheckAuthorizationRequest{
		ActionID:         actionID,
		Subject:          subject,
		AllowInteractive: flagAllowInteractive,
		RevokeIfOneShot:  flagRevokeOneShot,
	})
	if err = checkConn(err); err != nil {
		return err
	}

	switch {
	case resp.IsAuthorized:
		fmt.Println(i18n.G("authorized"))
	case resp.IsChallenge:
		fmt.Println(i18n.G("requires authentication:"), resp.Detail)
	default:
		fmt.Println(i18n.G("not authorized"))
	}
	return nil
}
