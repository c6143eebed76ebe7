package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/identity"
	"github.com/ubuntu/authorityd/internal/rpc"
	"github.com/ubuntu/authorityd/internal/sysinfo"
)

var temporaryCmd = &cobra.Command{
	Use:   "list-temporary-authorizations IDENTITY",
	Short: i18n.G("List a unix user's non-permanent authorization records"),
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cmdErr = listTemporary(args[0])
	},
}

func init() {
	rootCmd.AddCommand(temporaryCmd)
}

func listTemporary(identityArg string) error {
	id, err := identity.Parse(identityArg, sysinfo.OSLookup{})
	if err != nil {
		return fmt.Errorf(i18n.G("invalid identity %q: %v"), identityArg, err)
	}
	if id.Kind() != identity.KindUnixUser {
		return fmt.Errorf(i18n.G("%q doesn't identify a unix user"), identityArg)
	}
	uid := id.UID()

	client, closeConn, err := newClient()
	if err != nil {
		return err
	}
	defer closeConn()

	ctx, cancel := clientContext()
	defer cancel()

	resp, err := client.TemporaryAuthorizations(ctx, &rpc.TemporaryAuthorizationsRequest{UID: uid})
	if err = checkConn(err); err != nil {
		return err
	}
	for _, a := range resp.Authorizations {
		fmt.Printf("%s\t%s\n", a.ActionID, a.Scope)
	}
	return nil
}
