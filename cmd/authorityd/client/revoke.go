package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/identity"
	"github.com/ubuntu/authorityd/internal/rpc"
	"github.com/ubuntu/authorityd/internal/sysinfo"
)

var revokeCmd = &cobra.Command{
	Use:   "revoke IDENTITY RAW_LINE",
	Short: i18n.G("Revoke an authorization record, given its owning identity (e.g. unix-user:alice or unix-user:1000) and raw text line"),
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		cmdErr = revoke(args[0], args[1])
	},
}

func init() {
	rootCmd.AddCommand(revokeCmd)
}

func revoke(identityArg, rawLine string) error {
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

	_, err = client.Revoke(ctx, &rpc.RevokeRequest{UID: uid, RawLine: rawLine})
	return checkConn(err)
}
