package client

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/i18n"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: i18n.G("Print the authorityctl version"),
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf(i18n.G("authorityctl\t%s")+"\n", config.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
