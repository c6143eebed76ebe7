// Package client implements the authorityctl command tree.
package client

import (
	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/cmd/authorityd/cmdhandler"
	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/i18n"
)

var (
	cmdErr        error
	flagVerbosity int

	rootCmd = &cobra.Command{
		Use:   "authorityctl COMMAND",
		Short: i18n.G("Control the system-wide authorization daemon"),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.SetVerboseMode(flagVerbosity)
		},
		Args:          cmdhandler.SubcommandsRequiredWithSuggestions,
		Run:           cmdhandler.NoCmd,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", i18n.G("issue INFO (-v) and DEBUG (-vv) output"))
}

// Cmd returns the authorityctl command and options.
func Cmd() *cobra.Command {
	return rootCmd
}

// Error returns the authorityctl command error.
func Error() error {
	return cmdErr
}
