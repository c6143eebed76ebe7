// Package daemon implements the authorityd daemon command tree.
package daemon

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/daemon"
	"github.com/ubuntu/authorityd/internal/i18n"
)

var (
	cmdErr        error
	flagVerbosity int
	flagConfig    string

	rootCmd = &cobra.Command{
		Use:   "authorityd",
		Short: i18n.G("System-wide authorization daemon"),
		Long: i18n.G(`authorityd arbitrates whether a caller may perform a privileged
action, evaluating authorization records, policy-catalog defaults and
session/constraint context on every request.`),
		Args: cobra.ExactArgs(0),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.SetVerboseMode(flagVerbosity)
		},
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()

			cfg, err := config.Load(ctx, flagConfig)
			if err != nil {
				cmdErr = fmt.Errorf(i18n.G("couldn't load configuration: %v"), err)
				return
			}

			s, err := daemon.New(ctx, cfg.Socket, cfg, daemon.WithDBusExport())
			if err != nil {
				cmdErr = fmt.Errorf(i18n.G("couldn't create authority daemon: %v"), err)
				return
			}

			c := make(chan os.Signal, 1)
			signal.Notify(c, os.Interrupt)
			go func() {
				<-c
				s.Stop()
			}()

			cmdErr = s.Listen()
		},
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", i18n.G("issue INFO (-v) and DEBUG (-vv) output"))
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultConfigPath, i18n.G("path to the daemon configuration file"))
}

// Cmd returns the authorityd command and options.
func Cmd() *cobra.Command {
	return rootCmd
}

// Error returns the authorityd command error.
func Error() error {
	return cmdErr
}
