package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/cmd/authorityd/client"
	"github.com/ubuntu/authorityd/cmd/authorityd/daemon"
	"github.com/ubuntu/authorityd/internal/config"
	"github.com/ubuntu/authorityd/internal/i18n"
)

func main() {
	i18n.InitI18nDomain(config.TEXTDOMAIN)

	var rootCmd *cobra.Command
	var errFunc func() error

	if filepath.Base(os.Args[0]) == "authorityd" {
		rootCmd = daemon.Cmd()
		errFunc = daemon.Error
	} else {
		rootCmd = client.Cmd()
		errFunc = client.Error
	}
	installCompletionCmd(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		log.SetFormatter(&log.TextFormatter{
			DisableLevelTruncation: true,
			DisableTimestamp:       true,
		})
		log.Error(err)
		os.Exit(2)
	}
	if err := errFunc(); err != nil {
		if errors.Is(err, context.Canceled) {
			err = errors.New(i18n.G("Service took too long to respond. Disconnecting client."))
		}
		log.Errorf(config.ErrorFormat, err)
		os.Exit(1)
	}
}
