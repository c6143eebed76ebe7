package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/ubuntu/authorityd/internal/i18n"
)

func installCompletionCmd(rootCmd *cobra.Command) {
	prog := rootCmd.Name()
	completionCmd := &cobra.Command{
		Use:   "completion [bash|zsh|powershell]",
		Short: i18n.G("Generates completion scripts"),
		Long: strings.ReplaceAll(i18n.G(`To load completions:

Bash:

  $ source <(#prog# completion bash)

  # To load completions for each session, execute once:
  $ #prog# completion bash > /etc/bash_completion.d/#prog#

Zsh:

  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  $ #prog# completion zsh > "${fpath[1]}/_#prog#"

PowerShell:

  PS> #prog# completion powershell | Out-String | Invoke-Expression
`), "#prog#", prog),
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "powershell"},
		Args:                  cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			arg := "bash"
			if len(args) > 0 && args[0] != "" {
				arg = args[0]
			}
			switch arg {
			case "bash":
				cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				cmd.Root().GenZshCompletion(os.Stdout)
			case "powershell":
				cmd.Root().GenPowerShellCompletion(os.Stdout)
			default:
				fmt.Fprintf(os.Stdout, "Shell preset unknown: %-36s\n", arg)
			}
		},
	}
	rootCmd.AddCommand(completionCmd)
}
