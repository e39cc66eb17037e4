package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for depprobe.

To load completions:

Bash:
  $ source <(depprobe completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ depprobe completion bash > /etc/bash_completion.d/depprobe
  # macOS:
  $ depprobe completion bash > $(brew --prefix)/etc/bash_completion.d/depprobe

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. You can execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ depprobe completion zsh > "${fpath[1]}/_depprobe"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ depprobe completion fish | source

  # To load completions for each session, execute once:
  $ depprobe completion fish > ~/.config/fish/completions/depprobe.fish

PowerShell:
  PS> depprobe completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> depprobe completion powershell > depprobe.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}
