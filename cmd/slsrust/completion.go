package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func NewCompletionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [shell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for bash, zsh, or fish.

To load completions:

Bash:
  $ source <(slsrust completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ slsrust completion bash > /etc/bash_completion.d/slsrust
  # macOS:
  $ slsrust completion bash > /usr/local/etc/bash_completion.d/slsrust

Zsh:
  $ source <(slsrust completion zsh)

  # To load completions for each session, execute once:
  $ slsrust completion zsh > "${fpath[1]}/_slsrust"

Fish:
  $ slsrust completion fish | source

  # To load completions for each session, execute once:
  $ slsrust completion fish > ~/.config/fish/completions/slsrust.fish
`,
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"bash", "zsh", "fish"},
		RunE:      runCompletion,
	}

	return cmd
}

func runCompletion(cmd *cobra.Command, args []string) error {
	shell := args[0]

	switch shell {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	default:
		return fmt.Errorf("unsupported shell: %s (use bash, zsh, or fish)", shell)
	}
}
