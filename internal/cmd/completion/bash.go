package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdBash creates the bash completion command.
func NewCmdBash() *cobra.Command {
	return &cobra.Command{
		Use:   "bash",
		Short: "Generate bash completion script",
		Long: `Generate bash completion script for rtfc.

To load completions in your current shell session:

  source <(rtfc completion bash)

To load completions for every new session:

  # Linux
  rtfc completion bash > /etc/bash_completion.d/rtfc

  # macOS (requires bash-completion)
  rtfc completion bash > $(brew --prefix)/etc/bash_completion.d/rtfc`,
		Example: `  # Load in current session
  source <(rtfc completion bash)

  # Install permanently (Linux)
  rtfc completion bash | sudo tee /etc/bash_completion.d/rtfc > /dev/null

  # Install permanently (macOS with Homebrew)
  rtfc completion bash > $(brew --prefix)/etc/bash_completion.d/rtfc`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
		},
	}
}
