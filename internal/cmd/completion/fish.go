package completion

import (
	"github.com/spf13/cobra"
)

// NewCmdFish creates the fish completion command.
func NewCmdFish() *cobra.Command {
	return &cobra.Command{
		Use:   "fish",
		Short: "Generate fish completion script",
		Long: `Generate fish completion script for rtfc.

To load completions in your current shell session:

  rtfc completion fish | source

To load completions for every new session:

  rtfc completion fish > ~/.config/fish/completions/rtfc.fish`,
		Example: `  # Load in current session
  rtfc completion fish | source

  # Install permanently
  rtfc completion fish > ~/.config/fish/completions/rtfc.fish`,
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
		},
	}
}
