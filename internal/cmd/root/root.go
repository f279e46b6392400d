// Package root provides the root command for the rtfc CLI.
package root

import (
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/cmd/completion"
	"github.com/open-cli-collective/rtf-cli/internal/cmd/configcmd"
	"github.com/open-cli-collective/rtf-cli/internal/cmd/convert"
	initcmd "github.com/open-cli-collective/rtf-cli/internal/cmd/init"
	"github.com/open-cli-collective/rtf-cli/internal/cmd/inspect"
	"github.com/open-cli-collective/rtf-cli/internal/cmd/patch"
	"github.com/open-cli-collective/rtf-cli/internal/cmd/tags"
	"github.com/open-cli-collective/rtf-cli/internal/version"
)

// NewCmdRoot creates the root command for rtfc.
func NewCmdRoot() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rtfc",
		Short: "A command-line toolkit for RTF documents",
		Long: `rtfc reads, writes, and patches Rich Text Format documents.

It converts between RTF, plain text, and Markdown, and can splice
plain-text edits back into an RTF file without disturbing the
formatting around them.

Get started by running: rtfc init`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Version,
	}

	// Global flags
	cmd.PersistentFlags().StringP("config", "c", "", "config file (default: ~/.config/rtfc/config.yml)")
	cmd.PersistentFlags().StringP("output", "o", "table", "output format: table, json, plain")
	cmd.PersistentFlags().Bool("no-color", false, "disable colored output")

	// Set version template
	cmd.SetVersionTemplate("rtfc version {{.Version}} (commit: " + version.Commit + ", built: " + version.Date + ")\n")

	// Subcommands
	cmd.AddCommand(initcmd.NewCmdInit())
	cmd.AddCommand(convert.NewCmdConvert())
	cmd.AddCommand(patch.NewCmdPatch())
	cmd.AddCommand(inspect.NewCmdInspect())
	cmd.AddCommand(tags.NewCmdTags())
	cmd.AddCommand(configcmd.NewCmdConfig())
	cmd.AddCommand(completion.NewCmdCompletion())

	return cmd
}
