// Package inspect provides the inspect command for rtfc.
package inspect

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/view"
	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

type inspectOptions struct {
	output  string
	noColor bool
	stdout  io.Writer // For testing; defaults to os.Stdout
}

// NewCmdInspect creates the inspect command.
func NewCmdInspect() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <rtf-file>",
		Short: "Show an RTF document's header tables and text shape",
		Long: `Show what an RTF document declares about itself: the font table,
the color table, the default font, and the size of its decoded text.`,
		Example: `  # Inspect a document
  rtfc inspect notes.rtf

  # Machine-readable output
  rtfc inspect notes.rtf -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runInspect(args[0], opts)
		},
	}

	return cmd
}

type inspectReport struct {
	DefaultFont int                   `json:"defaultFont"`
	Fonts       []rtf.FontTableEntry  `json:"fonts"`
	Colors      []rtf.ColorTableEntry `json:"colors"`
	Paragraphs  int                   `json:"paragraphs"`
	Characters  int                   `json:"characters"`
}

func runInspect(path string, opts *inspectOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read RTF file: %w", err)
	}

	doc, err := rtf.Decode(string(data))
	if err != nil {
		return fmt.Errorf("failed to decode RTF: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	report := inspectReport{
		DefaultFont: doc.Meta.DefaultFont,
		Fonts:       doc.Meta.Fonts,
		Colors:      doc.Meta.Colors,
		Paragraphs:  len(doc.Paragraphs),
	}
	for _, p := range doc.Paragraphs {
		report.Characters += len([]rune(p.Text))
	}

	if opts.output == string(view.FormatJSON) {
		return renderer.RenderJSON(report)
	}

	renderer.RenderKeyValue("Default font", strconv.Itoa(report.DefaultFont))
	renderer.RenderKeyValue("Paragraphs", strconv.Itoa(report.Paragraphs))
	renderer.RenderKeyValue("Characters", strconv.Itoa(report.Characters))

	if len(report.Fonts) > 0 {
		renderer.RenderText("")
		renderer.RenderTable(
			[]string{"FONT", "NAME", "FAMILY"},
			fontRows(report.Fonts),
		)
	}

	if len(report.Colors) > 0 {
		renderer.RenderText("")
		renderer.RenderTable(
			[]string{"COLOR", "RED", "GREEN", "BLUE"},
			colorRows(report.Colors),
		)
	}

	return nil
}

func fontRows(fonts []rtf.FontTableEntry) [][]string {
	rows := make([][]string, 0, len(fonts))
	for _, f := range fonts {
		rows = append(rows, []string{strconv.Itoa(f.Index), f.Name, f.Family})
	}
	return rows
}

func colorRows(colors []rtf.ColorTableEntry) [][]string {
	rows := make([][]string, 0, len(colors))
	for i, c := range colors {
		if c.Auto {
			rows = append(rows, []string{strconv.Itoa(i), "auto", "auto", "auto"})
			continue
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			strconv.Itoa(int(c.RGB.R)),
			strconv.Itoa(int(c.RGB.G)),
			strconv.Itoa(int(c.RGB.B)),
		})
	}
	return rows
}
