// Package tags provides the tags command for rtfc.
package tags

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/view"
	"github.com/open-cli-collective/rtf-cli/pkg/annotate"
	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

type tagsOptions struct {
	strip   bool
	out     string
	output  string
	noColor bool

	stdout    io.Writer // For testing; defaults to os.Stdout
	resultOut io.Writer // For testing; captures stripped RTF
}

// NewCmdTags creates the tags command.
func NewCmdTags() *cobra.Command {
	opts := &tagsOptions{}

	cmd := &cobra.Command{
		Use:   "tags <rtf-file>",
		Short: "List or strip inline style annotation markers",
		Long: `List the <$Scr_Ps::N> and <$Scr_Cs::N> style markers some editors
embed in document text, or strip them out.

Stripping removes each marker through the patch engine, so the
document's formatting and untouched bytes survive.`,
		Example: `  # List markers
  rtfc tags script.rtf

  # Strip markers in place
  rtfc tags script.rtf --strip

  # Strip to a new file
  rtfc tags script.rtf --strip --out clean.rtf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runTags(args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.strip, "strip", false, "remove all markers from the document")
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "with --strip: write result to file, or - for stdout (default: in place)")

	return cmd
}

func runTags(path string, opts *tagsOptions) error {
	if err := view.ValidateFormat(opts.output); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read RTF file: %w", err)
	}

	if opts.strip {
		return runStrip(path, string(data), opts)
	}
	return runList(string(data), opts)
}

func runList(source string, opts *tagsOptions) error {
	doc, err := rtf.Decode(source)
	if err != nil {
		return fmt.Errorf("failed to decode RTF: %w", err)
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	var rows [][]string
	for pi, p := range doc.Paragraphs {
		_, tags := annotate.Scan(p.Text)
		for _, tag := range tags {
			kind := "open"
			if tag.End {
				kind = "close"
			}
			rows = append(rows, []string{
				strconv.Itoa(pi + 1),
				strconv.Itoa(tag.Pos),
				tag.Family.String(),
				strconv.Itoa(tag.ID),
				kind,
			})
		}
	}

	if len(rows) == 0 && opts.output != string(view.FormatJSON) {
		renderer.RenderText("No annotation markers found.")
		return nil
	}

	renderer.RenderTable([]string{"PARAGRAPH", "POSITION", "FAMILY", "STYLE", "KIND"}, rows)
	return nil
}

func runStrip(path, source string, opts *tagsOptions) error {
	result, removed, err := stripMarkers(source)
	if err != nil {
		return err
	}

	renderer := view.NewRenderer(view.Format(opts.output), opts.noColor)
	if opts.stdout != nil {
		renderer.SetWriter(opts.stdout)
	}

	switch opts.out {
	case "-":
		w := opts.resultOut
		if w == nil {
			w = os.Stdout
		}
		_, err = io.WriteString(w, result)
		return err
	case "":
		opts.out = path
	}

	if err := os.WriteFile(opts.out, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	renderer.Success(fmt.Sprintf("Removed %d marker(s) from %s", removed, opts.out))
	return nil
}

// stripMarkers removes markers one at a time, each removal being the
// single contiguous edit the patch engine expects. Formatting around
// and between markers stays untouched.
func stripMarkers(source string) (string, int, error) {
	removed := 0
	for {
		plain, err := rtf.ToPlainText(source)
		if err != nil {
			return "", 0, fmt.Errorf("failed to decode RTF: %w", err)
		}

		start, end, ok := annotate.Find(plain)
		if !ok {
			return source, removed, nil
		}

		runes := []rune(plain)
		desired := string(runes[:start]) + string(runes[end:])

		source, err = rtf.Patch(source, desired)
		if err != nil {
			return "", 0, fmt.Errorf("failed to strip marker: %w", err)
		}
		removed++
	}
}
