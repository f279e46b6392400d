// Package patch provides the patch command for rtfc.
package patch

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/view"
	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

type patchOptions struct {
	out       string
	reencode  bool
	output    string
	noColor   bool
	stdout    io.Writer // For testing; defaults to os.Stdout
	resultOut io.Writer // For testing; captures "-" output
}

// NewCmdPatch creates the patch command.
func NewCmdPatch() *cobra.Command {
	opts := &patchOptions{}

	cmd := &cobra.Command{
		Use:   "patch <rtf-file> <text-file>",
		Short: "Apply edited plain text back to an RTF document",
		Long: `Apply an edited plain-text file back to an RTF document, keeping
every byte outside the edited region unchanged.

The text file holds the document's plain text (as produced by
'rtfc convert --to text') with one region edited. The edit is located
by comparing the two texts and spliced into the RTF source; formatting,
header tables, and untouched content survive byte-for-byte.

When the edit cannot be applied safely the command fails and leaves the
document untouched. --fallback-reencode instead rebuilds the document
from the plain text, trading formatting for the edit.`,
		Example: `  # Patch in place
  rtfc patch notes.rtf notes.txt

  # Write the patched document elsewhere
  rtfc patch notes.rtf notes.txt --out patched.rtf

  # Print to stdout
  rtfc patch notes.rtf notes.txt --out -`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.output, _ = cmd.Flags().GetString("output")
			opts.noColor, _ = cmd.Flags().GetBool("no-color")
			return runPatch(args[0], args[1], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "write result to file, or - for stdout (default: in place)")
	cmd.Flags().BoolVar(&opts.reencode, "fallback-reencode", false, "rebuild from plain text when the patch cannot be applied")

	return cmd
}

func runPatch(rtfPath, textPath string, opts *patchOptions) error {
	source, err := os.ReadFile(rtfPath)
	if err != nil {
		return fmt.Errorf("failed to read RTF file: %w", err)
	}
	edited, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("failed to read text file: %w", err)
	}

	desired := trimTrailingNewline(string(edited))

	result, reencoded, err := patchOrReencode(string(source), desired, opts.reencode)
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
		opts.out = rtfPath
	}

	if err := os.WriteFile(opts.out, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}

	if reencoded {
		renderer.Success(fmt.Sprintf("Rebuilt %s from plain text (formatting lost)", opts.out))
	} else {
		renderer.Success(fmt.Sprintf("Patched %s", opts.out))
	}
	return nil
}

// patchOrReencode applies the patch engine, falling back to a plain
// re-encode only when allowed and only for patch refusals. Invalid
// input is an error either way.
func patchOrReencode(source, desired string, allowReencode bool) (result string, reencoded bool, err error) {
	result, err = rtf.Patch(source, desired)
	if err == nil {
		return result, false, nil
	}

	var perr *rtf.PatchError
	if !allowReencode || !errors.As(err, &perr) {
		return "", false, err
	}

	meta, merr := rtf.ParseHeader(source)
	if merr != nil {
		return "", false, err
	}
	return rtf.FromPlainText(desired, meta), true, nil
}

func trimTrailingNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n > 1 && s[len(s)-1] == '\r' {
			s = s[:len(s)-1]
		}
	}
	return s
}
