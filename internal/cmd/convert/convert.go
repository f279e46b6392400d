// Package convert provides the convert command for rtfc.
package convert

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/config"
	"github.com/open-cli-collective/rtf-cli/pkg/markdown"
	"github.com/open-cli-collective/rtf-cli/pkg/rtf"
)

type convertOptions struct {
	from string
	to   string
	in   string
	out  string

	stdin  io.Reader // For testing; defaults to os.Stdin
	stdout io.Writer // For testing; defaults to os.Stdout
}

// NewCmdConvert creates the convert command.
func NewCmdConvert() *cobra.Command {
	opts := &convertOptions{}

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert between RTF, plain text, and Markdown",
		Long: `Convert a document between RTF, plain text, and Markdown.

One side of the conversion must be RTF. Converting to RTF uses the
configured font (rtfc init); converting from RTF drops formatting that
the target format cannot express.

Input is read from stdin unless --in is given; output goes to stdout
unless --out is given.`,
		Example: `  # RTF to Markdown
  rtfc convert --to markdown --in notes.rtf

  # Markdown to RTF
  rtfc convert --from markdown --in notes.md --out notes.rtf

  # Plain text to RTF, via pipes
  echo "hello" | rtfc convert --from text > hello.rtf`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConvert(opts, nil)
		},
	}

	cmd.Flags().StringVar(&opts.from, "from", "rtf", "source format: rtf, text, markdown")
	cmd.Flags().StringVar(&opts.to, "to", "rtf", "target format: rtf, text, markdown")
	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "read input from file (default: stdin)")
	cmd.Flags().StringVarP(&opts.out, "out", "O", "", "write output to file (default: stdout)")

	return cmd
}

func runConvert(opts *convertOptions, cfg *config.Config) error {
	if err := validateFormats(opts.from, opts.to); err != nil {
		return err
	}

	// Load config if not provided (allows injection for testing)
	if cfg == nil {
		var err error
		cfg, err = config.LoadWithEnv(config.DefaultConfigPath())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w (run 'rtfc init' to configure)", err)
		}
	}

	input, err := readInput(opts)
	if err != nil {
		return err
	}

	result, err := convert(string(input), opts.from, opts.to, cfg)
	if err != nil {
		return err
	}

	return writeOutput(opts, result)
}

var formats = map[string]bool{"rtf": true, "text": true, "markdown": true}

func validateFormats(from, to string) error {
	if !formats[from] {
		return fmt.Errorf("unknown source format %q (valid: rtf, text, markdown)", from)
	}
	if !formats[to] {
		return fmt.Errorf("unknown target format %q (valid: rtf, text, markdown)", to)
	}
	if from == to {
		return fmt.Errorf("source and target format are both %q, nothing to convert", from)
	}
	if from != "rtf" && to != "rtf" {
		return fmt.Errorf("one side of the conversion must be rtf, got %s to %s", from, to)
	}
	return nil
}

func convert(input, from, to string, cfg *config.Config) (string, error) {
	if from == "rtf" {
		doc, err := rtf.Decode(input)
		if err != nil {
			return "", fmt.Errorf("failed to decode RTF: %w", err)
		}
		if to == "text" {
			return doc.PlainText() + "\n", nil
		}
		md, err := markdown.FromDocument(doc)
		if err != nil {
			return "", fmt.Errorf("failed to render markdown: %w", err)
		}
		return md + "\n", nil
	}

	if from == "text" {
		text := trimTrailingNewline(input)
		return rtf.FromPlainText(text, cfg.Meta()), nil
	}

	doc, err := markdown.ToDocument([]byte(input))
	if err != nil {
		return "", fmt.Errorf("failed to parse markdown: %w", err)
	}
	doc.Meta = *cfg.Meta()
	return rtf.Encode(doc)
}

// trimTrailingNewline drops the final newline text editors append; it
// is file framing, not document content.
func trimTrailingNewline(s string) string {
	if n := len(s); n > 0 && s[n-1] == '\n' {
		s = s[:n-1]
		if n > 1 && s[len(s)-1] == '\r' {
			s = s[:len(s)-1]
		}
	}
	return s
}

func readInput(opts *convertOptions) ([]byte, error) {
	if opts.in != "" {
		data, err := os.ReadFile(opts.in)
		if err != nil {
			return nil, fmt.Errorf("failed to read input file: %w", err)
		}
		return data, nil
	}

	stdin := opts.stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return nil, fmt.Errorf("failed to read stdin: %w", err)
	}
	return data, nil
}

func writeOutput(opts *convertOptions, result string) error {
	if opts.out != "" {
		if err := os.WriteFile(opts.out, []byte(result), 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		return nil
	}

	stdout := opts.stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	_, err := io.WriteString(stdout, result)
	return err
}
