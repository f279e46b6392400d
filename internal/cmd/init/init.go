// Package init provides the init command for rtfc.
package init

import (
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/config"
	"github.com/open-cli-collective/rtf-cli/internal/view"
)

// NewCmdInit creates the init command.
func NewCmdInit() *cobra.Command {
	var (
		fontName string
		fontSize string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize rtfc configuration",
		Long: `Initialize rtfc with your preferred defaults.

This command will guide you through choosing the font and output format
rtfc uses when creating RTF documents. The configuration will be saved
to ~/.config/rtfc/config.yml.`,
		Example: `  # Interactive setup
  rtfc init

  # Pre-populate the font
  rtfc init --font-name "Palatino" --font-size 11`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runInit(fontName, fontSize)
		},
	}

	cmd.Flags().StringVar(&fontName, "font-name", "", "Font for new documents (e.g., Helvetica)")
	cmd.Flags().StringVar(&fontSize, "font-size", "", "Font size in points (e.g., 12)")

	return cmd
}

func runInit(prefillFontName, prefillFontSize string) error {
	configPath := config.DefaultConfigPath()

	// Check if config already exists
	if _, err := os.Stat(configPath); err == nil {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Configuration already exists").
			Description(fmt.Sprintf("Overwrite %s?", configPath)).
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Println("Initialization cancelled.")
			return nil
		}
	}

	cfg := &config.Config{}

	// Use prefilled values or prompt
	fontName := prefillFontName
	fontSize := prefillFontSize

	// Build the form
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Font name").
				Description("Font used when creating RTF documents").
				Placeholder(config.DefaultFontName).
				Value(&fontName),

			huh.NewSelect[string]().
				Title("Font family").
				Description("RTF family category of the font").
				Options(familyOptions()...).
				Value(&cfg.FontFamily),

			huh.NewInput().
				Title("Font size").
				Description("Point size for new documents").
				Placeholder(strconv.Itoa(config.DefaultFontSize)).
				Value(&fontSize).
				Validate(validateFontSize),

			huh.NewSelect[string]().
				Title("Output format").
				Description("Default format for command output").
				Options(formatOptions()...).
				Value(&cfg.OutputFormat),
		),
	)

	if err := form.Run(); err != nil {
		return err
	}

	cfg.FontName = fontName
	cfg.FontSize, _ = parseFontSize(fontSize)

	// Validate
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// Save configuration
	if err := cfg.Save(configPath); err != nil {
		return err
	}

	fmt.Printf("\nConfiguration saved to %s\n", configPath)
	fmt.Println("\nYou're all set! Try running:")
	fmt.Println("  rtfc convert --from markdown --in notes.md --out notes.rtf")
	fmt.Println("  rtfc inspect notes.rtf")

	return nil
}

func familyOptions() []huh.Option[string] {
	return []huh.Option[string]{
		huh.NewOption("swiss (sans-serif, e.g. Helvetica)", "swiss"),
		huh.NewOption("roman (serif, e.g. Times)", "roman"),
		huh.NewOption("modern (fixed pitch, e.g. Courier)", "modern"),
		huh.NewOption("script", "script"),
		huh.NewOption("decor", "decor"),
		huh.NewOption("tech", "tech"),
		huh.NewOption("nil (unknown)", "nil"),
	}
}

func formatOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, len(view.ValidFormats()))
	for _, f := range view.ValidFormats() {
		opts = append(opts, huh.NewOption(f, f))
	}
	return opts
}

func validateFontSize(s string) error {
	_, err := parseFontSize(s)
	return err
}

// parseFontSize accepts an empty string as "use the default".
func parseFontSize(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("font size must be a number")
	}
	if v < 0 {
		return 0, fmt.Errorf("font size must not be negative")
	}
	return v, nil
}
