package configcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/open-cli-collective/rtf-cli/internal/config"
)

// NewCmdShow creates the config show command.
func NewCmdShow() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long:  `Display the current rtfc configuration with value source indicators.`,
		Example: `  # Show current config
  rtfc config show`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			noColor, _ := cmd.Flags().GetBool("no-color")
			return runShow(noColor)
		},
	}

	return cmd
}

func runShow(noColor bool) error {
	if noColor {
		color.NoColor = true
	}

	configPath := config.DefaultConfigPath()

	// Load file config (may not exist)
	fileCfg, fileErr := config.Load(configPath)
	if fileErr != nil {
		fileCfg = &config.Config{}
	}

	// Load full config with env overrides
	cfg, _ := config.LoadWithEnv(configPath)

	bold := color.New(color.Bold)
	dim := color.New(color.Faint)

	printField := func(label, value, fileValue, envVar string) {
		_, _ = bold.Printf("%-15s", label+":")
		if value == "" {
			_, _ = dim.Println("-")
			return
		}

		fmt.Print(value)

		// Determine source
		source := "config"
		if fileErr != nil {
			source = "-"
		}
		if v := os.Getenv(envVar); v != "" && v == value {
			source = envVar
		} else if fileValue != value && source == "config" {
			source = "-"
		}

		_, _ = dim.Printf("  (source: %s)\n", source)
	}

	formatSize := func(size float64) string {
		if size == 0 {
			return ""
		}
		return strconv.FormatFloat(size, 'g', -1, 64)
	}

	printField("Font name", cfg.FontName, fileCfg.FontName, "RTFC_FONT_NAME")
	printField("Font family", cfg.FontFamily, fileCfg.FontFamily, "RTFC_FONT_FAMILY")
	printField("Font size", formatSize(cfg.FontSize), formatSize(fileCfg.FontSize), "RTFC_FONT_SIZE")
	printField("Output format", cfg.OutputFormat, fileCfg.OutputFormat, "RTFC_OUTPUT_FORMAT")

	fmt.Println()
	_, _ = dim.Printf("Config file: %s\n", configPath)
	if fileErr != nil {
		_, _ = dim.Println("(file not found)")
	}

	return nil
}
