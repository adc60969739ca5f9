package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/codedeco/internal/logging"
	"github.com/yaklabco/codedeco/pkg/config"
	"github.com/yaklabco/codedeco/pkg/fsutil"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0644

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new codedeco configuration file",
		Long: `Create a new .codedeco.yml configuration file in the current directory
with sensible defaults. The file can be customized to change the separator,
map info strings to grammars, define rule grammars and restyle categories.

Examples:
  codedeco init                      Create minimal .codedeco.yml
  codedeco init --full               Create full config with every style and an example grammar
  codedeco init --format json        Create .codedeco.json instead
  codedeco init --output custom.yml  Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every option documented")
	cmd.Flags().StringVar(&flags.format, "format", "yaml", "Output format: yaml or json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output file path (default: .codedeco.yml or .codedeco.json)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")
	ctx := commandContext(cmd)

	if flags.format != "yaml" && flags.format != "json" {
		return fmt.Errorf("%w: invalid format %q: must be yaml or json", ErrInvalidUsage, flags.format)
	}

	outputPath := flags.output
	if outputPath == "" {
		if flags.format == "json" {
			outputPath = ".codedeco.json"
		} else {
			outputPath = ".codedeco.yml"
		}
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("%w: resolve path: %w", ErrIO, err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrInvalidUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:   flags.full,
		Format: flags.format,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, absPath, content, configFilePermissions)
	if err != nil {
		return fmt.Errorf("%w: write file: %w", ErrIO, err)
	}
	if !written {
		logger.Info("configuration file already up to date", logging.FieldPath, outputPath)
		return nil
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)

	if flags.full {
		logger.Info("full template documents every category style and an example grammar")
	}

	logger.Info("customize your configuration by editing the file")
	logger.Info("run 'codedeco languages' to see the available grammars")

	return nil
}
