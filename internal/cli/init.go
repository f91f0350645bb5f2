package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/parenfmt/internal/configloader"
	"github.com/yaklabco/parenfmt/internal/logging"
	"github.com/yaklabco/parenfmt/pkg/config"
)

// configFilePermissions is the file mode for configuration files (world-readable).
const configFilePermissions = 0o644

type initFlags struct {
	force  bool
	full   bool
	output string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a parenfmt configuration file",
		Long: `Create a .parenfmt.yml configuration file in the current directory.

By default every setting is listed commented out with its default value.

Examples:
  parenfmt init                      Create .parenfmt.yml
  parenfmt init --full               Write every setting uncommented
  parenfmt init --output ci.yml      Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "write every setting uncommented")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file path (default: .parenfmt.yml)")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())

	outputPath := flags.output
	if outputPath == "" {
		outputPath = configloader.ProjectConfigFiles()[0]
	}

	absPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("%w: file %q already exists; use --force to overwrite", ErrUsage, outputPath)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, outputPath)
	}

	content := config.GenerateTemplate(flags.full)

	// The template must round-trip through the loader's validation.
	parsed, err := config.FromYAML(content)
	if err != nil {
		return fmt.Errorf("generated template does not parse: %w", err)
	}
	if result := configloader.Validate(configloader.MergeAll(config.NewConfig(), parsed)); !result.Valid() {
		return fmt.Errorf("generated template is invalid: %w", &result.Errors[0])
	}

	if err := os.WriteFile(absPath, content, configFilePermissions); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	logger.Info("created configuration file", logging.FieldPath, outputPath)
	logger.Info("customize your configuration by editing the file")

	return nil
}
