package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ido50/dbz/internal/config"
	"github.com/spf13/cobra"
)

var initTOML bool

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a configuration file",
	Long: `Create a .dbz.yml (or .dbz.toml with --toml) configuration file holding
the defaults and any connection flags given, e.g.:

  dbz --dsn "pgsql:host=localhost;dbname=app" --user app init

If no directory is provided, the file is created in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		workDir := "."
		if len(args) > 0 {
			workDir = args[0]
			if err := os.MkdirAll(workDir, 0o755); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}
		}

		if existing := config.NewLoader(workDir); existing.Exists() {
			return fmt.Errorf("configuration already exists at %s", existing.Path())
		}

		name := config.FileNames[0]
		if initTOML {
			name = ".dbz.toml"
		}
		loader := config.NewFileLoader(filepath.Join(workDir, name))

		cfg := config.Defaults()
		applyFlags(cfg)

		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := loader.Save(cfg); err != nil {
			return err
		}

		printSuccess("Created %s", loader.Path())
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initTOML, "toml", false, "write TOML instead of YAML")
	rootCmd.AddCommand(initCmd)
}
