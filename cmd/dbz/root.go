package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/ido50/dbz"
	"github.com/ido50/dbz/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath string
	dsnFlag    string
	userFlag   string
	passFlag   string
	verbose    bool

	// Colors
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
)

var rootCmd = &cobra.Command{
	Use:   "dbz",
	Short: "dbz - run simple CRUD statements against a database",
	Long: `dbz opens a database connection from a DSN and runs simple INSERT,
UPDATE, SELECT and DELETE statements, filtering fields against the table's
columns.

Examples:
  dbz --dsn sqlite:app.db columns users
  dbz --dsn sqlite:app.db insert users name=Someone age=30
  dbz --dsn sqlite:app.db select users --where "id = ?" --bind 1
  dbz --dsn "mysql:host=localhost;dbname=app" --user root run "SELECT NOW()"`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (default: .dbz.yml or .dbz.toml in the working directory)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "database DSN (overrides the configuration)")
	rootCmd.PersistentFlags().StringVarP(&userFlag, "user", "u", "", "database user")
	rootCmd.PersistentFlags().StringVarP(&passFlag, "password", "p", "", "database password")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (logs every statement)")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		errorColor.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printSuccess(format string, args ...interface{}) {
	successColor.Printf("✓ "+format+"\n", args...)
}

func printInfo(format string, args ...interface{}) {
	infoColor.Fprintf(os.Stderr, "ℹ "+format+"\n", args...)
}

// loadConfig loads configuration from:
// 1. the file given with --config, or .dbz.yml/.dbz.toml in the working
// directory (DBZ_DSN overrides its DSN)
// 2. defaults
// Connection flags override both.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config

	if configPath != "" {
		loaded, err := config.NewFileLoader(configPath).Load()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		workDir, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}

		loaded, err := config.NewLoader(workDir).LoadOrDefault()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	applyFlags(cfg)

	return cfg, cfg.Validate()
}

// applyFlags overrides the configuration with the global flags
func applyFlags(cfg *config.Config) {
	if dsnFlag != "" {
		cfg.Database.DSN = dsnFlag
	}
	if userFlag != "" {
		cfg.Database.User = userFlag
	}
	if passFlag != "" {
		cfg.Database.Password = passFlag
	}
	if verbose {
		cfg.Log.Level = zerolog.LevelDebugValue
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := cfg.LogLevel()
	if err != nil {
		level = zerolog.WarnLevel
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// connect opens the database described by the configuration
func connect() (*dbz.DB, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := newLogger(cfg)

	if verbose {
		if driver, _, err := dbz.ParseDSN(cfg.Database.DSN, "", ""); err == nil {
			printInfo("Connecting to %s database", driver)
		}
	}

	db, err := dbz.Open(
		cfg.Database.DSN,
		cfg.Database.User,
		cfg.Database.Password,
		dbz.WithLogger(log),
		dbz.WithPool(dbz.Pool{
			MaxOpenConns:    cfg.Database.MaxOpenConns,
			MaxIdleConns:    cfg.Database.MaxIdleConns,
			ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		}),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
