package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// EnvDSN overrides the configured DSN when set
const EnvDSN = "DBZ_DSN"

// ErrNotFound is returned by Load when no configuration file exists
var ErrNotFound = errors.New("config file not found")

// FileNames are the configuration files looked up in a directory, in order
var FileNames = []string{".dbz.yml", ".dbz.yaml", ".dbz.toml"}

// Loader handles loading and parsing configuration files
type Loader struct {
	filePath string
}

// NewLoader creates a loader for the first configuration file found in
// workDir
func NewLoader(workDir string) *Loader {
	l := &Loader{
		filePath: filepath.Join(workDir, FileNames[0]),
	}

	for _, name := range FileNames {
		path := filepath.Join(workDir, name)
		if _, err := os.Stat(path); err == nil {
			l.filePath = path
			break
		}
	}

	return l
}

// NewFileLoader creates a loader for a specific file
func NewFileLoader(path string) *Loader {
	return &Loader{filePath: path}
}

// Path returns the path of the file the loader reads
func (l *Loader) Path() string {
	return l.filePath
}

// Exists returns true if the loader's file exists
func (l *Loader) Exists() bool {
	_, err := os.Stat(l.filePath)
	return err == nil
}

// Load reads, parses and validates the configuration file. Environment
// variables are expanded in the DSN and password, and DBZ_DSN overrides the
// DSN.
func (l *Loader) Load() (*Config, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, l.filePath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Defaults()

	switch strings.ToLower(filepath.Ext(l.filePath)) {
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.Database.DSN = os.ExpandEnv(cfg.Database.DSN)
	cfg.Database.Password = os.ExpandEnv(cfg.Database.Password)

	if dsn := os.Getenv(EnvDSN); dsn != "" {
		cfg.Database.DSN = dsn
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadOrDefault loads the configuration file, or returns the defaults (with
// DBZ_DSN applied) if there is none
func (l *Loader) LoadOrDefault() (*Config, error) {
	cfg, err := l.Load()
	if errors.Is(err, ErrNotFound) {
		cfg = Defaults()
		if dsn := os.Getenv(EnvDSN); dsn != "" {
			cfg.Database.DSN = dsn
		}
		return cfg, nil
	}
	return cfg, err
}

// Save writes the configuration as YAML, or TOML if the file has a .toml
// extension
func (l *Loader) Save(cfg *Config) error {
	var data []byte
	var err error

	if strings.ToLower(filepath.Ext(l.filePath)) == ".toml" {
		var b strings.Builder
		err = toml.NewEncoder(&b).Encode(cfg)
		data = []byte(b.String())
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(l.filePath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
