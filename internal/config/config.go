// Package config loads the engine's runtime settings. Values layer in
// priority order: built-in defaults, the YAML config file, WORDVAULT_
// environment variables, then command-line flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/KyryloOleynik/wordvault/internal/session"
	"github.com/KyryloOleynik/wordvault/internal/store"
)

// Config holds the runtime settings. Keys double as flag names, YAML keys
// and (upper-cased, underscored) environment variable suffixes.
type Config struct {
	// DBPath is the SQLite database file. Empty means the default location.
	DBPath string `koanf:"db" validate:"required"`
	// BatchSize is the per-transaction record count for the legacy import.
	BatchSize int `koanf:"batch-size" validate:"gt=0"`
	// QueueSize bounds the practice queue.
	QueueSize int `koanf:"queue-size" validate:"gt=0"`
	// NewShare is the fraction of the practice queue reserved for new words.
	NewShare float64 `koanf:"new-share" validate:"gte=0,lte=1"`
}

var validate = validator.New()

// RegisterFlags defines the config-backed flags on the given flag set.
func RegisterFlags(f *pflag.FlagSet) {
	f.String("db", "", "path to the SQLite database file")
	f.Int("batch-size", store.DefaultImportBatchSize, "records per import transaction")
	f.Int("queue-size", session.DefaultQueueSize, "practice queue length")
	f.Float64("new-share", session.DefaultNewShare, "fraction of the practice queue reserved for new words")
}

// Load builds the configuration. path names the YAML config file: empty
// means the default location, which may be absent; a path given explicitly
// must exist. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	cfg := Config{
		BatchSize: store.DefaultImportBatchSize,
		QueueSize: session.DefaultQueueSize,
		NewShare:  session.DefaultNewShare,
	}

	k := koanf.New(".")

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config file %s: %w", path, err)
			}
		} else if explicit {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: "WORDVAULT_",
		TransformFunc: func(key, value string) (string, any) {
			key = strings.TrimPrefix(key, "WORDVAULT_")
			return strings.ReplaceAll(strings.ToLower(key), "_", "-"), value
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.DBPath == "" {
		p, err := store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = p
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// DefaultConfigPath returns the standard config file location, or "" when
// no home directory can be resolved.
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "wordvault", "config.yaml")
}
