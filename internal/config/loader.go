package config

import (
	"context"
	"fmt"
	"os"

	"github.com/ubuntu/authorityd/internal/i18n"
	"github.com/ubuntu/authorityd/internal/log"
	"gopkg.in/yaml.v2"
)

// Config is the on-disk daemon configuration.
type Config struct {
	Socket      string      `yaml:"socket"`
	RecordDirs  []string    `yaml:"record_dirs"`
	Helpers     HelperPaths `yaml:"helpers"`
	CatalogPath string      `yaml:"catalog_path"`
}

// Default returns the production defaults, used when no config file
// is present.
func Default() Config {
	return Config{
		Socket:      DefaultSocket,
		RecordDirs:  append([]string(nil), DefaultRecordDirs...),
		Helpers:     DefaultHelperPaths,
		CatalogPath: DefaultCatalogPath,
	}
}

// Load reads a YAML configuration file at path, falling back silently
// to Default() when path is empty or the file does not exist (the
// daemon must run with sane defaults on a bare system).
func Load(ctx context.Context, path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debugf(ctx, i18n.G("no configuration file at %q, using defaults"), path)
			return c, nil
		}
		return Config{}, fmt.Errorf(i18n.G("couldn't read configuration file %q: %w"), path, err)
	}

	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf(i18n.G("couldn't parse configuration file %q: %w"), path, err)
	}
	return c, nil
}
