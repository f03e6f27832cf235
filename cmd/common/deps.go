// Package common provides shared utilities for command implementations.
package common

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/jonesrussell/godiscover/internal/logger"
	"github.com/jonesrussell/godiscover/internal/sites"
)

// CommandDeps holds common dependencies for all commands.
type CommandDeps struct {
	Logger   logger.Interface
	Registry *sites.Registry
}

// NewCommandDeps builds the logger and site registry from the resolved
// configuration. When discover.sites_file is set, its site entries extend
// the built-in registry.
func NewCommandDeps() (CommandDeps, error) {
	log := logger.New(&logger.Config{
		Level:       logger.Level(viper.GetString("logger.level")),
		Development: viper.GetBool("logger.development"),
	})

	var extra []*sites.Config
	if path := viper.GetString("discover.sites_file"); path != "" {
		loaded, err := sites.LoadFile(path)
		if err != nil {
			return CommandDeps{}, fmt.Errorf("failed to load sites file %s: %w", path, err)
		}
		extra = loaded
	}

	return CommandDeps{
		Logger:   log,
		Registry: sites.NewRegistry(extra...),
	}, nil
}
