package di

import (
	"os"
	"strings"

	"github.com/goliatone/go-headless/internal/logging"
	"github.com/goliatone/go-headless/internal/logging/console"
	"github.com/goliatone/go-headless/internal/logging/gologger"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/pkg/interfaces"
)

// configureLogger resolves the provider from configuration unless one was
// injected. With the logger feature off every module logs through NoOp.
func (c *Container) configureLogger() error {
	if c.loggerProvider == nil && c.Config.Features.Logger {
		provider, err := newLoggerProvider(c.Config.Logging.Provider, c.Config.Logging)
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "headless.di")
	return nil
}

func newLoggerProvider(name string, cfg runtimeconfig.LoggingConfig) (interfaces.LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gologger":
		return gologger.NewProvider(cfg)
	default:
		level, _ := console.ParseLevel(cfg.Level)
		return console.NewProvider(console.Options{
			Writer:   os.Stderr,
			MinLevel: &level,
		}), nil
	}
}
