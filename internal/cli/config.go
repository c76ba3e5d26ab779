package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	headless "github.com/goliatone/go-headless"
	"github.com/spf13/viper"
)

// Environment variable prefix for headless configuration.
const envPrefix = "HEADLESS"

// envKeys are bound explicitly so viper reports them during Unmarshal even
// when no config file mentions them.
var envKeys = []string{
	"siteurl",
	"server.addr",
	"server.basepath",
	"storage.provider",
	"storage.dsn",
	"assets.manifestpath",
	"features.writes",
	"features.markdown",
	"features.logger",
	"logging.provider",
	"logging.level",
	"logging.format",
}

// Loader reads configuration files and HEADLESS_* variables on top of the
// module defaults.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a configuration loader.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		_ = v.BindEnv(key)
	}
	return &Loader{v: v}
}

// Load returns the defaults overlaid with configFile (when set) and the
// environment. A missing file is an error; an empty path is not.
func (l *Loader) Load(configFile string) (headless.Config, error) {
	cfg := headless.DefaultConfig()
	if path := strings.TrimSpace(configFile); path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return cfg, fmt.Errorf("reading config file: %w", err)
			}
		}
	}
	if err := l.v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
