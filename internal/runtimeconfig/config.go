package runtimeconfig

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

var (
	ErrSiteURLRequired           = errors.New("headless config: site url is required")
	ErrSiteURLInvalid            = errors.New("headless config: site url must be an absolute http(s) url")
	ErrPostTypesRequired         = errors.New("headless config: at least one exposed post type is required")
	ErrExtendedConfigNeedsActive = errors.New("headless config: extended config exposure requires the extended runtime to be active")
	ErrStorageProviderUnknown    = errors.New("headless config: storage provider is invalid")
	ErrStorageDSNRequired        = errors.New("headless config: storage dsn is required for sql providers")
	ErrClientTimingInvalid       = errors.New("headless config: client init timeout and poll interval must be positive")
	ErrClientPatternInvalid      = errors.New("headless config: client url pattern does not compile")
	ErrLoggingProviderRequired   = errors.New("headless config: logging provider is required when logging feature is enabled")
	ErrLoggingProviderUnknown    = errors.New("headless config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("headless config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("headless config: logging format is invalid")
)

// Config aggregates the runtime settings for the headless bridge. Field
// names double as viper keys when the CLI loads configuration files.
type Config struct {
	Enabled  bool
	SiteURL  string
	Runtime  RuntimeConfig
	Exposure ExposureConfig
	Assets   AssetsConfig
	Client   ClientConfig
	Storage  StorageConfig
	Cache    CacheConfig
	Server   ServerConfig
	Kit      KitConfig
	Features Features
	Logging  LoggingConfig
}

// RuntimeConfig describes the builder runtime installed on the host.
type RuntimeConfig struct {
	Version             string
	ExtendedActive      bool
	ExtendedVersion     string
	AssetsURL           string
	ExtendedAssetsURL   string
	UploadsURL          string
	RESTPath            string
	AjaxPath            string
	IsRTL               bool
	Debug               bool
	LazyLoadBackgrounds bool
}

// ExposureConfig controls what leaves the server.
type ExposureConfig struct {
	PostTypes      []string
	AllowedOrigins []string
	ExtendedConfig bool
}

// AssetsConfig lists the handles the collectors start from.
type AssetsConfig struct {
	ManifestPath    string
	FrontendStyles  []string
	CoreScripts     []string
	ExtendedScripts []string
	WidgetScripts   map[string][]string
}

// ClientConfig mirrors the loader knobs so server rendered hosts and the CLI
// share one source of truth.
type ClientConfig struct {
	InitTimeout       time.Duration
	PollInterval      time.Duration
	FoundationPattern string
	PageStylePattern  string
	KitClassPrefix    string
	TitleTag          string
}

// StorageConfig selects the document and asset persistence backend.
type StorageConfig struct {
	Provider string
	DSN      string
}

// CacheConfig captures repository cache behaviour.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Addr     string
	BasePath string
}

// KitConfig describes the active global Kit when no storage backed source is wired.
type KitConfig struct {
	ID           int64
	CSSMode      string
	CSSFileURL   string
	InlineCSS    string
	ThemeDir     string
	Theme        string
	Variant      string
	TokensPrefix string
}

// Features toggles optional functionality.
type Features struct {
	Markdown    bool
	ThemeTokens bool
	Writes      bool
	Logger      bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns the defaults used by the CLI and tests.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		SiteURL: "http://localhost",
		Runtime: RuntimeConfig{
			Version:    "3.23.0",
			AssetsURL:  "/wp-content/plugins/elementor/assets/",
			UploadsURL: "/wp-content/uploads/",
			RESTPath:   "/wp-json/",
			AjaxPath:   "/wp-admin/admin-ajax.php",
		},
		Exposure: ExposureConfig{
			PostTypes: []string{"page", "post"},
		},
		Assets: AssetsConfig{
			FrontendStyles: []string{"elementor-frontend"},
			CoreScripts: []string{
				"jquery",
				"elementor-webpack-runtime",
				"elementor-frontend-modules",
				"elementor-frontend",
			},
			ExtendedScripts: []string{
				"elementor-pro-webpack-runtime",
				"elementor-pro-frontend",
				"pro-elements-handlers",
			},
			WidgetScripts: map[string][]string{},
		},
		Client: ClientConfig{
			InitTimeout:       5 * time.Second,
			PollInterval:      50 * time.Millisecond,
			FoundationPattern: `(?i)(jquery[^/]*|webpack[^/]*runtime[^/]*)\.js$`,
			PageStylePattern:  `/post-\d+\.css$`,
			KitClassPrefix:    "elementor-kit-",
			TitleTag:          "h1",
		},
		Storage: StorageConfig{
			Provider: "memory",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			BasePath: "/api",
		},
		Kit: KitConfig{
			CSSMode:      "file",
			TokensPrefix: "e-global",
		},
		Features: Features{
			Markdown: true,
			Writes:   true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs consistency checks.
func (cfg Config) Validate() error {
	site := strings.TrimSpace(cfg.SiteURL)
	if site == "" {
		return ErrSiteURLRequired
	}
	if err := validation.Validate(site, is.URL); err != nil || !hasHTTPScheme(site) {
		return ErrSiteURLInvalid
	}
	if len(nonBlank(cfg.Exposure.PostTypes)) == 0 {
		return ErrPostTypesRequired
	}
	if cfg.Exposure.ExtendedConfig && !cfg.Runtime.ExtendedActive {
		return ErrExtendedConfigNeedsActive
	}

	switch normalize(cfg.Storage.Provider) {
	case "", "memory":
	case "sqlite", "postgres":
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}

	if cfg.Client.InitTimeout <= 0 || cfg.Client.PollInterval <= 0 {
		return ErrClientTimingInvalid
	}
	for _, pattern := range []string{cfg.Client.FoundationPattern, cfg.Client.PageStylePattern} {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("%w: %v", ErrClientPatternInvalid, err)
		}
	}

	if cfg.Features.Logger {
		provider := normalize(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if provider != "console" && provider != "gologger" {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := normalize(cfg.Logging.Format); format != "" && format != "json" && format != "console" && format != "pretty" {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

// ExposesPostType reports whether pages of postType carry the bundle field.
func (cfg Config) ExposesPostType(postType string) bool {
	postType = normalize(postType)
	for _, candidate := range cfg.Exposure.PostTypes {
		if normalize(candidate) == postType {
			return true
		}
	}
	return false
}

// WildcardOrigin reports whether any origin may read the exposed payload.
func (cfg Config) WildcardOrigin() bool {
	for _, origin := range cfg.Exposure.AllowedOrigins {
		if strings.TrimSpace(origin) == "*" {
			return true
		}
	}
	return false
}

func hasHTTPScheme(value string) bool {
	lower := strings.ToLower(value)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func nonBlank(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			out = append(out, value)
		}
	}
	return out
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}
