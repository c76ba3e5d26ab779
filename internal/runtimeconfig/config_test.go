package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-headless/internal/runtimeconfig"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		{
			name:   "missing site url",
			mutate: func(cfg *runtimeconfig.Config) { cfg.SiteURL = " " },
			want:   runtimeconfig.ErrSiteURLRequired,
		},
		{
			name:   "relative site url",
			mutate: func(cfg *runtimeconfig.Config) { cfg.SiteURL = "/just/a/path" },
			want:   runtimeconfig.ErrSiteURLInvalid,
		},
		{
			name:   "no post types",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Exposure.PostTypes = []string{" "} },
			want:   runtimeconfig.ErrPostTypesRequired,
		},
		{
			name: "extended config without runtime",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Exposure.ExtendedConfig = true
				cfg.Runtime.ExtendedActive = false
			},
			want: runtimeconfig.ErrExtendedConfigNeedsActive,
		},
		{
			name:   "unknown storage",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "mongo" },
			want:   runtimeconfig.ErrStorageProviderUnknown,
		},
		{
			name:   "sqlite without dsn",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Storage.Provider = "sqlite" },
			want:   runtimeconfig.ErrStorageDSNRequired,
		},
		{
			name:   "zero poll interval",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Client.PollInterval = 0 },
			want:   runtimeconfig.ErrClientTimingInvalid,
		},
		{
			name:   "broken foundation pattern",
			mutate: func(cfg *runtimeconfig.Config) { cfg.Client.FoundationPattern = "(" },
			want:   runtimeconfig.ErrClientPatternInvalid,
		},
		{
			name: "unknown logging provider",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "syslog"
			},
			want: runtimeconfig.ErrLoggingProviderUnknown,
		},
		{
			name: "invalid gologger format",
			mutate: func(cfg *runtimeconfig.Config) {
				cfg.Features.Logger = true
				cfg.Logging.Provider = "gologger"
				cfg.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestExposesPostTypeIsCaseInsensitive(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if !cfg.ExposesPostType(" Page ") {
		t.Fatal("expected page to be exposed")
	}
	if cfg.ExposesPostType("attachment") {
		t.Fatal("expected attachment to be hidden")
	}
}

func TestWildcardOrigin(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	if cfg.WildcardOrigin() {
		t.Fatal("expected no wildcard by default")
	}
	cfg.Exposure.AllowedOrigins = []string{"https://app.example.com", " * "}
	if !cfg.WildcardOrigin() {
		t.Fatal("expected wildcard origin to be detected")
	}
}
