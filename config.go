package headless

import "github.com/goliatone/go-headless/internal/runtimeconfig"

var (
	ErrSiteURLRequired           = runtimeconfig.ErrSiteURLRequired
	ErrSiteURLInvalid            = runtimeconfig.ErrSiteURLInvalid
	ErrPostTypesRequired         = runtimeconfig.ErrPostTypesRequired
	ErrExtendedConfigNeedsActive = runtimeconfig.ErrExtendedConfigNeedsActive
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrClientTimingInvalid       = runtimeconfig.ErrClientTimingInvalid
	ErrClientPatternInvalid      = runtimeconfig.ErrClientPatternInvalid
	ErrLoggingProviderRequired   = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	RuntimeConfig  = runtimeconfig.RuntimeConfig
	ExposureConfig = runtimeconfig.ExposureConfig
	AssetsConfig   = runtimeconfig.AssetsConfig
	ClientConfig   = runtimeconfig.ClientConfig
	StorageConfig  = runtimeconfig.StorageConfig
	CacheConfig    = runtimeconfig.CacheConfig
	ServerConfig   = runtimeconfig.ServerConfig
	KitConfig      = runtimeconfig.KitConfig
	Features       = runtimeconfig.Features
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
