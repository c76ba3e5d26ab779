package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-headless/pkg/interfaces"
)

const (
	rootModule     = "headless"
	assetsModule   = "headless.assets"
	bundleModule   = "headless.bundle"
	clientModule   = "headless.client"
	renderModule   = "headless.render"
	documentModule = "headless.documents"
	httpModule     = "headless.http"
)

const (
	fieldPostID = "post_id"
	fieldStep   = "step"
	fieldURL    = "url"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The module identifier is
// attached as a structured field.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// AssetsLogger returns the logger namespace used by asset registries and resolvers.
func AssetsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, assetsModule)
}

// BundleLogger returns the logger namespace used while building page asset bundles.
func BundleLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, bundleModule)
}

// ClientLogger returns the logger namespace used by the client loader.
func ClientLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, clientModule)
}

// RenderLogger returns the logger namespace used by the structured widget renderer.
func RenderLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, renderModule)
}

// DocumentsLogger returns the logger namespace used by page document services.
func DocumentsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, documentModule)
}

// HTTPLogger returns the logger namespace used by the HTTP adapters.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// WithPageStep tags the logger with the page id and bundle step being
// executed. A blank step is skipped.
func WithPageStep(logger interfaces.Logger, postID int64, step string) interfaces.Logger {
	fields := map[string]any{fieldPostID: postID}
	if trimmed := strings.TrimSpace(step); trimmed != "" {
		fields[fieldStep] = trimmed
	}
	return WithFields(logger, fields)
}

// WithURL tags the logger with an asset or endpoint URL.
func WithURL(logger interfaces.Logger, url string) interfaces.Logger {
	if strings.TrimSpace(url) == "" {
		return logger
	}
	return WithFields(logger, map[string]any{fieldURL: url})
}

// NoOp returns a logger that drops every log entry.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
