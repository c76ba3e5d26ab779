package client

import (
	"context"
	"strings"

	"github.com/goliatone/go-headless/internal/logging"
	"golang.org/x/sync/errgroup"
)

// loadScripts loads the foundation subset concurrently, then every other
// script strictly in order. A failing script is recorded and the rest still
// load.
func (l *Loader) loadScripts(ctx context.Context, urls []string, report *Report) {
	var foundation, ordered []string
	for _, url := range urls {
		url = strings.TrimSpace(url)
		if url == "" {
			continue
		}
		if l.session.hasScript(url) {
			report.ScriptsSkipped = append(report.ScriptsSkipped, url)
			continue
		}
		if matchPath(l.cfg.FoundationPattern, url) {
			foundation = append(foundation, url)
			continue
		}
		ordered = append(ordered, url)
	}

	results := make([]error, len(foundation))
	var g errgroup.Group
	for i, url := range foundation {
		g.Go(func() error {
			results[i] = l.scripts.LoadScript(ctx, url)
			return nil
		})
	}
	_ = g.Wait()
	for i, url := range foundation {
		l.recordScript(url, results[i], report)
	}

	for _, url := range ordered {
		l.recordScript(url, l.scripts.LoadScript(ctx, url), report)
	}
}

func (l *Loader) recordScript(url string, err error, report *Report) {
	if err != nil {
		logging.WithURL(l.logger, url).Warn("client.script.failed", "error", err)
		report.ScriptFailures = append(report.ScriptFailures, ScriptFailure{URL: url, Err: err})
		return
	}
	l.session.rememberScript(url)
	report.ScriptsLoaded = append(report.ScriptsLoaded, url)
}
