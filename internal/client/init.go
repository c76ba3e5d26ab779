package client

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-headless/internal/dom"
	xhtml "golang.org/x/net/html"
)

const elementSelector = ".elementor-element"

// initRuntime waits for the runtime entry point and calls it.
func (l *Loader) initRuntime(ctx context.Context) error {
	timeout := l.cfg.InitTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	interval := l.cfg.PollInterval
	if interval <= 0 {
		interval = 50 * time.Millisecond
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if entry, ok := l.runtime.EntryPoint(); ok {
			err := entry(ctx)
			if errors.Is(err, ErrAlreadyInitialized) {
				l.logger.Debug("client.init.already_initialized")
				return nil
			}
			return err
		}
		select {
		case <-waitCtx.Done():
			if err := ctx.Err(); err != nil {
				return err
			}
			return ErrInitTimeout
		case <-ticker.C:
		}
	}
}

// readyElements runs the element ready hook for every builder element inside
// container and returns how many succeeded.
func (l *Loader) readyElements(ctx context.Context, container *xhtml.Node) int {
	nodes, err := dom.QueryAll(container, elementSelector)
	if err != nil {
		l.logger.Warn("client.ready.query_failed", "error", err)
		return 0
	}
	ready := 0
	for _, el := range nodes {
		if err := l.runtime.ElementReady(ctx, el); err != nil {
			id, _ := dom.Attr(el, "data-id")
			l.logger.Warn("client.ready.failed", "element", id, "error", err)
			continue
		}
		ready++
	}
	return ready
}
