package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goliatone/go-headless/internal/bundle"
	"golang.org/x/net/html"
)

// ErrAlreadyInitialized is returned by a runtime init entry point that has
// already run. The loader treats it as success.
var ErrAlreadyInitialized = errors.New("client: runtime already initialized")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("client: %s responded %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher retrieves the page payload.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) (*bundle.Page, error)
}

// ScriptLoader loads and evaluates one script URL. Implementations must be
// safe for concurrent use and must not touch the document.
type ScriptLoader interface {
	LoadScript(ctx context.Context, url string) error
}

// ScriptLoaderFunc adapts a function to ScriptLoader.
type ScriptLoaderFunc func(ctx context.Context, url string) error

func (fn ScriptLoaderFunc) LoadScript(ctx context.Context, url string) error {
	return fn(ctx, url)
}

// Runtime is the frontend runtime the loaded scripts install.
type Runtime interface {
	// SetGlobal installs a global configuration object.
	SetGlobal(name string, value any)
	// EntryPoint returns the init function once the runtime has defined it.
	EntryPoint() (func(ctx context.Context) error, bool)
	// ElementReady runs the per-element ready hooks for el.
	ElementReady(ctx context.Context, el *html.Node) error
}

// HTTPFetcher fetches page payloads over HTTP.
type HTTPFetcher struct {
	Client *http.Client
}

func (f HTTPFetcher) FetchPage(ctx context.Context, url string) (*bundle.Page, error) {
	body, err := get(ctx, f.Client, url, "application/json")
	if err != nil {
		return nil, err
	}
	var page bundle.Page
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("client: decode page payload: %w", err)
	}
	return &page, nil
}

// HTTPScriptLoader downloads scripts and hands the source to Execute.
type HTTPScriptLoader struct {
	Client  *http.Client
	Execute func(ctx context.Context, url string, source []byte) error
}

func (l HTTPScriptLoader) LoadScript(ctx context.Context, url string) error {
	source, err := get(ctx, l.Client, url, "*/*")
	if err != nil {
		return err
	}
	if l.Execute == nil {
		return nil
	}
	return l.Execute(ctx, url, source)
}

func get(ctx context.Context, client *http.Client, url, accept string) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("client: build request: %w", err)
	}
	req.Header.Set("Accept", accept)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("client: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("client: read %s: %w", url, err)
	}
	return body, nil
}
