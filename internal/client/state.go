package client

import (
	"errors"
	"time"
)

// State is the lifecycle position of one container.
type State string

const (
	StateIdle           State = "idle"
	StateLoading        State = "loading"
	StateRendering      State = "rendering"
	StateScriptsLoading State = "scripts-loading"
	StateInitializing   State = "initializing"
	StateReady          State = "ready"
	StateError          State = "error"
	StateDestroyed      State = "destroyed"
)

var (
	ErrContainerRequired = errors.New("client: container is required")
	ErrContainerNotFound = errors.New("client: container not found")
	ErrPayloadRequired   = errors.New("client: payload is required")
	ErrURLRequired       = errors.New("client: url is required")
	ErrInitTimeout       = errors.New("client: runtime init entry point not available before timeout")
)

const (
	GlobalConfig         = "elementorFrontendConfig"
	GlobalExtendedConfig = "ElementorProFrontendConfig"

	loadingClass = "headless-loading"
	errorClass   = "headless-error"
	emptyClass   = "headless-empty"
	inlineAttr   = "data-headless-inline"
)

// Options tune a single Load, Render or Hydrate call.
type Options struct {
	ShowTitle bool
	TitleTag  string
	// LoadCSS is honoured by Hydrate only; Render always loads CSS.
	LoadCSS bool
}

// ScriptFailure records a script that could not be loaded.
type ScriptFailure struct {
	URL string
	Err error
}

// Report describes what a call did. Expected failures such as a failed
// fetch, a broken script or a runtime that never initialises are reported
// here rather than returned as errors.
type Report struct {
	State          State
	StylesAdded    []string
	InlineAdded    int
	ScriptsLoaded  []string
	ScriptsSkipped []string
	ScriptFailures []ScriptFailure
	FetchErr       error
	InitErr        error
	Initialized    bool
	ReadyElements  int
	Duration       time.Duration
}

// Failed reports whether any part of the call failed.
func (r *Report) Failed() bool {
	return r != nil && (r.FetchErr != nil || r.InitErr != nil || len(r.ScriptFailures) > 0)
}
