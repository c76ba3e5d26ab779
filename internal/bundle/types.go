package bundle

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-headless/internal/kit"
)

// Step names the aggregator stage a bundle was built up to.
type Step string

const (
	StepInitializing             Step = "initializing"
	StepEnablingPageAssets       Step = "enabling_page_assets"
	StepCollectingStyles         Step = "collecting_styles"
	StepCollectingInlineCSS      Step = "collecting_inline_css"
	StepCollectingScripts        Step = "collecting_scripts"
	StepCollectingKitData        Step = "collecting_kit_data"
	StepGeneratingFrontendConfig Step = "generating_frontend_config"
	StepGeneratingExtendedConfig Step = "generating_extended_config"
	StepDone                     Step = "done"
)

// Steps returns the aggregator stages in execution order.
func Steps() []Step {
	return []Step{
		StepInitializing,
		StepEnablingPageAssets,
		StepCollectingStyles,
		StepCollectingInlineCSS,
		StepCollectingScripts,
		StepCollectingKitData,
		StepGeneratingFrontendConfig,
		StepGeneratingExtendedConfig,
		StepDone,
	}
}

const (
	CodeStepFailed   = "PAGE_ASSETS_STEP_FAILED"
	CodePageNotFound = "PAGE_NOT_FOUND"
)

// Bundle is everything a decoupled client needs to render a page like the
// host does.
type Bundle struct {
	IsElementor bool           `json:"isElementor"`
	StyleLinks  []string       `json:"styleLinks"`
	InlineCSS   string         `json:"inlineCss"`
	Scripts     []string       `json:"scripts"`
	Config      map[string]any `json:"config"`
	ProConfig   map[string]any `json:"proConfig"`
	Kit         kit.Data       `json:"kit"`
	Error       *Error         `json:"error"`
}

// Error describes why a bundle is incomplete.
type Error struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Context ErrorContext `json:"context"`
}

// ErrorContext locates a failure.
type ErrorContext struct {
	PostID int64 `json:"post_id"`
	Step   Step  `json:"step"`
}

// Err converts the wire error into a categorised go-errors value.
func (e *Error) Err() error {
	if e == nil {
		return nil
	}
	category := goerrors.CategoryInternal
	if e.Code == CodePageNotFound {
		category = goerrors.CategoryNotFound
	}
	return goerrors.Wrap(errors.New(e.Message), category, "page asset bundle incomplete").
		WithTextCode(e.Code)
}

// Empty returns a bundle with every collection empty.
func Empty(isElementor bool) Bundle {
	return Bundle{
		IsElementor: isElementor,
		StyleLinks:  []string{},
		Scripts:     []string{},
		Config:      map[string]any{},
	}
}

// Failed returns an empty bundle carrying an error.
func Failed(isElementor bool, code string, postID int64, step Step, err error) Bundle {
	out := Empty(isElementor)
	message := ""
	if err != nil {
		message = err.Error()
	}
	out.Error = &Error{
		Code:    code,
		Message: message,
		Context: ErrorContext{PostID: postID, Step: step},
	}
	return out
}

// Page is the content endpoint payload: the page fields plus its bundle,
// which is omitted for post types that are not exposed.
type Page struct {
	ID        int64   `json:"id"`
	Type      string  `json:"type"`
	Title     string  `json:"title"`
	Excerpt   string  `json:"excerpt"`
	Content   string  `json:"content"`
	Elementor *Bundle `json:"elementor,omitempty"`
}

// IsElementor reports whether the page carries a builder bundle.
func (p *Page) IsElementor() bool {
	return p != nil && p.Elementor != nil && p.Elementor.IsElementor
}
