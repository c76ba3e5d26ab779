package documents

import (
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-headless/internal/elements"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// CSSMode selects how generated CSS is delivered.
type CSSMode string

const (
	CSSModeFile   CSSMode = "file"
	CSSModeInline CSSMode = "inline"
)

// ParseCSSMode normalises a configured mode, defaulting to file delivery.
func ParseCSSMode(value string) CSSMode {
	if strings.EqualFold(strings.TrimSpace(value), string(CSSModeInline)) {
		return CSSModeInline
	}
	return CSSModeFile
}

// Document is a page as the builder stores it.
type Document struct {
	bun.BaseModel `bun:"table:page_documents,alias:pd"`

	ID                 uuid.UUID       `bun:",pk,type:uuid" json:"id"`
	PageID             int64           `bun:"page_id,notnull,unique" json:"page_id"`
	PostType           string          `bun:"post_type,notnull" json:"post_type"`
	Title              string          `bun:"title" json:"title"`
	Excerpt            string          `bun:"excerpt" json:"excerpt"`
	Content            string          `bun:"content" json:"content"`
	BuiltWithBuilder   bool            `bun:"built_with_builder,notnull,default:false" json:"built_with_builder"`
	CSSMode            CSSMode         `bun:"css_mode,notnull" json:"css_mode"`
	CSSFileURL         string          `bun:"css_file_url" json:"css_file_url,omitempty"`
	InlineCSS          string          `bun:"inline_css" json:"inline_css,omitempty"`
	Elements           []elements.Node `bun:"elements,type:jsonb" json:"elements,omitempty"`
	ConditionalStyles  []string        `bun:"conditional_styles,type:jsonb" json:"conditional_styles,omitempty"`
	ConditionalScripts []string        `bun:"conditional_scripts,type:jsonb" json:"conditional_scripts,omitempty"`
	Revision           int             `bun:"revision,notnull,default:0" json:"revision"`
	CreatedAt          time.Time       `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt          time.Time       `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

func cloneDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	cloned := *doc
	cloned.Elements = slices.Clone(doc.Elements)
	cloned.ConditionalStyles = slices.Clone(doc.ConditionalStyles)
	cloned.ConditionalScripts = slices.Clone(doc.ConditionalScripts)
	return &cloned
}
