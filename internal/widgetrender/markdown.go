package widgetrender

import (
	"bytes"
	"html"

	"github.com/goliatone/go-headless/internal/elements"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// markdownEngine renders without html.WithUnsafe, so raw HTML in the source
// is omitted from the output.
var markdownEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM, extension.Linkify),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

func renderMarkdown(s elements.Settings, _ elements.Node) string {
	source := str(s, "markdown")
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(source), &buf); err != nil {
		return `<pre class="elementor-markdown">` + html.EscapeString(source) + `</pre>`
	}
	return `<div class="elementor-markdown">` + buf.String() + `</div>`
}
