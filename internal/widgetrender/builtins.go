package widgetrender

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-headless/internal/elements"
)

func builtins() map[string]RendererFunc {
	return map[string]RendererFunc{
		"heading":     renderHeading,
		"text-editor": renderTextEditor,
		"image":       renderImage,
		"button":      renderButton,
		"divider":     renderDivider,
		"spacer":      renderSpacer,
		"html":        renderHTML,
		"shortcode":   renderShortcode,
		"icon":        renderIcon,
		"icon-list":   renderIconList,
		"tabs":        renderTabs,
		"accordion":   renderAccordion,
		"toggle":      renderToggle,
		"alert":       renderAlert,
		"video":       renderVideo,
		"markdown":    renderMarkdown,
	}
}

func renderHeading(s elements.Settings, _ elements.Node) string {
	tag := oneOf(str(s, "header_size"), "h2", "h1", "h2", "h3", "h4", "h5", "h6", "div", "span", "p")
	title := esc(s, "title")
	if href := linkURL(s, "link"); href != "" {
		title = fmt.Sprintf(`<a href="%s">%s</a>`, href, title)
	}
	return fmt.Sprintf(`<%s class="elementor-heading-title">%s</%s>`, tag, title, tag)
}

// renderTextEditor passes the editor markup through: it is author content
// produced by the builder's own rich text editor.
func renderTextEditor(s elements.Settings, _ elements.Node) string {
	return `<div class="elementor-text-editor">` + str(s, "editor") + `</div>`
}

func renderImage(s elements.Settings, _ elements.Node) string {
	image := object(s, "image")
	src := safeURL(str(image, "url"))
	if src == "" {
		return ""
	}
	img := fmt.Sprintf(`<img src="%s" alt="%s">`, src, esc(image, "alt"))
	if href := linkURL(s, "link"); href != "" {
		img = fmt.Sprintf(`<a href="%s">%s</a>`, href, img)
	}
	if caption := esc(s, "caption"); caption != "" {
		return fmt.Sprintf(`<figure class="wp-caption">%s<figcaption class="widget-image-caption">%s</figcaption></figure>`, img, caption)
	}
	return img
}

func renderButton(s elements.Settings, _ elements.Node) string {
	text := esc(s, "text")
	if text == "" {
		text = "Click here"
	}
	href := linkURL(s, "link")
	if href == "" {
		href = "#"
	}
	return fmt.Sprintf(`<div class="elementor-button-wrapper"><a class="elementor-button" href="%s"><span class="elementor-button-text">%s</span></a></div>`, href, text)
}

func renderDivider(elements.Settings, elements.Node) string {
	return `<div class="elementor-divider"><span class="elementor-divider-separator"></span></div>`
}

func renderSpacer(s elements.Settings, _ elements.Node) string {
	size := 50
	if space := object(s, "space"); space != nil {
		if parsed, err := strconv.Atoi(str(space, "size")); err == nil && parsed >= 0 {
			size = parsed
		}
	}
	return fmt.Sprintf(`<div class="elementor-spacer"><div class="elementor-spacer-inner" style="height: %dpx"></div></div>`, size)
}

// renderHTML emits the raw HTML widget content unchanged.
func renderHTML(s elements.Settings, _ elements.Node) string {
	return str(s, "html")
}

// renderShortcode emits the server rendered shortcode output unchanged. The
// raw shortcode tag is shown escaped when no output was captured.
func renderShortcode(s elements.Settings, _ elements.Node) string {
	if rendered := str(s, "rendered"); rendered != "" {
		return `<div class="elementor-shortcode">` + rendered + `</div>`
	}
	return `<div class="elementor-shortcode">` + esc(s, "shortcode") + `</div>`
}

func iconMarkup(icon map[string]any) string {
	class := esc(icon, "value")
	if class == "" {
		return ""
	}
	return fmt.Sprintf(`<i class="%s" aria-hidden="true"></i>`, class)
}

func renderIcon(s elements.Settings, _ elements.Node) string {
	icon := iconMarkup(object(s, "selected_icon"))
	if href := linkURL(s, "link"); href != "" {
		icon = fmt.Sprintf(`<a class="elementor-icon" href="%s">%s</a>`, href, icon)
	} else {
		icon = `<div class="elementor-icon">` + icon + `</div>`
	}
	return `<div class="elementor-icon-wrapper">` + icon + `</div>`
}

func renderIconList(s elements.Settings, _ elements.Node) string {
	var b strings.Builder
	b.WriteString(`<ul class="elementor-icon-list-items">`)
	for _, item := range list(s, "icon_list") {
		body := fmt.Sprintf(`<span class="elementor-icon-list-icon">%s</span><span class="elementor-icon-list-text">%s</span>`,
			iconMarkup(object(item, "selected_icon")), esc(item, "text"))
		if href := linkURL(item, "link"); href != "" {
			body = fmt.Sprintf(`<a href="%s">%s</a>`, href, body)
		}
		b.WriteString(`<li class="elementor-icon-list-item">` + body + `</li>`)
	}
	b.WriteString(`</ul>`)
	return b.String()
}

func renderTabs(s elements.Settings, _ elements.Node) string {
	items := list(s, "tabs")
	var titles, panes strings.Builder
	for i, item := range items {
		n := strconv.Itoa(i + 1)
		active, hidden := "", " hidden"
		if i == 0 {
			active, hidden = " elementor-active", ""
		}
		fmt.Fprintf(&titles, `<div class="elementor-tab-title%s" data-tab="%s" role="tab" aria-selected="%t">%s</div>`,
			active, n, i == 0, esc(item, "tab_title"))
		fmt.Fprintf(&panes, `<div class="elementor-tab-content%s" data-tab="%s" role="tabpanel"%s>%s</div>`,
			active, n, hidden, str(item, "tab_content"))
	}
	return `<div class="elementor-tabs"><div class="elementor-tabs-wrapper" role="tablist">` + titles.String() +
		`</div><div class="elementor-tabs-content-wrapper">` + panes.String() + `</div></div>`
}

func renderCollapsible(s elements.Settings, wrapper, itemClass string) string {
	var b strings.Builder
	b.WriteString(`<div class="` + wrapper + `">`)
	for i, item := range list(s, "tabs") {
		n := strconv.Itoa(i + 1)
		fmt.Fprintf(&b, `<div class="%s"><div class="elementor-tab-title" data-tab="%s" aria-expanded="false">%s</div><div class="elementor-tab-content" data-tab="%s" hidden>%s</div></div>`,
			itemClass, n, esc(item, "tab_title"), n, str(item, "tab_content"))
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderAccordion(s elements.Settings, _ elements.Node) string {
	return renderCollapsible(s, "elementor-accordion", "elementor-accordion-item")
}

func renderToggle(s elements.Settings, _ elements.Node) string {
	return renderCollapsible(s, "elementor-toggle", "elementor-toggle-item")
}

func renderAlert(s elements.Settings, _ elements.Node) string {
	kind := oneOf(str(s, "alert_type"), "info", "info", "success", "warning", "danger")
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="elementor-alert elementor-alert-%s" role="alert">`, kind)
	if title := esc(s, "alert_title"); title != "" {
		b.WriteString(`<span class="elementor-alert-title">` + title + `</span>`)
	}
	if description := esc(s, "alert_description"); description != "" {
		b.WriteString(`<span class="elementor-alert-description">` + description + `</span>`)
	}
	if str(s, "show_dismiss") != "hide" {
		b.WriteString(`<button type="button" class="elementor-alert-dismiss" aria-label="Dismiss">&times;</button>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}

func renderVideo(s elements.Settings, _ elements.Node) string {
	switch str(s, "video_type") {
	case "hosted":
		src := safeURL(str(object(s, "hosted_url"), "url"))
		if src == "" {
			return ""
		}
		return fmt.Sprintf(`<div class="elementor-video"><video class="elementor-video" src="%s" controls></video></div>`, src)
	case "vimeo":
		return videoFrame(str(s, "vimeo_url"))
	default:
		return videoFrame(str(s, "youtube_url"))
	}
}

func videoFrame(raw string) string {
	src := safeURL(raw)
	if src == "" {
		return ""
	}
	return fmt.Sprintf(`<div class="elementor-video"><iframe class="elementor-video-iframe" src="%s" allowfullscreen></iframe></div>`, src)
}
