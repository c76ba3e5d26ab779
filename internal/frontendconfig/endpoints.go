package frontendconfig

import (
	"fmt"
	"strings"

	urlkit "github.com/goliatone/go-urlkit"
)

const (
	siteGroup   = "site"
	ajaxRoute   = "ajax"
	restRoute   = "rest"
	defaultAjax = "/wp-admin/admin-ajax.php"
	defaultRest = "/wp-json/"
)

// Endpoints builds the host's ajax and REST URLs.
type Endpoints struct {
	manager *urlkit.RouteManager
}

// NewEndpoints registers the host routes under siteURL.
func NewEndpoints(siteURL, ajaxPath, restPath string) *Endpoints {
	if strings.TrimSpace(ajaxPath) == "" {
		ajaxPath = defaultAjax
	}
	if strings.TrimSpace(restPath) == "" {
		restPath = defaultRest
	}
	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    siteGroup,
				BaseURL: strings.TrimSuffix(strings.TrimSpace(siteURL), "/"),
				Paths: map[string]string{
					ajaxRoute: ensureLeadingSlash(ajaxPath),
					restRoute: ensureLeadingSlash(restPath),
				},
			},
		},
	})
	return &Endpoints{manager: manager}
}

// AjaxURL returns the absolute admin ajax endpoint.
func (e *Endpoints) AjaxURL() (string, error) {
	return e.build(ajaxRoute)
}

// RESTURL returns the absolute REST root.
func (e *Endpoints) RESTURL() (string, error) {
	return e.build(restRoute)
}

func (e *Endpoints) build(route string) (url string, err error) {
	if e == nil || e.manager == nil {
		return "", fmt.Errorf("frontendconfig: route manager not configured")
	}
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("frontendconfig: urlkit route %q: %v", route, rec)
		}
	}()
	return e.manager.Group(siteGroup).Builder(route).Build()
}

func ensureLeadingSlash(path string) string {
	path = strings.TrimSpace(path)
	if strings.HasPrefix(path, "/") {
		return path
	}
	return "/" + path
}
