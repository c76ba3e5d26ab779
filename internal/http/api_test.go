package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goliatone/go-headless/internal/bundle"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/elements"
)

type stubBuilder struct {
	calls []int64
	out   bundle.Bundle
}

func (s *stubBuilder) Build(_ context.Context, pageID int64) bundle.Bundle {
	s.calls = append(s.calls, pageID)
	return s.out
}

func setupPageAPI(t *testing.T) (*http.ServeMux, documents.Service, *stubBuilder) {
	t.Helper()
	service := documents.NewService(documents.NewMemoryRepository())
	builder := &stubBuilder{out: bundle.Bundle{
		IsElementor: true,
		StyleLinks:  []string{"http://wp.test/frontend.css"},
		Scripts:     []string{"http://wp.test/frontend.js"},
		Config:      map[string]any{"version": "3.23.0"},
	}}
	api := NewPageAPI(
		WithDocumentService(service),
		WithBundleBuilder(builder),
		WithSaveHandler(documentscmd.NewSaveDocumentHandler(service, nil, documentscmd.FeatureGates{})),
		WithDeleteHandler(documentscmd.NewDeleteDocumentHandler(service, nil, documentscmd.FeatureGates{})),
		WithExposure(func(postType string) bool { return postType == "page" }),
	)
	mux := http.NewServeMux()
	if err := api.Register(mux); err != nil {
		t.Fatalf("register: %v", err)
	}
	return mux, service, builder
}

func seed(t *testing.T, service documents.Service, pageID int64, postType string) {
	t.Helper()
	_, err := service.Save(context.Background(), &documents.Document{
		PageID:           pageID,
		PostType:         postType,
		Title:            "Landing",
		Content:          "<p>Hello</p>",
		BuiltWithBuilder: true,
		Elements: []elements.Node{
			{ID: "w1", ElType: elements.KindWidget, WidgetType: "heading", Settings: elements.Settings{"title": "Hi"}},
		},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func doJSONRequest(t *testing.T, mux *http.ServeMux, method, path string, body any, wantStatus int) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&payload).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != wantStatus {
		t.Fatalf("%s %s: expected status %d got %d body=%s", method, path, wantStatus, rec.Code, rec.Body.String())
	}
	return rec
}

func decodeJSONBody(t *testing.T, rec *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rec.Body.String())
	}
}

func TestPageAPIGetIncludesBundle(t *testing.T) {
	mux, service, builder := setupPageAPI(t)
	seed(t, service, 42, "page")

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/pages/42", nil, http.StatusOK)
	var page bundle.Page
	decodeJSONBody(t, rec, &page)
	if page.ID != 42 || page.Type != "page" || page.Title != "Landing" {
		t.Fatalf("unexpected page %+v", page)
	}
	if !page.IsElementor() || len(page.Elementor.StyleLinks) != 1 {
		t.Fatalf("expected bundle attached, got %+v", page.Elementor)
	}
	if len(builder.calls) != 1 || builder.calls[0] != 42 {
		t.Fatalf("expected one build for page 42, got %v", builder.calls)
	}
}

func TestPageAPIOmitsBundleForUnexposedPostType(t *testing.T) {
	mux, service, builder := setupPageAPI(t)
	seed(t, service, 9, "product")

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/pages/9", nil, http.StatusOK)
	var raw map[string]any
	decodeJSONBody(t, rec, &raw)
	if _, ok := raw["elementor"]; ok {
		t.Fatalf("expected elementor field omitted, got %v", raw)
	}
	if len(builder.calls) != 0 {
		t.Fatalf("expected no bundle build, got %v", builder.calls)
	}
	doJSONRequest(t, mux, http.MethodGet, "/api/pages/9/assets", nil, http.StatusNotFound)
}

func TestPageAPIAssetsReturnsBundle(t *testing.T) {
	mux, service, _ := setupPageAPI(t)
	seed(t, service, 42, "page")

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/pages/42/assets", nil, http.StatusOK)
	var b bundle.Bundle
	decodeJSONBody(t, rec, &b)
	if !b.IsElementor || len(b.Scripts) != 1 {
		t.Fatalf("unexpected bundle %+v", b)
	}
}

func TestPageAPIUnknownAndInvalidPages(t *testing.T) {
	mux, _, _ := setupPageAPI(t)

	rec := doJSONRequest(t, mux, http.MethodGet, "/api/pages/404", nil, http.StatusNotFound)
	var resp errorResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Error != "not_found" {
		t.Fatalf("expected not_found, got %+v", resp)
	}
	doJSONRequest(t, mux, http.MethodGet, "/api/pages/abc", nil, http.StatusBadRequest)
	doJSONRequest(t, mux, http.MethodGet, "/api/pages/0/assets", nil, http.StatusBadRequest)
}

func TestPageAPISaveAndDelete(t *testing.T) {
	mux, service, _ := setupPageAPI(t)

	body := map[string]any{
		"post_type":          "page",
		"title":              "New",
		"built_with_builder": true,
		"elements": []map[string]any{
			{"id": "w1", "elType": "widget", "widgetType": "heading", "settings": map[string]any{"title": "New"}},
		},
	}
	rec := doJSONRequest(t, mux, http.MethodPut, "/api/pages/5", body, http.StatusOK)
	var saved documents.Document
	decodeJSONBody(t, rec, &saved)
	if saved.PageID != 5 || saved.Revision != 1 || saved.Title != "New" {
		t.Fatalf("unexpected saved document %+v", saved)
	}

	list := doJSONRequest(t, mux, http.MethodGet, "/api/pages", nil, http.StatusOK)
	var pages []bundle.Page
	decodeJSONBody(t, list, &pages)
	if len(pages) != 1 || pages[0].ID != 5 {
		t.Fatalf("unexpected page list %+v", pages)
	}

	doJSONRequest(t, mux, http.MethodDelete, "/api/pages/5", nil, http.StatusNoContent)
	if _, err := service.Get(context.Background(), 5); !documents.IsNotFound(err) {
		t.Fatalf("expected document deleted, got %v", err)
	}
	doJSONRequest(t, mux, http.MethodDelete, "/api/pages/5", nil, http.StatusNotFound)
}

func TestPageAPISaveRejectsInvalidPayloads(t *testing.T) {
	mux, _, _ := setupPageAPI(t)

	doJSONRequest(t, mux, http.MethodPut, "/api/pages/5", map[string]any{"page_id": 6, "post_type": "page"}, http.StatusBadRequest)
	doJSONRequest(t, mux, http.MethodPut, "/api/pages/5", map[string]any{"post_type": " "}, http.StatusBadRequest)

	rec := doJSONRequest(t, mux, http.MethodPut, "/api/pages/5", map[string]any{
		"post_type":          "page",
		"built_with_builder": true,
		"elements":           []map[string]any{{"elType": "widget"}},
	}, http.StatusUnprocessableEntity)
	var resp errorResponse
	decodeJSONBody(t, rec, &resp)
	if resp.Error != "validation_failed" || len(resp.Issues) == 0 {
		t.Fatalf("expected schema issues, got %+v", resp)
	}
}

func TestJoinPath(t *testing.T) {
	cases := map[string][2]string{
		"/api/pages":  {"/api/", "pages"},
		"/pages":      {"", "/pages/"},
		"/":           {"", ""},
		"/v1/content": {"v1", "content"},
	}
	for want, in := range cases {
		if got := joinPath(in[0], in[1]); got != want {
			t.Fatalf("joinPath(%q, %q) = %q, want %q", in[0], in[1], got, want)
		}
	}
}
