package http

import (
	"net/http"

	"github.com/goliatone/go-headless/internal/bundle"
	documentscmd "github.com/goliatone/go-headless/internal/commands/documents"
	"github.com/goliatone/go-headless/internal/documents"
	"github.com/goliatone/go-headless/internal/logging"
)

func (api *PageAPI) registerPageRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "pages")
	mux.HandleFunc("GET "+root, api.handlePageList)
	mux.HandleFunc("GET "+root+"/{id}", api.handlePageGet)
	mux.HandleFunc("GET "+root+"/{id}/assets", api.handlePageAssets)
	if api.save != nil {
		mux.HandleFunc("PUT "+root+"/{id}", api.handlePageSave)
	}
	if api.remove != nil {
		mux.HandleFunc("DELETE "+root+"/{id}", api.handlePageDelete)
	}
}

func pageFromDocument(doc *documents.Document) bundle.Page {
	return bundle.Page{
		ID:      doc.PageID,
		Type:    doc.PostType,
		Title:   doc.Title,
		Excerpt: doc.Excerpt,
		Content: doc.Content,
	}
}

func (api *PageAPI) handlePageList(w http.ResponseWriter, r *http.Request) {
	docs, err := api.documents.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]bundle.Page, 0, len(docs))
	for _, doc := range docs {
		out = append(out, pageFromDocument(doc))
	}
	writeJSON(w, http.StatusOK, out)
}

func (api *PageAPI) handlePageGet(w http.ResponseWriter, r *http.Request) {
	doc, ok := api.loadDocument(w, r)
	if !ok {
		return
	}
	page := pageFromDocument(doc)
	if api.exposes(doc.PostType) {
		b := api.bundles.Build(r.Context(), doc.PageID)
		page.Elementor = &b
		api.logBundleError(doc.PageID, b)
	}
	writeJSON(w, http.StatusOK, page)
}

func (api *PageAPI) handlePageAssets(w http.ResponseWriter, r *http.Request) {
	doc, ok := api.loadDocument(w, r)
	if !ok {
		return
	}
	if !api.exposes(doc.PostType) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "not_found", Message: "post type is not exposed"})
		return
	}
	b := api.bundles.Build(r.Context(), doc.PageID)
	api.logBundleError(doc.PageID, b)
	writeJSON(w, http.StatusOK, b)
}

func (api *PageAPI) handlePageSave(w http.ResponseWriter, r *http.Request) {
	id, err := parsePageID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	var msg documentscmd.SaveDocumentCommand
	if err := decodeJSON(r, &msg); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "invalid json body"})
		return
	}
	if msg.PageID != 0 && msg.PageID != id {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "bad_request", Message: "page_id does not match path"})
		return
	}
	msg.PageID = id
	if err := api.save.Execute(r.Context(), msg); err != nil {
		api.logger.Warn("http.pages.save.failed", "post_id", id, "error", err)
		writeError(w, err)
		return
	}
	doc, err := api.documents.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (api *PageAPI) handlePageDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parsePageID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if err := api.remove.Execute(r.Context(), documentscmd.DeleteDocumentCommand{PageID: id}); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (api *PageAPI) loadDocument(w http.ResponseWriter, r *http.Request) (*documents.Document, bool) {
	id, err := parsePageID(r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	doc, err := api.documents.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return doc, true
}

func (api *PageAPI) logBundleError(pageID int64, b bundle.Bundle) {
	if b.Error == nil {
		return
	}
	logging.WithPageStep(api.logger, pageID, string(b.Error.Context.Step)).
		Warn("http.pages.bundle.partial", "code", b.Error.Code, "message", b.Error.Message)
}
