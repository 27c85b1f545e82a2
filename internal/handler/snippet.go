package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/collection"
	"github.com/sakif/snipvault/internal/filter"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/store"
)

// SnippetHandler exposes the snippet collection over HTTP. Every request
// resolves the caller's controller through the registry, so the HTTP
// surface and any other frontend share one reconciliation path.
type SnippetHandler struct {
	registry *collection.Registry
	logger   *slog.Logger
}

func NewSnippetHandler(registry *collection.Registry, logger *slog.Logger) *SnippetHandler {
	return &SnippetHandler{registry: registry, logger: logger}
}

// controller resolves the signed-in user's collection controller, writing
// the error response itself on failure.
func (h *SnippetHandler) controller(w http.ResponseWriter, r *http.Request) (*collection.Controller, bool) {
	userID, _ := auth.UserIDFromContext(r.Context())
	ctrl, err := h.registry.For(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return ctrl, true
}

// HandleList returns the caller's snippets, filtered by the optional
// query parameters.
//
// GET /api/snippets?language=go&language=python&tag=web&favorites=true&q=text
//
// language and tag repeat to select several values; all categories combine
// the way the sidebar filters do (see the filter package).
func (h *SnippetHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, ctrl.Filtered(criteriaFromQuery(r)))
}

// HandleGet returns a single snippet.
//
// GET /api/snippets/{id}
func (h *SnippetHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	snippet, err := ctrl.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleCreate saves a new snippet.
//
// POST /api/snippets
// {"title": "...", "content": "...", "language": "go", "tags": ["cli"], "description": ""}
func (h *SnippetHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var input collection.CreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.Warn("invalid snippet JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	snippet, err := ctrl.Create(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snippet)
}

// HandleUpdate applies a partial update. Absent fields keep their values.
//
// PUT /api/snippets/{id}
func (h *SnippetHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var patch store.SnippetPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.logger.Warn("invalid patch JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	snippet, err := ctrl.Update(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleFavorite sets the favorite flag and nothing else.
//
// PUT /api/snippets/{id}/favorite
// {"favorite": true}
func (h *SnippetHandler) HandleFavorite(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var body struct {
		Favorite bool `json:"favorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "bad_request", Message: "invalid JSON body"})
		return
	}

	id := chi.URLParam(r, "id")
	if err := ctrl.ToggleFavorite(r.Context(), id, body.Favorite); err != nil {
		writeError(w, err)
		return
	}

	snippet, err := ctrl.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snippet)
}

// HandleDelete removes a snippet.
//
// DELETE /api/snippets/{id}
func (h *SnippetHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	if err := ctrl.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleFacets returns the distinct languages and tags across the
// caller's collection, for populating filter controls.
//
// GET /api/facets
func (h *SnippetHandler) HandleFacets(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Facets())
}

// criteriaFromQuery builds filter criteria from list query parameters.
// Unknown language values are passed through; they simply match nothing.
func criteriaFromQuery(r *http.Request) filter.Criteria {
	q := r.URL.Query()

	var c filter.Criteria
	for _, lang := range q["language"] {
		c.Languages = append(c.Languages, model.Language(lang))
	}
	c.Tags = model.NormalizeTags(q["tag"])
	c.FavoritesOnly = q.Get("favorites") == "true" || q.Get("favorites") == "1"
	c.Search = q.Get("q")
	return c
}
