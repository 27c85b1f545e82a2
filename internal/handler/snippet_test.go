package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/auth"
	"github.com/sakif/snipvault/internal/collection"
	"github.com/sakif/snipvault/internal/handler"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/store"
)

// fakeStore is a minimal in-memory store.SnippetStore for routing tests.
// Controller behavior itself is covered in the collection package.
type fakeStore struct {
	snippets []model.Snippet
	nextID   int
}

func (f *fakeStore) FetchAll(_ context.Context, userID string) ([]model.Snippet, error) {
	out := []model.Snippet{}
	for _, s := range f.snippets {
		if s.UserID == userID {
			out = append(out, s.Clone())
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, snippet *model.Snippet) error {
	f.nextID++
	snippet.ID = fmt.Sprintf("fake-%d", f.nextID)
	f.snippets = append([]model.Snippet{snippet.Clone()}, f.snippets...)
	return nil
}

func (f *fakeStore) Update(_ context.Context, id string, patch store.SnippetPatch) error {
	for i := range f.snippets {
		if f.snippets[i].ID == id {
			if patch.Favorite != nil {
				f.snippets[i].Favorite = *patch.Favorite
			}
			if patch.Title != nil {
				f.snippets[i].Title = *patch.Title
			}
			return nil
		}
	}
	return apperror.NotFound("snippet", id)
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	for i := range f.snippets {
		if f.snippets[i].ID == id {
			f.snippets = append(f.snippets[:i], f.snippets[i+1:]...)
			return nil
		}
	}
	return apperror.NotFound("snippet", id)
}

// newTestRouter mirrors the server's /api routes and returns a session
// cookie for "user-1".
func newTestRouter(t *testing.T, st store.SnippetStore) (*chi.Mux, *http.Cookie) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	tokens, err := auth.NewTokenService("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	registry := collection.NewRegistry(st, logger)
	t.Cleanup(registry.Close)
	h := handler.NewSnippetHandler(registry, logger)

	router := chi.NewRouter()
	router.Route("/api", func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Get("/facets", h.HandleFacets)
		r.Get("/snippets", h.HandleList)
		r.Post("/snippets", h.HandleCreate)
		r.Get("/snippets/{id}", h.HandleGet)
		r.Put("/snippets/{id}", h.HandleUpdate)
		r.Put("/snippets/{id}/favorite", h.HandleFavorite)
		r.Delete("/snippets/{id}", h.HandleDelete)
	})

	token, err := tokens.Generate("user-1")
	require.NoError(t, err)
	return router, &http.Cookie{Name: auth.SessionCookie, Value: token}
}

func doJSON(router http.Handler, cookie *http.Cookie, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSnippets_RequireAuth(t *testing.T) {
	router, _ := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, nil, http.MethodGet, "/api/snippets", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSnippets_CreateListDelete(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, cookie, http.MethodPost, "/api/snippets", collection.CreateInput{
		Title: "hello", Content: "print('hi')", Language: model.LanguagePython,
		Tags: []string{"demo"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "user-1", created.UserID)

	rec = doJSON(router, cookie, http.MethodGet, "/api/snippets", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listed []model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)

	rec = doJSON(router, cookie, http.MethodDelete, "/api/snippets/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(router, cookie, http.MethodGet, "/api/snippets", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Empty(t, listed, "deleted snippet must not reappear")
}

func TestSnippets_CreateValidationReportsAllFields(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, cookie, http.MethodPost, "/api/snippets", collection.CreateInput{
		Title: "", Content: "", Language: "nope",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp handler.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_failed", resp.Error)
	assert.Contains(t, resp.Fields, "title")
	assert.Contains(t, resp.Fields, "content")
	assert.Contains(t, resp.Fields, "language")
}

func TestSnippets_ListFiltersByQuery(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	for _, in := range []collection.CreateInput{
		{Title: "py", Content: "import os", Language: model.LanguagePython, Tags: []string{"util"}},
		{Title: "go", Content: "package main", Language: model.LanguageGo, Tags: []string{"util", "cli"}},
	} {
		rec := doJSON(router, cookie, http.MethodPost, "/api/snippets", in)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	var listed []model.Snippet

	rec := doJSON(router, cookie, http.MethodGet, "/api/snippets?language=go", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, model.LanguageGo, listed[0].Language)

	rec = doJSON(router, cookie, http.MethodGet, "/api/snippets?tag=util&tag=cli", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1, "tag selection is AND")

	rec = doJSON(router, cookie, http.MethodGet, "/api/snippets?q=IMPORT", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1, "search is case-insensitive")
	assert.Equal(t, "py", listed[0].Title)
}

func TestSnippets_FavoriteRoundTrip(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, cookie, http.MethodPost, "/api/snippets", collection.CreateInput{
		Title: "star", Content: "x", Language: model.LanguageGo,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = doJSON(router, cookie, http.MethodPut, "/api/snippets/"+created.ID+"/favorite",
		map[string]bool{"favorite": true})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.True(t, updated.Favorite)

	rec = doJSON(router, cookie, http.MethodGet, "/api/snippets?favorites=true", nil)
	var listed []model.Snippet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed, 1)
}

func TestSnippets_GetAndUpdateNotFound(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, cookie, http.MethodGet, "/api/snippets/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(router, cookie, http.MethodPut, "/api/snippets/nope",
		map[string]string{"title": "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestFacets(t *testing.T) {
	router, cookie := newTestRouter(t, &fakeStore{})

	rec := doJSON(router, cookie, http.MethodPost, "/api/snippets", collection.CreateInput{
		Title: "a", Content: "x", Language: model.LanguageGo, Tags: []string{"cli"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(router, cookie, http.MethodGet, "/api/facets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var facets struct {
		Languages []string `json:"languages"`
		Tags      []string `json:"tags"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &facets))
	assert.Equal(t, []string{"go"}, facets.Languages)
	assert.Equal(t, []string{"cli"}, facets.Tags)
}
