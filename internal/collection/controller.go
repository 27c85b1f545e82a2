// Package collection owns the in-memory snippet collection for a signed-in
// user. The Controller is the single point every mutation passes through:
// it validates input, delegates the write to the store, and only then
// applies the matching change locally, so a failed write never leaves the
// collection different from how it was before the attempt.
package collection

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/filter"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/store"
)

const (
	MaxTitleLength   = 100
	MaxContentLength = 100000 // ~100KB of code
)

// Controller mediates between the store and the filtered view for one
// user. Local effects are keyed by snippet id only, so two in-flight
// writes completing out of order still converge.
//
// A mutex guards the collection because change notifications from a
// subscribing store arrive on their own goroutine.
type Controller struct {
	store  store.SnippetStore
	userID string
	logger *slog.Logger

	mu       sync.Mutex
	snippets []model.Snippet
	criteria filter.Criteria
	facets   filter.Facets
	cancel   func()
}

// CreateInput carries the user-editable fields of a new snippet.
type CreateInput struct {
	Title       string         `json:"title"`
	Content     string         `json:"content"`
	Language    model.Language `json:"language"`
	Tags        []string       `json:"tags"`
	Description string         `json:"description"`
}

// New creates a Controller for the given user. Call Load before reading.
func New(st store.SnippetStore, userID string, logger *slog.Logger) *Controller {
	return &Controller{
		store:  st,
		userID: userID,
		logger: logger,
		facets: filter.CollectFacets(nil),
	}
}

// Load replaces the collection with the user's snippets from the store and
// recomputes facets. Without a signed-in user it fails with AuthRequired
// and leaves an empty collection rather than stale data.
func (c *Controller) Load(ctx context.Context) error {
	if c.userID == "" {
		c.replace(nil)
		return apperror.AuthRequired("sign in to load snippets")
	}

	snippets, err := c.store.FetchAll(ctx, c.userID)
	if err != nil {
		c.logger.Error("failed to load snippets",
			slog.String("userId", c.userID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("loading snippets: %w", err)
	}

	c.replace(snippets)
	return nil
}

// Watch subscribes to store change notifications if the store supports
// them, keeping the collection fresh across writers. No-op otherwise.
func (c *Controller) Watch() error {
	watcher, ok := c.store.(store.SnippetWatcher)
	if !ok {
		return nil
	}

	cancel, err := watcher.Subscribe(c.userID, c.replace)
	if err != nil {
		return fmt.Errorf("subscribing to snippet changes: %w", err)
	}

	c.mu.Lock()
	c.cancel = cancel
	c.mu.Unlock()
	return nil
}

// Close releases the store subscription, if any.
func (c *Controller) Close() {
	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Create validates the input, persists the snippet, and prepends it to the
// collection (newest first, matching store order).
func (c *Controller) Create(ctx context.Context, input CreateInput) (*model.Snippet, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Content = strings.TrimSpace(input.Content)

	fields := map[string]string{}
	if input.Title == "" {
		fields["title"] = "title is required"
	} else if len(input.Title) > MaxTitleLength {
		fields["title"] = fmt.Sprintf("title must be %d characters or less", MaxTitleLength)
	}
	if input.Content == "" {
		fields["content"] = "content is required"
	} else if len(input.Content) > MaxContentLength {
		fields["content"] = fmt.Sprintf("content must be %d characters or less", MaxContentLength)
	}
	if !input.Language.IsValid() {
		fields["language"] = fmt.Sprintf("unsupported language %q", input.Language)
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}

	snippet := model.Snippet{
		Title:       input.Title,
		Content:     input.Content,
		Language:    input.Language,
		Tags:        model.NormalizeTags(input.Tags),
		Description: strings.TrimSpace(input.Description),
		UserID:      c.userID,
	}

	if err := c.store.Create(ctx, &snippet); err != nil {
		c.logger.Error("failed to create snippet",
			slog.String("title", snippet.Title),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating snippet: %w", err)
	}

	c.mu.Lock()
	// A subscription refresh may already have delivered the new snippet.
	if c.indexLocked(snippet.ID) < 0 {
		c.snippets = append([]model.Snippet{snippet.Clone()}, c.snippets...)
	}
	c.facets = filter.CollectFacets(c.snippets)
	c.mu.Unlock()

	c.logger.Info("snippet created",
		slog.String("id", snippet.ID),
		slog.String("title", snippet.Title),
	)
	return &snippet, nil
}

// Update validates and persists a partial update, then merges it into the
// in-memory record. Fields the patch leaves unset keep their values.
func (c *Controller) Update(ctx context.Context, id string, patch store.SnippetPatch) (*model.Snippet, error) {
	if c.index(id) < 0 {
		return nil, apperror.NotFound("snippet", id)
	}

	fields := map[string]string{}
	if patch.Title != nil {
		*patch.Title = strings.TrimSpace(*patch.Title)
		if *patch.Title == "" {
			fields["title"] = "title is required"
		} else if len(*patch.Title) > MaxTitleLength {
			fields["title"] = fmt.Sprintf("title must be %d characters or less", MaxTitleLength)
		}
	}
	if patch.Content != nil {
		*patch.Content = strings.TrimSpace(*patch.Content)
		if *patch.Content == "" {
			fields["content"] = "content is required"
		} else if len(*patch.Content) > MaxContentLength {
			fields["content"] = fmt.Sprintf("content must be %d characters or less", MaxContentLength)
		}
	}
	if patch.Language != nil && !patch.Language.IsValid() {
		fields["language"] = fmt.Sprintf("unsupported language %q", *patch.Language)
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields(fields)
	}
	if patch.Tags != nil {
		normalized := model.NormalizeTags(*patch.Tags)
		patch.Tags = &normalized
	}
	if patch.Description != nil {
		trimmed := strings.TrimSpace(*patch.Description)
		patch.Description = &trimmed
	}

	if err := c.store.Update(ctx, id, patch); err != nil {
		c.logger.Error("failed to update snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating snippet: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		// Deleted underneath us by another writer; the store accepted the
		// patch before the delete, nothing left to merge locally.
		return nil, apperror.NotFound("snippet", id)
	}
	applyPatch(&c.snippets[i], patch)
	c.facets = filter.CollectFacets(c.snippets)

	merged := c.snippets[i].Clone()
	c.logger.Info("snippet updated", slog.String("id", id))
	return &merged, nil
}

// Delete persists the deletion and removes the snippet from the
// collection. The removal is visible as soon as Delete returns.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if c.index(id) < 0 {
		return apperror.NotFound("snippet", id)
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Error("failed to delete snippet",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting snippet: %w", err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.snippets = append(c.snippets[:i], c.snippets[i+1:]...)
	}
	c.facets = filter.CollectFacets(c.snippets)
	c.mu.Unlock()

	c.logger.Info("snippet deleted", slog.String("id", id))
	return nil
}

// ToggleFavorite sets the favorite flag, and nothing else. The snippet is
// allowed to disappear from the visible list as a result when the
// favorites-only filter is active; that is the expected effect, not an
// inconsistency.
func (c *Controller) ToggleFavorite(ctx context.Context, id string, value bool) error {
	if c.index(id) < 0 {
		return apperror.NotFound("snippet", id)
	}

	if err := c.store.Update(ctx, id, store.SnippetPatch{Favorite: &value}); err != nil {
		c.logger.Error("failed to toggle favorite",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("toggling favorite: %w", err)
	}

	c.mu.Lock()
	if i := c.indexLocked(id); i >= 0 {
		c.snippets[i].Favorite = value
	}
	c.mu.Unlock()
	return nil
}

// Get returns a copy of the snippet with the given id.
func (c *Controller) Get(id string) (*model.Snippet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexLocked(id)
	if i < 0 {
		return nil, apperror.NotFound("snippet", id)
	}
	s := c.snippets[i].Clone()
	return &s, nil
}

// Snippets returns the full collection, newest first.
func (c *Controller) Snippets() []model.Snippet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Snippet(nil), c.snippets...)
}

// Visible returns the collection filtered by the controller's criteria.
func (c *Controller) Visible() []model.Snippet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.Apply(c.snippets, c.criteria)
}

// Filtered returns the collection filtered by explicit criteria, without
// touching the controller's own.
func (c *Controller) Filtered(criteria filter.Criteria) []model.Snippet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return filter.Apply(c.snippets, criteria)
}

// Facets returns the derived filter options for the current collection.
func (c *Controller) Facets() filter.Facets {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.facets
}

// Criteria returns the active filter criteria.
func (c *Controller) Criteria() filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.criteria
}

// SetCriteria replaces the active filter criteria wholesale.
func (c *Controller) SetCriteria(criteria filter.Criteria) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = criteria
}

// UpdateCriteria applies a criteria transition (one of the filter package's
// toggle/clear operations) to the active criteria.
func (c *Controller) UpdateCriteria(fn func(filter.Criteria) filter.Criteria) filter.Criteria {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.criteria = fn(c.criteria)
	return c.criteria
}

// replace swaps in an authoritative collection snapshot. Also the
// subscription callback.
func (c *Controller) replace(snippets []model.Snippet) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.snippets = append(make([]model.Snippet, 0, len(snippets)), snippets...)
	c.facets = filter.CollectFacets(c.snippets)
}

func (c *Controller) index(id string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.indexLocked(id)
}

func (c *Controller) indexLocked(id string) int {
	for i := range c.snippets {
		if c.snippets[i].ID == id {
			return i
		}
	}
	return -1
}

// applyPatch merges set fields into the record; nil fields leave the
// record untouched.
func applyPatch(s *model.Snippet, patch store.SnippetPatch) {
	if patch.Title != nil {
		s.Title = *patch.Title
	}
	if patch.Content != nil {
		s.Content = *patch.Content
	}
	if patch.Language != nil {
		s.Language = *patch.Language
	}
	if patch.Tags != nil {
		s.Tags = append([]string(nil), (*patch.Tags)...)
	}
	if patch.Description != nil {
		s.Description = *patch.Description
	}
	if patch.Favorite != nil {
		s.Favorite = *patch.Favorite
	}
}
