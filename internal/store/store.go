// Package store declares the document-store interface the collection
// controller depends on. Implementations live in subpackages; the
// controller is written against the interface only, so a one-shot-fetch
// store and a live-subscription store are interchangeable.
package store

import (
	"context"

	"github.com/sakif/snipvault/internal/model"
)

// SnippetPatch is a partial update. Nil fields are left untouched by the
// write, which is what lets the controller merge a patch locally without
// dropping fields the caller never mentioned. A single patch is applied
// atomically: either every set field is written or none is.
type SnippetPatch struct {
	Title       *string         `json:"title"`
	Content     *string         `json:"content"`
	Language    *model.Language `json:"language"`
	Tags        *[]string       `json:"tags"`
	Description *string         `json:"description"`
	Favorite    *bool           `json:"favorite"`
}

// IsZero reports whether the patch sets no field at all.
func (p SnippetPatch) IsZero() bool {
	return p.Title == nil && p.Content == nil && p.Language == nil &&
		p.Tags == nil && p.Description == nil && p.Favorite == nil
}

// SnippetStore is the remote document store scoped to snippet records.
//
// Contract assumed by the controller: a single write is atomic, writes are
// visible to subsequent reads, and Create fills in the record's ID and
// CreatedAt. Failures are reported as apperror.RemoteRead / RemoteWrite
// (or NotFound) and leave the stored data unchanged.
type SnippetStore interface {
	// FetchAll returns every snippet owned by userID, newest first.
	FetchAll(ctx context.Context, userID string) ([]model.Snippet, error)
	Create(ctx context.Context, snippet *model.Snippet) error
	Update(ctx context.Context, id string, patch SnippetPatch) error
	Delete(ctx context.Context, id string) error
}

// SnippetWatcher is implemented by stores that can push change
// notifications, modelling a live subscription. onChange receives the
// fresh collection for the user after every committed write. The returned
// cancel func releases the subscription and must be called on teardown.
type SnippetWatcher interface {
	Subscribe(userID string, onChange func([]model.Snippet)) (cancel func(), err error)
}
