package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/xid"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/model"
	"github.com/sakif/snipvault/internal/store"
)

// Compile-time interface checks.
var (
	_ store.SnippetStore   = (*DB)(nil)
	_ store.SnippetWatcher = (*DB)(nil)
)

// FetchAll returns every snippet owned by userID, newest first.
func (db *DB) FetchAll(ctx context.Context, userID string) ([]model.Snippet, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, user_id, title, content, language, tags, description, favorite, created_at
		 FROM snippets
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, apperror.RemoteRead("fetch", fmt.Errorf("sqlite: listing snippets: %w", err))
	}
	defer rows.Close()

	snippets := make([]model.Snippet, 0, 16)
	for rows.Next() {
		s, err := scanSnippet(rows)
		if err != nil {
			return nil, apperror.RemoteRead("fetch", err)
		}
		snippets = append(snippets, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.RemoteRead("fetch", fmt.Errorf("sqlite: iterating snippets: %w", err))
	}

	return snippets, nil
}

// Create inserts the snippet, assigning its ID and creation time.
func (db *DB) Create(ctx context.Context, snippet *model.Snippet) error {
	snippet.ID = xid.New().String()
	snippet.CreatedAt = time.Now().UTC()
	if snippet.Tags == nil {
		snippet.Tags = []string{}
	}

	tags, err := json.Marshal(snippet.Tags)
	if err != nil {
		return apperror.RemoteWrite("create", fmt.Errorf("sqlite: encoding tags: %w", err))
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO snippets (id, user_id, title, content, language, tags, description, favorite, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		snippet.ID,
		snippet.UserID,
		snippet.Title,
		snippet.Content,
		string(snippet.Language),
		string(tags),
		snippet.Description,
		snippet.Favorite,
		snippet.CreatedAt,
	)
	if err != nil {
		return apperror.RemoteWrite("create", fmt.Errorf("sqlite: creating snippet: %w", err))
	}

	db.notify(snippet.UserID)
	return nil
}

// Update applies the patch's set fields in a single UPDATE. Unset fields
// keep their stored values.
func (db *DB) Update(ctx context.Context, id string, patch store.SnippetPatch) error {
	if patch.IsZero() {
		return nil
	}

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Content != nil {
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Language != nil {
		sets = append(sets, "language = ?")
		args = append(args, string(*patch.Language))
	}
	if patch.Tags != nil {
		tags, err := json.Marshal(*patch.Tags)
		if err != nil {
			return apperror.RemoteWrite("update", fmt.Errorf("sqlite: encoding tags: %w", err))
		}
		sets = append(sets, "tags = ?")
		args = append(args, string(tags))
	}
	if patch.Description != nil {
		sets = append(sets, "description = ?")
		args = append(args, *patch.Description)
	}
	if patch.Favorite != nil {
		sets = append(sets, "favorite = ?")
		args = append(args, *patch.Favorite)
	}
	args = append(args, id)

	result, err := db.conn.ExecContext(ctx,
		fmt.Sprintf("UPDATE snippets SET %s WHERE id = ?", strings.Join(sets, ", ")),
		args...,
	)
	if err != nil {
		return apperror.RemoteWrite("update", fmt.Errorf("sqlite: updating snippet %s: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.RemoteWrite("update", fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if affected == 0 {
		return apperror.NotFound("snippet", id)
	}

	if userID, err := db.snippetOwner(ctx, id); err == nil {
		db.notify(userID)
	}
	return nil
}

// Delete removes the snippet row.
func (db *DB) Delete(ctx context.Context, id string) error {
	owner, _ := db.snippetOwner(ctx, id)

	result, err := db.conn.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return apperror.RemoteWrite("delete", fmt.Errorf("sqlite: deleting snippet %s: %w", id, err))
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.RemoteWrite("delete", fmt.Errorf("sqlite: checking rows affected: %w", err))
	}
	if affected == 0 {
		return apperror.NotFound("snippet", id)
	}

	if owner != "" {
		db.notify(owner)
	}
	return nil
}

// Subscribe registers a callback invoked with the user's fresh collection
// after every committed write to it. Callbacks run on their own goroutine,
// mirroring how a remote store pushes change events.
func (db *DB) Subscribe(userID string, onChange func([]model.Snippet)) (func(), error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	subs, ok := db.subscribers[userID]
	if !ok {
		subs = make(map[int]func([]model.Snippet))
		db.subscribers[userID] = subs
	}
	db.nextSubID++
	id := db.nextSubID
	subs[id] = onChange

	cancel := func() {
		db.mu.Lock()
		defer db.mu.Unlock()
		delete(db.subscribers[userID], id)
	}
	return cancel, nil
}

// notify re-reads the user's collection and fans it out to subscribers.
// Fetch and delivery happen under a per-user lock, so a subscriber
// applying snapshots in arrival order never ends on a stale one: the
// last-delivered snapshot was also the last one fetched.
func (db *DB) notify(userID string) {
	db.mu.Lock()
	callbacks := make([]func([]model.Snippet), 0, len(db.subscribers[userID]))
	for _, fn := range db.subscribers[userID] {
		callbacks = append(callbacks, fn)
	}
	delivery, ok := db.deliveries[userID]
	if !ok {
		delivery = &sync.Mutex{}
		db.deliveries[userID] = delivery
	}
	db.mu.Unlock()

	if len(callbacks) == 0 {
		return
	}

	go func() {
		delivery.Lock()
		defer delivery.Unlock()
		snippets, err := db.FetchAll(context.Background(), userID)
		if err != nil {
			return // subscribers keep their last known state
		}
		for _, fn := range callbacks {
			fn(snippets)
		}
	}()
}

func (db *DB) snippetOwner(ctx context.Context, id string) (string, error) {
	var userID string
	err := db.conn.QueryRowContext(ctx,
		`SELECT user_id FROM snippets WHERE id = ?`, id,
	).Scan(&userID)
	if err != nil {
		return "", err
	}
	return userID, nil
}

// scanSnippet reads one row, decoding the JSON-encoded tags column.
func scanSnippet(rows *sql.Rows) (model.Snippet, error) {
	var (
		s    model.Snippet
		lang string
		tags string
	)
	if err := rows.Scan(
		&s.ID, &s.UserID, &s.Title, &s.Content, &lang,
		&tags, &s.Description, &s.Favorite, &s.CreatedAt,
	); err != nil {
		return model.Snippet{}, fmt.Errorf("sqlite: scanning snippet row: %w", err)
	}
	s.Language = model.Language(lang)
	if err := json.Unmarshal([]byte(tags), &s.Tags); err != nil {
		return model.Snippet{}, fmt.Errorf("sqlite: decoding tags for %s: %w", s.ID, err)
	}
	return s, nil
}
