// Package model defines the data structures shared across the application.
package model

import (
	"strings"
	"time"
)

// Snippet is a saved unit of code with its display metadata. The store
// assigns ID and CreatedAt on creation; both are immutable afterwards.
// Every snippet belongs to exactly one user.
type Snippet struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Language    Language  `json:"language"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description"`
	Favorite    bool      `json:"favorite"`
	CreatedAt   time.Time `json:"createdAt"`
	UserID      string    `json:"userId"`
}

// Clone returns a deep copy. Tags is the only reference field.
func (s Snippet) Clone() Snippet {
	out := s
	if s.Tags != nil {
		out.Tags = append([]string(nil), s.Tags...)
	}
	return out
}

// NormalizeTags trims every tag, drops empty and whitespace-only entries,
// and removes duplicates while preserving first-appearance order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// ParseTags splits a comma-separated tag string and normalizes the result.
// "web, cli,,web " → ["web" "cli"].
func ParseTags(raw string) []string {
	return NormalizeTags(strings.Split(raw, ","))
}
