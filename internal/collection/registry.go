package collection

import (
	"context"
	"log/slog"
	"sync"

	"github.com/sakif/snipvault/internal/apperror"
	"github.com/sakif/snipvault/internal/store"
)

// Registry hands out one Controller per user, creating and loading it on
// first use. The HTTP layer talks to controllers exactly the way a UI
// would, so all mutations flow through the same reconciliation path.
type Registry struct {
	store  store.SnippetStore
	logger *slog.Logger

	mu          sync.Mutex
	controllers map[string]*Controller
}

func NewRegistry(st store.SnippetStore, logger *slog.Logger) *Registry {
	return &Registry{
		store:       st,
		logger:      logger,
		controllers: make(map[string]*Controller),
	}
}

// For returns the controller for userID, loading and watching it on first
// access. Fails with AuthRequired for an empty userID.
func (r *Registry) For(ctx context.Context, userID string) (*Controller, error) {
	if userID == "" {
		return nil, apperror.AuthRequired("sign in to access snippets")
	}

	r.mu.Lock()
	ctrl, ok := r.controllers[userID]
	r.mu.Unlock()
	if ok {
		return ctrl, nil
	}

	ctrl = New(r.store, userID, r.logger)
	if err := ctrl.Load(ctx); err != nil {
		return nil, err
	}
	if err := ctrl.Watch(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Another request may have won the race; keep theirs.
	if existing, ok := r.controllers[userID]; ok {
		ctrl.Close()
		return existing, nil
	}
	r.controllers[userID] = ctrl
	return ctrl, nil
}

// Close releases every controller's store subscription.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, ctrl := range r.controllers {
		ctrl.Close()
		delete(r.controllers, id)
	}
}
