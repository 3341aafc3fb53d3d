package infra

import (
	"context"
	"sync"
)

type commitHooksKey struct{}

// CommitHooks collects callbacks that must only run once a transaction is durable.
type CommitHooks struct {
	mu  sync.Mutex
	fns []func()
}

// WithCommitHooks scopes AfterCommit calls made with the returned context to hooks.
func WithCommitHooks(ctx context.Context) (context.Context, *CommitHooks) {
	hooks := &CommitHooks{}
	return context.WithValue(ctx, commitHooksKey{}, hooks), hooks
}

// Run calls the collected callbacks in registration order and forgets them.
func (h *CommitHooks) Run() {
	h.mu.Lock()
	fns := h.fns
	h.fns = nil
	h.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (h *CommitHooks) add(fn func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.fns = append(h.fns, fn)
}

// AfterCommit defers fn until the transaction carried by ctx commits. Without one,
// the statement already autocommitted and fn runs at once. A rolled back
// transaction drops fn.
func AfterCommit(ctx context.Context, fn func()) {
	if hooks, ok := ctx.Value(commitHooksKey{}).(*CommitHooks); ok {
		hooks.add(fn)
		return
	}
	fn()
}
