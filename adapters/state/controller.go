// Package state adapts one provider's login entry point into the reactive
// shape UI frameworks want: a loading flag, the last result, a login trigger
// and a reset. Framework bindings wrap a Controller in their own change
// propagation; the Controller keeps the state transitions correct.
package state

import (
	"context"
	"sync"

	"github.com/open-rails/authbridge/core"
	"github.com/open-rails/authbridge/providers"
)

// Snapshot is an immutable view of the adapter state.
type Snapshot struct {
	Loading bool
	User    *core.User
	Err     string
	Code    core.ErrorKind
}

// Controller serializes login attempts for one provider. A second Login
// while one is in flight is ignored; Reset returns to idle without canceling
// in-flight work, and a pre-reset attempt's completion is discarded.
type Controller struct {
	provider providers.Provider
	onChange func(Snapshot)

	mu      sync.Mutex
	loading bool
	user    *core.User
	err     string
	code    core.ErrorKind
	gen     int
}

// New builds a Controller. onChange may be nil; when set it is invoked after
// every state transition, outside the lock.
func New(p providers.Provider, onChange func(Snapshot)) *Controller {
	return &Controller{provider: p, onChange: onChange}
}

// Snapshot returns the current adapter state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{Loading: c.loading, User: c.user, Err: c.err, Code: c.code}
}

// Login starts an attempt in the background. It reports whether an attempt
// was actually started (false when one is already in flight).
func (c *Controller) Login(ctx context.Context, opts core.LoginOptions) bool {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return false
	}
	c.loading = true
	c.user, c.err, c.code = nil, "", ""
	gen := c.gen
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)

	go func() {
		res := c.provider.Login(ctx, opts)

		c.mu.Lock()
		if c.gen != gen {
			// Reset happened while we were in flight; this result is stale.
			c.mu.Unlock()
			return
		}
		c.loading = false
		if res.Succeeded() {
			c.user = res.User
		} else {
			c.err = res.Error
			c.code = res.Code
		}
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.notify(snap)
	}()
	return true
}

// Reset returns the adapter to its initial idle shape. Any in-flight attempt
// keeps running but its eventual result is dropped.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.gen++
	c.loading = false
	c.user, c.err, c.code = nil, "", ""
	snap := c.snapshotLocked()
	c.mu.Unlock()
	c.notify(snap)
}

func (c *Controller) notify(s Snapshot) {
	if c.onChange != nil {
		c.onChange(s)
	}
}
