// Package catalog keeps a live in-memory view of every scholarship
// listing.  Handlers serve reads and run search against this view so
// no browse request touches the database.  The view is kept fresh two
// ways: mutating handlers apply their own writes optimistically, and
// the scholarship.changed consumer triggers a full reload from the
// store.  The two may briefly race; the catalog only promises
// eventual consistency with the backing store.
package catalog

import (
	"context"
	"sync"

	"github.com/minhngvn/scholarship-hub/internal/model"
)

// Loader is the slice of the scholarship store the catalog needs to
// refresh itself.
type Loader interface {
	ListScholarships(ctx context.Context) ([]model.Scholarship, error)
}

// Catalog is safe for concurrent use.
type Catalog struct {
	loader Loader

	mu      sync.RWMutex
	items   map[string]model.Scholarship
	subs    map[int]func()
	nextSub int
}

// New returns an empty catalog.  Call Reload before serving traffic.
func New(loader Loader) *Catalog {
	return &Catalog{
		loader: loader,
		items:  make(map[string]model.Scholarship),
		subs:   make(map[int]func()),
	}
}

// Reload replaces the whole view with the store's current contents
// and notifies subscribers.
func (c *Catalog) Reload(ctx context.Context) error {
	items, err := c.loader.ListScholarships(ctx)
	if err != nil {
		return err
	}
	next := make(map[string]model.Scholarship, len(items))
	for _, s := range items {
		next[s.ID] = s
	}
	c.mu.Lock()
	c.items = next
	c.mu.Unlock()
	c.notify()
	return nil
}

// All returns a copy of every listing in the view.  Order is not
// guaranteed; callers sort and filter as needed.
func (c *Catalog) All() []model.Scholarship {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]model.Scholarship, 0, len(c.items))
	for _, s := range c.items {
		out = append(out, s.Clone())
	}
	return out
}

// Get returns the listing with the given id, or false when absent.
func (c *Catalog) Get(id string) (model.Scholarship, bool) {
	c.mu.RLock()
	s, ok := c.items[id]
	c.mu.RUnlock()
	if !ok {
		return model.Scholarship{}, false
	}
	return s.Clone(), true
}

// Apply upserts one listing into the view (the optimistic local echo
// of an accepted mutation) and notifies subscribers.
func (c *Catalog) Apply(s model.Scholarship) {
	c.mu.Lock()
	c.items[s.ID] = s.Clone()
	c.mu.Unlock()
	c.notify()
}

// Remove drops a listing from the view and notifies subscribers.
// Removing an unknown id is a no-op.
func (c *Catalog) Remove(id string) {
	c.mu.Lock()
	_, ok := c.items[id]
	delete(c.items, id)
	c.mu.Unlock()
	if ok {
		c.notify()
	}
}

// Len returns the number of listings in the view.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Subscribe registers fn to run after every change to the view and
// returns the matching unsubscribe handle.  The caller owns the
// subscription lifetime; unsubscribe is idempotent.
func (c *Catalog) Subscribe(fn func()) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.subs, id)
		c.mu.Unlock()
	}
}

func (c *Catalog) notify() {
	c.mu.RLock()
	fns := make([]func(), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.mu.RUnlock()
	for _, fn := range fns {
		fn()
	}
}
