package participant

import (
	"sync"
)

type pendingState int

const (
	pendingInflight pendingState = iota // write request issued, not yet acknowledged
	pendingSettling                     // acknowledged; survives one more snapshot
)

// Cache mirrors the remote participant collection. Snapshots pushed by the
// store are merged per record instead of blindly replacing the local state:
// records with an in-flight or just-acknowledged local write keep their local
// version so a stale snapshot cannot clobber an edit.
type Cache struct {
	mu      sync.RWMutex
	order   []string
	byID    map[string]Participant
	pending map[string]pendingState
	deleted map[string]pendingState
}

func NewCache() *Cache {
	return &Cache{
		byID:    map[string]Participant{},
		pending: map[string]pendingState{},
		deleted: map[string]pendingState{},
	}
}

// ApplySnapshot merges a full collection snapshot from the store.
func (c *Cache) ApplySnapshot(incoming []Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make(map[string]Participant, len(incoming))
	order := make([]string, 0, len(incoming))

	for _, p := range incoming {
		if _, gone := c.deleted[p.ID]; gone {
			continue
		}
		if _, ok := c.pending[p.ID]; ok {
			if local, exists := c.byID[p.ID]; exists {
				p = local
			}
		}
		next[p.ID] = p
		order = append(order, p.ID)
	}

	// keep locally written records the snapshot has not caught up with yet
	for id := range c.pending {
		if _, ok := next[id]; ok {
			continue
		}
		if local, exists := c.byID[id]; exists {
			next[id] = local
			order = append(order, id)
		}
	}

	c.byID = next
	c.order = order
	c.settle(c.pending)
	c.settle(c.deleted)
}

// settle ages pending entries: acknowledged writes survive exactly one
// snapshot after the ack, then server state wins again.
func (c *Cache) settle(m map[string]pendingState) {
	for id, st := range m {
		if st == pendingSettling {
			delete(m, id)
		}
	}
}

// BeginWrite marks id as having an in-flight local mutation.
func (c *Cache) BeginWrite(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending[id] = pendingInflight
}

// EndWrite marks the mutation as acknowledged by the store.
func (c *Cache) EndWrite(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.pending[id]; ok {
		c.pending[id] = pendingSettling
	}
}

// AbortWrite drops the pending mark after a failed store call, leaving the
// last known server state in place.
func (c *Cache) AbortWrite(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.pending, id)
}

// SetLocal applies an optimistic local copy of a record.
func (c *Cache) SetLocal(p Participant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.byID[p.ID]; !exists {
		c.order = append(c.order, p.ID)
	}
	c.byID[p.ID] = p
}

// DeleteLocal removes a record locally and shields the deletion from stale
// snapshots the same way writes are shielded.
func (c *Cache) DeleteLocal(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byID, id)
	delete(c.pending, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i:i], c.order[i+1:]...)
			break
		}
	}
	c.deleted[id] = pendingSettling
}

// All returns a copy of the collection in snapshot order.
func (c *Cache) All() []Participant {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Participant, 0, len(c.order))
	for _, id := range c.order {
		if p, ok := c.byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (c *Cache) Get(id string) (Participant, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	return p, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byID)
}
