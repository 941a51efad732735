package service

import (
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Page identifies which view a request belongs to
type Page string

const (
	PageResearch   Page = "research"
	PageCaseLaw    Page = "case-law"
	PageComparator Page = "comparator"
	PageDocuments  Page = "documents"
	PageDocQuery   Page = "document-query"
)

type gateKey struct {
	session uuid.UUID
	page    Page
}

// Gate allows one outstanding request per session and page. A second
// submit while the first is running is rejected, not queued
type Gate struct {
	mu    sync.Mutex
	slots map[gateKey]*semaphore.Weighted
}

// NewGate creates an empty gate
func NewGate() *Gate {
	return &Gate{slots: make(map[gateKey]*semaphore.Weighted)}
}

// Enter takes the slot for (session, page). The returned func releases it
func (g *Gate) Enter(session uuid.UUID, page Page) (func(), error) {
	g.mu.Lock()
	key := gateKey{session, page}
	sem, ok := g.slots[key]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.slots[key] = sem
	}
	g.mu.Unlock()

	if !sem.TryAcquire(1) {
		return nil, ErrRequestInFlight
	}
	var once sync.Once
	return func() { once.Do(func() { sem.Release(1) }) }, nil
}

// Busy reports whether a request is running for (session, page)
func (g *Gate) Busy(session uuid.UUID, page Page) bool {
	g.mu.Lock()
	sem, ok := g.slots[gateKey{session, page}]
	g.mu.Unlock()
	if !ok {
		return false
	}
	if sem.TryAcquire(1) {
		sem.Release(1)
		return false
	}
	return true
}

// Forget drops the slots of an expired session. A request still holding
// one keeps its own reference and releases it normally
func (g *Gate) Forget(session uuid.UUID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for key := range g.slots {
		if key.session == session {
			delete(g.slots, key)
		}
	}
}
