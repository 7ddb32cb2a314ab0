// Package memory holds in-process repositories for local development and tests
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

// linkEntry guards one link; mutations of the same link serialize on mu
type linkEntry struct {
	mu      sync.Mutex
	link    domain.Link
	deleted bool
}

type linkRepository struct {
	mu    sync.RWMutex
	links map[string]*linkEntry
}

// NewLinkRepository creates an empty in-memory link store
func NewLinkRepository() repository.LinkRepository {
	return &linkRepository{links: make(map[string]*linkEntry)}
}

func (r *linkRepository) Create(_ context.Context, link *domain.Link) error {
	now := time.Now().UTC()
	link.CreatedAt = now
	link.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.links[link.ID] = &linkEntry{link: *link}
	return nil
}

func (r *linkRepository) FindByID(_ context.Context, id string) (*domain.Link, error) {
	entry := r.entry(id)
	if entry == nil {
		return nil, domain.ErrLinkNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.deleted {
		return nil, domain.ErrLinkNotFound
	}
	link := entry.link
	return &link, nil
}

func (r *linkRepository) ListByOwner(_ context.Context, ownerID string) ([]domain.Link, error) {
	links := make([]domain.Link, 0)
	for _, entry := range r.snapshot() {
		entry.mu.Lock()
		if !entry.deleted && entry.link.OwnerID == ownerID {
			links = append(links, entry.link)
		}
		entry.mu.Unlock()
	}
	domain.SortLinks(links)
	return links, nil
}

func (r *linkRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	links, err := r.ListByOwner(ctx, ownerID)
	return int64(len(links)), err
}

func (r *linkRepository) HasLinks(ctx context.Context, ownerID string) (bool, error) {
	count, err := r.CountByOwner(ctx, ownerID)
	return count > 0, err
}

func (r *linkRepository) UpdateContent(_ context.Context, callerID, id, title, url string) error {
	return r.withOwnedLink(callerID, id, func(entry *linkEntry) {
		entry.link.Title = title
		entry.link.URL = url
		entry.link.UpdatedAt = time.Now().UTC()
	})
}

func (r *linkRepository) Delete(_ context.Context, callerID, id string) error {
	err := r.withOwnedLink(callerID, id, func(entry *linkEntry) {
		entry.deleted = true
	})
	if err != nil {
		return err
	}

	r.mu.Lock()
	delete(r.links, id)
	r.mu.Unlock()
	return nil
}

func (r *linkRepository) Reorder(_ context.Context, callerID string, ids []string) (int, error) {
	entries := make(map[string]*linkEntry, len(ids))
	owned := make(map[string]bool, len(ids))
	for _, id := range ids {
		entry := r.entry(id)
		if entry == nil {
			continue
		}
		entry.mu.Lock()
		if !entry.deleted && entry.link.OwnedBy(callerID) {
			owned[id] = true
			entries[id] = entry
		}
		entry.mu.Unlock()
	}

	written := 0
	for _, a := range domain.AssignOrder(ids, owned) {
		entry := entries[a.LinkID]
		entry.mu.Lock()
		if !entry.deleted {
			entry.link.Order = a.Order
			entry.link.UpdatedAt = time.Now().UTC()
			written++
		}
		entry.mu.Unlock()
	}
	return written, nil
}

func (r *linkRepository) withOwnedLink(callerID, id string, fn func(entry *linkEntry)) error {
	entry := r.entry(id)
	if entry == nil {
		return domain.ErrLinkNotFound
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.deleted {
		return domain.ErrLinkNotFound
	}
	if !entry.link.OwnedBy(callerID) {
		return domain.ErrForbidden
	}
	fn(entry)
	return nil
}

func (r *linkRepository) entry(id string) *linkEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.links[id]
}

func (r *linkRepository) snapshot() []*linkEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.links))
	for id := range r.links {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*linkEntry, len(ids))
	for i, id := range ids {
		out[i] = r.links[id]
	}
	return out
}
