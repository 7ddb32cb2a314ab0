package memory

import (
	"context"
	"sync"
	"time"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

type slugRepository struct {
	mu      sync.Mutex
	bySlug  map[string]*domain.SlugMapping
	byOwner map[string]*domain.SlugMapping
}

// NewSlugRepository creates an empty in-memory slug store
func NewSlugRepository() repository.SlugRepository {
	return &slugRepository{
		bySlug:  make(map[string]*domain.SlugMapping),
		byOwner: make(map[string]*domain.SlugMapping),
	}
}

func (r *slugRepository) FindBySlug(_ context.Context, slug string) (*domain.SlugMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrSlugNotFound
	}
	out := *m
	return &out, nil
}

func (r *slugRepository) FindByOwner(_ context.Context, ownerID string) (*domain.SlugMapping, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrSlugNotFound
	}
	out := *m
	return &out, nil
}

// Claim holds the store lock across the check and the write
func (r *slugRepository) Claim(_ context.Context, ownerID, slug string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.bySlug[slug]; ok && existing.OwnerID != ownerID {
		return "", domain.ErrSlugTaken
	}

	now := time.Now().UTC()
	previous := ""
	if current, ok := r.byOwner[ownerID]; ok {
		previous = current.Slug
		delete(r.bySlug, current.Slug)
		current.Slug = slug
		current.UpdatedAt = now
		r.bySlug[slug] = current
		return previous, nil
	}

	m := &domain.SlugMapping{OwnerID: ownerID, Slug: slug, CreatedAt: now, UpdatedAt: now}
	r.bySlug[slug] = m
	r.byOwner[ownerID] = m
	return previous, nil
}
