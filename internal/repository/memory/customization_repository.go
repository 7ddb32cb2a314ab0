package memory

import (
	"context"
	"sync"
	"time"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
)

type customizationRepository struct {
	mu      sync.RWMutex
	byOwner map[string]domain.Customization
}

// NewCustomizationRepository creates an empty in-memory customization store
func NewCustomizationRepository() repository.CustomizationRepository {
	return &customizationRepository{byOwner: make(map[string]domain.Customization)}
}

func (r *customizationRepository) FindByOwner(_ context.Context, ownerID string) (*domain.Customization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.byOwner[ownerID]
	if !ok {
		return nil, domain.ErrCustomizationNotFound
	}
	return &c, nil
}

func (r *customizationRepository) Upsert(_ context.Context, c *domain.Customization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.byOwner[c.OwnerID]; ok {
		c.ID = existing.ID
		c.CreatedAt = existing.CreatedAt
	} else {
		c.ID = uint(len(r.byOwner) + 1)
		c.CreatedAt = now
	}
	c.UpdatedAt = now
	r.byOwner[c.OwnerID] = *c
	return nil
}
