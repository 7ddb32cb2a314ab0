package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkbio/internal/domain"
	"linkbio/internal/repository"
	"linkbio/internal/repository/memory"
	"linkbio/pkg/logger"
)

type slugFixture struct {
	slugs   repository.SlugRepository
	links   repository.LinkRepository
	cache   *MockCache
	service SlugService
}

func setupSlugService(t *testing.T, withCache bool) *slugFixture {
	t.Helper()
	f := &slugFixture{
		slugs: memory.NewSlugRepository(),
		links: memory.NewLinkRepository(),
	}
	if withCache {
		f.cache = new(MockCache)
		f.service = NewSlugService(f.slugs, f.links, f.cache, testConfig(), logger.NewNop())
	} else {
		f.service = NewSlugService(f.slugs, f.links, nil, testConfig(), logger.NewNop())
	}
	return f
}

func TestGetSlug(t *testing.T) {
	f := setupSlugService(t, false)
	ctx := context.Background()

	resp, err := f.service.GetSlug(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, &domain.SlugResponse{Slug: "user_1", Claimed: false}, resp)

	_, err = f.slugs.Claim(ctx, "user_1", "alice")
	require.NoError(t, err)

	resp, err = f.service.GetSlug(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, &domain.SlugResponse{Slug: "alice", Claimed: true}, resp)
}

func TestCheckAvailability(t *testing.T) {
	f := setupSlugService(t, false)
	ctx := context.Background()
	_, err := f.slugs.Claim(ctx, "user_1", "alice")
	require.NoError(t, err)

	tests := []struct {
		slug string
		want domain.SlugAvailability
	}{
		{"bob", domain.SlugAvailability{Available: true}},
		{"alice", domain.SlugAvailability{Error: "Username is already taken."}},
		{"no spaces", domain.SlugAvailability{Error: "Invalid username format."}},
		{"ab", domain.SlugAvailability{Error: "Username must be between 3 and 50 characters."}},
	}
	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			got, err := f.service.CheckAvailability(ctx, tt.slug)
			require.NoError(t, err)
			assert.Equal(t, &tt.want, got)
		})
	}
}

func TestClaimSlug_RenameInvalidatesCache(t *testing.T) {
	f := setupSlugService(t, true)
	ctx := context.Background()

	f.cache.On("Delete", ctx, []string{"slug:alice"}).Return(nil).Once()
	_, err := f.service.ClaimSlug(ctx, "user_1", "alice")
	require.NoError(t, err)

	f.cache.On("Delete", ctx, []string{"slug:alice", "slug:alice_2"}).Return(nil).Once()
	resp, err := f.service.ClaimSlug(ctx, "user_1", "alice_2")
	require.NoError(t, err)
	assert.Equal(t, &domain.SlugResponse{Slug: "alice_2", Claimed: true}, resp)

	_, err = f.slugs.FindBySlug(ctx, "alice")
	assert.ErrorIs(t, err, domain.ErrSlugNotFound)

	f.cache.AssertExpectations(t)
}

func TestClaimSlug_Rejections(t *testing.T) {
	f := setupSlugService(t, false)
	ctx := context.Background()

	_, err := f.service.ClaimSlug(ctx, "user_1", "alice")
	require.NoError(t, err)

	_, err = f.service.ClaimSlug(ctx, "user_2", "alice")
	appErr := requireAppError(t, err, http.StatusConflict, domain.ErrSlugTaken)
	assert.Equal(t, "Username is already taken.", appErr.Message)

	_, err = f.service.ClaimSlug(ctx, "user_2", "bad slug!")
	appErr = requireAppError(t, err, http.StatusBadRequest, domain.ErrInvalidInput)
	assert.Equal(t, "slug", appErr.Field)
	assert.Equal(t, "Invalid username format.", appErr.Message)
}

func TestResolveOwner_CacheHit(t *testing.T) {
	f := setupSlugService(t, true)
	ctx := context.Background()

	f.cache.On("Get", ctx, "slug:alice").Return("user_1", nil)

	ownerID, err := f.service.ResolveOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_1", ownerID)

	f.cache.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestResolveOwner_CacheMissFillsCache(t *testing.T) {
	f := setupSlugService(t, true)
	ctx := context.Background()
	_, err := f.slugs.Claim(ctx, "user_1", "alice")
	require.NoError(t, err)

	f.cache.On("Get", ctx, "slug:alice").Return("", nil)
	f.cache.On("Set", ctx, "slug:alice", "user_1", 5*time.Minute).Return(nil)

	ownerID, err := f.service.ResolveOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_1", ownerID)
	f.cache.AssertExpectations(t)
}

func TestResolveOwner_CacheErrorFallsThrough(t *testing.T) {
	f := setupSlugService(t, true)
	ctx := context.Background()
	_, err := f.slugs.Claim(ctx, "user_1", "alice")
	require.NoError(t, err)

	f.cache.On("Get", ctx, "slug:alice").Return("", errors.New("redis down"))
	f.cache.On("Set", ctx, "slug:alice", "user_1", 5*time.Minute).Return(errors.New("redis down"))

	ownerID, err := f.service.ResolveOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "user_1", ownerID)
}

func TestResolveOwner_LiteralOwnerID(t *testing.T) {
	f := setupSlugService(t, false)
	ctx := context.Background()

	_, err := f.service.ResolveOwner(ctx, "user_9")
	requireAppError(t, err, http.StatusNotFound, domain.ErrProfileNotFound)

	require.NoError(t, f.links.Create(ctx, &domain.Link{ID: "l1", OwnerID: "user_9", Title: "t", URL: "https://x.com"}))

	ownerID, err := f.service.ResolveOwner(ctx, "user_9")
	require.NoError(t, err)
	assert.Equal(t, "user_9", ownerID)

	_, err = f.service.ResolveOwner(ctx, "")
	requireAppError(t, err, http.StatusNotFound, domain.ErrProfileNotFound)
}
