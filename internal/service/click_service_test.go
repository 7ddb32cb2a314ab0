package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbio/internal/analytics"
	"linkbio/internal/domain"
	"linkbio/pkg/logger"
)

type clickFixture struct {
	slugs      *slugFixture
	locator    *fixedLocator
	dispatcher *recordingDispatcher
	service    *clickService
}

func setupClickService(t *testing.T) *clickFixture {
	t.Helper()
	slugs := setupSlugService(t, false)
	_, err := slugs.slugs.Claim(context.Background(), "user_1", "alice")
	require.NoError(t, err)

	f := &clickFixture{
		slugs:      slugs,
		locator:    &fixedLocator{location: domain.Location{Country: "US", City: "Austin"}},
		dispatcher: &recordingDispatcher{},
	}
	f.service = NewClickService(slugs.service, f.locator, f.dispatcher, logger.NewNop()).(*clickService)
	return f
}

func TestTrack_EnrichesFromPayload(t *testing.T) {
	f := setupClickService(t)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	f.service.now = func() time.Time { return now }

	req := &domain.TrackClickRequest{
		ProfileUsername: "alice",
		LinkID:          "l1",
		LinkTitle:       "Blog",
		LinkURL:         "https://example.com",
		UserAgent:       "payload-agent",
		Referrer:        "https://twitter.com",
	}
	meta := domain.RequestMeta{ClientIP: "1.2.3.4", UserAgent: "header-agent", Referer: "https://header.com"}

	require.NoError(t, f.service.Track(context.Background(), req, meta))

	require.Len(t, f.dispatcher.events, 1)
	event := f.dispatcher.events[0]
	assert.Equal(t, now.UTC(), event.Timestamp)
	assert.Equal(t, time.UTC, event.Timestamp.Location())
	assert.Equal(t, "user_1", event.OwnerID)
	assert.Equal(t, "alice", event.ProfileUsername)
	assert.Equal(t, "payload-agent", event.UserAgent)
	require.NotNil(t, event.Referrer)
	assert.Equal(t, "https://twitter.com", *event.Referrer)
	assert.Equal(t, analytics.VisitorID("1.2.3.4", "payload-agent"), event.VisitorID)
	assert.Equal(t, domain.Location{Country: "US", City: "Austin"}, event.Location)
	assert.Equal(t, "1.2.3.4", f.locator.gotIP)
}

func TestTrack_FallsBackToRequestHeaders(t *testing.T) {
	f := setupClickService(t)
	req := &domain.TrackClickRequest{ProfileUsername: "alice", LinkID: "l1"}

	require.NoError(t, f.service.Track(context.Background(), req,
		domain.RequestMeta{ClientIP: "1.2.3.4", UserAgent: "header-agent", Referer: "https://header.com"}))
	require.NoError(t, f.service.Track(context.Background(), req, domain.RequestMeta{ClientIP: "1.2.3.4"}))

	require.Len(t, f.dispatcher.events, 2)
	assert.Equal(t, "header-agent", f.dispatcher.events[0].UserAgent)
	require.NotNil(t, f.dispatcher.events[0].Referrer)
	assert.Equal(t, "https://header.com", *f.dispatcher.events[0].Referrer)

	assert.Equal(t, "unknown", f.dispatcher.events[1].UserAgent)
	assert.Nil(t, f.dispatcher.events[1].Referrer)
}

func TestTrack_UnknownProfileIsNotForwarded(t *testing.T) {
	f := setupClickService(t)

	err := f.service.Track(context.Background(),
		&domain.TrackClickRequest{ProfileUsername: "ghost", LinkID: "l1"},
		domain.RequestMeta{ClientIP: "1.2.3.4"})

	requireAppError(t, err, http.StatusNotFound, domain.ErrProfileNotFound)
	assert.Empty(t, f.dispatcher.events)
}
