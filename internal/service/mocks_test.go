package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"linkbio/internal/config"
	"linkbio/internal/domain"
)

// MockCache is a mock implementation of Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Get(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(ctx, keys)
	return args.Error(0)
}

func (m *MockCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// recordingDispatcher captures dispatched events
type recordingDispatcher struct {
	mu     sync.Mutex
	events []domain.ClickEvent
}

func (d *recordingDispatcher) Dispatch(event domain.ClickEvent) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return true
}

// fixedLocator returns the same location for every request
type fixedLocator struct {
	location domain.Location
	gotIP    string
}

func (l *fixedLocator) Locate(clientIP string, _ http.Header) domain.Location {
	l.gotIP = clientIP
	return l.location
}

// fakeSource serves canned events and counts queries
type fakeSource struct {
	events  []domain.ClickEvent
	err     error
	queries []domain.ClickQuery
}

func (f *fakeSource) Events(_ context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.ClickEvent
	for _, e := range f.events {
		if e.OwnerID == q.OwnerID && (q.LinkID == "" || e.LinkID == q.LinkID) {
			out = append(out, e)
		}
	}
	return out, nil
}

func testConfig() *config.Config {
	return &config.Config{
		CacheTTL:            5 * time.Minute,
		MetricsCacheTTL:     time.Minute,
		AnalyticsWindowDays: 30,
	}
}

func requireAppError(t *testing.T, err error, status int, sentinel error) *domain.AppError {
	t.Helper()
	var appErr *domain.AppError
	require.True(t, errors.As(err, &appErr), "expected *domain.AppError, got %v", err)
	require.Equal(t, status, appErr.StatusCode)
	if sentinel != nil {
		require.ErrorIs(t, err, sentinel)
	}
	return appErr
}
