// Package sink forwards enriched click events to analytics stores and reads them back
package sink

import (
	"context"
	"errors"
	"sync"
	"time"

	"linkbio/internal/domain"
)

// Forwarder delivers one enriched click. Implementations make a single attempt.
type Forwarder interface {
	Forward(ctx context.Context, event *domain.ClickEvent) error
}

// EventSource returns the raw events aggregation runs over
type EventSource interface {
	Events(ctx context.Context, q domain.ClickQuery) ([]domain.ClickEvent, error)
}

// Record is the whitelisted projection sent to external stores
type Record struct {
	Timestamp       string          `json:"timestamp"`
	ProfileUsername string          `json:"profileUsername"`
	ProfileUserID   string          `json:"profileUserId"`
	LinkID          string          `json:"linkId"`
	LinkTitle       string          `json:"linkTitle"`
	LinkURL         string          `json:"linkUrl"`
	UserAgent       string          `json:"userAgent"`
	Referrer        *string         `json:"referrer"`
	VisitorID       string          `json:"visitorId"`
	Location        domain.Location `json:"location"`
}

// Project copies only the forwarded fields of an event
func Project(event *domain.ClickEvent) Record {
	return Record{
		Timestamp:       event.Timestamp.UTC().Format(time.RFC3339Nano),
		ProfileUsername: event.ProfileUsername,
		ProfileUserID:   event.OwnerID,
		LinkID:          event.LinkID,
		LinkTitle:       event.LinkTitle,
		LinkURL:         event.LinkURL,
		UserAgent:       event.UserAgent,
		Referrer:        event.Referrer,
		VisitorID:       event.VisitorID,
		Location:        event.Location,
	}
}

// Noop accepts every event without sending it anywhere
type Noop struct{}

// Forward implements Forwarder
func (Noop) Forward(context.Context, *domain.ClickEvent) error { return nil }

// Fanout forwards to every target concurrently and joins their errors
type Fanout []Forwarder

// Forward implements Forwarder
func (f Fanout) Forward(ctx context.Context, event *domain.ClickEvent) error {
	errs := make([]error, len(f))
	var wg sync.WaitGroup
	for i, target := range f {
		wg.Add(1)
		go func(i int, target Forwarder) {
			defer wg.Done()
			errs[i] = target.Forward(ctx, event)
		}(i, target)
	}
	wg.Wait()
	return errors.Join(errs...)
}

// Unconfigured is the event source used when no analytics store is set up
type Unconfigured struct{}

// Events implements EventSource
func (Unconfigured) Events(context.Context, domain.ClickQuery) ([]domain.ClickEvent, error) {
	return nil, domain.ErrSinkUnconfigured
}
