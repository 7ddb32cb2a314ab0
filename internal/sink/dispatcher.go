package sink

import (
	"context"
	"sync"
	"time"

	"linkbio/internal/domain"
	"linkbio/pkg/logger"
)

// Dispatcher runs deliveries off the request path with bounded concurrency
type Dispatcher struct {
	forwarder Forwarder
	timeout   time.Duration
	slots     chan struct{}
	logger    *logger.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher allowing maxInflight concurrent deliveries
func NewDispatcher(forwarder Forwarder, timeout time.Duration, maxInflight int, log *logger.Logger) *Dispatcher {
	if maxInflight < 1 {
		maxInflight = 1
	}
	return &Dispatcher{
		forwarder: forwarder,
		timeout:   timeout,
		slots:     make(chan struct{}, maxInflight),
		logger:    log,
	}
}

// Dispatch schedules one delivery and returns immediately. It reports false
// when the event was dropped.
func (d *Dispatcher) Dispatch(event domain.ClickEvent) bool {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.logger.Warn("Dispatcher stopped, dropping click event", "link_id", event.LinkID)
		return false
	}

	select {
	case d.slots <- struct{}{}:
	default:
		d.mu.Unlock()
		d.logger.Warn("Sink dispatcher saturated, dropping click event", "link_id", event.LinkID)
		return false
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go d.deliver(event)
	return true
}

func (d *Dispatcher) deliver(event domain.ClickEvent) {
	defer func() {
		<-d.slots
		d.wg.Done()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	start := time.Now()
	if err := d.forwarder.Forward(ctx, &event); err != nil {
		d.logger.Error("Failed to forward click event",
			"error", err,
			"link_id", event.LinkID,
			"duration", time.Since(start),
		)
		return
	}
	d.logger.Debug("Click event forwarded", "link_id", event.LinkID, "duration", time.Since(start))
}

// Shutdown stops accepting events and waits for in-flight deliveries or ctx
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
