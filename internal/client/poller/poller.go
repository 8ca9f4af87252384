// Package poller refreshes the dashboard's vitals snapshot on a fixed interval.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
)

// ErrAlreadyRunning is returned by Start on a running Poller.
var ErrAlreadyRunning = errors.New("poller already running")

// Fetcher loads the current list of readings.
type Fetcher func(ctx context.Context) ([]models.Reading, error)

// Poller calls a Fetcher every interval from a single goroutine, so at most
// one fetch is in flight. Each successful result replaces the previous one.
type Poller struct {
	fetch    Fetcher
	interval time.Duration
	onUpdate func([]models.Reading)
	onError  func(error)

	mu      sync.Mutex
	latest  []models.Reading
	fetched bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// Option configures a Poller.
type Option func(*Poller)

// OnUpdate is called with every successful result.
func OnUpdate(fn func([]models.Reading)) Option {
	return func(p *Poller) { p.onUpdate = fn }
}

// OnError is called when a fetch fails. Cancellation is not reported.
func OnError(fn func(error)) Option {
	return func(p *Poller) { p.onError = fn }
}

// New returns a stopped Poller.
func New(fetch Fetcher, interval time.Duration, opts ...Option) *Poller {
	p := &Poller{fetch: fetch, interval: interval}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start fetches immediately, then once per interval until ctx is done
// or Stop is called. Once the loop has exited, Start may be called again.
func (p *Poller) Start(ctx context.Context) error {
	if p.interval <= 0 {
		return errors.New("poll interval must be positive")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return ErrAlreadyRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})
	go p.run(ctx, p.done)
	return nil
}

// Stop cancels the running loop and waits for it to exit. It is safe to
// call on a stopped Poller.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Latest returns the most recent successful result and whether there is one.
func (p *Poller) Latest() ([]models.Reading, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.fetched
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer func() {
		close(done)
		// a cancelled parent leaves the Poller restartable without Stop
		p.mu.Lock()
		if p.done == done {
			p.cancel()
			p.cancel, p.done = nil, nil
		}
		p.mu.Unlock()
	}()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		p.poll(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	readings, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil && p.onError != nil {
			p.onError(err)
		}
		return
	}

	p.mu.Lock()
	p.latest = readings
	p.fetched = true
	p.mu.Unlock()

	if p.onUpdate != nil {
		p.onUpdate(readings)
	}
}
