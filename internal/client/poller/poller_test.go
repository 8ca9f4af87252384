package poller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/atinyakov/VitalsKeeper/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_ReplacesSnapshot(t *testing.T) {
	var calls atomic.Int32
	fetch := func(context.Context) ([]models.Reading, error) {
		n := calls.Add(1)
		return []models.Reading{{ID: fmt.Sprintf("r-%d", n)}}, nil
	}

	updates := make(chan []models.Reading, 16)
	p := New(fetch, 5*time.Millisecond, OnUpdate(func(r []models.Reading) {
		select {
		case updates <- r:
		default:
		}
	}))

	_, ok := p.Latest()
	assert.False(t, ok)

	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	first := <-updates
	second := <-updates
	assert.NotEqual(t, first[0].ID, second[0].ID)

	latest, ok := p.Latest()
	require.True(t, ok)
	require.Len(t, latest, 1, "each poll replaces the snapshot instead of appending")
}

func TestPoller_NoOverlappingFetches(t *testing.T) {
	var inFlight, maxInFlight, calls atomic.Int32
	fetch := func(context.Context) ([]models.Reading, error) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			m := maxInFlight.Load()
			if n <= m || maxInFlight.CompareAndSwap(m, n) {
				break
			}
		}
		calls.Add(1)
		// медленнее, чем интервал опроса
		time.Sleep(15 * time.Millisecond)
		return nil, nil
	}

	p := New(fetch, time.Millisecond)
	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, time.Millisecond)
	p.Stop()

	assert.Equal(t, int32(1), maxInFlight.Load())
}

func TestPoller_StopWaitsAndHalts(t *testing.T) {
	var calls atomic.Int32
	p := New(func(context.Context) ([]models.Reading, error) {
		calls.Add(1)
		return nil, nil
	}, time.Millisecond)

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)
	p.Stop()

	after := calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, calls.Load(), "no fetch may run after Stop returns")

	p.Stop()
}

func TestPoller_Errors(t *testing.T) {
	boom := errors.New("server down")
	var mu sync.Mutex
	var got []error

	p := New(func(context.Context) ([]models.Reading, error) {
		return nil, boom
	}, 2*time.Millisecond, OnError(func(err error) {
		mu.Lock()
		got = append(got, err)
		mu.Unlock()
	}))

	require.NoError(t, p.Start(context.Background()))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(got) >= 2
	}, time.Second, time.Millisecond)
	p.Stop()

	mu.Lock()
	assert.ErrorIs(t, got[0], boom)
	mu.Unlock()
	_, ok := p.Latest()
	assert.False(t, ok)
}

func TestPoller_StartTwice(t *testing.T) {
	p := New(func(context.Context) ([]models.Reading, error) { return nil, nil }, time.Hour)
	require.NoError(t, p.Start(context.Background()))
	defer p.Stop()

	assert.ErrorIs(t, p.Start(context.Background()), ErrAlreadyRunning)
}

func TestPoller_ParentContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := New(func(context.Context) ([]models.Reading, error) { return nil, nil }, time.Hour)
	require.NoError(t, p.Start(ctx))

	cancel()
	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the parent context was cancelled")
	}
}

func TestPoller_RestartAfterParentCancel(t *testing.T) {
	var calls atomic.Int32
	fetch := func(context.Context) ([]models.Reading, error) {
		calls.Add(1)
		return nil, nil
	}
	p := New(fetch, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, p.Start(ctx))
	cancel()

	// без Stop: цикл завершился сам, повторный Start должен пройти
	require.Eventually(t, func() bool {
		err := p.Start(context.Background())
		return err == nil
	}, time.Second, 5*time.Millisecond)
	defer p.Stop()

	require.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, 5*time.Millisecond)
}

func TestPoller_InvalidInterval(t *testing.T) {
	p := New(func(context.Context) ([]models.Reading, error) { return nil, nil }, 0)
	assert.Error(t, p.Start(context.Background()))
}
