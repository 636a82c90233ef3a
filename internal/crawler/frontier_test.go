package crawler

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierEnqueueOnce(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	assert.True(t, f.Enqueue("http://example.com/a", 0))
	assert.False(t, f.Enqueue("http://example.com/a", 1), "second enqueue of same url must be rejected")
	assert.True(t, f.Enqueue("http://example.com/b", 0))
}

func TestFrontierVisitedBlocksEnqueue(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	require.True(t, f.MarkVisited("http://example.com/a"))
	assert.False(t, f.Enqueue("http://example.com/a", 0), "visited url must not be re-enqueued")
}

func TestFrontierMarkVisitedOnce(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	assert.True(t, f.MarkVisited("http://example.com/a"))
	assert.False(t, f.MarkVisited("http://example.com/a"))
}

func TestFrontierFIFO(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	f.Enqueue("http://example.com/1", 0)
	f.Enqueue("http://example.com/2", 1)

	first, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, Entry{URL: "http://example.com/1", Depth: 0}, first)

	second, ok := f.Next()
	require.True(t, ok)
	assert.Equal(t, Entry{URL: "http://example.com/2", Depth: 1}, second)
}

func TestFrontierDrainedAfterDone(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	f.Enqueue("http://example.com/a", 0)

	_, ok := f.Next()
	require.True(t, ok)
	f.Done()

	_, ok = f.Next()
	assert.False(t, ok, "frontier with no items and no outstanding work must report drained")
}

// TestFrontierBlocksUntilRefed exercises the asyncio-join-style termination:
// a worker blocked in Next while another worker still owes a Done call must
// wake up when that worker re-feeds the queue.
func TestFrontierBlocksUntilRefed(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	f.Enqueue("http://example.com/seed", 0)

	entry, ok := f.Next()
	require.True(t, ok)

	got := make(chan Entry, 1)
	go func() {
		next, ok := f.Next()
		if ok {
			got <- next
		}
		close(got)
	}()

	// The goroutine must be parked: the queue is empty but the seed entry is
	// still outstanding.
	select {
	case <-got:
		t.Fatal("Next returned before new work or drain")
	case <-time.After(20 * time.Millisecond):
	}

	f.Enqueue("http://example.com/child", entry.Depth+1)
	f.Done()

	select {
	case next := <-got:
		assert.Equal(t, "http://example.com/child", next.URL)
	case <-time.After(time.Second):
		t.Fatal("blocked worker never received re-fed entry")
	}
}

func TestFrontierConcurrentEnqueueSingleWinner(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	const goroutines = 32

	var accepted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Enqueue("http://example.com/contested", 1) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), accepted.Load(), "exactly one concurrent enqueue may win")
}

func TestFrontierCloseReleasesWaiters(t *testing.T) {
	t.Parallel()

	f := NewFrontier()
	f.Enqueue("http://example.com/a", 0)
	_, ok := f.Next()
	require.True(t, ok)

	done := make(chan struct{})
	go func() {
		_, ok := f.Next()
		assert.False(t, ok)
		close(done)
	}()

	f.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not release blocked worker")
	}
}
