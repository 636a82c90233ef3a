package crawler

import "sync"

// Frontier is the FIFO work queue for one site crawl plus the two membership
// sets that enforce "enqueue at most once, visit at most once". All state is
// guarded by a single mutex so that every check-then-insert is one atomic
// step with respect to other workers.
//
// An outstanding-work counter mirrors asyncio's Queue.join semantics: each
// successful Enqueue increments it, each Done decrements it, and Next reports
// the frontier drained once the queue is empty and the counter reaches zero.
type Frontier struct {
	mu      sync.Mutex
	cond    *sync.Cond
	items   []Entry
	queued  map[string]struct{}
	visited map[string]struct{}
	pending int
	closed  bool
}

// NewFrontier returns an empty frontier.
func NewFrontier() *Frontier {
	f := &Frontier{
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Enqueue adds url at the given depth if it has been neither queued nor
// visited in this crawl. It reports whether the entry was accepted.
func (f *Frontier) Enqueue(url string, depth int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	if _, ok := f.queued[url]; ok {
		return false
	}
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.queued[url] = struct{}{}
	f.items = append(f.items, Entry{URL: url, Depth: depth})
	f.pending++
	f.cond.Signal()
	return true
}

// Next blocks until an entry is available and returns it. It returns ok=false
// once the frontier is drained (empty with no outstanding work) or closed.
// Every entry returned with ok=true must be balanced by a Done call.
func (f *Frontier) Next() (Entry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if len(f.items) > 0 {
			entry := f.items[0]
			f.items = f.items[1:]
			return entry, true
		}
		if f.closed || f.pending == 0 {
			return Entry{}, false
		}
		f.cond.Wait()
	}
}

// Done marks one dequeued entry as fully processed, including any links it
// re-fed into the queue. When the last outstanding entry completes, all
// blocked workers are released.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.pending > 0 {
		f.pending--
	}
	if f.pending == 0 {
		f.cond.Broadcast()
	}
}

// MarkVisited records url as visited. It reports false when the URL was
// already visited, in which case the caller must treat the entry as a no-op.
// Marking happens before any fetch decision so re-discovery during the same
// fetch cannot re-enqueue the URL.
func (f *Frontier) MarkVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.visited[url]; ok {
		return false
	}
	f.visited[url] = struct{}{}
	return true
}

// Close releases all workers blocked in Next. Used to abort a crawl when its
// context is canceled.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}
