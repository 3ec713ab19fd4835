package mempool

import "sync/atomic"

const DefaultChunkSize = 64 * 1024

// Tracker counts bytes handed out by a pool. Shared between every
// consumer of one pool, safe for concurrent use.
type Tracker struct {
	used atomic.Int64
	peak atomic.Int64
}

func (t *Tracker) Acquire(n int) {
	used := t.used.Add(int64(n))
	for {
		peak := t.peak.Load()
		if used <= peak || t.peak.CompareAndSwap(peak, used) {
			return
		}
	}
}

func (t *Tracker) Release(n int) {
	t.used.Add(int64(-n))
}

func (t *Tracker) Used() int64 {
	return t.used.Load()
}

func (t *Tracker) Peak() int64 {
	return t.peak.Load()
}

// Pool hands out fixed-size byte chunks, recycling returned ones
// through a free list. When the free list is empty a fresh chunk is
// allocated, so Get never blocks.
type Pool struct {
	free      chan []byte
	chunkSize int
	tracker   *Tracker
}

func New(maxFree int, chunkSize int) *Pool {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if maxFree <= 0 {
		maxFree = 64
	}

	return &Pool{
		free:      make(chan []byte, maxFree),
		chunkSize: chunkSize,
		tracker:   &Tracker{},
	}
}

func (p *Pool) ChunkSize() int {
	return p.chunkSize
}

func (p *Pool) Tracker() *Tracker {
	return p.tracker
}

func (p *Pool) Get() []byte {
	select {
	case buf := <-p.free:
		return buf
	default:
		p.tracker.Acquire(p.chunkSize)
		return make([]byte, p.chunkSize)
	}
}

// Put returns a chunk to the free list. Chunks of a foreign size and
// overflow beyond the free list capacity are dropped for the GC.
func (p *Pool) Put(buf []byte) {
	if cap(buf) != p.chunkSize {
		return
	}

	select {
	case p.free <- buf[:p.chunkSize]:
	default:
		p.tracker.Release(p.chunkSize)
	}
}
