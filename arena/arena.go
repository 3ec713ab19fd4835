// Package arena implements the append-only allocator backing
// variable-length field content of a row block. Rows reference arena
// memory through fixed-size descriptors (ref + length), everything
// allocated during one fill cycle is dropped together by Reset.
package arena

import (
	"errors"

	"github.com/dot5enko/simple-olap-db/mempool"
)

var (
	ErrAllocTooLarge = errors.New("allocation larger than arena chunk size")
	ErrAddressSpace  = errors.New("arena address space exhausted")
)

// Arena draws fixed-size chunks from a mempool.Pool and bump-allocates
// inside them. A ref is a stable uint32 address:
// chunk index * chunk size + offset inside the chunk.
//
// Not safe for concurrent use, same single-owner discipline as the
// block that owns it.
type Arena struct {
	pool   *mempool.Pool
	chunks [][]byte

	cur  int // chunk currently allocated from
	off  int // bump offset inside current chunk
	used int
}

func New(pool *mempool.Pool) *Arena {
	if pool == nil {
		pool = mempool.New(0, 0)
	}
	return &Arena{pool: pool}
}

// Alloc reserves n bytes and returns a ref for descriptors plus the
// writable slice. Allocations never span chunks.
func (a *Arena) Alloc(n int) (uint32, []byte, error) {

	chunkSize := a.pool.ChunkSize()

	if n > chunkSize {
		return 0, nil, ErrAllocTooLarge
	}

	if len(a.chunks) == 0 || a.off+n > chunkSize {
		if err := a.nextChunk(); err != nil {
			return 0, nil, err
		}
	}

	ref := uint32(a.cur*chunkSize + a.off)
	buf := a.chunks[a.cur][a.off : a.off+n : a.off+n]

	a.off += n
	a.used += n

	return ref, buf, nil
}

func (a *Arena) nextChunk() error {

	next := a.cur + 1
	if len(a.chunks) == 0 {
		next = 0
	}

	if (next+1)*a.pool.ChunkSize() > 1<<32 {
		return ErrAddressSpace
	}

	// after a Reset earlier chunks are still around, reuse them before
	// asking the pool for more
	if next >= len(a.chunks) {
		a.chunks = append(a.chunks, a.pool.Get())
	}

	a.cur = next
	a.off = 0
	return nil
}

// Get resolves a ref produced by Alloc back into its bytes.
func (a *Arena) Get(ref uint32, n int) []byte {
	chunkSize := a.pool.ChunkSize()
	c := int(ref) / chunkSize
	o := int(ref) % chunkSize
	return a.chunks[c][o : o+n : o+n]
}

// Used reports bytes handed out since the last Reset.
func (a *Arena) Used() int {
	return a.used
}

// Reset forgets every allocation but keeps the chunks, so a reused
// block does not pay the allocation cost again. The next Alloc starts
// over from chunk 0.
func (a *Arena) Reset() {
	a.cur = 0
	a.off = 0
	a.used = 0
}

// Release hands every chunk back to the pool. The arena is unusable
// afterwards except through a fresh fill cycle.
func (a *Arena) Release() {
	for _, c := range a.chunks {
		a.pool.Put(c)
	}
	a.chunks = nil
	a.cur = 0
	a.off = 0
	a.used = 0
}

// Clone deep copies the arena contents, chunk for chunk, so cloned
// descriptors resolve to identical refs.
func (a *Arena) Clone() *Arena {
	dup := New(a.pool)
	dup.chunks = make([][]byte, len(a.chunks))
	for i, c := range a.chunks {
		nc := a.pool.Get()
		copy(nc, c)
		dup.chunks[i] = nc
	}
	dup.cur = a.cur
	dup.off = a.off
	dup.used = a.used
	return dup
}
