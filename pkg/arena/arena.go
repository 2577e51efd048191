// Package arena implements the request-scoped allocator spec.md's Context
// threads through handlers (spec.md §4.G "Allocator"): a pool of reusable
// byte buffers whose lifetime is exactly one request, guaranteed released
// when the request's Context is dropped (spec.md §5 "the request arena's
// lifetime ⊇ the lifetime of every value the request handler may still
// reference when returning").
//
// Grounded on the sync.Pool-backed buffer pool pattern other pack repos use
// to cut allocations for request-sized byte slices, generalized from a
// single shared pool to one Arena instance per request so released buffers
// return to the pool exactly once, at Context drop.
package arena

import "sync"

var pool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 512)
		return &buf
	},
}

// Allocator is the interface handlers depend on instead of *Arena directly,
// so request-scoped code never assumes a concrete pooling strategy.
type Allocator interface {
	Alloc(n int) []byte
}

// Arena hands out byte slices for the lifetime of one request and releases
// every slice it handed out back to the shared pool on Release. It is not
// safe for concurrent use — exactly as request-scoped state should be
// (spec.md §5 "per-request state ... is never shared").
type Arena struct {
	borrowed [][]byte
	released bool
}

// New returns a fresh Arena. Callers must call Release exactly once, when
// the owning Context is dropped.
func New() *Arena {
	return &Arena{}
}

// Alloc returns a byte slice of length n, reused from the pool when
// possible. The slice must not be retained past Release.
func (a *Arena) Alloc(n int) []byte {
	bufp := pool.Get().(*[]byte)
	buf := *bufp
	if cap(buf) < n {
		buf = make([]byte, n)
	} else {
		buf = buf[:n]
	}
	a.borrowed = append(a.borrowed, buf)
	return buf
}

// Release returns every slice this Arena handed out back to the shared
// pool. Safe to call more than once; only the first call has effect.
func (a *Arena) Release() {
	if a.released {
		return
	}
	a.released = true
	for _, buf := range a.borrowed {
		b := buf[:0]
		pool.Put(&b)
	}
	a.borrowed = nil
}
