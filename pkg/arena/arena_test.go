package arena_test

import (
	"testing"

	"github.com/denkhaus/tokamak/pkg/arena"
	"github.com/stretchr/testify/assert"
)

func TestAllocReturnsRequestedLength(t *testing.T) {
	a := arena.New()
	defer a.Release()

	buf := a.Alloc(128)
	assert.Len(t, buf, 128)
}

func TestReleaseIsIdempotent(t *testing.T) {
	a := arena.New()
	a.Alloc(16)
	a.Release()
	assert.NotPanics(t, func() { a.Release() })
}

func TestMultipleAllocsAreIndependent(t *testing.T) {
	a := arena.New()
	defer a.Release()

	first := a.Alloc(4)
	second := a.Alloc(4)
	copy(first, []byte("abcd"))
	copy(second, []byte("wxyz"))

	assert.Equal(t, []byte("abcd"), first)
	assert.Equal(t, []byte("wxyz"), second)
}
