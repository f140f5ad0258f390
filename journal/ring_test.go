package journal_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sumitdasdk/DRX-pro/journal"
)

func TestRing_Basic(t *testing.T) {
	r := journal.NewRing[string](3)

	assert.Equal(t, uint64(0), r.Len())
	assert.Equal(t, uint64(3), r.Cap())
	assert.Empty(t, r.Last(5))

	r.Push("a")
	r.Push("b")

	assert.Equal(t, uint64(2), r.Len())
	assert.Equal(t, []string{"a", "b"}, r.Last(5))
	assert.Equal(t, []string{"b"}, r.Last(1))
}

func TestRing_Overwrite(t *testing.T) {
	r := journal.NewRing[string](3)

	for _, s := range []string{"a", "b", "c", "d", "e"} {
		r.Push(s)
	}

	assert.Equal(t, uint64(3), r.Len())
	assert.Equal(t, []string{"c", "d", "e"}, r.All())
	assert.Equal(t, []string{"d", "e"}, r.Last(2))
}

func TestRing_ZeroCapacityPanics(t *testing.T) {
	assert.Panics(t, func() {
		journal.NewRing[int](0)
	})
}

func TestRing_Concurrent(t *testing.T) {
	r := journal.NewRing[int](100)

	var wg sync.WaitGroup
	for w := range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 50 {
				r.Push(w*100 + i)
				_ = r.Last(10)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(100), r.Len())
	assert.Len(t, r.All(), 100)
}
