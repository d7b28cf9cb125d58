package actor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

type counter struct{ name string }

func TestRegistry_CreatesOncePerSanctuary(t *testing.T) {
	var created atomic.Int32
	r := NewRegistry(func(s string) (*counter, bool) {
		if s != "hollow" && s != "meadow" {
			return nil, false
		}
		created.Add(1)
		return &counter{name: s}, true
	})

	var wg sync.WaitGroup
	results := make([]*counter, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a, ok := r.Get("hollow")
			assert.True(t, ok)
			results[i] = a
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	for _, a := range results {
		assert.Same(t, results[0], a)
	}
}

func TestRegistry_UnknownNotCached(t *testing.T) {
	calls := 0
	r := NewRegistry(func(s string) (*counter, bool) {
		calls++
		return nil, false
	})

	_, ok := r.Get("nowhere")
	assert.False(t, ok)
	_, ok = r.Get("nowhere")
	assert.False(t, ok)
	assert.Equal(t, 2, calls)
}

func TestRegistry_EachSorted(t *testing.T) {
	r := NewRegistry(func(s string) (*counter, bool) { return &counter{name: s}, true })
	r.Get("meadow")
	r.Get("hollow")

	var names []string
	r.Each(func(s string, c *counter) {
		assert.Equal(t, s, c.name)
		names = append(names, s)
	})
	assert.Equal(t, []string{"hollow", "meadow"}, names)
}
