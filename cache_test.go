package lrustore

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		c, err := New(n)
		require.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", n)
		require.Nil(t, c)
	}
}

func TestPutGetWithinCapacity(t *testing.T) {
	c, err := New(100)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		c.Put(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i))
	}
	require.Equal(t, 100, c.Len())

	for i := 0; i < 100; i++ {
		v, ok := c.Get(fmt.Sprintf("k%d", i))
		require.True(t, ok, "k%d missing", i)
		require.Equal(t, fmt.Sprintf("v%d", i), v)
	}
}

func TestPutUpdatesExistingValue(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)

	c.Put("a", "1")
	c.Put("a", "2")

	require.Equal(t, 1, c.Len())
	v, ok := c.Get("a")
	require.True(t, ok)
	require.Equal(t, "2", v)
}

func TestEvictionOrder(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)

	c.Put("A", "1")
	c.Put("B", "2")
	c.Put("C", "3")
	c.Put("D", "4") // evicts A, the least recently used

	_, ok := c.Get("A")
	assert.False(t, ok, "A should have been evicted")

	for key, want := range map[string]string{"B": "2", "C": "3", "D": "4"} {
		v, ok := c.Get(key)
		require.True(t, ok, "%s missing", key)
		assert.Equal(t, want, v)
	}
	assert.Equal(t, 3, c.Len())
}

func TestGetRefreshesRecency(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)

	c.Put("A", "1")
	c.Put("B", "2")
	c.Put("C", "3")

	_, ok := c.Get("A") // A is now most recently used; B is coldest
	require.True(t, ok)

	c.Put("D", "4") // evicts B

	_, ok = c.Get("B")
	assert.False(t, ok, "B should have been evicted")
	for _, key := range []string{"A", "C", "D"} {
		_, ok := c.Get(key)
		assert.True(t, ok, "%s missing", key)
	}
}

func TestPutExistingRefreshesRecency(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)

	c.Put("A", "1")
	c.Put("B", "2")
	c.Put("C", "3")
	c.Put("A", "1b") // refresh A; B is coldest
	c.Put("D", "4")  // evicts B

	_, ok := c.Get("B")
	assert.False(t, ok)
	v, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, "1b", v)
}

func TestRemove(t *testing.T) {
	c, err := New(3)
	require.NoError(t, err)

	c.Put("a", "1")

	v, ok := c.Remove("a")
	require.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())

	_, ok = c.Remove("a")
	assert.False(t, ok, "removing an absent key must be a no-op")
	assert.Equal(t, 0, c.Len())
}

func TestContainsDoesNotRefreshRecency(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Put("A", "1")
	c.Put("B", "2")
	require.True(t, c.Contains("A"))

	c.Put("C", "3") // A is still coldest; Contains must not have touched it
	assert.False(t, c.Contains("A"))
	assert.True(t, c.Contains("B"))
	assert.True(t, c.Contains("C"))
}

func TestClear(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		c.Put(fmt.Sprintf("k%d", i), "v")
	}
	c.Clear()

	assert.Equal(t, 0, c.Len())
	assert.Empty(t, c.Keys())
	for i := 0; i < 10; i++ {
		_, ok := c.Get(fmt.Sprintf("k%d", i))
		assert.False(t, ok)
	}

	// Cache stays usable: reinsert, evict, retrieve.
	for i := 0; i < 15; i++ {
		c.Put(fmt.Sprintf("n%d", i), "v")
	}
	assert.Equal(t, 10, c.Len())
}

func TestKeysOrder(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3")
	_, _ = c.Get("a") // a becomes MRU

	assert.Equal(t, []string{"a", "c", "b"}, c.Keys())
}

func TestEvictCallback(t *testing.T) {
	var evicted [][2]string
	c, err := New(2, WithEvictCallback(func(k, v string) {
		evicted = append(evicted, [2]string{k, v})
	}))
	require.NoError(t, err)

	c.Put("a", "1")
	c.Put("b", "2")
	c.Put("c", "3") // evicts a

	require.Len(t, evicted, 1)
	assert.Equal(t, [2]string{"a", "1"}, evicted[0])

	// Remove and Clear do not trigger the eviction callback.
	c.Remove("b")
	c.Clear()
	assert.Len(t, evicted, 1)
}

func TestStats(t *testing.T) {
	c, err := New(10)
	require.NoError(t, err)

	c.Put("a", "1")
	c.Put("b", "2")

	st := c.Stats()
	assert.Equal(t, 2, st.Size)
	assert.Equal(t, 10, st.Capacity)
	assert.Greater(t, st.LoadFactor, 0.0)
	assert.Less(t, st.LoadFactor, 0.75)
}

// TestConcurrentMixedOps hammers one cache from many goroutines with
// overlapping keys and then checks the structural invariant: index size and
// recency list length agree, and capacity was never silently exceeded.
func TestConcurrentMixedOps(t *testing.T) {
	const (
		capacity   = 50
		goroutines = 8
		opsEach    = 2000
		keySpace   = 200
	)

	c, err := New(capacity)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := 0; i < opsEach; i++ {
				key := fmt.Sprintf("k%d", rng.Intn(keySpace))
				switch rng.Intn(4) {
				case 0:
					c.Get(key)
				case 1:
					c.Put(key, fmt.Sprintf("v%d", i))
				case 2:
					c.Contains(key)
				case 3:
					if i%17 == 0 {
						c.Remove(key)
					} else {
						c.Put(key, "w")
					}
				}
			}
		}(int64(g))
	}
	wg.Wait()

	size := c.Len()
	assert.LessOrEqual(t, size, capacity)
	assert.Len(t, c.Keys(), size, "recency list length must equal index size")
}
