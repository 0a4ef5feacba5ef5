package game

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCreateAssignsSequentialIDs(t *testing.T) {
	reg := NewRegistry(10, nil)

	first := reg.Create("One", "alice")
	second := reg.Create("Two", "bob")

	assert.Equal(t, 1, first.ID)
	assert.Equal(t, 2, second.ID)
	assert.Equal(t, "alice", first.Creator)
}

func TestRegistryGet(t *testing.T) {
	reg := NewRegistry(10, nil)
	created := reg.Create("One", "alice")

	room, ok := reg.Get(created.ID)
	require.True(t, ok)
	assert.Same(t, created, room)

	_, ok = reg.Get(999)
	assert.False(t, ok, "absent id yields not-found, never a fault")
}

func TestRegistryConcurrentCreateUniqueIDs(t *testing.T) {
	const n = 100

	reg := NewRegistry(10, nil)

	var wg sync.WaitGroup
	ids := make(chan int, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room := reg.Create(fmt.Sprintf("Room-%d", i), "stress")
			ids <- room.ID
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := make(map[int]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d issued twice", id)
		seen[id] = true
	}
	require.Len(t, seen, n)

	// monotonic assignment with no gaps
	for id := 1; id <= n; id++ {
		assert.True(t, seen[id], "id %d skipped", id)
	}
}

func TestRegistryListOrderedSnapshot(t *testing.T) {
	reg := NewRegistry(4, nil)
	reg.Create("B-Room", "x")
	reg.Create("A-Room", "y")
	reg.Create("C-Room", "z")

	infos := reg.List()
	require.Len(t, infos, 3)

	for i, info := range infos {
		assert.Equal(t, i+1, info.ID, "stable iteration order by identifier")
		assert.Equal(t, 4, info.MaxPlayers)
		assert.Equal(t, 0, info.Players)
		assert.Equal(t, 1, info.Round)
	}
}
