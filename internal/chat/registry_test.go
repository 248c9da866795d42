package chat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAssignsIncreasingIDs(t *testing.T) {
	r := NewRegistry()

	a := r.Register(&fakeOutbox{})
	b := r.Register(&fakeOutbox{})
	r.Remove(a)
	c := r.Register(&fakeOutbox{})

	assert.Equal(t, ID(0), a)
	assert.Equal(t, ID(1), b)
	assert.Equal(t, ID(2), c, "ids must not be reused")
	assert.Equal(t, 2, r.Count())

	conn, ok := r.Get(c)
	require.True(t, ok)
	assert.Equal(t, StateConnected, conn.State)
	assert.Empty(t, conn.Nickname)
}

func TestRegistry_SetNickname(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(*Registry) ID
		nick   string
		wantOK bool
	}{
		{
			name:   "connected peer joins",
			setup:  func(r *Registry) ID { return r.Register(&fakeOutbox{}) },
			nick:   "alice",
			wantOK: true,
		},
		{
			name:   "empty name is rejected",
			setup:  func(r *Registry) ID { return r.Register(&fakeOutbox{}) },
			nick:   "",
			wantOK: false,
		},
		{
			name: "already joined peer cannot rename",
			setup: func(r *Registry) ID {
				id := r.Register(&fakeOutbox{})
				r.SetNickname(id, "first")
				return id
			},
			nick:   "second",
			wantOK: false,
		},
		{
			name: "removed peer is ignored",
			setup: func(r *Registry) ID {
				id := r.Register(&fakeOutbox{})
				r.Remove(id)
				return id
			},
			nick:   "ghost",
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			id := tt.setup(r)

			assert.Equal(t, tt.wantOK, r.SetNickname(id, tt.nick))
			if tt.wantOK {
				nick, ok := r.NicknameOf(id)
				require.True(t, ok)
				assert.Equal(t, tt.nick, nick)
			}
		})
	}
}

func TestRegistry_NicknameImmutableAfterJoin(t *testing.T) {
	r := NewRegistry()
	id := r.Register(&fakeOutbox{})

	_, ok := r.NicknameOf(id)
	assert.False(t, ok, "no nickname before join")

	require.True(t, r.SetNickname(id, "alice"))
	r.SetNickname(id, "mallory")

	nick, ok := r.NicknameOf(id)
	require.True(t, ok)
	assert.Equal(t, "alice", nick)
}

func TestRegistry_RemoveIsIdempotent(t *testing.T) {
	r := NewRegistry()
	id := r.Register(&fakeOutbox{})
	r.SetNickname(id, "bob")

	conn, ok := r.Remove(id)
	require.True(t, ok)
	assert.Equal(t, "bob", conn.Nickname)
	assert.Equal(t, StateJoined, conn.State)

	_, ok = r.Remove(id)
	assert.False(t, ok)
	assert.Equal(t, 0, r.Count())
}

func TestRegistry_ConcurrentRegisterRemoveKeepsCount(t *testing.T) {
	r := NewRegistry()

	const workers = 50
	ids := make(chan ID, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.Register(&fakeOutbox{})
		}()
	}
	wg.Wait()
	close(ids)
	require.Equal(t, workers, r.Count())

	removed := 0
	var mu sync.Mutex
	for id := range ids {
		if id%2 != 0 {
			continue
		}
		// Two goroutines race to remove the same id; only one may win.
		for j := 0; j < 2; j++ {
			wg.Add(1)
			go func(id ID) {
				defer wg.Done()
				if _, ok := r.Remove(id); ok {
					mu.Lock()
					removed++
					mu.Unlock()
				}
			}(id)
		}
	}
	wg.Wait()

	assert.Equal(t, workers/2, removed)
	assert.Equal(t, workers-removed, r.Count())
}

func TestRegistry_ForEachExcept(t *testing.T) {
	r := NewRegistry()
	a := r.Register(&fakeOutbox{})
	b := r.Register(&fakeOutbox{})
	c := r.Register(&fakeOutbox{})
	r.Remove(c)

	var seen []ID
	r.ForEachExcept(a, func(conn Connection) {
		seen = append(seen, conn.ID)
	})
	assert.Equal(t, []ID{b}, seen)

	seen = nil
	r.ForEachExcept(NoID, func(conn Connection) {
		seen = append(seen, conn.ID)
	})
	assert.ElementsMatch(t, []ID{a, b}, seen)
}

func TestRegistry_ForEachExceptAllowsReentry(t *testing.T) {
	r := NewRegistry()
	r.Register(&fakeOutbox{})
	r.Register(&fakeOutbox{})

	r.ForEachExcept(NoID, func(conn Connection) {
		r.Remove(conn.ID)
	})
	assert.Equal(t, 0, r.Count())
}
