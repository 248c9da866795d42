package chat

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var errDeadPeer = errors.New("dead peer")

type fakeOutbox struct {
	mu      sync.Mutex
	frames  [][]byte
	sendErr error
	closed  bool
}

func (f *fakeOutbox) Send(payload []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.frames = append(f.frames, payload)
	return nil
}

func (f *fakeOutbox) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeOutbox) received() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]byte(nil), f.frames...)
}

func (f *fakeOutbox) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

// decoded returns every frame received so far as a generic JSON object.
func (f *fakeOutbox) decoded(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, frame := range f.received() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(frame, &m))
		out = append(out, m)
	}
	return out
}
