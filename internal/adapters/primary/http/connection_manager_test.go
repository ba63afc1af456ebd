package http

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fredcamaral/stackslider/internal/domain/ports"
)

func detachedSession(t *testing.T, id string) *Session {
	return newSession(id, nil, nil, nil, testLogger(t))
}

func TestConnectionManager(t *testing.T) {
	t.Run("register and unregister", func(t *testing.T) {
		cm := NewConnectionManager()
		cm.Register(detachedSession(t, "a"))
		cm.Register(detachedSession(t, "b"))
		assert.Equal(t, 2, cm.Count())

		cm.Unregister("a")
		cm.Unregister("missing")
		assert.Equal(t, 1, cm.Count())
	})

	t.Run("broadcast coalesces pending notices", func(t *testing.T) {
		cm := NewConnectionManager()
		a, b := detachedSession(t, "a"), detachedSession(t, "b")
		cm.Register(a)
		cm.Register(b)

		reload := ports.UpdateEvent{Type: ports.EventTypeReload}
		assert.Equal(t, 2, cm.Broadcast(reload))
		assert.Equal(t, 0, cm.Broadcast(reload))

		<-a.notices
		assert.Equal(t, 1, cm.Broadcast(reload))
	})

	t.Run("close all", func(t *testing.T) {
		cm := NewConnectionManager()
		s := detachedSession(t, "a")
		cm.Register(s)

		cm.CloseAll()
		cm.CloseAll()

		assert.Equal(t, 0, cm.Count())
		select {
		case <-s.quit:
		default:
			t.Fatal("session not closed")
		}
	})

	t.Run("concurrent operations", func(t *testing.T) {
		cm := NewConnectionManager()
		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("s-%d", i)
				cm.Register(detachedSession(t, id))
				cm.Broadcast(ports.UpdateEvent{Type: ports.EventTypeReload})
				if i%2 == 0 {
					cm.Unregister(id)
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 10, cm.Count())
	})
}
