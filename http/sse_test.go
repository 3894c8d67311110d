package http_test

import (
	"testing"

	cshttp "github.com/fwojciec/callscribe/http"
	"github.com/stretchr/testify/assert"
)

func TestHub(t *testing.T) {
	t.Parallel()

	t.Run("delivers broadcast to every client", func(t *testing.T) {
		t.Parallel()

		hub := cshttp.NewHub()
		a, b := hub.Register(), hub.Register()

		hub.Broadcast(cshttp.Event{Type: cshttp.EventProgressUpdate, Data: 1})

		assert.Equal(t, 1, (<-a).Data)
		assert.Equal(t, 1, (<-b).Data)
	})

	t.Run("drops clients that fall behind", func(t *testing.T) {
		t.Parallel()

		hub := cshttp.NewHub()
		slow := hub.Register()

		for i := 0; i < 100; i++ {
			hub.Broadcast(cshttp.Event{Type: cshttp.EventProgressUpdate, Data: i})
		}

		assert.Zero(t, hub.Clients())
		n := 0
		for range slow {
			n++
		}
		assert.Less(t, n, 100)
	})

	t.Run("unregister closes channel once", func(t *testing.T) {
		t.Parallel()

		hub := cshttp.NewHub()
		ch := hub.Register()

		hub.Unregister(ch)
		hub.Unregister(ch)
		hub.Close()

		_, ok := <-ch
		assert.False(t, ok)
	})

	t.Run("register after close returns closed channel", func(t *testing.T) {
		t.Parallel()

		hub := cshttp.NewHub()
		hub.Close()

		_, ok := <-hub.Register()
		assert.False(t, ok)
	})
}
