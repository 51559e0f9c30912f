package handlers

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBroker(t *testing.T) {
	t.Parallel()

	t.Run("newListener", func(t *testing.T) {
		l := newListener[string]("test-id", []string{"topic1", "topic2", " TOPIC3 "})

		require.Equal(t, "test-id", l.id)
		require.NotNil(t, l.ch)
		require.Len(t, l.topics, 3)
		require.Contains(t, l.topics, "topic1")
		require.Contains(t, l.topics, "topic3")
	})

	t.Run("includesAny", func(t *testing.T) {
		l := newListener[string]("test-id", []string{"topic1", "topic2"})

		require.True(t, l.includesAny(nil))
		require.True(t, l.includesAny([]string{"topic1"}))
		require.True(t, l.includesAny([]string{"TOPIC2", "other"}))
		require.False(t, l.includesAny([]string{"topic3"}))

		all := newListener[string]("all", nil)
		require.True(t, all.includesAny([]string{"anything"}))
	})

	t.Run("push and remove", func(t *testing.T) {
		b := newBroker[string]()
		require.False(t, b.hasListeners())

		l := newListener[string]("test-id", nil)
		b.pushListener(l)
		require.True(t, b.hasListeners())

		b.removeListener(l.id)
		require.False(t, b.hasListeners())
		// removing twice is a no-op
		b.removeListener(l.id)
	})

	t.Run("publish", func(t *testing.T) {
		b := newBroker[string]()
		interested := newListener[string]("interested", []string{"42"})
		other := newListener[string]("other", []string{"43"})
		all := newListener[string]("all", nil)
		b.pushListener(interested)
		b.pushListener(other)
		b.pushListener(all)

		count := b.publish("event", "42")
		require.Equal(t, 2, count)
		require.Equal(t, "event", <-interested.ch)
		require.Equal(t, "event", <-all.ch)
		require.Empty(t, other.ch)
	})

	t.Run("publish drops events for slow listeners", func(t *testing.T) {
		b := newBroker[int]()
		l := newListener[int]("slow", nil)
		b.pushListener(l)

		for i := 0; i < listenerBufferSize+10; i++ {
			b.publish(i)
		}
		require.Len(t, l.ch, listenerBufferSize)
	})

	t.Run("concurrent access", func(t *testing.T) {
		b := newBroker[string]()
		wg := sync.WaitGroup{}
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				l := newListener[string](fmt.Sprintf("listener-%d", i), nil)
				b.pushListener(l)
				b.publish("event")
				b.removeListener(l.id)
			}(i)
		}
		wg.Wait()
		require.False(t, b.hasListeners())
	})
}
