package broadcast

import (
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YelzhanWeb/qr-order/internal/adapter/logger"
	"github.com/YelzhanWeb/qr-order/internal/domain"
)

func newTestHub(buffer int) *Hub {
	return NewHub(buffer, logger.NewWithWriter("test", io.Discard, "error"))
}

func statusEvent(id int64) domain.Event {
	return domain.NewOrderStatusChangedEvent(id, domain.StatusPreparing, time.Now())
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	hub := newTestHub(4)
	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(statusEvent(1))

	for _, sub := range []interface{ Events() <-chan domain.Event }{a, b} {
		select {
		case ev := <-sub.Events():
			assert.Equal(t, int64(1), ev.OrderID)
		default:
			t.Fatal("event not delivered")
		}
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	hub := newTestHub(1)
	assert.NotPanics(t, func() { hub.Publish(statusEvent(1)) })
}

func TestFIFOPerSubscriber(t *testing.T) {
	hub := newTestHub(100)
	sub := hub.Subscribe()

	for i := int64(1); i <= 50; i++ {
		hub.Publish(statusEvent(i))
	}
	for i := int64(1); i <= 50; i++ {
		ev := <-sub.Events()
		require.Equal(t, i, ev.OrderID)
	}
}

func TestSlowSubscriberIsEvictedWithoutBlocking(t *testing.T) {
	hub := newTestHub(2)
	slow := hub.Subscribe()
	fast := hub.Subscribe()

	received := make(chan []int64, 1)
	go func() {
		var got []int64
		for i := int64(1); i <= 5; i++ {
			hub.Publish(statusEvent(i))
			got = append(got, (<-fast.Events()).OrderID)
		}
		received <- got
	}()

	select {
	case got := <-received:
		assert.Equal(t, []int64{1, 2, 3, 4, 5}, got)
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}

	// the slow subscriber got what fit in its buffer and then its channel was closed
	var slowGot []int64
	for ev := range slow.Events() {
		slowGot = append(slowGot, ev.OrderID)
	}
	assert.Equal(t, []int64{1, 2}, slowGot)
	assert.Equal(t, 1, hub.SubscriberCount())
}

func TestUnsubscribe(t *testing.T) {
	hub := newTestHub(1)
	sub := hub.Subscribe()
	require.Equal(t, 1, hub.SubscriberCount())

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub)
	assert.Equal(t, 0, hub.SubscriberCount())

	_, ok := <-sub.Events()
	assert.False(t, ok)

	hub.Publish(statusEvent(1))
}

func TestClose(t *testing.T) {
	hub := newTestHub(1)
	sub := hub.Subscribe()
	hub.Close()

	_, ok := <-sub.Events()
	assert.False(t, ok)

	late := hub.Subscribe()
	_, ok = <-late.Events()
	assert.False(t, ok)
	assert.NotPanics(t, func() { hub.Publish(statusEvent(2)) })
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	hub := newTestHub(1000)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := hub.Subscribe()
			hub.Unsubscribe(sub)
		}()
		go func(id int64) {
			defer wg.Done()
			hub.Publish(statusEvent(id))
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, 0, hub.SubscriberCount())
}
