package notify

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestPublishInSubscriptionOrder(t *testing.T) {
	b := New[bool](nil)

	var got []int
	b.Subscribe(func(bool) { got = append(got, 1) })
	b.Subscribe(func(bool) { got = append(got, 2) })
	b.Subscribe(func(bool) { got = append(got, 3) })

	b.Publish(true)

	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("unexpected delivery order %v", got)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := New[bool](nil)

	calls := 0
	id := b.Subscribe(func(bool) { calls++ })
	b.Publish(true)

	if !b.Unsubscribe(id) {
		t.Fatal("expected subscriber to be found")
	}
	if b.Unsubscribe(id) {
		t.Fatal("second unsubscribe must report false")
	}
	b.Publish(false)

	if calls != 1 {
		t.Fatalf("expected 1 call, got %d", calls)
	}
}

func TestNilListenerIgnored(t *testing.T) {
	b := New[bool](nil)
	if id := b.Subscribe(nil); id != 0 {
		t.Fatalf("expected id 0 for nil listener, got %d", id)
	}
	if b.Len() != 0 {
		t.Fatal("nil listener must not be registered")
	}
}

func TestListenerMayUnsubscribeDuringPublish(t *testing.T) {
	b := New[bool](nil)

	var id uint64
	calls := 0
	id = b.Subscribe(func(bool) {
		calls++
		b.Unsubscribe(id)
	})
	second := 0
	b.Subscribe(func(bool) { second++ })

	b.Publish(true)
	b.Publish(true)

	if calls != 1 || second != 2 {
		t.Fatalf("unexpected calls first=%d second=%d", calls, second)
	}
}

func TestChannelSubscriberDropsWhenFull(t *testing.T) {
	var hooked atomic.Int64
	b := New[bool](func() { hooked.Add(1) })

	id, ch := b.SubscribeChan(1)
	b.Publish(true)
	b.Publish(false)

	if v := <-ch; v != true {
		t.Fatalf("expected first value true, got %v", v)
	}
	if b.Dropped() != 1 || hooked.Load() != 1 {
		t.Fatalf("expected one drop, got dropped=%d hooked=%d", b.Dropped(), hooked.Load())
	}

	b.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Fatal("channel must be closed after unsubscribe")
	}
	b.Publish(true)
}

func TestCloseClosesChannels(t *testing.T) {
	b := New[bool](nil)
	_, ch := b.SubscribeChan(4)
	b.Subscribe(func(bool) {})

	b.Close()

	if b.Len() != 0 {
		t.Fatalf("expected no subscribers after close, got %d", b.Len())
	}
	if _, ok := <-ch; ok {
		t.Fatal("channel must be closed")
	}
}

func TestConcurrentPublishAndUnsubscribe(t *testing.T) {
	b := New[bool](nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		id, ch := b.SubscribeChan(1)
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range ch {
			}
		}()
		go func(id uint64) {
			defer wg.Done()
			b.Publish(true)
			b.Unsubscribe(id)
		}(id)
	}
	wg.Wait()
}
