package eventbus

import "testing"

func TestTypedBusPublishSubscribe(t *testing.T) {
	bus := NewTyped[string]()
	ch := bus.Subscribe()
	bus.Publish("hello")
	v := <-ch
	if v != "hello" {
		t.Fatalf("expected hello got %v", v)
	}
	bus.Unsubscribe(ch)
}

func TestTypedBusClose(t *testing.T) {
	bus := NewTyped[int]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Close()
	if _, ok := <-ch1; ok {
		t.Fatalf("expected ch1 closed")
	}
	if _, ok := <-ch2; ok {
		t.Fatalf("expected ch2 closed")
	}
}

func TestTypedBusUnsubscribeAfterClose(t *testing.T) {
	bus := NewTyped[float64]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}

func TestTypedBusBufferedAndDropped(t *testing.T) {
	bus := NewTyped[int]()
	big := bus.SubscribeBuffered(3)
	small := bus.SubscribeBuffered(1)
	for i := 0; i < 3; i++ {
		bus.Publish(i)
	}
	for i := 0; i < 3; i++ {
		if v := <-big; v != i {
			t.Fatalf("expected %d got %d", i, v)
		}
	}
	if v := <-small; v != 0 {
		t.Fatalf("expected 0 got %d", v)
	}
	if d := bus.Dropped(); d != 2 {
		t.Fatalf("expected 2 dropped, got %d", d)
	}
	bus.Close()
	bus.Publish(9)
	if _, ok := <-big; ok {
		t.Fatalf("expected closed channel")
	}
}

func TestTypedBusSubscribeAfterClose(t *testing.T) {
	bus := NewTyped[string]()
	bus.Close()
	if _, ok := <-bus.Subscribe(); ok {
		t.Fatalf("expected closed channel")
	}
}
