package eventbus

import "testing"

func TestBusPublishSubscribe(t *testing.T) {
	bus := New[ControlEvent]()
	ch := bus.Subscribe()
	bus.Publish(TopologyCommand{Source: "SolarFarm", Target: "Grid", Enable: false})
	e := <-ch
	cmd, ok := e.(TopologyCommand)
	if !ok {
		t.Fatalf("expected TopologyCommand got %T", e)
	}
	if cmd.Source != "SolarFarm" || cmd.Enable {
		t.Fatalf("unexpected command %+v", cmd)
	}
	bus.Unsubscribe(ch)
}

func TestBusFanOut(t *testing.T) {
	bus := New[ControlEvent]()
	ch1 := bus.Subscribe()
	ch2 := bus.Subscribe()
	bus.Publish(RoutingUpdate{Fractions: map[string]float64{"solar_to_houses": 0.5}})
	for _, ch := range []<-chan ControlEvent{ch1, ch2} {
		e := <-ch
		if _, ok := e.(RoutingUpdate); !ok {
			t.Fatalf("expected RoutingUpdate got %T", e)
		}
	}
}

func TestBusNonBlockingPublish(t *testing.T) {
	bus := New[int]()
	bus.Subscribe()
	// Overfill the subscriber buffer; Publish must not stall.
	for i := 0; i < 100; i++ {
		bus.Publish(i)
	}
}

func TestBusClose(t *testing.T) {
	bus := New[int]()
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

func TestBusUnsubscribeAfterClose(t *testing.T) {
	bus := New[int]()
	ch := bus.Subscribe()
	bus.Close()
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("panic on Unsubscribe after Close: %v", r)
		}
	}()
	bus.Unsubscribe(ch)
}
