package ecs

import (
	"testing"

	"github.com/cindervm/cinder"

	"github.com/yohamta/donburi"
)

func TestNewDonburiBridge(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewDonburiBridge(world)
	if bridge == nil {
		t.Fatal("NewDonburiBridge returned nil")
	}
}

func TestDonburiBridgeListen(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewDonburiBridge(world)

	var received []cinder.Event
	InteractionEventType.Subscribe(world, func(w donburi.World, e cinder.Event) {
		received = append(received, e)
	})

	target := cinder.NewGraphic("clickable")
	target.On(cinder.EventClick, bridge.Listen)
	target.Dispatch(cinder.EventClick, false)

	bridge.ProcessEvents()

	if len(received) != 1 {
		t.Fatalf("expected 1 event, got %d", len(received))
	}
	if received[0].Kind != cinder.EventClick {
		t.Errorf("event Kind = %v, want EventClick", received[0].Kind)
	}
	if received[0].Target != target {
		t.Errorf("event Target = %v, want %v", received[0].Target, target)
	}
}

func TestDonburiBridgeMultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	bridge := NewDonburiBridge(world)

	var count1, count2 int
	InteractionEventType.Subscribe(world, func(w donburi.World, e cinder.Event) {
		count1++
	})
	InteractionEventType.Subscribe(world, func(w donburi.World, e cinder.Event) {
		count2++
	})

	target := cinder.NewGraphic("clickable")
	target.On(cinder.EventClick, bridge.Listen)
	target.Dispatch(cinder.EventClick, false)
	bridge.ProcessEvents()

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
