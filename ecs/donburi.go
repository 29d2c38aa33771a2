package ecs

import (
	"github.com/cindervm/cinder"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// InteractionEventType is the Donburi event type cinder events are
// published under. Subscribe to this in your ECS systems to receive
// pointer, click, and key events dispatched through a cinder.Stage.
var InteractionEventType = events.NewEventType[cinder.Event]()

// DonburiBridge forwards cinder events into a Donburi world.
type DonburiBridge struct {
	world donburi.World
}

// NewDonburiBridge creates a bridge backed by a Donburi world. Register
// its Listen method with (*cinder.DisplayObject).On for the event
// kinds you want forwarded; forwarded events are published to
// InteractionEventType and consumed with events.Subscribe/ProcessEvents.
func NewDonburiBridge(world donburi.World) *DonburiBridge {
	return &DonburiBridge{world: world}
}

// Listen publishes ev onto the bridged Donburi world. Pass this as the
// fn argument to DisplayObject.On.
func (b *DonburiBridge) Listen(ev *cinder.Event) {
	InteractionEventType.Publish(b.world, *ev)
}

// ProcessEvents runs every Donburi subscriber registered against
// InteractionEventType for events published since the last call.
func (b *DonburiBridge) ProcessEvents() {
	events.ProcessAllEvents(b.world)
}
