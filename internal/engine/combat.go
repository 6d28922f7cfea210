package engine

import (
	"log"

	"paintbrawl/internal/protocol"
)

// Resolver applies damage and heal deltas and handles death. Only the
// client that controls a projectile's origin runs the resolver for its
// hits; everyone else waits for the resulting health_change broadcast.
type Resolver struct {
	reg  *Registry
	send Sender

	// onDeath cascades removal: position state, mode release, control
	// release with notification. Wired by the engine.
	onDeath func(id int)
}

func NewResolver(reg *Registry, send Sender, onDeath func(id int)) *Resolver {
	return &Resolver{reg: reg, send: send, onDeath: onDeath}
}

// ApplyDamage subtracts health from the target and broadcasts the
// outcome. On death the entity is removed and a single delete_player
// intent asks the server to persist the removal.
func (cr *Resolver) ApplyDamage(id, amount int) {
	e := cr.reg.Get(id)
	if e == nil {
		log.Printf("combat: damage for unknown player %d dropped", id)
		return
	}

	e.Health -= amount
	if e.Health > 0 {
		cr.broadcastHealth(id, e.Health, "damage")
		return
	}

	e.Health = 0
	cr.onDeath(id)
	if err := cr.send.Send(protocol.MsgDeletePlayer, protocol.DeletePlayerPayload{ID: id}); err != nil {
		log.Printf("combat: delete_player for %d: %v", id, err)
	}
}

// ApplyHealing adds health up to the cap and broadcasts the outcome.
// Healing a dead or absent player is a no-op: removal is final.
func (cr *Resolver) ApplyHealing(id, amount int) {
	e := cr.reg.Get(id)
	if e == nil {
		log.Printf("combat: heal for unknown player %d dropped", id)
		return
	}

	e.Health += amount
	if e.Health > MaxHealth {
		e.Health = MaxHealth
	}
	cr.broadcastHealth(id, e.Health, "heal")
}

func (cr *Resolver) broadcastHealth(id, health int, kind string) {
	payload := protocol.HealthChangePayload{PlayerID: id, Health: health, Kind: kind}
	if err := cr.send.Send(protocol.MsgHealthChange, payload); err != nil {
		log.Printf("combat: health_change for %d: %v", id, err)
	}
}
