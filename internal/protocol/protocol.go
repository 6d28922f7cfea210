package protocol

import "encoding/json"

// Inbound (server -> client) message types.
const (
	MsgPlayers       = "players"
	MsgNewPlayer     = "new_player"
	MsgCreated       = "created"
	MsgMove          = "move"
	MsgNameChanged   = "name_changed"
	MsgPlayerDeleted = "player_deleted"
	MsgHealthChange  = "health_change"
	MsgSpawnBullet   = "spawn_bullet"
	MsgSpawnMedkit   = "spawn_medkit"
)

// Outbound (client -> server) message types. Effect messages
// (move, health_change, spawn_*) share their inbound names because
// the server relays them back to every client, sender included.
const (
	MsgGetPlayers    = "get_players"
	MsgCreate        = "create"
	MsgChangeName    = "change_name"
	MsgControlPlayer = "control_player"
	MsgDeletePlayer  = "delete_player"
)

// Envelope is the wire frame for every channel message.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// PlayerSnapshot is the full visible state of one player avatar.
type PlayerSnapshot struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Color  string `json:"color"`
	Health int    `json:"health"`
}

// MovePayload carries an authoritative position for one player.
type MovePayload struct {
	ID int `json:"id"`
	X  int `json:"x"`
	Y  int `json:"y"`
}

type CreatePayload struct {
	Name      string `json:"name"`
	AccountID int    `json:"accountId"`
}

type ChangeNamePayload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type ControlPlayerPayload struct {
	PlayerID  int `json:"playerId"`
	AccountID int `json:"accountId"`
}

type DeletePlayerPayload struct {
	ID int `json:"id"`
}

// HealthChangePayload reflects a damage or heal outcome. Kind is
// "damage" or "heal" and only drives client-side visuals.
type HealthChangePayload struct {
	PlayerID int    `json:"playerId"`
	Health   int    `json:"health"`
	Kind     string `json:"type"`
}

// SpawnPayload is a fire intent: a projectile from the center of
// player FromID toward the world point (TargetX, TargetY).
type SpawnPayload struct {
	FromID  int `json:"fromId"`
	TargetX int `json:"targetX"`
	TargetY int `json:"targetY"`
}

// DrawingPoint is one stamped dot of the shared canvas, in world
// coordinates. Persisted over the HTTP side channel, not the socket.
type DrawingPoint struct {
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Color    string `json:"color"`
	Size     int    `json:"size"`
	PlayerID int    `json:"player_id"`
}
