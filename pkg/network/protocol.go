package network

// Envelope is the JSON frame for every text message on the feed. Snapshot
// frames travel separately as gzip-compressed binary messages.
type Envelope struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Envelope types sent by the server.
const (
	MsgStaticMap = "static_map"
	MsgNotice    = "notice"
	MsgError     = "error"
)

// TileRef addresses a tile in a command payload
type TileRef struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// Command is the inbound message vocabulary. Type selects the operation;
// the remaining fields are read per type and ignored otherwise.
type Command struct {
	Type    string `json:"type"`
	Faction string `json:"faction"`

	// move
	UnitIDs []uint64 `json:"unitIds,omitempty"`

	// ability
	UnitID     uint64   `json:"unitId,omitempty"`
	Ability    string   `json:"ability,omitempty"`
	TargetUnit uint64   `json:"targetUnit,omitempty"`
	Tile       *TileRef `json:"tile,omitempty"`

	// build
	Structure string `json:"structure,omitempty"`

	// produce
	StructureID uint64 `json:"structureId,omitempty"`
	Item        string `json:"item,omitempty"`

	// set_resources / set_compute
	Amount int `json:"amount,omitempty"`
}

// Notice is a push notification derived from the simulation event bus
type Notice struct {
	Event      string `json:"event"`
	EntityID   uint64 `json:"entityId"`
	Faction    string `json:"faction,omitempty"`
	OldFaction string `json:"oldFaction,omitempty"`
}

// CommandError reports a rejected command back to the issuing client only
type CommandError struct {
	Command string `json:"command"`
	Reason  string `json:"reason"`
}
