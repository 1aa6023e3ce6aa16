package observerproto

// Version is the observer protocol version (separate from the client WS protocol).
const Version = "0.1"

const (
	TypeSubscribe = "SUBSCRIBE"
	TypeMirror    = "MIRROR"
)

// Client -> Server. First message on the observer WS connection, and can be re-sent to update settings.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`

	// Optional: only stream agents of these growth kinds. Empty means all.
	Kinds []string `json:"kinds,omitempty"`
	// Optional: skip events in MIRROR messages.
	NoEvents bool `json:"no_events,omitempty"`
}

// HTTP response for GET /admin/v1/observer/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string      `json:"protocol_version"`
	WorldID         string      `json:"world_id"`
	Tick            uint64      `json:"tick"`
	WorldParams     WorldParams `json:"world_params"`
	BlockPalette    []string    `json:"block_palette"`
	ItemPalette     []string    `json:"item_palette"`
	AgentCount      int         `json:"agent_count"`
}

type WorldParams struct {
	TickRateHz int    `json:"tick_rate_hz"`
	ChunkSize  [3]int `json:"chunk_size"`
	Height     int    `json:"height"`
	Seed       int64  `json:"seed"`
	BoundaryR  int    `json:"boundary_r"`
}

// Server -> Client. Sent whenever a new tick replica is published.
type MirrorMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	WorldID         string        `json:"world_id"`
	Tick            uint64        `json:"tick"`
	Agents          []AgentState  `json:"agents"`
	Events          []GrowthEvent `json:"events,omitempty"`
}

type AgentState struct {
	ID    string     `json:"id"`
	Kind  string     `json:"kind"`
	Item  string     `json:"item"`
	Count int        `json:"count"`
	Pos   [3]float64 `json:"pos"`

	Mode      string  `json:"mode"`
	Progress  int     `json:"progress"`
	Threshold int     `json:"threshold"`
	Fraction  float64 `json:"fraction"`
	Charging  bool    `json:"charging"`

	Props *Props `json:"props,omitempty"`
}

type Props struct {
	Size         int `json:"size"`
	DisplaySize  int `json:"display_size"`
	Purity       int `json:"purity"`
	Cut          int `json:"cut"`
	Fracturation int `json:"fracturation"`
}

type GrowthEvent struct {
	Tick        uint64 `json:"tick"`
	Kind        string `json:"kind"`
	AgentID     string `json:"agent_id"`
	Item        string `json:"item"`
	Pos         [3]int `json:"pos"`
	CompanionID string `json:"companion_id,omitempty"`
	SpawnedID   string `json:"spawned_id,omitempty"`
}
