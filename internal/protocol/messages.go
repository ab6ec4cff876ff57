package protocol

// HELLO (client -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	PlayerName      string `json:"player_name,omitempty"`
}

// WELCOME (server -> client)
type WelcomeMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	SessionID       string         `json:"session_id"`
	WorldID         string         `json:"world_id"`
	TickIntervalMs  int            `json:"tick_interval_ms"`
	Grid            GridParams     `json:"grid"`
	Catalogs        CatalogDigests `json:"catalogs"`
}

type GridParams struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type CatalogDigests struct {
	ItemsDigest   string `json:"items_digest"`
	RecipesDigest string `json:"recipes_digest"`
}

// CMD (client -> server). Fields beyond op and index are op-specific.
type CmdMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ID              string `json:"id"`
	Op              string `json:"op"`
	Index           int    `json:"index"`
	Item            string `json:"item,omitempty"`
	Count           int    `json:"count,omitempty"`
	Slot            int    `json:"slot"`
	IO              string `json:"io,omitempty"`   // "input" | "output"
	Side            string `json:"side,omitempty"` // "top" | "bottom" | "left" | "right"
}

type AckMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	AckFor          string      `json:"ack_for"`
	Accepted        bool        `json:"accepted"`
	Code            string      `json:"code,omitempty"`
	Message         string      `json:"message,omitempty"`
	ServerTick      uint64      `json:"server_tick"`
	Items           []StackView `json:"items,omitempty"`
}

// STATE (server -> client), pushed after every tick.
type StateMsg struct {
	Type            string        `json:"type"`
	ProtocolVersion string        `json:"protocol_version"`
	Tick            uint64        `json:"tick"`
	Grid            GridParams    `json:"grid"`
	Machines        []MachineView `json:"machines"`
	Inventory       []*StackView  `json:"inventory"`
	Digest          string        `json:"digest"`
}

type StackView struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// MachineView flattens every machine variant. Fields that do not apply to a
// kind are left zero.
type MachineView struct {
	Index      int    `json:"index"`
	Kind       string `json:"kind"`
	InputSide  string `json:"input_side,omitempty"`
	OutputSide string `json:"output_side,omitempty"`

	FuelBuffer    int `json:"fuel_buffer,omitempty"`
	MaxFuelBuffer int `json:"max_fuel_buffer,omitempty"`

	Active     bool   `json:"active,omitempty"`
	JobItem    string `json:"job_item,omitempty"`
	Progress   int    `json:"progress,omitempty"`
	RecipeTime int    `json:"recipe_time,omitempty"`

	Input  *StackView   `json:"input,omitempty"`
	Output *StackView   `json:"output,omitempty"`
	Slots  []*StackView `json:"slots,omitempty"`
}
