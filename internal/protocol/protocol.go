package protocol

import "encoding/json"

const Version = "1.0"

// Message types.
const (
	TypeHello   = "HELLO"
	TypeWelcome = "WELCOME"
	TypeCmd     = "CMD"
	TypeAck     = "ACK"
	TypeState   = "STATE"
)

// CMD ops.
const (
	OpPlace      = "place"
	OpPickup     = "pickup"
	OpConfigure  = "configure"
	OpInsert     = "insert"
	OpTakeOutput = "take_output"
	OpChestStore = "chest_store"
	OpChestTake  = "chest_take"
)

// BaseMessage lets us route unknown JSON messages by type.
type BaseMessage struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version,omitempty"`
}

func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}
