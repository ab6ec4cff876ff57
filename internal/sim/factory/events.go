package factory

// Machine event actions reported by Step.
const (
	EventOutputPush    = "OUTPUT_PUSH"
	EventJobStart      = "JOB_START"
	EventJobDone       = "JOB_DONE"
	EventFuelExhausted = "FUEL_EXHAUSTED"
	EventRefuel        = "REFUEL"
	EventRestock       = "RESTOCK"
)

type Event struct {
	Index  int    `json:"index"`
	Kind   Kind   `json:"kind"`
	Action string `json:"action"`
	Item   string `json:"item,omitempty"`
	Count  int    `json:"count,omitempty"`
	// Peer is the neighboring chest involved, or NoNeighbor.
	Peer int `json:"peer"`
}
