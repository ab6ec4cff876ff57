package world

import "time"

// WorldMetrics is a read-only view of the loop's runtime signals. It is
// written by the loop goroutine and read from HTTP handlers.
type WorldMetrics struct {
	Tick        uint64         `json:"tick"`
	StepMS      float64        `json:"step_ms"`
	Machines    map[string]int `json:"machines"`
	Subscribers int            `json:"subscribers"`

	CommandsTotal    uint64 `json:"commands_total"`
	CommandsRejected uint64 `json:"commands_rejected"`
	EventsTotal      uint64 `json:"events_total"`

	QueueDepths QueueDepths `json:"queue_depths"`
}

type QueueDepths struct {
	Commands int `json:"commands"`
	State    int `json:"state"`
	Attach   int `json:"attach"`
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	m, _ := w.metrics.Load().(WorldMetrics)
	return m
}

func (w *World) storeMetrics(step time.Duration) {
	machines := map[string]int{}
	for k, n := range w.factory.Grid().CountByKind() {
		machines[string(k)] = n
	}
	w.metrics.Store(WorldMetrics{
		Tick:             w.tick.Load(),
		StepMS:           float64(step.Microseconds()) / 1000.0,
		Machines:         machines,
		Subscribers:      len(w.subscribers),
		CommandsTotal:    w.cmdTotal,
		CommandsRejected: w.cmdRejected,
		EventsTotal:      w.eventTotal,
		QueueDepths: QueueDepths{
			Commands: len(w.cmds),
			State:    len(w.stateReq),
			Attach:   len(w.attach),
		},
	})
}
