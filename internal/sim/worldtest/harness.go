package worldtest

import (
	"strconv"
	"testing"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
	world "idlecraft.ai/internal/sim/world"
)

// Harness drives a world through its exported, loop-free APIs:
//   - Do/Give apply one command right away via ApplyOnce
//   - Step/StepFor advance ticks via StepOnce
//   - State and the lookup helpers read StateNow
//
// It never touches world internals so tests can live outside the world package.
type Harness struct {
	T     *testing.T
	Cats  *catalogs.Catalogs
	W     *world.World
	Actor string

	seq int
}

func NewHarness(t *testing.T, mutate func(*tuning.Tuning)) *Harness {
	t.Helper()

	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune := tuning.Defaults()
	if mutate != nil {
		mutate(&tune)
	}
	w, err := world.New(world.WorldConfig{ID: "test", Tuning: tune}, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return &Harness{T: t, Cats: cats, W: w, Actor: "p1"}
}

// CmdOpt tweaks a command before it is applied.
type CmdOpt func(*protocol.CmdMsg)

func Item(item string, count int) CmdOpt {
	return func(c *protocol.CmdMsg) { c.Item, c.Count = item, count }
}

func Slot(n int) CmdOpt {
	return func(c *protocol.CmdMsg) { c.Slot = n }
}

func Side(io, side string) CmdOpt {
	return func(c *protocol.CmdMsg) { c.IO, c.Side = io, side }
}

// Do applies one command and returns its result.
func (h *Harness) Do(op string, index int, opts ...CmdOpt) world.Result {
	h.T.Helper()
	h.seq++
	c := protocol.CmdMsg{
		Type:            protocol.TypeCmd,
		ProtocolVersion: protocol.Version,
		ID:              "K" + strconv.Itoa(h.seq),
		Op:              op,
		Index:           index,
	}
	for _, o := range opts {
		o(&c)
	}
	return h.W.ApplyOnce(h.Actor, c)
}

// MustDo is Do that fails the test on rejection.
func (h *Harness) MustDo(op string, index int, opts ...CmdOpt) world.Result {
	h.T.Helper()
	res := h.Do(op, index, opts...)
	if !res.Accepted {
		h.T.Fatalf("%s@%d rejected: %s %s", op, index, res.Code, res.Message)
	}
	return res
}

func (h *Harness) Give(item string, count int) {
	h.T.Helper()
	h.MustDo(world.OpGive, 0, Item(item, count))
}

func (h *Harness) Step() (uint64, string) {
	return h.W.StepOnce(nil)
}

func (h *Harness) StepFor(n int) {
	for i := 0; i < n; i++ {
		h.W.StepOnce(nil)
	}
}

func (h *Harness) State() protocol.StateMsg {
	return h.W.StateNow()
}

func (h *Harness) Machine(index int) (protocol.MachineView, bool) {
	for _, m := range h.State().Machines {
		if m.Index == index {
			return m, true
		}
	}
	return protocol.MachineView{}, false
}

// ChestCount sums item across the slots of the chest at index.
func (h *Harness) ChestCount(index int, item string) int {
	h.T.Helper()
	m, ok := h.Machine(index)
	if !ok {
		h.T.Fatalf("no machine at %d", index)
	}
	n := 0
	for _, s := range m.Slots {
		if s != nil && s.Item == item {
			n += s.Count
		}
	}
	return n
}

func (h *Harness) InvCount(item string) int {
	n := 0
	for _, s := range h.State().Inventory {
		if s != nil && s.Item == item {
			n += s.Count
		}
	}
	return n
}
