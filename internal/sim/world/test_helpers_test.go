package world

import (
	"testing"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
)

func newTestWorld(t *testing.T, mutate func(*tuning.Tuning)) *World {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	tune := tuning.Defaults()
	if mutate != nil {
		mutate(&tune)
	}
	w, err := New(WorldConfig{ID: "test", Tuning: tune}, cats)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func cmd(op string, index int) protocol.CmdMsg {
	return protocol.CmdMsg{Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: op, Op: op, Index: index}
}

func withItem(c protocol.CmdMsg, item string, count int) protocol.CmdMsg {
	c.Item, c.Count = item, count
	return c
}

func mustApply(t *testing.T, w *World, c protocol.CmdMsg) Result {
	t.Helper()
	r := w.apply("p1", c)
	if !r.Accepted {
		t.Fatalf("%s@%d rejected: %s %s", c.Op, c.Index, r.Code, r.Message)
	}
	return r
}

// buildSmeltingLine places input chest (21), furnace (11) and output chest (1)
// and stocks the input chest.
func buildSmeltingLine(t *testing.T, w *World, ore, coal int) {
	t.Helper()
	mustApply(t, w, withItem(cmd(OpGive, 0), "iron_ore", ore))
	mustApply(t, w, withItem(cmd(OpGive, 0), "coal", coal))
	mustApply(t, w, withItem(cmd(protocol.OpPlace, 21), "chest", 0))
	mustApply(t, w, withItem(cmd(protocol.OpPlace, 11), "furnace", 0))
	mustApply(t, w, withItem(cmd(protocol.OpPlace, 1), "chest", 0))
	mustApply(t, w, withItem(cmd(protocol.OpChestStore, 21), "iron_ore", ore))
	mustApply(t, w, withItem(cmd(protocol.OpChestStore, 21), "coal", coal))
}

type memTicks struct{ entries []TickLogEntry }

func (m *memTicks) WriteTick(e TickLogEntry) error {
	m.entries = append(m.entries, e)
	return nil
}

type memAudit struct{ entries []AuditEntry }

func (m *memAudit) WriteAudit(e AuditEntry) error {
	m.entries = append(m.entries, e)
	return nil
}
