package main

import (
	"path/filepath"
	"strings"
	"testing"

	persistlog "idlecraft.ai/internal/persistence/log"
	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
	"idlecraft.ai/internal/sim/world"
)

func newWorld(t *testing.T) *world.World {
	t.Helper()
	cats, err := catalogs.Load(filepath.Join("..", "..", "configs"))
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	w, err := world.New(world.WorldConfig{ID: "test", Tuning: tuning.Defaults()}, cats)
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

func cmd(op string, index int, item string) world.RecordedCommand {
	return world.RecordedCommand{Actor: "p1", Cmd: protocol.CmdMsg{
		Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: op, Op: op, Index: index, Item: item,
	}}
}

// record runs a short session and returns the events dir.
func record(t *testing.T, digestTamper func(*world.TickLogEntry)) string {
	t.Helper()
	dir := t.TempDir()
	w := newWorld(t)
	tl := persistlog.NewTickLogger(dir)
	w.SetTickLogger(tamperLogger{next: tl, tamper: digestTamper})

	script := map[int][]world.RecordedCommand{
		0: {cmd(protocol.OpPlace, 21, "chest"), cmd(protocol.OpPlace, 11, "furnace")},
		2: {{Actor: "admin", Cmd: protocol.CmdMsg{Type: protocol.TypeCmd, ProtocolVersion: protocol.Version, ID: "g", Op: world.OpGive, Item: "coal", Count: 4}}},
		3: {cmd(protocol.OpInsert, 11, "coal")},
		5: {cmd(protocol.OpPickup, 40, "")}, // rejected, still recorded
	}
	for i := 0; i < 12; i++ {
		w.StepOnce(script[i])
	}
	if err := tl.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	return filepath.Join(dir, "events")
}

type tamperLogger struct {
	next   world.TickLogger
	tamper func(*world.TickLogEntry)
}

func (l tamperLogger) WriteTick(e world.TickLogEntry) error {
	if l.tamper != nil {
		l.tamper(&e)
	}
	return l.next.WriteTick(e)
}

func TestVerify_ReproducesRecordedRun(t *testing.T) {
	dir := record(t, nil)
	files, err := persistlog.ListFiles(dir, "events")
	if err != nil || len(files) == 0 {
		t.Fatalf("files=%v err=%v", files, err)
	}
	checked, err := verify(newWorld(t), files, 0)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if checked != 12 {
		t.Fatalf("checked=%d want 12", checked)
	}

	checked, err = verify(newWorld(t), files, 4)
	if err != nil || checked != 5 {
		t.Fatalf("to_tick: checked=%d err=%v", checked, err)
	}
}

func TestVerify_ReportsFirstMismatch(t *testing.T) {
	dir := record(t, func(e *world.TickLogEntry) {
		if e.Tick == 7 {
			e.Digest = "bogus"
		}
	})
	files, _ := persistlog.ListFiles(dir, "events")
	checked, err := verify(newWorld(t), files, 0)
	if err == nil || !strings.Contains(err.Error(), "tick 7") {
		t.Fatalf("err=%v", err)
	}
	if checked != 7 {
		t.Fatalf("checked=%d want 7", checked)
	}
}
