package indexdb

import (
	"context"
	"path/filepath"
	"testing"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
	"idlecraft.ai/internal/sim/world"
)

func TestSQLiteIndex_TicksCommandsAudits(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "index", "world.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	cmd := protocol.CmdMsg{Type: protocol.TypeCmd, ID: "c1", Op: protocol.OpPlace, Index: 11, Item: "furnace"}
	_ = s.WriteTick(world.TickLogEntry{Tick: 7, Digest: "abc", Events: 2, Commands: []world.RecordedCommand{{Actor: "p1", Cmd: cmd}}})
	peer := 21
	_ = s.WriteAudit(world.AuditEntry{Tick: 7, Actor: "p1", Action: "PLACE", Index: 11, Item: "furnace"})
	_ = s.WriteAudit(world.AuditEntry{Tick: 8, Actor: "furnace", Action: "RESTOCK", Index: 11, Item: "iron_ore", Count: 1, Peer: &peer})
	_ = s.WriteAudit(world.AuditEntry{Tick: 8, Actor: "chest", Action: "PLACE", Index: 21})

	if err := s.Sync(context.Background()); err != nil {
		t.Fatalf("Sync: %v", err)
	}

	d, ok, err := s.TickDigest(context.Background(), 7)
	if err != nil || !ok || d != "abc" {
		t.Fatalf("TickDigest=%q,%v,%v", d, ok, err)
	}
	if _, ok, _ := s.TickDigest(context.Background(), 99); ok {
		t.Fatalf("unexpected digest for tick 99")
	}

	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM commands WHERE actor = 'p1' AND op = 'place' AND cell = 11`).Scan(&n); err != nil || n != 1 {
		t.Fatalf("commands=%d err=%v", n, err)
	}

	got, err := s.CellAudits(context.Background(), 11, 0, 10)
	if err != nil {
		t.Fatalf("CellAudits: %v", err)
	}
	if len(got) != 2 || got[0].Action != "PLACE" || got[1].Action != "RESTOCK" {
		t.Fatalf("audits=%+v", got)
	}
	if got[1].Peer == nil || *got[1].Peer != 21 {
		t.Fatalf("peer=%v", got[1].Peer)
	}
	if got, _ := s.CellAudits(context.Background(), 11, 8, 10); len(got) != 1 {
		t.Fatalf("since filter: %+v", got)
	}
}

func TestSQLiteIndex_UpsertCatalogs(t *testing.T) {
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "world.sqlite"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	defer s.Close()

	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := s.UpsertCatalogs("../../../configs", cats, tuning.Defaults()); err != nil {
		t.Fatalf("UpsertCatalogs: %v", err)
	}
	var digest string
	if err := s.db.QueryRow(`SELECT digest FROM catalogs WHERE name = 'items_defs'`).Scan(&digest); err != nil {
		t.Fatalf("items_defs row: %v", err)
	}
	if digest != cats.Items.Digest {
		t.Fatalf("digest=%s want %s", digest, cats.Items.Digest)
	}
	var n int
	_ = s.db.QueryRow(`SELECT COUNT(*) FROM catalogs`).Scan(&n)
	if n != 4 {
		t.Fatalf("catalog rows=%d want 4", n)
	}
}
