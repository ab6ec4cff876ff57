package main

import (
	"strings"
	"testing"

	"idlecraft.ai/internal/protocol"
)

func TestParsePlan(t *testing.T) {
	cmds, err := parsePlan("chest@21, furnace@11 ,chest@1")
	if err != nil {
		t.Fatalf("parsePlan: %v", err)
	}
	if len(cmds) != 3 {
		t.Fatalf("len=%d", len(cmds))
	}
	if c := cmds[1]; c.Op != protocol.OpPlace || c.Item != "furnace" || c.Index != 11 || c.ID == cmds[0].ID {
		t.Fatalf("cmd=%+v", c)
	}

	for _, bad := range []string{"chest", "chest@x", "chest@-1"} {
		if _, err := parsePlan(bad); err == nil {
			t.Fatalf("parsePlan(%q) accepted", bad)
		}
	}
}

func TestSummarize(t *testing.T) {
	s := protocol.StateMsg{Tick: 10, Machines: []protocol.MachineView{
		{Index: 11, Kind: "furnace", Active: true, JobItem: "iron_ore", Progress: 2, RecipeTime: 5, FuelBuffer: 6, MaxFuelBuffer: 100},
		{Index: 21, Kind: "chest"},
	}}
	got := summarize(s)
	if !strings.Contains(got, "machines=2") || !strings.Contains(got, "furnace@11[iron_ore 2/5 fuel=6/100]") || strings.Contains(got, "chest@21") {
		t.Fatalf("summarize=%q", got)
	}
}
