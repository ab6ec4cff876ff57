package worldtest

import (
	"testing"

	"idlecraft.ai/internal/protocol"
)

func TestDeterminism_FixedCommandsSameDigest(t *testing.T) {
	h1 := NewHarness(t, nil)
	h2 := NewHarness(t, nil)

	script := func(h *Harness, tick int) {
		switch tick {
		case 0:
			h.Give("iron_ore", 12)
			h.Give("coal", 6)
			h.Do(protocol.OpPlace, 21, Item("chest", 0))
			h.Do(protocol.OpPlace, 11, Item("furnace", 0))
			h.Do(protocol.OpPlace, 1, Item("chest", 0))
		case 1:
			h.Do(protocol.OpChestStore, 21, Item("iron_ore", 12))
			h.Do(protocol.OpChestStore, 21, Item("coal", 6))
		case 20:
			h.Do(protocol.OpConfigure, 11, Side("output", "right"))
		case 30:
			h.Do(protocol.OpPickup, 55) // empty cell, rejected
		case 40:
			h.Do(protocol.OpConfigure, 11, Side("output", "top"))
		}
	}

	for i := 0; i < 120; i++ {
		script(h1, i)
		script(h2, i)
		t1, d1 := h1.Step()
		t2, d2 := h2.Step()
		if t1 != uint64(i) || t2 != uint64(i) {
			t.Fatalf("tick mismatch: got h1=%d h2=%d want %d", t1, t2, i)
		}
		if d1 != d2 {
			t.Fatalf("digest mismatch at tick %d: %s vs %s", i, d1, d2)
		}
	}
	if h1.ChestCount(1, "iron_ingot") == 0 {
		t.Fatalf("line produced nothing")
	}
}
