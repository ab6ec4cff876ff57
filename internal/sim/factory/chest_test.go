package factory

import "testing"

func TestDeposit_FillsPartialThenEmpty(t *testing.T) {
	c := newChest(3)
	c.Slots[1] = &Stack{Item: "coal", Count: 60}
	if !c.Deposit("coal", 10) {
		t.Fatalf("deposit failed")
	}
	if c.Slots[1].Count != 64 {
		t.Fatalf("partial stack=%d want 64", c.Slots[1].Count)
	}
	if c.Slots[0] == nil || c.Slots[0].Item != "coal" || c.Slots[0].Count != 6 {
		t.Fatalf("overflow slot=%+v", c.Slots[0])
	}
}

func TestDeposit_AllOrNothing(t *testing.T) {
	c := newChest(2)
	c.Slots[0] = &Stack{Item: "wood", Count: 64}
	c.Slots[1] = &Stack{Item: "coal", Count: 10}
	if c.Deposit("coal", 60) {
		t.Fatalf("deposit beyond room succeeded")
	}
	if c.Slots[1].Count != 10 || c.Total("wood") != 64 {
		t.Fatalf("failed deposit mutated chest: %+v %+v", c.Slots[0], c.Slots[1])
	}
	if !c.Deposit("coal", 54) {
		t.Fatalf("deposit into exact room failed")
	}
}

func TestDeposit_NeverExceedsStackCap(t *testing.T) {
	c := newChest(4)
	for i := 0; i < 10; i++ {
		c.Deposit("iron_ore", 37)
	}
	total := 0
	for _, s := range c.Slots {
		if s == nil {
			continue
		}
		if s.Count > MaxStack {
			t.Fatalf("slot count %d > %d", s.Count, MaxStack)
		}
		total += s.Count
	}
	// 6 deposits of 37 fit (222 <= 256); the 7th does not.
	if total != 6*37 {
		t.Fatalf("total=%d want %d", total, 6*37)
	}
}

func TestWithdraw_SingleSlotPolicy(t *testing.T) {
	c := newChest(4)
	c.Slots[0] = &Stack{Item: "iron_ore", Count: 40}
	c.Slots[2] = &Stack{Item: "iron_ore", Count: 40}

	if c.Withdraw("iron_ore", 50) {
		t.Fatalf("withdraw across slots should fail")
	}
	if c.Slots[0].Count != 40 || c.Slots[2].Count != 40 {
		t.Fatalf("failed withdraw mutated chest")
	}
	if !c.Withdraw("iron_ore", 40) {
		t.Fatalf("withdraw 40 failed")
	}
	if c.Slots[0] != nil {
		t.Fatalf("emptied slot should be nil, got %+v", c.Slots[0])
	}
	if c.Total("iron_ore") != 40 {
		t.Fatalf("total=%d want 40", c.Total("iron_ore"))
	}
}

func TestGridChestPrimitives_NonChest(t *testing.T) {
	f := newTestFactory(testRules())
	mustPut(t, f, 3, &Furnace{})
	if f.grid.DepositToChest(3, "coal", 1) {
		t.Fatalf("deposit into furnace succeeded")
	}
	if f.grid.WithdrawFromChest(4, "coal", 1) {
		t.Fatalf("withdraw from empty cell succeeded")
	}
	if f.grid.DepositToChest(NoNeighbor, "coal", 1) {
		t.Fatalf("deposit at NoNeighbor succeeded")
	}
}

func TestWithdrawThenDeposit_RestoresTotal(t *testing.T) {
	cases := []struct {
		name  string
		slots []*Stack
		n     int
	}{
		{"partial stack", []*Stack{{Item: "coal", Count: 20}, nil}, 5},
		{"whole partial stack", []*Stack{{Item: "coal", Count: 20}, nil}, 20},
		{"full stack", []*Stack{{Item: "coal", Count: 64}, {Item: "wood", Count: 64}}, 64},
		{"full stack part", []*Stack{{Item: "coal", Count: 64}, {Item: "wood", Count: 64}}, 30},
		{"split stacks", []*Stack{{Item: "coal", Count: 40}, {Item: "wood", Count: 3}, {Item: "coal", Count: 40}}, 40},
		{"mixed neighbours", []*Stack{{Item: "wood", Count: 10}, {Item: "coal", Count: 63}, {Item: "coal", Count: 1}}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newChest(len(tc.slots))
			for i, s := range tc.slots {
				if s != nil {
					cp := *s
					c.Slots[i] = &cp
				}
			}
			coal, wood := c.Total("coal"), c.Total("wood")

			if !c.Withdraw("coal", tc.n) {
				t.Fatalf("withdraw %d failed", tc.n)
			}
			if c.Total("coal") != coal-tc.n {
				t.Fatalf("after withdraw total=%d want %d", c.Total("coal"), coal-tc.n)
			}
			if !c.Deposit("coal", tc.n) {
				t.Fatalf("deposit %d failed", tc.n)
			}
			if c.Total("coal") != coal || c.Total("wood") != wood {
				t.Fatalf("coal=%d wood=%d want %d %d", c.Total("coal"), c.Total("wood"), coal, wood)
			}
			for i, s := range c.Slots {
				if s != nil && (s.Count > MaxStack || s.Count <= 0) {
					t.Fatalf("slot %d count=%d", i, s.Count)
				}
			}
		})
	}
}
