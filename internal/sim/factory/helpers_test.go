package factory

import "testing"

type fakeHolder struct {
	items map[string]int
	limit int // total units the holder can carry; 0 means unlimited
}

func newHolder(items map[string]int) *fakeHolder {
	if items == nil {
		items = map[string]int{}
	}
	return &fakeHolder{items: items}
}

func (h *fakeHolder) total() int {
	n := 0
	for _, c := range h.items {
		n += c
	}
	return n
}

func (h *fakeHolder) Count(item string) int { return h.items[item] }

func (h *fakeHolder) Add(item string, n int) int {
	if h.limit > 0 {
		n = min(n, h.limit-h.total())
	}
	if n <= 0 {
		return 0
	}
	h.items[item] += n
	return n
}

func (h *fakeHolder) Remove(item string, n int) bool {
	if h.items[item] < n {
		return false
	}
	h.items[item] -= n
	if h.items[item] == 0 {
		delete(h.items, item)
	}
	return true
}

func (h *fakeHolder) CanAdd(stacks []Stack) bool {
	if h.limit == 0 {
		return true
	}
	n := 0
	for _, s := range stacks {
		n += s.Count
	}
	return h.total()+n <= h.limit
}

func testRules() Rules {
	return Rules{
		Smelting: NewRecipeBook(
			RecipeEntry{Input: "iron_ore", Recipe: Recipe{Output: "iron_ingot", Time: 5}},
			RecipeEntry{Input: "brick_mixture", Recipe: Recipe{Output: "brick", Time: 3}},
		),
		Coking: NewRecipeBook(
			RecipeEntry{Input: "wood", Recipe: Recipe{Output: "coal_coke", Time: 10}},
		),
		Blasting: NewRecipeBook(
			RecipeEntry{Input: "iron_ingot", Recipe: Recipe{Output: "steel_ingot", Time: 20}},
		),
		Fuel:                map[string]int{"coal": 8, "coal_coke": 16},
		FurnaceFuels:        []string{"coal"},
		BlastFuels:          []string{"coal_coke"},
		BlastFurnaceEnabled: true,
		MachineItems: map[string]Kind{
			"furnace":        KindFurnace,
			"coke_oven":      KindCokeOven,
			"blast_furnace":  KindBlastFurnace,
			"chest":          KindChest,
			"crafting_bench": KindCraftingBench,
		},
		ConfigTool: "wrench",
	}
}

func testDefaults() Defaults {
	return Defaults{
		InputSide:      Bottom,
		OutputSide:     Top,
		FurnaceMaxFuel: 100,
		BlastMaxFuel:   100,
		ChestCapacity:  16,
	}
}

func newTestFactory(rules Rules) *Factory {
	return New(Geometry{Width: 10, Height: 10}, rules, testDefaults())
}

func mustPut(t *testing.T, f *Factory, index int, m Machine) {
	t.Helper()
	if err := f.grid.put(index, m); err != nil {
		t.Fatalf("put %d: %v", index, err)
	}
}

func newChest(n int) *Chest {
	return &Chest{Slots: make([]*Stack, n), Capacity: n}
}
