package factory

import (
	"fmt"

	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
)

type Recipe struct {
	Output string
	Time   int
}

type RecipeEntry struct {
	Input string
	Recipe
}

// RecipeBook maps a consumable input to its single recipe for one machine kind.
type RecipeBook struct {
	byInput map[string]Recipe
	inputs  []string
}

// NewRecipeBook keeps the entries' order; restock tries inputs in that order.
// A repeated input replaces the earlier recipe but keeps its position.
func NewRecipeBook(entries ...RecipeEntry) RecipeBook {
	b := RecipeBook{byInput: make(map[string]Recipe, len(entries))}
	for _, e := range entries {
		if _, ok := b.byInput[e.Input]; !ok {
			b.inputs = append(b.inputs, e.Input)
		}
		b.byInput[e.Input] = e.Recipe
	}
	return b
}

func (b RecipeBook) Lookup(input string) (Recipe, bool) {
	r, ok := b.byInput[input]
	return r, ok
}

// Inputs lists the accepted inputs in declared order.
func (b RecipeBook) Inputs() []string { return b.inputs }

// Rules is the static data the tick handlers and commands consult.
type Rules struct {
	Smelting RecipeBook
	Coking   RecipeBook
	Blasting RecipeBook

	Fuel         map[string]int
	FurnaceFuels []string
	BlastFuels   []string

	BlastFurnaceEnabled bool

	MachineItems map[string]Kind
	ConfigTool   string
}

func (r Rules) fuelValue(item string) int { return r.Fuel[item] }

// RulesFrom assembles Rules from loaded catalogs and tuning.
func RulesFrom(cats *catalogs.Catalogs, tune tuning.Tuning) (Rules, error) {
	book := func(station string) (RecipeBook, error) {
		defs, err := catalogs.BuildByInput(cats.Recipes.Defs, station)
		if err != nil {
			return RecipeBook{}, err
		}
		entries := make([]RecipeEntry, 0, len(defs))
		for _, d := range defs {
			entries = append(entries, RecipeEntry{Input: d.Input, Recipe: Recipe{Output: d.Output, Time: d.TimeTicks}})
		}
		return NewRecipeBook(entries...), nil
	}

	var (
		r   Rules
		err error
	)
	if r.Smelting, err = book(catalogs.StationFurnace); err != nil {
		return r, err
	}
	if r.Coking, err = book(catalogs.StationCokeOven); err != nil {
		return r, err
	}
	if r.Blasting, err = book(catalogs.StationBlastFurnace); err != nil {
		return r, err
	}

	r.Fuel = map[string]int{}
	for _, id := range cats.Items.Palette {
		if v := cats.FuelValue(id); v > 0 {
			r.Fuel[id] = v
		}
	}
	for _, id := range tune.Furnace.FuelItems {
		if r.Fuel[id] <= 0 {
			return r, fmt.Errorf("furnace fuel %q has no fuel value", id)
		}
	}
	for _, id := range tune.BlastFurnace.FuelItems {
		if r.Fuel[id] <= 0 {
			return r, fmt.Errorf("blast furnace fuel %q has no fuel value", id)
		}
	}
	r.FurnaceFuels = append([]string(nil), tune.Furnace.FuelItems...)
	r.BlastFuels = append([]string(nil), tune.BlastFurnace.FuelItems...)
	r.BlastFurnaceEnabled = tune.BlastFurnace.Enabled

	r.MachineItems = map[string]Kind{}
	for id, d := range cats.Items.Defs {
		if !d.IsMachine {
			continue
		}
		k := Kind(id)
		if _, err := NewMachine(k, Defaults{}); err != nil {
			return r, fmt.Errorf("machine item %q: %w", id, err)
		}
		r.MachineItems[id] = k
	}
	r.ConfigTool = tune.ConfigTool
	return r, nil
}

// DefaultsFrom derives machine construction defaults from tuning.
func DefaultsFrom(tune tuning.Tuning) (Defaults, error) {
	in, err := ParseDirection(tune.Sides.Input)
	if err != nil {
		return Defaults{}, fmt.Errorf("default_sides.input: %w", err)
	}
	out, err := ParseDirection(tune.Sides.Output)
	if err != nil {
		return Defaults{}, fmt.Errorf("default_sides.output: %w", err)
	}
	return Defaults{
		InputSide:      in,
		OutputSide:     out,
		FurnaceMaxFuel: tune.Furnace.MaxFuel,
		BlastMaxFuel:   tune.BlastFurnace.MaxFuel,
		ChestCapacity:  tune.ChestCapacity,
	}, nil
}
