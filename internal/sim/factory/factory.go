// Package factory implements the machine grid and its tick handlers.
//
// A Factory is not safe for concurrent use; the owner serializes Step and
// commands (see internal/sim/world).
package factory

import "fmt"

type Factory struct {
	grid     *Grid
	rules    Rules
	defaults Defaults

	events []Event
}

func New(geo Geometry, rules Rules, defaults Defaults) *Factory {
	return &Factory{
		grid:     NewGrid(geo),
		rules:    rules,
		defaults: defaults,
	}
}

func (f *Factory) Grid() *Grid   { return f.grid }
func (f *Factory) Rules() *Rules { return &f.rules }

// RecipeTime reports the duration of the job a machine is running, or 0.
func (f *Factory) RecipeTime(m Machine) int {
	var (
		book RecipeBook
		item string
	)
	switch m := m.(type) {
	case *Furnace:
		book, item = f.rules.Smelting, m.SmeltingItem
	case *CokeOven:
		book, item = f.rules.Coking, m.ProcessingItem
	case *BlastFurnace:
		book, item = f.rules.Blasting, m.ProcessingItem
	default:
		return 0
	}
	if item == "" {
		return 0
	}
	r, _ := book.Lookup(item)
	return r.Time
}

// Step advances every machine by one tick in row-major order and returns the
// events the handlers produced.
func (f *Factory) Step() []Event {
	f.events = f.events[:0]
	for i := range f.grid.cells {
		switch m := f.grid.cells[i].(type) {
		case nil:
		case *Furnace:
			f.tickFurnace(i, m)
		case *CokeOven:
			f.tickCokeOven(i, m)
		case *BlastFurnace:
			if f.rules.BlastFurnaceEnabled {
				f.tickBlastFurnace(i, m)
			}
		case *Chest, *CraftingBench:
			// passive
		default:
			panic(fmt.Sprintf("factory: unhandled machine %T", m))
		}
	}
	out := make([]Event, len(f.events))
	copy(out, f.events)
	return out
}

func (f *Factory) emit(e Event) { f.events = append(f.events, e) }
