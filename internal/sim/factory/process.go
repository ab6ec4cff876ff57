package factory

// job is a uniform view over a processing machine's fields so the furnace,
// coke oven and blast furnace share one phase sequence.
type job struct {
	index int
	kind  Kind
	book  RecipeBook

	inSide  Direction
	outSide Direction

	progress *int
	active   *bool
	item     *string
	input    **Stack
	output   **Stack

	// fuel is nil for machines without a fuel buffer.
	fuel    *int
	maxFuel int
	fuels   []string
}

// run evaluates one tick:
//  1. push one output unit to the chest on the output side;
//  2. advance an active job;
//  3. otherwise start a job from the input slot;
//  4. otherwise refuel and restock from the chest on the input side.
//
// Phases 2-4 see the output slot as it was before the push, so a slot emptied
// by this tick's push does not let a job start until the next tick.
func (f *Factory) run(j job) {
	hadOutput := *j.output != nil
	f.pushOutput(j)

	switch {
	case *j.active && *j.item != "":
		f.advance(j)
	case *j.input != nil && j.hasFuel() && !hadOutput:
		f.start(j)
	default:
		if j.fuel != nil {
			f.refuel(j)
		}
		if *j.input == nil {
			f.restock(j)
		}
	}
}

func (j job) hasFuel() bool { return j.fuel == nil || *j.fuel > 0 }

func (f *Factory) pushOutput(j job) {
	out := *j.output
	if out == nil || out.Count <= 0 {
		return
	}
	peer := f.grid.Neighbor(j.index, j.outSide)
	if peer == NoNeighbor {
		return
	}
	if !f.grid.DepositToChest(peer, out.Item, 1) {
		return
	}
	item := out.Item
	takeOne(j.output)
	f.emit(Event{Index: j.index, Kind: j.kind, Action: EventOutputPush, Item: item, Count: 1, Peer: peer})
}

func (f *Factory) advance(j job) {
	if j.fuel != nil && *j.fuel <= 0 {
		// Paused: progress and item are kept for a later restart.
		*j.active = false
		f.emit(Event{Index: j.index, Kind: j.kind, Action: EventFuelExhausted, Item: *j.item, Peer: NoNeighbor})
		return
	}

	*j.progress++
	if j.fuel != nil {
		*j.fuel--
	}

	r, ok := j.book.Lookup(*j.item)
	if !ok {
		// Recipe vanished; drop the job rather than run forever.
		*j.active, *j.item, *j.progress = false, "", 0
		return
	}
	if *j.progress >= r.Time {
		if putOne(j.output, r.Output) {
			f.emit(Event{Index: j.index, Kind: j.kind, Action: EventJobDone, Item: r.Output, Count: 1, Peer: NoNeighbor})
			*j.active, *j.item, *j.progress = false, "", 0
		} else {
			// Output blocked by a foreign stack; hold at completion.
			*j.progress = r.Time
		}
	}

	if j.fuel != nil && *j.fuel <= 0 && *j.active {
		*j.active = false
		f.emit(Event{Index: j.index, Kind: j.kind, Action: EventFuelExhausted, Item: *j.item, Peer: NoNeighbor})
	}
}

func (f *Factory) start(j job) {
	in := (*j.input).Item
	if _, ok := j.book.Lookup(in); !ok {
		return
	}
	if *j.item != in {
		// A paused job only keeps its progress when the same item resumes.
		*j.progress = 0
	}
	*j.active = true
	*j.item = in
	if j.fuel != nil {
		*j.fuel--
	}
	takeOne(j.input)
	f.emit(Event{Index: j.index, Kind: j.kind, Action: EventJobStart, Item: in, Count: 1, Peer: NoNeighbor})
}

func (f *Factory) refuel(j job) {
	if *j.fuel >= j.maxFuel {
		return
	}
	peer := f.grid.Neighbor(j.index, j.inSide)
	if _, ok := f.grid.ChestAt(peer); !ok {
		return
	}
	for _, item := range j.fuels {
		if !f.grid.WithdrawFromChest(peer, item, 1) {
			continue
		}
		*j.fuel = min(*j.fuel+f.rules.fuelValue(item), j.maxFuel)
		f.emit(Event{Index: j.index, Kind: j.kind, Action: EventRefuel, Item: item, Count: 1, Peer: peer})
		return
	}
}

func (f *Factory) restock(j job) {
	peer := f.grid.Neighbor(j.index, j.inSide)
	if _, ok := f.grid.ChestAt(peer); !ok {
		return
	}
	for _, item := range j.book.Inputs() {
		if !f.grid.WithdrawFromChest(peer, item, 1) {
			continue
		}
		*j.input = &Stack{Item: item, Count: 1}
		f.emit(Event{Index: j.index, Kind: j.kind, Action: EventRestock, Item: item, Count: 1, Peer: peer})
		return
	}
}
