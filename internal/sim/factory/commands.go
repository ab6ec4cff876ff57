package factory

import "fmt"

// Holder is the player-side inventory commands draw from and return to.
type Holder interface {
	Count(item string) int
	Add(item string, n int) int
	Remove(item string, n int) bool
	CanAdd(stacks []Stack) bool
}

// Place consumes one machine item from h and puts a fresh machine of that
// kind on the empty cell at index.
func (f *Factory) Place(index int, item string, h Holder) (Machine, error) {
	if !f.grid.InBounds(index) {
		return nil, ErrOutOfBounds
	}
	kind, ok := f.rules.MachineItems[item]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotMachineItem, item)
	}
	if f.grid.At(index) != nil {
		return nil, ErrCellOccupied
	}
	if h.Count(item) < 1 {
		return nil, fmt.Errorf("%w: %s", ErrMissingItem, item)
	}
	m, err := NewMachine(kind, f.defaults)
	if err != nil {
		return nil, err
	}
	if !h.Remove(item, 1) {
		return nil, fmt.Errorf("%w: %s", ErrMissingItem, item)
	}
	if err := f.grid.put(index, m); err != nil {
		h.Add(item, 1)
		return nil, err
	}
	return m, nil
}

// Pickup removes the machine at index and returns it, plus everything it
// held, to h. Nothing changes if h cannot take all of it.
func (f *Factory) Pickup(index int, h Holder) ([]Stack, error) {
	if !f.grid.InBounds(index) {
		return nil, ErrOutOfBounds
	}
	m := f.grid.At(index)
	if m == nil {
		return nil, ErrCellEmpty
	}
	returned := append([]Stack{{Item: string(m.Kind()), Count: 1}}, Contents(m)...)
	if !h.CanAdd(returned) {
		return nil, ErrInventoryFull
	}
	for _, s := range returned {
		h.Add(s.Item, s.Count)
	}
	f.grid.clear(index)
	return returned, nil
}

// SetSide reconfigures the input or output side of a sided machine. The
// player must carry the configuration tool.
func (f *Factory) SetSide(index int, io IO, d Direction, h Holder) error {
	if !f.grid.InBounds(index) {
		return ErrOutOfBounds
	}
	m := f.grid.At(index)
	if m == nil {
		return ErrCellEmpty
	}
	s, ok := m.(Sided)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotConfigurable, m.Kind())
	}
	if f.rules.ConfigTool != "" && h.Count(f.rules.ConfigTool) < 1 {
		return fmt.Errorf("%w: %s", ErrMissingTool, f.rules.ConfigTool)
	}
	if io != SideInput && io != SideOutput {
		return fmt.Errorf("%w: side %q", ErrBadSlot, io)
	}
	if !d.Valid() {
		return fmt.Errorf("%w: %q", ErrBadDirection, d)
	}
	s.setSide(io, d)
	return nil
}

// Insert hand-feeds one unit of item from h into the machine at index: fuel
// tops up a fuel buffer, recipe inputs go to the input slot and anything goes
// into a chest.
func (f *Factory) Insert(index int, item string, h Holder) error {
	if !f.grid.InBounds(index) {
		return ErrOutOfBounds
	}
	m := f.grid.At(index)
	if m == nil {
		return ErrCellEmpty
	}
	if h.Count(item) < 1 {
		return fmt.Errorf("%w: %s", ErrMissingItem, item)
	}

	var (
		fuel    *int
		maxFuel int
		book    RecipeBook
		slot    **Stack
	)
	switch m := m.(type) {
	case *Furnace:
		fuel, maxFuel, book, slot = &m.FuelBuffer, m.MaxFuelBuffer, f.rules.Smelting, &m.Input
	case *BlastFurnace:
		fuel, maxFuel, book, slot = &m.FuelBuffer, m.MaxFuelBuffer, f.rules.Blasting, &m.Material
	case *CokeOven:
		book, slot = f.rules.Coking, &m.Input
	case *Chest:
		return f.ChestStore(index, item, 1, h)
	default:
		return fmt.Errorf("%w: %s", ErrRejected, m.Kind())
	}

	// Any item with a fuel value burns when fed by hand. Chest refuel is
	// limited to the machine's own fuel list.
	if v := f.rules.fuelValue(item); fuel != nil && v > 0 && *fuel < maxFuel {
		if !h.Remove(item, 1) {
			return fmt.Errorf("%w: %s", ErrMissingItem, item)
		}
		*fuel = min(*fuel+v, maxFuel)
		return nil
	}
	if _, ok := book.Lookup(item); !ok {
		return fmt.Errorf("%w: %s", ErrRejected, item)
	}
	if s := *slot; s != nil && (s.Item != item || s.Count >= MaxStack) {
		return fmt.Errorf("%w: input slot holds %s", ErrRejected, s.Item)
	}
	if !h.Remove(item, 1) {
		return fmt.Errorf("%w: %s", ErrMissingItem, item)
	}
	putOne(slot, item)
	return nil
}

// TakeOutput moves a machine's whole output stack to h.
func (f *Factory) TakeOutput(index int, h Holder) (Stack, error) {
	if !f.grid.InBounds(index) {
		return Stack{}, ErrOutOfBounds
	}
	var slot **Stack
	switch m := f.grid.At(index).(type) {
	case nil:
		return Stack{}, ErrCellEmpty
	case *Furnace:
		slot = &m.Output
	case *CokeOven:
		slot = &m.Output
	case *BlastFurnace:
		slot = &m.Output
	case *CraftingBench:
		slot = &m.Output
	default:
		return Stack{}, fmt.Errorf("%w: %s has no output", ErrBadSlot, m.Kind())
	}
	s := *slot
	if s == nil {
		return Stack{}, ErrNothingToTake
	}
	if !h.CanAdd([]Stack{*s}) {
		return Stack{}, ErrInventoryFull
	}
	h.Add(s.Item, s.Count)
	*slot = nil
	return *s, nil
}

// ChestStore moves n units of item from h into the chest at index.
func (f *Factory) ChestStore(index int, item string, n int, h Holder) error {
	c, ok := f.grid.ChestAt(index)
	if !ok {
		if f.grid.At(index) == nil {
			return ErrCellEmpty
		}
		return fmt.Errorf("%w: not a chest", ErrRejected)
	}
	if n <= 0 {
		return fmt.Errorf("%w: count %d", ErrBadSlot, n)
	}
	if h.Count(item) < n {
		return fmt.Errorf("%w: %s", ErrMissingItem, item)
	}
	if !c.Deposit(item, n) {
		return ErrChestFull
	}
	h.Remove(item, n)
	return nil
}

// ChestTake moves the whole stack in one chest slot to h.
func (f *Factory) ChestTake(index, slot int, h Holder) (Stack, error) {
	c, ok := f.grid.ChestAt(index)
	if !ok {
		if f.grid.At(index) == nil {
			return Stack{}, ErrCellEmpty
		}
		return Stack{}, fmt.Errorf("%w: not a chest", ErrRejected)
	}
	if slot < 0 || slot >= len(c.Slots) {
		return Stack{}, fmt.Errorf("%w: %d", ErrBadSlot, slot)
	}
	s := c.Slots[slot]
	if s == nil {
		return Stack{}, ErrNothingToTake
	}
	if !h.CanAdd([]Stack{*s}) {
		return Stack{}, ErrInventoryFull
	}
	h.Add(s.Item, s.Count)
	c.Slots[slot] = nil
	return *s, nil
}
