package factory

import "fmt"

// Kind identifies a machine variant. Kind values double as the item id that
// places the machine.
type Kind string

const (
	KindFurnace       Kind = "furnace"
	KindCokeOven      Kind = "coke_oven"
	KindBlastFurnace  Kind = "blast_furnace"
	KindChest         Kind = "chest"
	KindCraftingBench Kind = "crafting_bench"
)

// Machine is the closed set of grid occupants. The unexported method keeps
// the variant list inside this package so Step's dispatch stays exhaustive.
type Machine interface {
	Kind() Kind
	sealed()
}

// Sided machines have a configurable input and output side.
type Sided interface {
	Machine
	Sides() (input, output Direction)
	setSide(io IO, d Direction)
}

type IO string

const (
	SideInput  IO = "input"
	SideOutput IO = "output"
)

type Furnace struct {
	InputSide     Direction `json:"input_side"`
	OutputSide    Direction `json:"output_side"`
	FuelBuffer    int       `json:"fuel_buffer"`
	MaxFuelBuffer int       `json:"max_fuel_buffer"`
	Progress      int       `json:"progress"`
	IsSmelting    bool      `json:"is_smelting"`
	SmeltingItem  string    `json:"smelting_item,omitempty"`
	Input         *Stack    `json:"input"`
	Output        *Stack    `json:"output"`
}

type CokeOven struct {
	InputSide      Direction `json:"input_side"`
	OutputSide     Direction `json:"output_side"`
	Progress       int       `json:"progress"`
	IsProcessing   bool      `json:"is_processing"`
	ProcessingItem string    `json:"processing_item,omitempty"`
	Input          *Stack    `json:"input"`
	Output         *Stack    `json:"output"`
}

type BlastFurnace struct {
	InputSide      Direction `json:"input_side"`
	OutputSide     Direction `json:"output_side"`
	FuelBuffer     int       `json:"fuel_buffer"`
	MaxFuelBuffer  int       `json:"max_fuel_buffer"`
	Progress       int       `json:"progress"`
	IsProcessing   bool      `json:"is_processing"`
	ProcessingItem string    `json:"processing_item,omitempty"`
	Material       *Stack    `json:"material"`
	Output         *Stack    `json:"output"`
}

type Chest struct {
	Slots    []*Stack `json:"slots"`
	Capacity int      `json:"capacity"`
}

type CraftingBench struct {
	Grid   [9]*Stack `json:"grid"`
	Output *Stack    `json:"output"`
}

func (*Furnace) Kind() Kind       { return KindFurnace }
func (*CokeOven) Kind() Kind      { return KindCokeOven }
func (*BlastFurnace) Kind() Kind  { return KindBlastFurnace }
func (*Chest) Kind() Kind         { return KindChest }
func (*CraftingBench) Kind() Kind { return KindCraftingBench }

func (*Furnace) sealed()       {}
func (*CokeOven) sealed()      {}
func (*BlastFurnace) sealed()  {}
func (*Chest) sealed()         {}
func (*CraftingBench) sealed() {}

func (m *Furnace) Sides() (Direction, Direction)      { return m.InputSide, m.OutputSide }
func (m *CokeOven) Sides() (Direction, Direction)     { return m.InputSide, m.OutputSide }
func (m *BlastFurnace) Sides() (Direction, Direction) { return m.InputSide, m.OutputSide }

func (m *Furnace) setSide(io IO, d Direction)      { setSide(&m.InputSide, &m.OutputSide, io, d) }
func (m *CokeOven) setSide(io IO, d Direction)     { setSide(&m.InputSide, &m.OutputSide, io, d) }
func (m *BlastFurnace) setSide(io IO, d Direction) { setSide(&m.InputSide, &m.OutputSide, io, d) }

func setSide(in, out *Direction, io IO, d Direction) {
	if io == SideInput {
		*in = d
	} else {
		*out = d
	}
}

// Defaults holds the construction parameters for freshly placed machines.
type Defaults struct {
	InputSide      Direction
	OutputSide     Direction
	FurnaceMaxFuel int
	BlastMaxFuel   int
	ChestCapacity  int
}

func NewMachine(kind Kind, d Defaults) (Machine, error) {
	switch kind {
	case KindFurnace:
		return &Furnace{InputSide: d.InputSide, OutputSide: d.OutputSide, MaxFuelBuffer: d.FurnaceMaxFuel}, nil
	case KindCokeOven:
		return &CokeOven{InputSide: d.InputSide, OutputSide: d.OutputSide}, nil
	case KindBlastFurnace:
		return &BlastFurnace{InputSide: d.InputSide, OutputSide: d.OutputSide, MaxFuelBuffer: d.BlastMaxFuel}, nil
	case KindChest:
		return &Chest{Slots: make([]*Stack, d.ChestCapacity), Capacity: d.ChestCapacity}, nil
	case KindCraftingBench:
		return &CraftingBench{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrNotMachineItem, kind)
}

// Contents lists every non-empty slot a machine holds.
func Contents(m Machine) []Stack {
	var out []Stack
	add := func(s *Stack) {
		if s != nil && s.Count > 0 {
			out = append(out, *s)
		}
	}
	switch m := m.(type) {
	case *Furnace:
		add(m.Input)
		add(m.Output)
	case *CokeOven:
		add(m.Input)
		add(m.Output)
	case *BlastFurnace:
		add(m.Material)
		add(m.Output)
	case *Chest:
		for _, s := range m.Slots {
			add(s)
		}
	case *CraftingBench:
		for _, s := range m.Grid {
			add(s)
		}
		add(m.Output)
	}
	return out
}
