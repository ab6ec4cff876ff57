package world

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"

	"idlecraft.ai/internal/protocol"
	"idlecraft.ai/internal/sim/factory"
)

func (w *World) buildState() protocol.StateMsg {
	g := w.factory.Grid()
	s := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            w.tick.Load(),
		Grid:            protocol.GridParams{Width: g.Width, Height: g.Height},
		Machines:        []protocol.MachineView{},
		Digest:          w.stateDigest(w.tick.Load()),
	}
	for _, i := range g.Occupied() {
		s.Machines = append(s.Machines, w.machineView(i, g.At(i)))
	}
	for _, slot := range w.inv.Slots() {
		if slot == nil {
			s.Inventory = append(s.Inventory, nil)
			continue
		}
		s.Inventory = append(s.Inventory, &protocol.StackView{Item: slot.Item, Count: slot.Count})
	}
	return s
}

func (w *World) machineView(index int, m factory.Machine) protocol.MachineView {
	v := protocol.MachineView{Index: index, Kind: string(m.Kind())}
	if sm, ok := m.(factory.Sided); ok {
		in, out := sm.Sides()
		v.InputSide, v.OutputSide = string(in), string(out)
	}
	switch m := m.(type) {
	case *factory.Furnace:
		v.FuelBuffer, v.MaxFuelBuffer = m.FuelBuffer, m.MaxFuelBuffer
		v.Active, v.JobItem, v.Progress = m.IsSmelting, m.SmeltingItem, m.Progress
		v.Input, v.Output = stackView(m.Input), stackView(m.Output)
	case *factory.CokeOven:
		v.Active, v.JobItem, v.Progress = m.IsProcessing, m.ProcessingItem, m.Progress
		v.Input, v.Output = stackView(m.Input), stackView(m.Output)
	case *factory.BlastFurnace:
		v.FuelBuffer, v.MaxFuelBuffer = m.FuelBuffer, m.MaxFuelBuffer
		v.Active, v.JobItem, v.Progress = m.IsProcessing, m.ProcessingItem, m.Progress
		v.Input, v.Output = stackView(m.Material), stackView(m.Output)
	case *factory.Chest:
		for _, st := range m.Slots {
			v.Slots = append(v.Slots, stackView(st))
		}
	case *factory.CraftingBench:
		for _, st := range m.Grid {
			v.Slots = append(v.Slots, stackView(st))
		}
		v.Output = stackView(m.Output)
	}
	v.RecipeTime = w.factory.RecipeTime(m)
	return v
}

func stackView(s *factory.Stack) *protocol.StackView {
	if s == nil {
		return nil
	}
	return &protocol.StackView{Item: s.Item, Count: s.Count}
}

// stateDigest covers the tick, the grid and the player inventory.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], nowTick)
	h.Write(tmp[:])
	h.Write([]byte(w.factory.Grid().Digest()))
	for i, s := range w.inv.Slots() {
		if s == nil {
			continue
		}
		binary.LittleEndian.PutUint64(tmp[:], uint64(i))
		h.Write(tmp[:])
		h.Write([]byte(s.Item))
		binary.LittleEndian.PutUint64(tmp[:], uint64(s.Count))
		h.Write(tmp[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
