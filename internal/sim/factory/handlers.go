package factory

func (f *Factory) tickFurnace(i int, m *Furnace) {
	f.run(job{
		index:    i,
		kind:     KindFurnace,
		book:     f.rules.Smelting,
		inSide:   m.InputSide,
		outSide:  m.OutputSide,
		progress: &m.Progress,
		active:   &m.IsSmelting,
		item:     &m.SmeltingItem,
		input:    &m.Input,
		output:   &m.Output,
		fuel:     &m.FuelBuffer,
		maxFuel:  m.MaxFuelBuffer,
		fuels:    f.rules.FurnaceFuels,
	})
}

// Coke ovens burn nothing; the job runs on time alone.
func (f *Factory) tickCokeOven(i int, m *CokeOven) {
	f.run(job{
		index:    i,
		kind:     KindCokeOven,
		book:     f.rules.Coking,
		inSide:   m.InputSide,
		outSide:  m.OutputSide,
		progress: &m.Progress,
		active:   &m.IsProcessing,
		item:     &m.ProcessingItem,
		input:    &m.Input,
		output:   &m.Output,
	})
}

func (f *Factory) tickBlastFurnace(i int, m *BlastFurnace) {
	f.run(job{
		index:    i,
		kind:     KindBlastFurnace,
		book:     f.rules.Blasting,
		inSide:   m.InputSide,
		outSide:  m.OutputSide,
		progress: &m.Progress,
		active:   &m.IsProcessing,
		item:     &m.ProcessingItem,
		input:    &m.Material,
		output:   &m.Output,
		fuel:     &m.FuelBuffer,
		maxFuel:  m.MaxFuelBuffer,
		fuels:    f.rules.BlastFuels,
	})
}
