package tuning

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Tuning struct {
	TickIntervalMs int `yaml:"tick_interval_ms"`

	Grid   GridSize     `yaml:"grid"`
	Player PlayerSlots  `yaml:"player"`
	Sides  DefaultSides `yaml:"default_sides"`

	ChestCapacity int    `yaml:"chest_capacity"`
	ConfigTool    string `yaml:"config_tool"`

	Furnace      FuelMachine `yaml:"furnace"`
	BlastFurnace FuelMachine `yaml:"blast_furnace"`

	StarterItems map[string]int `yaml:"starter_items"`
}

type GridSize struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type PlayerSlots struct {
	HotbarSlots int `yaml:"hotbar_slots"`
	MainSlots   int `yaml:"main_slots"`
}

type DefaultSides struct {
	Input  string `yaml:"input"`
	Output string `yaml:"output"`
}

type FuelMachine struct {
	// Enabled is only consulted for the blast furnace.
	Enabled   bool     `yaml:"enabled"`
	MaxFuel   int      `yaml:"max_fuel"`
	FuelItems []string `yaml:"fuel_items"`
}

func Defaults() Tuning {
	return Tuning{
		TickIntervalMs: 1000,
		Grid:           GridSize{Width: 10, Height: 10},
		Player:         PlayerSlots{HotbarSlots: 9, MainSlots: 27},
		Sides:          DefaultSides{Input: "bottom", Output: "top"},
		ChestCapacity:  16,
		ConfigTool:     "wrench",
		Furnace:        FuelMachine{Enabled: true, MaxFuel: 100, FuelItems: []string{"coal"}},
		BlastFurnace:   FuelMachine{Enabled: true, MaxFuel: 100, FuelItems: []string{"coal_coke"}},
		StarterItems: map[string]int{
			"pickaxe": 1,
			"wrench":  1,
			"chest":   5,
			"furnace": 3,
		},
	}
}

// Load reads path on top of Defaults, so a partial file only overrides what it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickIntervalMs <= 0:
		return fmt.Errorf("tick_interval_ms must be > 0")
	case t.Grid.Width <= 0 || t.Grid.Height <= 0:
		return fmt.Errorf("grid size must be positive, got %dx%d", t.Grid.Width, t.Grid.Height)
	case t.Player.HotbarSlots <= 0 || t.Player.MainSlots < 0:
		return fmt.Errorf("invalid player slots %d/%d", t.Player.HotbarSlots, t.Player.MainSlots)
	case t.ChestCapacity <= 0:
		return fmt.Errorf("chest_capacity must be > 0")
	case t.Furnace.MaxFuel <= 0:
		return fmt.Errorf("furnace.max_fuel must be > 0")
	case t.BlastFurnace.Enabled && t.BlastFurnace.MaxFuel <= 0:
		return fmt.Errorf("blast_furnace.max_fuel must be > 0")
	}
	for item, n := range t.StarterItems {
		if n < 0 {
			return fmt.Errorf("starter_items.%s: negative count", item)
		}
	}
	return nil
}

func (t Tuning) TickInterval() time.Duration {
	return time.Duration(t.TickIntervalMs) * time.Millisecond
}
