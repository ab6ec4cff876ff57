package factory

import (
	"slices"
	"testing"

	"idlecraft.ai/internal/sim/catalogs"
	"idlecraft.ai/internal/sim/tuning"
)

func TestRulesFrom_ShippedConfigs(t *testing.T) {
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	r, err := RulesFrom(cats, tuning.Defaults())
	if err != nil {
		t.Fatalf("RulesFrom: %v", err)
	}
	if r.Fuel["coal"] != 8 || r.Fuel["coal_coke"] != 16 || len(r.Fuel) != 2 {
		t.Fatalf("fuel=%v", r.Fuel)
	}
	if got := r.Smelting.Inputs(); !slices.Equal(got, []string{"iron_ore", "brick_mixture"}) {
		t.Fatalf("smelting inputs=%v want recipes.json order", got)
	}
	if !slices.Equal(r.FurnaceFuels, []string{"coal"}) || !slices.Equal(r.BlastFuels, []string{"coal_coke"}) {
		t.Fatalf("furnace fuels=%v blast fuels=%v", r.FurnaceFuels, r.BlastFuels)
	}
}

func TestNewRecipeBook_KeepsFirstPosition(t *testing.T) {
	b := NewRecipeBook(
		RecipeEntry{Input: "b", Recipe: Recipe{Output: "x", Time: 1}},
		RecipeEntry{Input: "a", Recipe: Recipe{Output: "y", Time: 2}},
		RecipeEntry{Input: "b", Recipe: Recipe{Output: "z", Time: 3}},
	)
	if !slices.Equal(b.Inputs(), []string{"b", "a"}) {
		t.Fatalf("inputs=%v", b.Inputs())
	}
	if r, _ := b.Lookup("b"); r.Output != "z" {
		t.Fatalf("b=%+v", r)
	}
}
