package tuning

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_ShippedTuning(t *testing.T) {
	tu, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.TickInterval() != time.Second {
		t.Fatalf("tick interval=%v want 1s", tu.TickInterval())
	}
	if tu.Grid.Width != 10 || tu.Grid.Height != 10 {
		t.Fatalf("grid=%+v", tu.Grid)
	}
	if tu.Furnace.MaxFuel != 100 || len(tu.Furnace.FuelItems) != 1 || tu.Furnace.FuelItems[0] != "coal" {
		t.Fatalf("furnace=%+v", tu.Furnace)
	}
	if tu.StarterItems["furnace"] != 3 {
		t.Fatalf("starter items=%v", tu.StarterItems)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("tick_interval_ms: 250\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	tu, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if tu.TickIntervalMs != 250 {
		t.Fatalf("tick_interval_ms=%d", tu.TickIntervalMs)
	}
	if tu.ChestCapacity != 16 || tu.ConfigTool != "wrench" {
		t.Fatalf("defaults lost: %+v", tu)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	p := filepath.Join(t.TempDir(), "tuning.yaml")
	if err := os.WriteFile(p, []byte("grid:\n  width: 0\n  height: 10\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !os.IsNotExist(err) {
		t.Fatalf("err=%v want not-exist", err)
	}
}
