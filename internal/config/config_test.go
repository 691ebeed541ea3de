package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	app, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	if app.Dt <= 0 {
		t.Error("dt should be positive")
	}
	if app.ShipPreset != "coaster" {
		t.Errorf("expected default ship preset coaster, got %s", app.ShipPreset)
	}
	if GetShipPreset(app.ShipPreset) == nil {
		t.Error("default ship preset must exist")
	}
	if GetSeaPreset(app.SeaPreset) == nil {
		t.Error("default sea preset must exist")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shipsim.yaml")
	data := []byte("dt: 0.02\nship_preset: tanker\nlog_level: debug\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	app, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if app.Dt != 0.02 {
		t.Errorf("expected dt 0.02, got %f", app.Dt)
	}
	if app.ShipPreset != "tanker" {
		t.Errorf("expected tanker, got %s", app.ShipPreset)
	}
	// unset keys keep defaults
	if app.ListenAddr != ":8490" {
		t.Errorf("expected default listen addr, got %s", app.ListenAddr)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shipsim.yaml")
	if err := os.WriteFile(path, []byte("dt: -0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for negative dt")
	}

	if err := os.WriteFile(path, []byte("log_level: loud\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown log level")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if GetShipPreset("nonexistent") != nil {
		t.Error("expected nil for unknown ship preset")
	}
	if GetSeaPreset("nonexistent") != nil {
		t.Error("expected nil for unknown sea preset")
	}
}

func TestListPresets(t *testing.T) {
	ships := ListShipPresets()
	if len(ships) == 0 {
		t.Fatal("expected ship presets")
	}
	for i := 1; i < len(ships); i++ {
		if ships[i] < ships[i-1] {
			t.Error("ship presets not sorted")
		}
	}
	if len(ListSeaPresets()) != 4 {
		t.Errorf("expected 4 sea presets, got %d", len(ListSeaPresets()))
	}
}

func TestShipPresetsAreValid(t *testing.T) {
	for name, p := range ShipPresets {
		if err := func() error {
			h := p.Hull
			if h.Depth == 0 {
				h.Depth = h.Draft * 1.5
			}
			return h.Validate()
		}(); err != nil {
			t.Errorf("preset %s: %v", name, err)
		}
	}
}
