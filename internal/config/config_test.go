package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "danmaku.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadOverridesDefaults(t *testing.T) {
	cfg, err := Load(write(t, `
[simulation]
tick_rate = "10ms"
max_bullets = 2000

[logging]
format = "json"
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Simulation.TickRate != 10*time.Millisecond {
		t.Errorf("tick_rate = %v", cfg.Simulation.TickRate)
	}
	if cfg.Simulation.MaxBullets != 2000 {
		t.Errorf("max_bullets = %d", cfg.Simulation.MaxBullets)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "info" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	// untouched sections keep their defaults
	if cfg.Input.MaxRequestsPerTick != 256 || cfg.Input.QueueSize != 1024 {
		t.Errorf("input defaults = %+v", cfg.Input)
	}
	if cfg.Simulation.DefaultLifetime != 5 || cfg.Data.SpellCards != "data/yaml/spell_cards.yaml" || !cfg.Scripting.Enabled {
		t.Errorf("defaults lost: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":          "[simulation\n",
		"zero tick":       "[simulation]\ntick_rate = \"0s\"\n",
		"negative cap":    "[simulation]\nmax_bullets = -1\n",
		"bad duration":    "[simulation]\ntick_rate = \"soon\"\n",
		"negative stats":  "[simulation]\nstats_interval = \"-1s\"\n",
		"zero grid cell":  "[simulation]\ngrid_cell = 0.0\n",
		"inf grid cell":   "[simulation]\ngrid_cell = inf\n",
		"nan pressure":    "[simulation]\npressure_radius = nan\n",
		"neg pressure":    "[simulation]\npressure_radius = -1.0\n",
		"unbounded drain": "[input]\nmax_requests_per_tick = 0\n",
		"zero queue":      "[input]\nqueue_size = 0\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(write(t, body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
