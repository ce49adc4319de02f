package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/wricardo/road-fighter-retro/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func writeRawFile(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", filename, err)
	}
}

func (m *Manager) cacheSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.configs)
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		classic := createValidConfig()
		classic.Name = "Classic"
		writeConfigFile(t, dir, "classic", classic)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Classic" {
			t.Errorf("Expected classic.json as default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		if _, err := NewManager("/non/existent/path"); err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in defaults", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got error: %v", err)
		}

		defaultConfig := manager.GetDefault()
		if defaultConfig == nil {
			t.Fatal("Expected default config to be available")
		}
		if defaultConfig.Name != engine.DefaultConfig().Name {
			t.Errorf("Expected built-in default, got %q", defaultConfig.Name)
		}
	})

	t.Run("first valid preset when classic is missing", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Arcade"
		writeConfigFile(t, dir, "arcade", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Arcade" {
			t.Errorf("Expected arcade as default, got %q", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()

	easyConfig := createValidConfig()
	easyConfig.Name = "Easy"
	easyConfig.SpawnEveryTicks = 40
	writeConfigFile(t, dir, "easy", easyConfig)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load existing config", func(t *testing.T) {
		config, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
		if config.SpawnEveryTicks != 40 {
			t.Errorf("Expected spawn cadence 40, got %d", config.SpawnEveryTicks)
		}
	})

	t.Run("load with .json extension", func(t *testing.T) {
		config, err := manager.LoadConfig("easy.json")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Easy" {
			t.Errorf("Expected config name 'Easy', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("easy")
		config2, err := manager.LoadConfig("easy")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("reject path traversal", func(t *testing.T) {
		_, err := manager.LoadConfig("../easy")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		writeRawFile(t, dir, "invalid.json", `{"name": ""}`)

		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed JSON", func(t *testing.T) {
		writeRawFile(t, dir, "malformed.json", `{"name": "Malformed", invalid json}`)

		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed JSON")
		}
	})
}

func TestManager_LoadConfigFormats(t *testing.T) {
	dir := t.TempDir()

	writeRawFile(t, dir, "rush.yaml", `
name: Rush
description: Faster traffic
tick_period_ms: 60
spawn_every_ticks: 8
messages:
  game_over: "Wrecked!"
`)
	writeRawFile(t, dir, "wide.toml", `
name = "Wide"
description = "Bigger car"
car_width = 8.0
move_step = 5
`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("yaml with defaults", func(t *testing.T) {
		config, err := manager.LoadConfig("rush")
		if err != nil {
			t.Fatalf("Failed to load yaml preset: %v", err)
		}
		if config.TickPeriodMs != 60 || config.SpawnEveryTicks != 8 {
			t.Errorf("Expected 60ms/8 ticks, got %dms/%d ticks", config.TickPeriodMs, config.SpawnEveryTicks)
		}
		if config.Messages.GameOver != "Wrecked!" {
			t.Errorf("Expected overridden game over message, got %q", config.Messages.GameOver)
		}

		// Unstated keys come from the classic preset
		defaults := engine.DefaultConfig()
		if config.MoveStep != defaults.MoveStep {
			t.Errorf("Expected default move step %g, got %g", defaults.MoveStep, config.MoveStep)
		}
		if config.Messages.Welcome != defaults.Messages.Welcome {
			t.Errorf("Expected default welcome message, got %q", config.Messages.Welcome)
		}
	})

	t.Run("toml", func(t *testing.T) {
		config, err := manager.LoadConfig("wide")
		if err != nil {
			t.Fatalf("Failed to load toml preset: %v", err)
		}
		if config.CarWidth != 8 || config.MoveStep != 5 {
			t.Errorf("Expected car width 8 and move step 5, got %g and %g", config.CarWidth, config.MoveStep)
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"classic", "Classic"},
		{"easy", "Easy"},
		{"medium", "Medium"},
		{"hard", "Hard"},
	}

	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Files that should be ignored
	writeRawFile(t, dir, "readme.txt", "readme")
	writeRawFile(t, dir, "broken.json", `{"name": "Broken"}`)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 4 {
		t.Fatalf("Expected 4 configs, got %d", len(configList))
	}

	// Sorted by config ID
	wantOrder := []string{"classic", "easy", "hard", "medium"}
	for i, info := range configList {
		if info.ConfigID != wantOrder[i] {
			t.Errorf("Expected config %d to be %q, got %q", i, wantOrder[i], info.ConfigID)
		}
		if info.TickPeriodMs != 100 {
			t.Errorf("Expected tick period 100 for %q, got %d", info.ConfigID, info.TickPeriodMs)
		}
	}
}

func TestManager_SaveConfig(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("save and reload", func(t *testing.T) {
		config := createValidConfig()
		config.Name = "Saved"
		config.SpawnEveryTicks = 12

		if err := manager.SaveConfig("saved", config); err != nil {
			t.Fatalf("Failed to save config: %v", err)
		}
		if _, err := os.Stat(filepath.Join(dir, "saved.json")); err != nil {
			t.Fatalf("Expected saved.json on disk: %v", err)
		}

		loaded, err := LoadFile(filepath.Join(dir, "saved.json"))
		if err != nil {
			t.Fatalf("Failed to load saved file: %v", err)
		}
		if loaded.Name != "Saved" || loaded.SpawnEveryTicks != 12 {
			t.Errorf("Unexpected saved content: %+v", loaded)
		}
	})

	t.Run("invalid config rejected", func(t *testing.T) {
		config := createValidConfig()
		config.MoveStep = 0

		err := manager.SaveConfig("bad", config)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("invalid name rejected", func(t *testing.T) {
		err := manager.SaveConfig("../escape", createValidConfig())
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()

	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", (id%5)+1)); err != nil {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}

	if manager.cacheSize() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.cacheSize())
	}
}
