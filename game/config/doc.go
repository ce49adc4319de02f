// Package config provides preset management for Road Fighter Retro.
//
// The config package handles:
//   - Loading game presets from JSON, YAML or TOML files
//   - Filling keys a preset leaves out from the classic preset
//   - Preset validation through the engine
//   - Default preset selection, discovery and listing
//
// Preset Format:
//
// Presets are stored in the configs directory, one file per preset. The file
// name without its extension is the preset ID used to create sessions. Each
// preset defines the tick period, spawn and road cadences, step sizes, car
// and obstacle geometry, and the messages shown for game events. Only name
// and description are mandatory; everything else defaults to classic.
//
// Available Presets:
//   - classic: 100ms ticks, one obstacle every 2 seconds
//   - arcade: quicker ticks and denser traffic
//   - rush: short warning window, for practiced drivers
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Load specific preset
//	gameConfig, err := manager.LoadConfig("arcade")
//
//	// Load a single file outside the managed directory
//	gameConfig, err = config.LoadFile("presets/custom.yaml")
//
//	// List available presets
//	configs, err := manager.ListConfigs()
//
// Saved presets are always written as indented JSON.
package config
