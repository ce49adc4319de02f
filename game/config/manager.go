package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/wricardo/road-fighter-retro/game/engine"
	"github.com/wricardo/road-fighter-retro/game/service"
)

var (
	ErrConfigNotFound = service.ErrConfigNotFound
	ErrInvalidConfig  = service.ErrInvalidConfig
)

// DefaultName is the preset used when a session does not name one
const DefaultName = "classic"

// SupportedExtensions lists preset file formats in lookup order
var SupportedExtensions = []string{".json", ".yaml", ".yml", ".toml"}

// Manager handles game preset loading and caching
type Manager struct {
	configDir     string
	defaultConfig *engine.GameConfig
	configs       map[string]*engine.GameConfig
	mu            sync.RWMutex
}

// NewManager creates a new configuration manager
func NewManager(configDir string) (*Manager, error) {
	// Ensure config directory exists
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}

	m := &Manager{
		configDir: configDir,
		configs:   make(map[string]*engine.GameConfig),
	}

	m.loadDefaultConfig()
	return m, nil
}

// LoadFile reads a single preset file in any supported format. Keys missing
// from the file fall back to the classic preset's values, so a preset only
// needs to state what it changes.
func LoadFile(path string) (*engine.GameConfig, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", filepath.Base(path), err)
	}

	var config engine.GameConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", filepath.Base(path), err)
	}

	if err := engine.ValidateGameConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	return &config, nil
}

// setDefaults registers the classic preset's tuning values. Name and
// description have no default and must be present in every file.
func setDefaults(v *viper.Viper) {
	d := engine.DefaultConfig()
	v.SetDefault("tick_period_ms", d.TickPeriodMs)
	v.SetDefault("spawn_every_ticks", d.SpawnEveryTicks)
	v.SetDefault("road_every_ticks", d.RoadEveryTicks)
	v.SetDefault("move_step", d.MoveStep)
	v.SetDefault("obstacle_step", d.ObstacleStep)
	v.SetDefault("road_step", d.RoadStep)
	v.SetDefault("start_position", d.StartPosition)
	v.SetDefault("car_width", d.CarWidth)
	v.SetDefault("car_height", d.CarHeight)
	v.SetDefault("car_top", d.CarTop)
	v.SetDefault("obstacle_width", d.ObstacleWidth)
	v.SetDefault("obstacle_height", d.ObstacleHeight)
	v.SetDefault("messages.welcome", d.Messages.Welcome)
	v.SetDefault("messages.dodged", d.Messages.Dodged)
	v.SetDefault("messages.blocked", d.Messages.Blocked)
	v.SetDefault("messages.game_over", d.Messages.GameOver)
}

// LoadConfig loads a preset by name. The name may carry a file extension;
// without one every supported format is tried in order.
func (m *Manager) LoadConfig(name string) (*engine.GameConfig, error) {
	key := configID(name)

	m.mu.RLock()
	// Check cache first
	if config, exists := m.configs[key]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	path, err := m.resolve(name)
	if err != nil {
		return nil, err
	}

	config, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another goroutine may have loaded it meanwhile
	if cached, exists := m.configs[key]; exists {
		return cached, nil
	}
	m.configs[key] = config
	return config, nil
}

// resolve finds the file backing a preset name
func (m *Manager) resolve(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrConfigNotFound, name)
	}

	if isSupported(filepath.Ext(name)) {
		path := filepath.Join(m.configDir, name)
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return path, nil
	}

	for _, ext := range SupportedExtensions {
		path := filepath.Join(m.configDir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}

// ListConfigs returns information about all available presets, sorted by ID
func (m *Manager) ListConfigs() ([]*service.ConfigInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	configs := []*service.ConfigInfo{}
	seen := make(map[string]bool)

	for _, entry := range entries {
		if entry.IsDir() || !isSupported(filepath.Ext(entry.Name())) {
			continue
		}

		id := configID(entry.Name())
		if seen[id] {
			continue
		}

		// Try to load the config to get details
		config, err := m.LoadConfig(entry.Name())
		if err != nil {
			// Skip invalid configs
			continue
		}
		seen[id] = true

		configs = append(configs, &service.ConfigInfo{
			Filename:        entry.Name(),
			ConfigID:        id, // This is the identifier to use for session creation
			Name:            config.Name,
			Description:     config.Description,
			TickPeriodMs:    config.TickPeriodMs,
			SpawnEveryTicks: config.SpawnEveryTicks,
			MoveStep:        config.MoveStep,
		})
	}

	sort.Slice(configs, func(i, j int) bool { return configs[i].ConfigID < configs[j].ConfigID })
	return configs, nil
}

// GetDefault returns the default preset
func (m *Manager) GetDefault() *engine.GameConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultConfig
}

// loadDefaultConfig picks classic from disk, then the first valid preset,
// then the built-in defaults
func (m *Manager) loadDefaultConfig() {
	config, err := m.LoadConfig(DefaultName)
	if err != nil {
		configs, listErr := m.ListConfigs()
		if listErr == nil && len(configs) > 0 {
			config, err = m.LoadConfig(configs[0].Filename)
		}
		if err != nil {
			config = engine.DefaultConfig()
		}
	}

	m.mu.Lock()
	m.defaultConfig = config
	m.mu.Unlock()
}

// SaveConfig saves a preset to disk as indented JSON
func (m *Manager) SaveConfig(name string, config *engine.GameConfig) error {
	// Validate config before saving
	if err := engine.ValidateGameConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	id := configID(name)
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: invalid preset name %q", ErrInvalidConfig, name)
	}

	configPath := filepath.Join(m.configDir, id+".json")

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	// Update cache
	m.mu.Lock()
	m.configs[id] = config
	m.mu.Unlock()

	return nil
}

// configID strips a supported extension from a preset file name
func configID(name string) string {
	ext := filepath.Ext(name)
	if isSupported(ext) {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

func isSupported(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}
