package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/wricardo/mcp-training/graphracers/game/engine"
	"github.com/wricardo/mcp-training/graphracers/game/service"
)

var (
	ErrConfigNotFound = errors.New("track not found")
	ErrInvalidConfig  = errors.New("invalid track")
)

// DefaultTrack is used when no track is requested and none is configured
const DefaultTrack = "river_wild"

// Manager loads and caches track definitions from a directory
type Manager struct {
	configDir    string
	defaultName  string
	defaultTrack *engine.TrackConfig
	configs      map[string]*engine.TrackConfig
	mu           sync.RWMutex
}

// NewManager creates a catalog over configDir. defaultName may be empty.
func NewManager(configDir, defaultName string) (*Manager, error) {
	if _, err := os.Stat(configDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("config directory does not exist: %s", configDir)
	}
	if defaultName == "" {
		defaultName = DefaultTrack
	}

	m := &Manager{
		configDir:   configDir,
		defaultName: defaultName,
		configs:     make(map[string]*engine.TrackConfig),
	}

	if err := m.loadDefault(); err != nil {
		return nil, fmt.Errorf("failed to load default track: %w", err)
	}

	return m, nil
}

func cleanName(name string) (string, bool) {
	name = strings.TrimSuffix(name, ".json")
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", false
	}
	return name, true
}

// LoadTrack loads a track by its file name without extension
func (m *Manager) LoadTrack(name string) (*engine.TrackConfig, error) {
	name, ok := cleanName(name)
	if !ok {
		return nil, ErrConfigNotFound
	}

	m.mu.RLock()
	if config, exists := m.configs[name]; exists {
		m.mu.RUnlock()
		return config, nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	if config, exists := m.configs[name]; exists {
		return config, nil
	}

	data, err := os.ReadFile(filepath.Join(m.configDir, name+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read track file: %w", err)
	}

	var config engine.TrackConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if _, err := engine.ValidateTrackConfig(&config); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	m.configs[name] = &config
	return &config, nil
}

// SaveTrack validates config and writes it to the directory as name.json,
// replacing any existing file of that name
func (m *Manager) SaveTrack(name string, config *engine.TrackConfig) error {
	id, ok := cleanName(name)
	if !ok {
		return fmt.Errorf("%w: bad track name %q", ErrInvalidConfig, name)
	}
	if config == nil {
		return fmt.Errorf("%w: empty definition", ErrInvalidConfig)
	}
	if _, err := engine.ValidateTrackConfig(config); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal track: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.WriteFile(filepath.Join(m.configDir, id+".json"), data, 0644); err != nil {
		return fmt.Errorf("failed to write track file: %w", err)
	}
	m.configs[id] = config
	if id == m.defaultName {
		m.defaultTrack = config
	}
	return nil
}

// ListTracks describes every valid track in the directory, sorted by ID.
// Invalid files are skipped.
func (m *Manager) ListTracks() ([]*service.TrackInfo, error) {
	entries, err := os.ReadDir(m.configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config directory: %w", err)
	}

	var tracks []*service.TrackInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		id := strings.TrimSuffix(entry.Name(), ".json")
		config, err := m.LoadTrack(id)
		if err != nil {
			continue
		}

		tracks = append(tracks, &service.TrackInfo{
			Filename:    entry.Name(),
			TrackID:     id,
			Name:        config.Name,
			Description: config.Description,
			Checkpoints: config.Checkpoints,
			Default:     id == m.DefaultName(),
		})
	}

	sort.Slice(tracks, func(i, j int) bool { return tracks[i].TrackID < tracks[j].TrackID })
	return tracks, nil
}

// GetDefault returns the default track
func (m *Manager) GetDefault() *engine.TrackConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultTrack
}

// DefaultName returns the ID of the default track
func (m *Manager) DefaultName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.defaultName
}

// SetDefault changes the default track
func (m *Manager) SetDefault(name string) error {
	config, err := m.LoadTrack(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.defaultName = strings.TrimSuffix(name, ".json")
	m.defaultTrack = config
	return nil
}

// RefreshCache drops cached tracks and reloads the default from disk
func (m *Manager) RefreshCache() error {
	m.mu.Lock()
	m.configs = make(map[string]*engine.TrackConfig)
	m.mu.Unlock()

	return m.loadDefault()
}

// loadDefault loads the configured default, falling back to the first valid
// track in the directory
func (m *Manager) loadDefault() error {
	name := m.DefaultName()
	config, err := m.LoadTrack(name)
	if err != nil {
		tracks, listErr := m.ListTracks()
		if listErr != nil {
			return listErr
		}
		if len(tracks) == 0 {
			return fmt.Errorf("%w: no valid tracks in %s", ErrConfigNotFound, m.configDir)
		}
		name = tracks[0].TrackID
		if config, err = m.LoadTrack(name); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.defaultName = name
	m.defaultTrack = config
	m.mu.Unlock()
	return nil
}
