// Package settings persists viewer preferences across sessions.
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"

	"github.com/acharts/acharts/internal/chart"
	"github.com/acharts/acharts/internal/observability"
	"github.com/acharts/acharts/internal/params"
)

const (
	envConfigDir = "ACHARTS_CONFIG_DIR"
	fileName     = "acharts.json"

	DefaultColorScheme = chart.DefaultColorScheme
)

// Settings stores per-viewer preferences.
type Settings struct {
	// ColorScheme selects the chart palette.
	ColorScheme string `json:"color_scheme"`

	// ReducedMotion disables viewport easing; pans land immediately.
	ReducedMotion bool `json:"reduced_motion"`

	// AnimationDurationMS is the viewport transition length in
	// milliseconds. Ignored when ReducedMotion is set.
	AnimationDurationMS int `json:"animation_duration_ms"`

	// SortDataSetsBy orders data sets before rendering: name, min or max.
	SortDataSetsBy string `json:"sort_data_sets_by"`
}

// Manager manages persisted settings with thread-safe access.
//
// All setter methods save changes through the backing filesystem.
type Manager struct {
	mu       sync.RWMutex
	fs       afero.Fs
	path     string
	settings Settings
	logger   *observability.CoreLogger
}

// NewManager loads settings from path, creating the file with defaults when
// it does not exist yet. A load failure is logged and defaults are kept.
func NewManager(fs afero.Fs, path string, logger *observability.CoreLogger) *Manager {
	m := &Manager{
		fs:   fs,
		path: path,
		settings: Settings{
			ColorScheme:         DefaultColorScheme,
			AnimationDurationMS: int(params.DefaultAnimationDuration / time.Millisecond),
			SortDataSetsBy:      params.SortByName,
		},
		logger: logger,
	}
	if err := m.loadOrCreate(); err != nil {
		m.logger.Error(fmt.Sprintf("settings: error loading or creating: %v", err))
	}
	return m
}

// loadOrCreate reads the settings file or stores and uses defaults.
func (m *Manager) loadOrCreate() error {
	data, err := afero.ReadFile(m.fs, m.path)

	// No settings file yet, create and save it.
	if os.IsNotExist(err) {
		if dir := filepath.Dir(m.path); dir != "" {
			_ = m.fs.MkdirAll(dir, 0o755)
		}
		return m.save()
	}
	if err != nil {
		return err
	}

	if err := json.Unmarshal(data, &m.settings); err != nil {
		return err
	}

	m.normalize()
	return nil
}

// normalize clamps loaded values back into valid ranges.
func (m *Manager) normalize() {
	if !chart.HasColorScheme(m.settings.ColorScheme) {
		m.settings.ColorScheme = DefaultColorScheme
	}
	if m.settings.AnimationDurationMS < 0 {
		m.settings.AnimationDurationMS = int(params.DefaultAnimationDuration / time.Millisecond)
	}
	switch m.settings.SortDataSetsBy {
	case params.SortByName, params.SortByMin, params.SortByMax:
	default:
		m.settings.SortDataSetsBy = params.SortByName
	}
}

// save writes the current settings.
//
// Must be called while holding the lock. Writes atomically via a temp file
// and rename.
func (m *Manager) save() error {
	data, err := json.MarshalIndent(m.settings, "", "  ")
	if err != nil {
		return err
	}

	tempPath := m.path + ".tmp"
	if err := afero.WriteFile(m.fs, tempPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write temp settings file: %v", err)
	}
	if err := m.fs.Rename(tempPath, m.path); err != nil {
		return fmt.Errorf("failed to rename temp settings file: %v", err)
	}
	return nil
}

// Path returns the backing file path.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.path
}

// Snapshot returns a copy of the current settings.
func (m *Manager) Snapshot() Settings {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings
}

// ColorScheme returns the active chart palette name.
func (m *Manager) ColorScheme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.ColorScheme
}

// SetColorScheme sets and persists the chart palette.
func (m *Manager) SetColorScheme(scheme string) error {
	if !chart.HasColorScheme(scheme) {
		return fmt.Errorf("unknown color scheme: %q", scheme)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ColorScheme = scheme
	return m.save()
}

// ReducedMotion reports whether viewport easing is disabled.
func (m *Manager) ReducedMotion() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.ReducedMotion
}

// SetReducedMotion sets and persists the reduced-motion preference.
func (m *Manager) SetReducedMotion(reduced bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.ReducedMotion = reduced
	return m.save()
}

// AnimationDuration returns the viewport transition length. Zero when
// reduced motion is enabled.
func (m *Manager) AnimationDuration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.settings.ReducedMotion {
		return 0
	}
	return time.Duration(m.settings.AnimationDurationMS) * time.Millisecond
}

// SetAnimationDurationMS sets and persists the transition length.
func (m *Manager) SetAnimationDurationMS(ms int) error {
	if ms < 0 {
		return fmt.Errorf("animation duration must not be negative, got %d", ms)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.AnimationDurationMS = ms
	return m.save()
}

// SortDataSetsBy returns the data set ordering key.
func (m *Manager) SortDataSetsBy() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.settings.SortDataSetsBy
}

// SetSortDataSetsBy sets and persists the data set ordering key.
func (m *Manager) SetSortDataSetsBy(key string) error {
	switch key {
	case params.SortByName, params.SortByMin, params.SortByMax:
	default:
		return fmt.Errorf("sort key must be name, min or max, got %q", key)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings.SortDataSetsBy = key
	return m.save()
}

// ChartConfig derives per-chart configuration defaults from the persisted
// preferences. Raw per-chart configuration still overrides these.
func (m *Manager) ChartConfig() *params.ChartConfig {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cfg := &params.ChartConfig{
		AutoLogScaleThreshold: params.DefaultAutoLogScaleThreshold,
		SortDataSetsBy:        m.settings.SortDataSetsBy,
		AnimationDuration: time.Duration(m.settings.AnimationDurationMS) *
			time.Millisecond,
		ColorScheme: m.settings.ColorScheme,
	}
	if m.settings.ReducedMotion {
		cfg.AnimationDuration = 0
	}
	return cfg
}

// DefaultPath returns where settings should be stored, preferring
// ACHARTS_CONFIG_DIR, then ~/.config/acharts, then the OS user config dir,
// then a temp dir.
func DefaultPath(fs afero.Fs) string {
	if raw := strings.TrimSpace(os.Getenv(envConfigDir)); raw != "" {
		if p, ok := pathFromDir(fs, raw); ok {
			return p
		}
	}

	if home, err := os.UserHomeDir(); err == nil {
		if p, ok := pathFromDir(fs, filepath.Join(home, ".config", "acharts")); ok {
			return p
		}
	}

	if base, err := os.UserConfigDir(); err == nil {
		if p, ok := pathFromDir(fs, filepath.Join(base, "acharts")); ok {
			return p
		}
	}

	return filepath.Join(os.TempDir(), fileName)
}

func pathFromDir(fs afero.Fs, dir string) (string, bool) {
	dir = filepath.Clean(strings.TrimSpace(dir))
	if dir == "" {
		return "", false
	}
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return "", false
	}
	return filepath.Join(dir, fileName), true
}
