/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and saves the user-editable application configuration.
// The config lives in a YAML file in the user scope; environment variables are
// read-only overrides at runtime; the content-backend token lives in the OS
// keychain, never on disk.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ContentConfig configures the remote content provider (page payload fetches).
type ContentConfig struct {
	BaseURL     string `yaml:"base_url"`
	TimeoutMs   int    `yaml:"timeout_ms"`
	TLSInsecure bool   `yaml:"tls_insecure"`
	// PGDSN, when set, selects the direct Postgres provider instead of HTTP.
	PGDSN string `yaml:"pg_dsn"`
	// Token is not stored on disk; it lives in the OS keychain.
}

// CanvasConfig holds the virtual-canvas tunables. These are deliberately
// configuration, not contract: the engine only requires them to be positive.
type CanvasConfig struct {
	// MaxLoadedPages bounds the number of simultaneously loaded pages.
	MaxLoadedPages int `yaml:"max_loaded_pages"`
	// BufferPages is how many page-heights beyond the viewport stay eligible.
	BufferPages int `yaml:"buffer_pages"`
	// SnapThresholdPx is the alignment snap distance in screen pixels.
	SnapThresholdPx float64 `yaml:"snap_threshold_px"`
	// OfflineCache enables the local SQLite page-content cache.
	OfflineCache bool `yaml:"offline_cache"`
}

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// AppConfig is the user-editable configuration persisted to a YAML file.
// config_version: bump when the structure changes in a backward-incompatible way.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Content       ContentConfig `yaml:"content"`
	Canvas        CanvasConfig  `yaml:"canvas"`
	Logging       LoggingConfig `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Content:       ContentConfig{BaseURL: "http://localhost:8080", TimeoutMs: 15000, TLSInsecure: false},
		Canvas:        CanvasConfig{MaxLoadedPages: 5, BufferPages: 1, SnapThresholdPx: 15, OfflineCache: true},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvContentURL       = "GLW_CONTENT_URL"
	EnvContentTimeoutMs = "GLW_CONTENT_TIMEOUT_MS"
	EnvContentTLSInsec  = "GLW_TLS_INSECURE"
	EnvContentPGDSN     = "GLW_PG_DSN"
	EnvTelemetryOptIn   = "GLW_TELEMETRY_OPT_IN"
	EnvMaxLoadedPages   = "GLW_MAX_LOADED_PAGES"
	EnvBufferPages      = "GLW_BUFFER_PAGES"
	// EnvLogLevel Logging envs
	EnvLogLevel  = "GLW_LOG_LEVEL"
	EnvLogFormat = "GLW_LOG_FORMAT"
	EnvLogSource = "GLW_LOG_SOURCE"
	EnvLogFile   = "GLW_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "GoLessonWriter"
	keyringToken   = "content_token"
)

// tokenStore abstracts keyring, so we can stub in tests.
var tokenStore TokenStore = &osKeyring{}

type TokenStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoLessonWriter")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoLessonWriter")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "golessonwriter")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The content token comes from the keyring and is
// returned separately so it never transits the YAML file.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, "", err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	clampCanvas(&cfg.Canvas)
	tok, _ := tokenStore.Get(keyringService, keyringToken)
	return cfg, tok, nil
}

// Save writes the user config YAML and persists the token into the OS keyring
// (if non-empty).
func Save(cfg AppConfig, token string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if token != "" {
		if err := tokenStore.Set(keyringService, keyringToken, token); err != nil {
			return err
		}
	}
	return nil
}

// clampCanvas keeps canvas tunables in a sane range. Out-of-range values are a
// configuration error, never a crash.
func clampCanvas(c *CanvasConfig) {
	if c.MaxLoadedPages < 1 {
		c.MaxLoadedPages = Defaults().Canvas.MaxLoadedPages
	}
	if c.BufferPages < 0 {
		c.BufferPages = Defaults().Canvas.BufferPages
	}
	if c.SnapThresholdPx <= 0 {
		c.SnapThresholdPx = Defaults().Canvas.SnapThresholdPx
	}
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	if src.Content.BaseURL != "" {
		dst.Content.BaseURL = src.Content.BaseURL
	}
	if src.Content.TimeoutMs != 0 {
		dst.Content.TimeoutMs = src.Content.TimeoutMs
	}
	dst.Content.TLSInsecure = src.Content.TLSInsecure
	if strings.TrimSpace(src.Content.PGDSN) != "" {
		dst.Content.PGDSN = strings.TrimSpace(src.Content.PGDSN)
	}
	if src.Canvas.MaxLoadedPages != 0 {
		dst.Canvas.MaxLoadedPages = src.Canvas.MaxLoadedPages
	}
	if src.Canvas.BufferPages != 0 {
		dst.Canvas.BufferPages = src.Canvas.BufferPages
	}
	if src.Canvas.SnapThresholdPx != 0 {
		dst.Canvas.SnapThresholdPx = src.Canvas.SnapThresholdPx
	}
	dst.Canvas.OfflineCache = src.Canvas.OfflineCache
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvContentURL)); v != "" {
		cfg.Content.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvContentTimeoutMs)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Content.TimeoutMs = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvContentTLSInsec)); v != "" {
		cfg.Content.TLSInsecure = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvContentPGDSN)); v != "" {
		cfg.Content.PGDSN = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		cfg.General.TelemetryOptIn = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvMaxLoadedPages)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.MaxLoadedPages = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvBufferPages)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Canvas.BufferPages = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		cfg.Logging.Source = parseBool(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func parseBool(v string) bool {
	lv := strings.ToLower(strings.TrimSpace(v))
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
