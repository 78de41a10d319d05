/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"testing"
)

// fakeStore avoids touching the real OS keyring in tests.
type fakeStore struct{ vals map[string]string }

func (f *fakeStore) Get(service, key string) (string, error) {
	v, ok := f.vals[service+"/"+key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}
func (f *fakeStore) Set(service, key, value string) error {
	f.vals[service+"/"+key] = value
	return nil
}
func (f *fakeStore) Delete(service, key string) error {
	delete(f.vals, service+"/"+key)
	return nil
}

func withFakeStore(t *testing.T) *fakeStore {
	t.Helper()
	old := tokenStore
	fs := &fakeStore{vals: map[string]string{}}
	tokenStore = fs
	t.Cleanup(func() { tokenStore = old })
	return fs
}

func TestEnvOverridesContentURL(t *testing.T) {
	withFakeStore(t)
	old := os.Getenv(EnvContentURL)
	_ = os.Setenv(EnvContentURL, "https://example.test:8443")
	t.Cleanup(func() { _ = os.Setenv(EnvContentURL, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got, want := cfg.Content.BaseURL, "https://example.test:8443"; got != want {
		t.Fatalf("Content.BaseURL = %q, want %q", got, want)
	}
}

func TestEnvOverridesTelemetry(t *testing.T) {
	withFakeStore(t)
	old := os.Getenv(EnvTelemetryOptIn)
	_ = os.Setenv(EnvTelemetryOptIn, "true")
	t.Cleanup(func() { _ = os.Setenv(EnvTelemetryOptIn, old) })
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if !cfg.General.TelemetryOptIn {
		t.Fatalf("General.TelemetryOptIn expected true from env override")
	}
}

func TestEnvOverridesCanvasTunables(t *testing.T) {
	withFakeStore(t)
	t.Setenv(EnvMaxLoadedPages, "9")
	t.Setenv(EnvBufferPages, "2")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Canvas.MaxLoadedPages != 9 || cfg.Canvas.BufferPages != 2 {
		t.Fatalf("canvas env overrides not applied: %#v", cfg.Canvas)
	}
}

func TestCanvasClampRejectsNonsense(t *testing.T) {
	c := CanvasConfig{MaxLoadedPages: -3, BufferPages: -1, SnapThresholdPx: 0}
	clampCanvas(&c)
	d := Defaults().Canvas
	if c.MaxLoadedPages != d.MaxLoadedPages || c.BufferPages != d.BufferPages || c.SnapThresholdPx != d.SnapThresholdPx {
		t.Fatalf("clamp did not restore defaults: %#v", c)
	}
}

func TestMergeIncludesCanvas(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Canvas.MaxLoadedPages = 7
	src.Canvas.SnapThresholdPx = 10
	mergeInto(&dst, &src)
	if dst.Canvas.MaxLoadedPages != 7 || dst.Canvas.SnapThresholdPx != 10 {
		t.Fatalf("canvas fields not merged: %#v", dst.Canvas)
	}
}

func TestMergeIncludesLogging(t *testing.T) {
	dst := Defaults()
	src := Defaults()
	src.Logging.Level = "debug"
	src.Logging.Format = "json"
	src.Logging.Source = true
	src.Logging.File = "C:/tmp/glw.log"
	mergeInto(&dst, &src)
	if dst.Logging.Level != "debug" || dst.Logging.Format != "json" || !dst.Logging.Source || dst.Logging.File != "C:/tmp/glw.log" {
		t.Fatalf("logging fields not merged correctly: %#v", dst.Logging)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	withFakeStore(t)
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvLogFormat, "json")
	t.Setenv(EnvLogSource, "1")
	t.Setenv(EnvLogFile, "X:/glw.log")
	cfg, _, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || cfg.Logging.Format != "json" || !cfg.Logging.Source || cfg.Logging.File != "X:/glw.log" {
		t.Fatalf("env overrides not applied to logging: %#v", cfg.Logging)
	}
}
