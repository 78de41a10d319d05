/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"golessonwriter/internal/domain"
)

func minimalDocument() domain.Document {
	return domain.Document{
		Name: "Algebra 1 — Worksheet 3",
		Pages: []domain.Page{
			{ID: "p1", Index: 0, Width: 1200, Height: 1800, Margins: domain.Margins{Top: 100, Bottom: 100}},
		},
	}
}

func TestInitDocumentScaffoldsAndWritesManifest(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDocument(root, minimalDocument())
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	if _, err := os.Stat(dh.ManifestPath); err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	for _, d := range standardSubDirs {
		if fi, err := os.Stat(filepath.Join(root, d)); err != nil || !fi.IsDir() {
			t.Fatalf("subdir %s missing: %v", d, err)
		}
	}
}

func TestOpenRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := InitDocument(root, minimalDocument()); err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	dh, err := Open(root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if dh.Document.Name != "Algebra 1 — Worksheet 3" {
		t.Fatalf("name = %q", dh.Document.Name)
	}
	if len(dh.Document.Pages) != 1 || dh.Document.Pages[0].Margins.Top != 100 {
		t.Fatalf("pages = %+v", dh.Document.Pages)
	}
}

func TestSaveCreatesBackupOfPreviousManifest(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDocument(root, minimalDocument())
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	dh.Document.Name = "renamed"
	if err := Save(dh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	ents, err := os.ReadDir(filepath.Join(root, BackupsDirName))
	if err != nil {
		t.Fatalf("read backups: %v", err)
	}
	if len(ents) == 0 {
		t.Fatalf("no backup written")
	}
}

func TestOpenRecoversFromCorruptManifest(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDocument(root, minimalDocument())
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	// Second save produces a backup of the valid manifest.
	if err := Save(dh); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(dh.ManifestPath, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("corrupt manifest: %v", err)
	}

	got, err := Open(root)
	if err != nil {
		t.Fatalf("Open must fall back to backup: %v", err)
	}
	if got.Document.Name != dh.Document.Name {
		t.Fatalf("recovered name = %q", got.Document.Name)
	}
}

func TestOpenWithoutManifestOrBackupFails(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty root")
	}
}

func TestSaveAsMovesHandle(t *testing.T) {
	root := t.TempDir()
	dh, err := InitDocument(root, minimalDocument())
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	newRoot := filepath.Join(t.TempDir(), "copy")
	if err := SaveAs(dh, newRoot); err != nil {
		t.Fatalf("SaveAs: %v", err)
	}
	if dh.Root != newRoot {
		t.Fatalf("handle root = %q", dh.Root)
	}
	if _, err := Open(newRoot); err != nil {
		t.Fatalf("Open new root: %v", err)
	}
}

func TestSaveNilHandle(t *testing.T) {
	if err := Save(nil); err == nil {
		t.Fatalf("expected error for nil handle")
	}
}

func TestAutosaveCrashSnapshotWritesFile(t *testing.T) {
	dh, err := InitDocument(t.TempDir(), minimalDocument())
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	path, err := AutosaveCrashSnapshot(dh)
	if err != nil {
		t.Fatalf("AutosaveCrashSnapshot: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	var got domain.Document
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("unmarshal snapshot: %v", err)
	}
	if got.Name != dh.Document.Name {
		t.Fatalf("snapshot name = %q", got.Name)
	}
}
