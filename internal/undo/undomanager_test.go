/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"testing"
	"time"
)

func TestPushUndoRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("v1"), TS: base})
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("v2"), TS: base.Add(time.Second)})

	s, ok := m.Undo("p1")
	if !ok || string(s.Blob) != "v2" {
		t.Fatalf("Undo = %q %v", s.Blob, ok)
	}
	s, ok = m.Redo("p1")
	if !ok || string(s.Blob) != "v2" {
		t.Fatalf("Redo = %q %v", s.Blob, ok)
	}
	if _, ok := m.Redo("p1"); ok {
		t.Fatalf("redo stack must be empty after redo")
	}
}

func TestCoalescingWithinInterval(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Second})
	base := time.Now()
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("a"), TS: base})
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("ab"), TS: base.Add(100 * time.Millisecond)})

	_, _, snaps := m.Stats()
	if snaps != 1 {
		t.Fatalf("snapshots = %d, want coalesced 1", snaps)
	}
	s, _ := m.Undo("p1")
	if string(s.Blob) != "ab" {
		t.Fatalf("coalesced blob = %q", s.Blob)
	}
}

func TestPushClearsRedo(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("v1"), TS: base})
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("v2"), TS: base.Add(time.Second)})
	m.Undo("p1")
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("v3"), TS: base.Add(2 * time.Second)})
	if _, ok := m.Redo("p1"); ok {
		t.Fatalf("push must clear redo")
	}
}

func TestPerPageDepthCap(t *testing.T) {
	m := NewManager(Config{MaxPerPage: 2, MinInterval: time.Millisecond})
	base := time.Now()
	for i := 0; i < 5; i++ {
		m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte{byte('0' + i)}, TS: base.Add(time.Duration(i) * time.Second)})
	}
	_, _, snaps := m.Stats()
	if snaps != 2 {
		t.Fatalf("snapshots = %d, want capped 2", snaps)
	}
	s, _ := m.Undo("p1")
	if string(s.Blob) != "4" {
		t.Fatalf("newest snapshot = %q", s.Blob)
	}
}

func TestGlobalByteCapPrunesOldest(t *testing.T) {
	m := NewManager(Config{MaxBytes: 8, MinInterval: time.Millisecond})
	base := time.Now()
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: make([]byte, 6), TS: base})
	m.PushSnapshot(Snapshot{PageID: "p2", Blob: make([]byte, 6), TS: base.Add(time.Second)})

	total, _, _ := m.Stats()
	if total > 8 {
		t.Fatalf("total bytes = %d, cap is 8", total)
	}
	if _, ok := m.Undo("p1"); ok {
		t.Fatalf("oldest page snapshot should have been pruned")
	}
	if _, ok := m.Undo("p2"); !ok {
		t.Fatalf("newest snapshot must survive")
	}
}

func TestClearPage(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("x"), TS: time.Now()})
	m.ClearPage("p1")
	total, pages, snaps := m.Stats()
	if total != 0 || pages != 0 || snaps != 0 {
		t.Fatalf("stats after clear = %d %d %d", total, pages, snaps)
	}
	if _, ok := m.Undo("p1"); ok {
		t.Fatalf("undo after clear must be empty")
	}
}

func TestPagesAreIndependent(t *testing.T) {
	m := NewManager(Config{MinInterval: time.Millisecond})
	base := time.Now()
	m.PushSnapshot(Snapshot{PageID: "p1", Blob: []byte("one"), TS: base})
	m.PushSnapshot(Snapshot{PageID: "p2", Blob: []byte("two"), TS: base.Add(time.Second)})

	if s, ok := m.Undo("p1"); !ok || string(s.Blob) != "one" {
		t.Fatalf("p1 undo = %q %v", s.Blob, ok)
	}
	if s, ok := m.Undo("p2"); !ok || string(s.Blob) != "two" {
		t.Fatalf("p2 undo = %q %v", s.Blob, ok)
	}
}
