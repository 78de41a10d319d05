/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package engine

import (
	"testing"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	"golessonwriter/internal/vector"
)

type drawOp struct {
	pageID string
	kind   layout.RegionKind
	rect   vector.Rect
}

// recordingFrame captures draw operations for assertions.
type recordingFrame struct {
	clips map[string]vector.Rect
	ops   []drawOp
	open  string
}

func newRecordingFrame() *recordingFrame {
	return &recordingFrame{clips: make(map[string]vector.Rect)}
}

func (f *recordingFrame) BeginPage(pageID string, clip vector.Rect) {
	f.open = pageID
	f.clips[pageID] = clip
}

func (f *recordingFrame) DrawRegion(pageID string, kind layout.RegionKind, rect vector.Rect, _ []domain.Drawable) {
	f.ops = append(f.ops, drawOp{pageID: pageID, kind: kind, rect: rect})
}

func (f *recordingFrame) EndPage(string) { f.open = "" }

func containsLoose(outer, inner vector.Rect) bool {
	const eps = 1e-6
	return inner.X >= outer.X-eps && inner.Y >= outer.Y-eps &&
		inner.X+inner.W <= outer.X+outer.W+eps && inner.Y+inner.H <= outer.Y+outer.H+eps
}

// Every region a page draws stays inside that page's own clip rectangle, so
// adjacent pages never bleed into one another.
func TestRenderClipsRegionsToPageRect(t *testing.T) {
	s, _ := openSession(t, 40)
	s.UpdateVisibility(vector.R(0, 0, 1280, 1800))
	s.WaitIdle()

	frame := newRecordingFrame()
	s.Render(frame)
	if len(frame.clips) != 2 {
		t.Fatalf("rendered %d pages, want 2", len(frame.clips))
	}
	if len(frame.ops) != 6 {
		t.Fatalf("got %d draw ops, want 3 regions per page", len(frame.ops))
	}
	for _, op := range frame.ops {
		clip := frame.clips[op.pageID]
		if !containsLoose(clip, op.rect) {
			t.Fatalf("page %s %v region %v escapes clip %v", op.pageID, op.kind, op.rect, clip)
		}
	}
}

// A loaded page whose clip mask went invisible is the historical containment
// defect: rendering must treat it as fatal to that page only.
func TestRenderUnloadsPageWithInactiveClipMask(t *testing.T) {
	s, _ := openSession(t, 40)
	s.UpdateVisibility(vector.R(0, 0, 1280, 1800))
	s.WaitIdle()

	s.pages["p1"].mask.visible = false
	frame := newRecordingFrame()
	s.Render(frame)

	if _, drawn := frame.clips["p1"]; drawn {
		t.Fatalf("page with broken mask must not be drawn")
	}
	if _, drawn := frame.clips["p2"]; !drawn {
		t.Fatalf("healthy neighbor must still render")
	}
	for _, id := range s.LoadedPageIDs() {
		if id == "p1" {
			t.Fatalf("broken page must be unloaded; loaded = %v", s.LoadedPageIDs())
		}
	}

	// Same for a mask that was never enabled.
	s.pages["p2"].mask.enabled = false
	frame = newRecordingFrame()
	s.Render(frame)
	if _, drawn := frame.clips["p2"]; drawn {
		t.Fatalf("disabled mask must also be fatal to the page")
	}
}

// Loaded pages are asserted to carry an active mask whenever they render.
func TestLoadedPagesCarryActiveMask(t *testing.T) {
	s, _ := openSession(t, 40)
	s.UpdateVisibility(vector.R(0, 0, 1280, 1800))
	s.WaitIdle()
	for _, id := range s.LoadedPageIDs() {
		m := s.pages[id].mask
		if !m.enabled || !m.visible {
			t.Fatalf("page %s loaded with inactive mask: %+v", id, m)
		}
	}
}

// Region rectangles track the transform: rendering at 50% zoom halves every
// screen rect.
func TestRenderFollowsTransform(t *testing.T) {
	s, _ := openSession(t, 3)
	s.UpdateVisibility(vector.R(0, 0, 1280, 1800))
	s.WaitIdle()

	f1 := newRecordingFrame()
	s.Render(f1)
	s.Viewport().SetZoom(0.50)
	f2 := newRecordingFrame()
	s.Render(f2)

	c1, c2 := f1.clips["p1"], f2.clips["p1"]
	if c2.W != c1.W/2 || c2.H != c1.H/2 {
		t.Fatalf("clip did not scale: %v -> %v", c1, c2)
	}
}
