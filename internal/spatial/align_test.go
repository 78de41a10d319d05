/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package spatial

import (
	"math"
	"testing"

	"golessonwriter/internal/vector"
)

func entryAt(r vector.Rect) *Entry {
	return &Entry{PageID: "p1", Bounds: r}
}

// Three objects with centers at x = 100, 200, 300 and a fourth dragged near
// x = 150: the equal-spacing candidate at 150 must outrank the plain edge
// alignment to the object at 200 even though both are within the threshold.
func TestEqualSpacingBeatsEdgeAlignment(t *testing.T) {
	neighbors := []*Entry{
		entryAt(vector.R(90, 0, 20, 30)),  // center x 100
		entryAt(vector.R(190, 0, 20, 30)), // center x 200
		entryAt(vector.R(290, 0, 20, 30)), // center x 300
	}
	moving := vector.R(142, 50, 20, 30) // center x 152

	opts := DefaultSnapOptions()
	opts.Threshold = 60 // wide enough that the edge candidate also qualifies
	cands := Candidates(moving, neighbors, opts)
	if len(cands) == 0 {
		t.Fatalf("no candidates")
	}

	best := cands[0]
	if best.Kind != CandidateEqualSpacing || best.Axis != AxisX {
		t.Fatalf("best candidate = %v/%v, want equal-spacing on x", best.Kind, best.Axis)
	}
	if best.Position != 150 {
		t.Fatalf("equal-spacing position = %v, want 150", best.Position)
	}
	if best.Delta != -2 {
		t.Fatalf("equal-spacing delta = %v, want -2", best.Delta)
	}

	foundEdge := false
	for _, c := range cands[1:] {
		if c.Kind == CandidateEdge && c.Axis == AxisX {
			foundEdge = true
			if c.Kind.priority() >= best.Kind.priority() {
				t.Fatalf("edge candidate must rank below equal spacing")
			}
		}
	}
	if !foundEdge {
		t.Fatalf("expected an edge candidate within the widened threshold")
	}
}

func TestEdgeCandidates(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 100, 50, 50))}
	moving := vector.R(104, 300, 40, 40) // left edge 4 units off the anchor's left

	opts := SnapOptions{Threshold: 10, Edges: true}
	cands := Candidates(moving, neighbors, opts)
	if len(cands) == 0 {
		t.Fatalf("no candidates")
	}
	best := cands[0]
	if best.Kind != CandidateEdge || best.Axis != AxisX || best.Position != 100 || best.Delta != -4 {
		t.Fatalf("best = %+v, want edge x@100 delta -4", best)
	}
}

func TestCenterCandidates(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 100, 50, 50))} // center (125, 125)
	moving := vector.R(110, 300, 40, 40)                       // center x 130

	opts := SnapOptions{Threshold: 6, Centers: true}
	cands := Candidates(moving, neighbors, opts)
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1: %+v", len(cands), cands)
	}
	c := cands[0]
	if c.Kind != CandidateCenter || c.Position != 125 || c.Delta != -5 {
		t.Fatalf("center candidate = %+v", c)
	}
}

func TestThresholdFiltersCandidates(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 100, 50, 50))}
	moving := vector.R(130, 300, 40, 40) // 30 units off every feature

	opts := SnapOptions{Threshold: 10, Edges: true, Centers: true}
	for _, c := range Candidates(moving, neighbors, opts) {
		if math.Abs(c.Delta) > opts.Threshold {
			t.Fatalf("candidate beyond threshold emitted: %+v", c)
		}
	}
}

func TestGridCandidatesLowestPriority(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 300, 50, 50))}
	moving := vector.R(96, 300, 40, 40) // 4 off the anchor's left edge, 4 off a 10-unit grid line

	opts := SnapOptions{Threshold: 10, Edges: true, GridSize: 10}
	cands := Candidates(moving, neighbors, opts)
	if len(cands) < 2 {
		t.Fatalf("expected edge and grid candidates, got %+v", cands)
	}
	if cands[0].Kind != CandidateEdge {
		t.Fatalf("edge must outrank grid, best = %+v", cands[0])
	}
	sawGrid := false
	for _, c := range cands {
		if c.Kind == CandidateGrid {
			sawGrid = true
		}
	}
	if !sawGrid {
		t.Fatalf("no grid candidate emitted: %+v", cands)
	}
}

func TestSamePrioritySmallestDeltaWins(t *testing.T) {
	neighbors := []*Entry{
		entryAt(vector.R(108, 100, 50, 50)), // left edge 8 away
		entryAt(vector.R(103, 200, 50, 50)), // left edge 3 away
	}
	moving := vector.R(100, 300, 40, 40)

	opts := SnapOptions{Threshold: 10, Edges: true}
	cands := Candidates(moving, neighbors, opts)
	if cands[0].Delta != 3 {
		t.Fatalf("best delta = %v, want 3", cands[0].Delta)
	}
}

func TestSnapAdjustsBothAxesIndependently(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 100, 50, 50))}
	moving := vector.R(104, 97, 40, 40)

	opts := SnapOptions{Threshold: 10, Edges: true}
	snapped, guides := Snap(moving, neighbors, opts)
	if snapped.X != 100 || snapped.Y != 100 {
		t.Fatalf("snapped = %+v, want aligned at (100, 100)", snapped)
	}
	if len(guides) != 2 {
		t.Fatalf("expected one guide per axis, got %d", len(guides))
	}
}

func TestSnapWithoutCandidatesReturnsInput(t *testing.T) {
	moving := vector.R(500, 500, 40, 40)
	snapped, guides := Snap(moving, nil, DefaultSnapOptions())
	if snapped != moving || guides != nil {
		t.Fatalf("snap with no neighbors must be identity: %+v %v", snapped, guides)
	}
}

func TestGuideLineSpansBothRects(t *testing.T) {
	neighbors := []*Entry{entryAt(vector.R(100, 100, 50, 50))}
	moving := vector.R(102, 300, 40, 40)

	opts := SnapOptions{Threshold: 10, Edges: true}
	cands := Candidates(moving, neighbors, opts)
	g := cands[0].Guide
	if g.Axis != AxisX {
		t.Fatalf("guide axis = %v", g.Axis)
	}
	if g.From.Y != 100 || g.To.Y != 340 {
		t.Fatalf("guide must span anchor top to moving bottom: %+v", g)
	}
}
