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

// Alignment detection on top of Query: derive snap candidates for a dragged
// bounding box from the entries near it. Deterministic and UI-agnostic so it
// can be unit-tested away from any frontend.

import (
	"math"
	"sort"

	"golessonwriter/internal/vector"
)

// Axis names the snapping axis of a candidate.
type Axis uint8

const (
	AxisX Axis = iota // horizontal adjustment, vertical guide line
	AxisY
)

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// CandidateKind orders candidates by how strongly they attract: equal
// spacing beats edge/center alignment beats grid snapping.
type CandidateKind uint8

const (
	CandidateGrid CandidateKind = iota
	CandidateEdge
	CandidateCenter
	CandidateEqualSpacing
)

func (k CandidateKind) String() string {
	switch k {
	case CandidateEqualSpacing:
		return "equal-spacing"
	case CandidateCenter:
		return "center"
	case CandidateEdge:
		return "edge"
	default:
		return "grid"
	}
}

func (k CandidateKind) priority() int {
	switch k {
	case CandidateEqualSpacing:
		return 2
	case CandidateEdge, CandidateCenter:
		return 1
	default:
		return 0
	}
}

// GuideLine is the visual feedback for one candidate. Position is the x of a
// vertical guide (AxisX) or the y of a horizontal one; From/To span the
// rects involved so the frontend can draw the line without re-deriving it.
type GuideLine struct {
	Axis     Axis
	Kind     CandidateKind
	Position float64
	From     vector.Pt
	To       vector.Pt
}

// Candidate is one snap opportunity on one axis. Delta is the signed shift
// to apply to the moving rect on that axis; Position is the page-local
// coordinate of the aligned feature after the shift.
type Candidate struct {
	Kind     CandidateKind
	Axis     Axis
	Position float64
	Delta    float64
	Guide    GuideLine
}

// SnapOptions controls which candidates are considered and the threshold.
type SnapOptions struct {
	// Threshold is the maximum |delta| at which a candidate is emitted, in
	// page-local units. Convert the screen-pixel threshold through the
	// viewport before calling so snapping stays scale-invariant.
	Threshold    float64
	Edges        bool
	Centers      bool
	EqualSpacing bool
	// GridSize > 0 adds grid-snap candidates at multiples of the size.
	GridSize float64
}

// DefaultSnapOptions matches the interactive tools: 15 units of threshold at
// 100% zoom, all alignment kinds on, grid off.
func DefaultSnapOptions() SnapOptions {
	return SnapOptions{Threshold: 15, Edges: true, Centers: true, EqualSpacing: true}
}

// Candidates computes every snap candidate for a moving rect against the
// given neighbors, sorted best-first: higher priority kinds before lower,
// smaller |delta| within a kind, position as the final deterministic
// tie-break.
func Candidates(moving vector.Rect, neighbors []*Entry, opts SnapOptions) []Candidate {
	if opts.Threshold <= 0 {
		opts.Threshold = 15
	}
	var out []Candidate

	mL, mR := moving.X, moving.X+moving.W
	mT, mB := moving.Y, moving.Y+moving.H
	mCX, mCY := moving.CenterX(), moving.CenterY()

	for _, n := range neighbors {
		r := n.Bounds
		nL, nR, nT, nB := r.X, r.X+r.W, r.Y, r.Y+r.H

		if opts.Edges {
			// left/right against both of the neighbor's vertical edges,
			// which covers flush alignment and abutting placement.
			for _, ax := range []float64{nL, nR} {
				out = consider(out, CandidateEdge, AxisX, ax, ax-mL, opts.Threshold, vGuide(CandidateEdge, ax, moving, r))
				out = consider(out, CandidateEdge, AxisX, ax, ax-mR, opts.Threshold, vGuide(CandidateEdge, ax, moving, r))
			}
			for _, ay := range []float64{nT, nB} {
				out = consider(out, CandidateEdge, AxisY, ay, ay-mT, opts.Threshold, hGuide(CandidateEdge, ay, moving, r))
				out = consider(out, CandidateEdge, AxisY, ay, ay-mB, opts.Threshold, hGuide(CandidateEdge, ay, moving, r))
			}
		}
		if opts.Centers {
			out = consider(out, CandidateCenter, AxisX, r.CenterX(), r.CenterX()-mCX, opts.Threshold, vGuide(CandidateCenter, r.CenterX(), moving, r))
			out = consider(out, CandidateCenter, AxisY, r.CenterY(), r.CenterY()-mCY, opts.Threshold, hGuide(CandidateCenter, r.CenterY(), moving, r))
		}
	}

	if opts.EqualSpacing {
		out = appendSpacing(out, AxisX, mCX, centers(neighbors, AxisX), moving, neighbors, opts.Threshold)
		out = appendSpacing(out, AxisY, mCY, centers(neighbors, AxisY), moving, neighbors, opts.Threshold)
	}

	if opts.GridSize > 0 {
		gx := math.Round(mL/opts.GridSize) * opts.GridSize
		gy := math.Round(mT/opts.GridSize) * opts.GridSize
		out = consider(out, CandidateGrid, AxisX, gx, gx-mL, opts.Threshold, vGuide(CandidateGrid, gx, moving, moving))
		out = consider(out, CandidateGrid, AxisY, gy, gy-mT, opts.Threshold, hGuide(CandidateGrid, gy, moving, moving))
	}

	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Kind.priority(), out[j].Kind.priority()
		if pi != pj {
			return pi > pj
		}
		di, dj := math.Abs(out[i].Delta), math.Abs(out[j].Delta)
		if di != dj {
			return di < dj
		}
		return out[i].Position < out[j].Position
	})
	return out
}

// Snap applies the best candidate per axis to the moving rect and returns
// the adjusted rect with the guide lines to render. Axes snap independently.
func Snap(moving vector.Rect, neighbors []*Entry, opts SnapOptions) (vector.Rect, []GuideLine) {
	cands := Candidates(moving, neighbors, opts)
	snapped := moving
	var guides []GuideLine
	done := [2]bool{}
	for _, c := range cands {
		if done[c.Axis] {
			continue
		}
		done[c.Axis] = true
		if c.Axis == AxisX {
			snapped.X = vector.FloatRound(snapped.X+c.Delta, 3)
		} else {
			snapped.Y = vector.FloatRound(snapped.Y+c.Delta, 3)
		}
		guides = append(guides, c.Guide)
		if done[AxisX] && done[AxisY] {
			break
		}
	}
	return snapped, guides
}

func consider(out []Candidate, kind CandidateKind, axis Axis, pos, delta, threshold float64, g GuideLine) []Candidate {
	if math.Abs(delta) > threshold {
		return out
	}
	return append(out, Candidate{
		Kind:     kind,
		Axis:     axis,
		Position: vector.FloatRound(pos, 3),
		Delta:    vector.FloatRound(delta, 3),
		Guide:    g,
	})
}

// appendSpacing emits equal-spacing candidates: positions where the moving
// rect's center would sit equidistant between its nearest two neighbors on
// the axis, or extend an existing run of equal gaps by one more step.
func appendSpacing(out []Candidate, axis Axis, movingCenter float64, cs []float64, moving vector.Rect, neighbors []*Entry, threshold float64) []Candidate {
	if len(cs) < 2 {
		return out
	}
	sort.Float64s(cs)
	emit := func(target float64) []Candidate {
		delta := target - movingCenter
		if math.Abs(delta) > threshold {
			return out
		}
		g := spacingGuide(axis, target, moving, neighbors)
		return append(out, Candidate{
			Kind:     CandidateEqualSpacing,
			Axis:     axis,
			Position: vector.FloatRound(target, 3),
			Delta:    vector.FloatRound(delta, 3),
			Guide:    g,
		})
	}
	for i := 0; i+1 < len(cs); i++ {
		// midway inside the gap: equal distance to both neighbors
		out = emit((cs[i] + cs[i+1]) / 2)
		// one more step continuing the gap beyond either end
		gap := cs[i+1] - cs[i]
		if gap > 0 {
			out = emit(cs[i] - gap)
			out = emit(cs[i+1] + gap)
		}
	}
	return out
}

func centers(neighbors []*Entry, axis Axis) []float64 {
	cs := make([]float64, 0, len(neighbors))
	for _, n := range neighbors {
		if axis == AxisX {
			cs = append(cs, n.Bounds.CenterX())
		} else {
			cs = append(cs, n.Bounds.CenterY())
		}
	}
	return cs
}

func vGuide(kind CandidateKind, x float64, a, b vector.Rect) GuideLine {
	minY := math.Min(a.Y, b.Y)
	maxY := math.Max(a.Y+a.H, b.Y+b.H)
	x = vector.FloatRound(x, 3)
	return GuideLine{Axis: AxisX, Kind: kind, Position: x, From: vector.Pt{X: x, Y: minY}, To: vector.Pt{X: x, Y: maxY}}
}

func hGuide(kind CandidateKind, y float64, a, b vector.Rect) GuideLine {
	minX := math.Min(a.X, b.X)
	maxX := math.Max(a.X+a.W, b.X+b.W)
	y = vector.FloatRound(y, 3)
	return GuideLine{Axis: AxisY, Kind: kind, Position: y, From: vector.Pt{X: minX, Y: y}, To: vector.Pt{X: maxX, Y: y}}
}

func spacingGuide(axis Axis, target float64, moving vector.Rect, neighbors []*Entry) GuideLine {
	span := moving
	for _, n := range neighbors {
		span = span.Union(n.Bounds)
	}
	if axis == AxisX {
		return GuideLine{Axis: AxisX, Kind: CandidateEqualSpacing, Position: vector.FloatRound(target, 3),
			From: vector.Pt{X: target, Y: span.Y}, To: vector.Pt{X: target, Y: span.Y + span.H}}
	}
	return GuideLine{Axis: AxisY, Kind: CandidateEqualSpacing, Position: vector.FloatRound(target, 3),
		From: vector.Pt{X: span.X, Y: target}, To: vector.Pt{X: span.X + span.W, Y: target}}
}
