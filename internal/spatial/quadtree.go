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

import "golessonwriter/internal/vector"

const (
	nodeCapacity = 8
	maxDepth     = 6
)

// quadtree is one node of a region-partitioned tree over entry bounding
// boxes. Entries live in the deepest node that fully contains them; entries
// straddling a child split stay at the parent, so the root can always hold
// strays that fall outside the partition space.
type quadtree struct {
	bounds   vector.Rect
	depth    int
	entries  []*Entry
	children *[4]*quadtree
}

func newQuadtree(bounds vector.Rect) *quadtree {
	return &quadtree{bounds: bounds}
}

func (q *quadtree) insert(e *Entry) {
	if q.children != nil {
		if c := q.childFor(e.Bounds); c != nil {
			c.insert(e)
			return
		}
	}
	q.entries = append(q.entries, e)
	if q.children == nil && len(q.entries) > nodeCapacity && q.depth < maxDepth {
		q.split()
	}
}

func (q *quadtree) remove(e *Entry) bool {
	if q.children != nil {
		if c := q.childFor(e.Bounds); c != nil && c.remove(e) {
			return true
		}
	}
	for i, have := range q.entries {
		if have == e {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return true
		}
	}
	return false
}

// query appends every entry whose bounds intersect area to out and returns
// the grown slice.
func (q *quadtree) query(area vector.Rect, out []*Entry) []*Entry {
	// The root is also the stray bucket, so only prune subtrees.
	if q.depth > 0 && !q.bounds.Intersects(area) {
		return out
	}
	for _, e := range q.entries {
		if e.Bounds.Intersects(area) {
			out = append(out, e)
		}
	}
	if q.children != nil {
		for _, c := range q.children {
			out = c.query(area, out)
		}
	}
	return out
}

func (q *quadtree) split() {
	hw, hh := q.bounds.W/2, q.bounds.H/2
	x, y := q.bounds.X, q.bounds.Y
	q.children = &[4]*quadtree{
		{bounds: vector.R(x, y, hw, hh), depth: q.depth + 1},
		{bounds: vector.R(x+hw, y, hw, hh), depth: q.depth + 1},
		{bounds: vector.R(x, y+hh, hw, hh), depth: q.depth + 1},
		{bounds: vector.R(x+hw, y+hh, hw, hh), depth: q.depth + 1},
	}
	kept := q.entries[:0]
	for _, e := range q.entries {
		if c := q.childFor(e.Bounds); c != nil {
			c.insert(e)
		} else {
			kept = append(kept, e)
		}
	}
	q.entries = kept
}

// childFor returns the child that fully contains r, or nil when r straddles
// the split.
func (q *quadtree) childFor(r vector.Rect) *quadtree {
	for _, c := range q.children {
		if c.bounds.ContainsRect(r) {
			return c
		}
	}
	return nil
}
