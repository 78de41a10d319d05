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
	"math/rand"
	"testing"

	"golessonwriter/internal/vector"
	"golessonwriter/internal/viewport"
)

func TestInsertAndQuery(t *testing.T) {
	ix := NewIndex()
	ix.Track("p1", vector.R(0, 0, 1200, 1800))
	a := &Entry{PageID: "p1", Bounds: vector.R(10, 10, 50, 50)}
	b := &Entry{PageID: "p1", Bounds: vector.R(600, 900, 50, 50)}
	ix.Insert(a)
	ix.Insert(b)

	got := ix.Query("p1", vector.R(0, 0, 100, 100), 0)
	if len(got) != 1 || got[0] != a {
		t.Fatalf("query near origin = %v, want only a", got)
	}
	if got := ix.Query("p2", vector.R(0, 0, 100, 100), 0); got != nil {
		t.Fatalf("unknown page must return nil, got %v", got)
	}
}

func TestQueryMarginExpandsSearch(t *testing.T) {
	ix := NewIndex()
	ix.Track("p1", vector.R(0, 0, 1200, 1800))
	e := &Entry{PageID: "p1", Bounds: vector.R(120, 0, 40, 40)}
	ix.Insert(e)

	// bbox right edge at 100, entry left edge at 120: 20 units apart.
	bbox := vector.R(0, 0, 100, 40)
	if got := ix.Query("p1", bbox, 15); len(got) != 0 {
		t.Fatalf("margin 15 must miss an entry 20 away, got %v", got)
	}
	if got := ix.Query("p1", bbox, 30); len(got) != 1 {
		t.Fatalf("margin 30 must reach the entry, got %v", got)
	}
}

// Dragging near three unrelated objects must surface all three, and the
// screen-pixel threshold must widen in world units as zoom decreases.
func TestQueryThresholdScalesWithZoom(t *testing.T) {
	ix := NewIndex()
	ix.Track("p1", vector.R(0, 0, 1200, 1800))
	var objs []*Entry
	for _, r := range []vector.Rect{
		vector.R(220, 100, 40, 40), // 20 right of the dragged box
		vector.R(40, 100, 40, 40),  // 20 left
		vector.R(100, 220, 40, 40), // 20 below
	} {
		e := &Entry{PageID: "p1", Bounds: r}
		objs = append(objs, e)
		ix.Insert(e)
	}
	dragged := vector.R(100, 100, 100, 100)

	vpc := viewport.New()
	vpc.SetZoom(1.00)
	if got := ix.Query("p1", dragged, vpc.ScreenToWorldDistance(15)); len(got) != 0 {
		t.Fatalf("objects 20 world px away must be out of reach at 100%%, got %d", len(got))
	}

	vpc.SetZoom(0.50)
	got := ix.Query("p1", dragged, vpc.ScreenToWorldDistance(15))
	if len(got) != len(objs) {
		t.Fatalf("at 50%% zoom the 15px threshold spans 30 world px; got %d of %d", len(got), len(objs))
	}
}

func TestUpdateMovesEntry(t *testing.T) {
	ix := NewIndex()
	ix.Track("p1", vector.R(0, 0, 1200, 1800))
	e := &Entry{PageID: "p1", Bounds: vector.R(10, 10, 20, 20)}
	ix.Insert(e)
	ix.Update(e, vector.R(1000, 1000, 20, 20))

	if got := ix.Query("p1", vector.R(0, 0, 100, 100), 0); len(got) != 0 {
		t.Fatalf("entry still found at old bounds: %v", got)
	}
	got := ix.Query("p1", vector.R(990, 990, 100, 100), 0)
	if len(got) != 1 || got[0] != e {
		t.Fatalf("entry not found at new bounds: %v", got)
	}
	if e.Bounds.X != 1000 {
		t.Fatalf("entry bounds not updated: %+v", e.Bounds)
	}
}

func TestRemoveAndDrop(t *testing.T) {
	ix := NewIndex()
	e := &Entry{PageID: "p1", Bounds: vector.R(10, 10, 20, 20)}
	ix.Insert(e)
	if ix.Len("p1") != 1 {
		t.Fatalf("len = %d, want 1", ix.Len("p1"))
	}
	ix.Remove(e)
	if ix.Len("p1") != 0 {
		t.Fatalf("len after remove = %d", ix.Len("p1"))
	}
	// removing again is a no-op
	ix.Remove(e)

	ix.Insert(e)
	ix.Drop("p1")
	if ix.Len("p1") != 0 {
		t.Fatalf("len after drop = %d", ix.Len("p1"))
	}
}

// Cross-check tree queries against a brute-force scan across many random
// entries and mutations, including past the rebuild threshold.
func TestQueryMatchesBruteForce(t *testing.T) {
	ix := NewIndex()
	ix.RebuildAfter = 64
	ix.Track("p1", vector.R(0, 0, 1200, 1800))
	rng := rand.New(rand.NewSource(7))

	var all []*Entry
	for i := 0; i < 200; i++ {
		e := &Entry{PageID: "p1", Bounds: vector.R(rng.Float64()*1150, rng.Float64()*1750, 5+rng.Float64()*80, 5+rng.Float64()*80)}
		all = append(all, e)
		ix.Insert(e)
	}
	for i := 0; i < 100; i++ {
		e := all[rng.Intn(len(all))]
		ix.Update(e, vector.R(rng.Float64()*1150, rng.Float64()*1750, 5+rng.Float64()*80, 5+rng.Float64()*80))
	}

	for i := 0; i < 50; i++ {
		area := vector.R(rng.Float64()*1100, rng.Float64()*1700, 100, 100)
		margin := rng.Float64() * 40
		got := ix.Query("p1", area, margin)
		want := 0
		grown := area.Expand(margin)
		for _, e := range all {
			if e.Bounds.Intersects(grown) {
				want++
			}
		}
		if len(got) != want {
			t.Fatalf("query %d: tree returned %d entries, brute force %d", i, len(got), want)
		}
	}
}

func TestEntriesOutsideTrackedExtentStillFound(t *testing.T) {
	ix := NewIndex()
	ix.Track("p1", vector.R(0, 0, 100, 100))
	e := &Entry{PageID: "p1", Bounds: vector.R(500, 500, 20, 20)}
	ix.Insert(e)
	got := ix.Query("p1", vector.R(490, 490, 40, 40), 0)
	if len(got) != 1 || got[0] != e {
		t.Fatalf("stray entry lost: %v", got)
	}
}
