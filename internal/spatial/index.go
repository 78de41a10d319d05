/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package spatial answers proximity and alignment queries over on-page object
// bounding boxes fast enough to run on every pointer move. Entries are kept
// in a per-page quadtree that is maintained incrementally; a full rebuild
// happens only after enough mutations have accumulated to degrade the tree.
package spatial

import (
	"sync"

	"golessonwriter/internal/vector"
)

// DefaultRebuildAfter is the mutation count at which a page's tree is rebuilt
// from scratch instead of patched in place.
const DefaultRebuildAfter = 512

// defaultExtent is the partition space used for pages whose size was never
// announced via Track. Entries outside it still work, they just pool at the
// tree root.
var defaultExtent = vector.R(0, 0, 4096, 4096)

// Entry is one object participating in alignment. Bounds are page-local.
// Ref is a non-owning back-reference to the object; the index never touches
// it. Entries are identified by pointer, so the caller keeps the *Entry it
// inserted and passes the same pointer to Update and Remove.
type Entry struct {
	PageID string
	Bounds vector.Rect
	Ref    any
}

type pageIndex struct {
	extent    vector.Rect
	tree      *quadtree
	entries   map[*Entry]struct{}
	mutations int
}

// Index is the per-document spatial index. Reads may run concurrently;
// mutations come from the single tool holding the drag interaction, but the
// index locks anyway so misuse degrades to contention rather than races.
type Index struct {
	mu sync.RWMutex
	// RebuildAfter bounds incremental decay; set before first use.
	RebuildAfter int
	pages        map[string]*pageIndex
}

func NewIndex() *Index {
	return &Index{RebuildAfter: DefaultRebuildAfter, pages: make(map[string]*pageIndex)}
}

// Track announces a page's coordinate space so the quadtree partitions over
// the real page rectangle. Calling it is optional but improves query pruning.
func (ix *Index) Track(pageID string, extent vector.Rect) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	p, ok := ix.pages[pageID]
	if !ok {
		ix.pages[pageID] = &pageIndex{extent: extent, tree: newQuadtree(extent), entries: make(map[*Entry]struct{})}
		return
	}
	p.extent = extent
	p.rebuild()
}

// Insert adds the entry to its page's tree.
func (ix *Index) Insert(e *Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	p := ix.page(e.PageID)
	if _, dup := p.entries[e]; dup {
		return
	}
	p.entries[e] = struct{}{}
	p.tree.insert(e)
	ix.bumpMutations(p)
}

// Remove deletes the entry; unknown entries are ignored.
func (ix *Index) Remove(e *Entry) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	p, ok := ix.pages[e.PageID]
	if !ok {
		return
	}
	if _, known := p.entries[e]; !known {
		return
	}
	delete(p.entries, e)
	p.tree.remove(e)
	ix.bumpMutations(p)
}

// Update moves the entry to new bounds. The tree is patched in place: the
// entry is re-filed under its new rectangle, not the whole page re-indexed.
func (ix *Index) Update(e *Entry, bounds vector.Rect) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	p, ok := ix.pages[e.PageID]
	if !ok {
		e.Bounds = bounds
		return
	}
	if _, known := p.entries[e]; !known {
		e.Bounds = bounds
		return
	}
	p.tree.remove(e)
	e.Bounds = bounds
	p.tree.insert(e)
	ix.bumpMutations(p)
}

// Query returns every entry on the page whose bounds come within margin of
// bbox. Margin is in page-local units; callers convert screen-pixel
// thresholds through the viewport first so results stay scale-invariant.
func (ix *Index) Query(pageID string, bbox vector.Rect, margin float64) []*Entry {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	p, ok := ix.pages[pageID]
	if !ok {
		return nil
	}
	return p.tree.query(bbox.Expand(margin), nil)
}

// Drop forgets everything indexed for a page, on page unload or delete.
func (ix *Index) Drop(pageID string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	delete(ix.pages, pageID)
}

// Len reports the number of entries indexed for a page.
func (ix *Index) Len(pageID string) int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	p, ok := ix.pages[pageID]
	if !ok {
		return 0
	}
	return len(p.entries)
}

func (ix *Index) page(pageID string) *pageIndex {
	p, ok := ix.pages[pageID]
	if !ok {
		p = &pageIndex{extent: defaultExtent, tree: newQuadtree(defaultExtent), entries: make(map[*Entry]struct{})}
		ix.pages[pageID] = p
	}
	return p
}

func (ix *Index) bumpMutations(p *pageIndex) {
	p.mutations++
	limit := ix.RebuildAfter
	if limit <= 0 {
		limit = DefaultRebuildAfter
	}
	if p.mutations >= limit {
		p.rebuild()
	}
}

func (p *pageIndex) rebuild() {
	p.tree = newQuadtree(p.extent)
	for e := range p.entries {
		p.tree.insert(e)
	}
	p.mutations = 0
}
