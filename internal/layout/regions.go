/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package layout computes the header/body/footer region rectangles of a page
// from its margin spec. The solver is pure so it can be unit-tested away from
// rendering; a small manager tracks per-page trees and reports which regions
// changed on recompute so dependent content can reflow without a page reload.
package layout

import (
	"errors"
	"log/slog"
	"sync"

	"golessonwriter/internal/domain"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/vector"
)

// RegionKind identifies one of the three page regions.
type RegionKind uint8

const (
	RegionHeader RegionKind = iota
	RegionBody
	RegionFooter
)

func (k RegionKind) String() string {
	switch k {
	case RegionHeader:
		return "header"
	case RegionBody:
		return "body"
	default:
		return "footer"
	}
}

// RegionTree is the rectangle decomposition of one page, in page-local
// coordinates. It is computed output only and never persisted.
type RegionTree struct {
	Header vector.Rect
	Body   vector.Rect
	Footer vector.Rect
}

// Region returns the rectangle for kind.
func (t RegionTree) Region(kind RegionKind) vector.Rect {
	switch kind {
	case RegionHeader:
		return t.Header
	case RegionBody:
		return t.Body
	default:
		return t.Footer
	}
}

// ErrMarginsExceedPage reports an over-constrained margin spec: the body has
// been clamped to zero height. Callers log it; it is never fatal.
var ErrMarginsExceedPage = errors.New("layout: top+bottom margins meet or exceed page height")

// ComputeRegions turns a page size and margin spec into the three region
// rectangles: header height = margins.Top, footer height = margins.Bottom,
// body takes the rest; all spans share the page width and stack with no gaps.
// Pure: identical inputs always produce identical rectangles.
func ComputeRegions(pageWidth, pageHeight float64, m domain.Margins) RegionTree {
	spans := Solve(pageHeight, []Item{
		{Basis: m.Top},
		{Grow: 1},
		{Basis: m.Bottom},
	})
	return RegionTree{
		Header: vector.R(0, spans[0].Offset, pageWidth, spans[0].Length),
		Body:   vector.R(0, spans[1].Offset, pageWidth, spans[1].Length),
		Footer: vector.R(0, spans[2].Offset, pageWidth, spans[2].Length),
	}
}

// CheckMargins validates a margin spec against the page size.
func CheckMargins(pageHeight float64, m domain.Margins) error {
	if m.Top+m.Bottom >= pageHeight {
		return ErrMarginsExceedPage
	}
	return nil
}

// Manager caches the current RegionTree per page and diffs recomputations.
// Safe for concurrent use.
type Manager struct {
	mu    sync.Mutex
	trees map[string]RegionTree
	log   *slog.Logger
}

func NewManager() *Manager {
	return &Manager{trees: make(map[string]RegionTree), log: applog.WithComponent("layout")}
}

// Recompute solves the region tree for the page and returns it together with
// the kinds whose rectangles changed since the previous call. The first call
// for a page reports all three regions. Over-constrained margins are clamped
// and logged, never returned as an error.
func (m *Manager) Recompute(pageID string, pageWidth, pageHeight float64, margins domain.Margins) (RegionTree, []RegionKind) {
	if err := CheckMargins(pageHeight, margins); err != nil {
		applog.WithPage(m.log, pageID).Warn("margin spec over-constrained, body clamped",
			slog.Float64("top", margins.Top), slog.Float64("bottom", margins.Bottom),
			slog.Float64("page_height", pageHeight))
	}
	tree := ComputeRegions(pageWidth, pageHeight, margins)

	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.trees[pageID]
	m.trees[pageID] = tree

	var changed []RegionKind
	if !ok {
		return tree, []RegionKind{RegionHeader, RegionBody, RegionFooter}
	}
	if prev.Header != tree.Header {
		changed = append(changed, RegionHeader)
	}
	if prev.Body != tree.Body {
		changed = append(changed, RegionBody)
	}
	if prev.Footer != tree.Footer {
		changed = append(changed, RegionFooter)
	}
	return tree, changed
}

// Tree returns the cached region tree for a page, if any.
func (m *Manager) Tree(pageID string) (RegionTree, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.trees[pageID]
	return t, ok
}

// Forget drops the cached tree for a page (on page delete or unload).
func (m *Manager) Forget(pageID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.trees, pageID)
}
