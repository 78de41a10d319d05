/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package engine presents an arbitrarily long sequence of lesson pages as if
// each had its own canvas while only a bounded working set of page resources
// exists. One Session per open document: it tracks per-page runtime state
// (visible, loaded), loads content for pages entering the viewport, evicts
// the least-recently-visible pages past the residency bound, and renders
// every loaded page clipped to its own rectangle.
package engine

import (
	"errors"
	"log/slog"
	"sort"
	"sync"

	"golessonwriter/internal/content"
	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/spatial"
	"golessonwriter/internal/telemetry"
	"golessonwriter/internal/undo"
	"golessonwriter/internal/vector"
	"golessonwriter/internal/viewport"
)

var (
	ErrUnknownPage = errors.New("engine: unknown page id")
	ErrClosed      = errors.New("engine: session closed")
)

// PageGap is the fixed vertical spacing between consecutive pages in world
// units. It never changes with zoom; only the rendered scale does.
const PageGap = 24.0

// Options are the residency tunables. The exact numbers are policy, not
// contract; they come from config.Canvas in the application.
type Options struct {
	// MaxLoadedPages bounds the number of pages with live resources.
	MaxLoadedPages int
	// BufferPages is how many page-heights beyond the viewport stay eligible
	// for loading so scrolling never hits a blank page.
	BufferPages int
}

func DefaultOptions() Options {
	return Options{MaxLoadedPages: 5, BufferPages: 1}
}

// clipMask models the containment mask of one page's render sub-tree. A
// loaded page whose mask is disabled or invisible would bleed into its
// neighbors, so Render treats that as fatal to the page.
type clipMask struct {
	enabled bool
	visible bool
}

type pageState struct {
	page        domain.Page
	visible     bool
	loaded      bool
	editing     bool
	loadErr     bool
	lastErr     error
	lastVisible uint64 // visibility sequence when the page was last visible
	inflight    chan struct{}
	regions     layout.RegionTree
	content     domain.PageContent
	mask        clipMask
	worldY      float64
}

// Session is the canvas engine for one open document.
type Session struct {
	mu       sync.Mutex
	opts     Options
	provider content.Provider
	vp       *viewport.Controller
	layout   *layout.Manager
	index    *spatial.Index
	history  *undo.Manager
	pages    map[string]*pageState
	order    []string // page ids sorted by ordinal index
	visSeq   uint64
	wg       sync.WaitGroup
	closed   bool
	log      *slog.Logger
}

// Open creates a session for the document: one runtime record per page,
// created eagerly, resources allocated lazily on visibility.
func Open(doc *domain.Document, provider content.Provider, vp *viewport.Controller, opts Options) *Session {
	if opts.MaxLoadedPages <= 0 {
		opts.MaxLoadedPages = DefaultOptions().MaxLoadedPages
	}
	if opts.BufferPages < 0 {
		opts.BufferPages = DefaultOptions().BufferPages
	}
	s := &Session{
		opts:     opts,
		provider: provider,
		vp:       vp,
		layout:   layout.NewManager(),
		index:    spatial.NewIndex(),
		history:  undo.NewManager(undo.Config{MaxPerPage: 64}),
		pages:    make(map[string]*pageState),
		log:      applog.WithComponent("engine"),
	}
	if doc != nil {
		for _, p := range doc.Pages {
			s.RegisterPage(p)
		}
		telemetry.Event("document_open", map[string]any{"pages": len(doc.Pages)})
	}
	return s
}

// Close unloads everything and waits for in-flight loads to settle.
func (s *Session) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for id, p := range s.pages {
		if p.loaded {
			s.unloadLocked(id, p)
		}
	}
	s.mu.Unlock()
	s.wg.Wait()
}

// RegisterPage creates the runtime record in the unloaded, invisible state.
// Idempotent per page id; re-registering refreshes size and margins only.
func (s *Session) RegisterPage(page domain.Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[page.ID]; ok {
		p.page = page
		s.relayoutLocked()
		return
	}
	s.pages[page.ID] = &pageState{page: page}
	s.order = append(s.order, page.ID)
	s.relayoutLocked()
}

// relayoutLocked re-derives the world-space stacking of pages: sorted by
// ordinal index, top-aligned, fixed gap.
func (s *Session) relayoutLocked() {
	sort.Slice(s.order, func(i, j int) bool {
		return s.pages[s.order[i]].page.Index < s.pages[s.order[j]].page.Index
	})
	y := 0.0
	for _, id := range s.order {
		p := s.pages[id]
		p.worldY = y
		y += p.page.Height + PageGap
	}
}

// worldRectLocked is the page's rectangle in world coordinates.
func (s *Session) worldRectLocked(p *pageState) vector.Rect {
	return vector.R(0, p.worldY, p.page.Width, p.page.Height)
}

// GetPageBounds returns the page rectangle in screen space, for navigation
// UIs that scroll to a page.
func (s *Session) GetPageBounds(pageID string) (vector.Rect, bool) {
	s.mu.Lock()
	p, ok := s.pages[pageID]
	if !ok {
		s.mu.Unlock()
		return vector.Rect{}, false
	}
	wr := s.worldRectLocked(p)
	s.mu.Unlock()
	return s.vp.WorldToScreenRect(wr), true
}

// LoadedPageIDs lists pages with live resources, in document order.
func (s *Session) LoadedPageIDs() []string {
	return s.idsWhere(func(p *pageState) bool { return p.loaded })
}

// VisiblePageIDs lists pages intersecting the buffered viewport, in
// document order.
func (s *Session) VisiblePageIDs() []string {
	return s.idsWhere(func(p *pageState) bool { return p.visible })
}

func (s *Session) idsWhere(keep func(*pageState) bool) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var ids []string
	for _, id := range s.order {
		if keep(s.pages[id]) {
			ids = append(ids, id)
		}
	}
	return ids
}

// BeginEdit marks a page as mid-edit; eviction never touches such pages.
func (s *Session) BeginEdit(pageID string) error {
	return s.setEditing(pageID, true)
}

// EndEdit clears the mid-edit mark.
func (s *Session) EndEdit(pageID string) error {
	return s.setEditing(pageID, false)
}

func (s *Session) setEditing(pageID string, v bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok {
		return ErrUnknownPage
	}
	p.editing = v
	return nil
}

// Viewport returns the shared transform controller.
func (s *Session) Viewport() *viewport.Controller { return s.vp }

// Index returns the alignment index the interactive tools query.
func (s *Session) Index() *spatial.Index { return s.index }

// WaitIdle blocks until queued page loads have settled. Used on shutdown and
// by callers that need deterministic state after a visibility pass.
func (s *Session) WaitIdle() { s.wg.Wait() }
