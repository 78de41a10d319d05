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
	"context"
	"log/slog"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/spatial"
	"golessonwriter/internal/telemetry"
	"golessonwriter/internal/vector"
)

// LoadPage fetches the page's content, computes its region tree, and
// attaches a clipped render sub-tree. Safe to call concurrently for
// independent pages; a second call for a page already loading awaits the
// first instead of fetching twice. Completions for pages that scrolled away
// while the fetch was pending are discarded, not attached.
func (s *Session) LoadPage(ctx context.Context, pageID string) error {
	s.mu.Lock()
	p, ok := s.pages[pageID]
	if !ok {
		s.mu.Unlock()
		return ErrUnknownPage
	}
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if p.loaded {
		s.mu.Unlock()
		return nil
	}
	if p.inflight != nil {
		ch := p.inflight
		s.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		s.mu.Lock()
		err := p.lastErr
		s.mu.Unlock()
		return err
	}
	ch := make(chan struct{})
	p.inflight = ch
	page := p.page
	s.mu.Unlock()

	pc, err := s.provider.FetchPage(ctx, pageID)
	var tree layout.RegionTree
	if err == nil {
		tree, _ = s.layout.Recompute(pageID, page.Width, page.Height, page.Margins)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p.inflight = nil
	close(ch)

	if err != nil {
		// One page's fetch failure never affects the others; the page keeps
		// its error flag until it re-enters the viewport.
		p.loadErr = true
		p.lastErr = err
		applog.WithPage(s.log, pageID).Warn("content fetch failed", slog.Any("err", err))
		telemetry.Event("page_load_failed", nil)
		return err
	}
	if !p.visible || s.closed {
		// Stale completion: the page scrolled away (or the session closed)
		// while the fetch was pending. Free the result instead of attaching.
		s.layout.Forget(pageID)
		p.lastErr = nil
		applog.WithPage(s.log, pageID).Debug("load result discarded, page no longer visible")
		return nil
	}

	p.regions = tree
	p.content = pc
	p.mask = clipMask{enabled: true, visible: true}
	p.loaded = true
	p.loadErr = false
	p.lastErr = nil
	s.indexContentLocked(pageID, p)
	s.evictLocked()
	applog.WithPage(s.log, pageID).Debug("page loaded",
		slog.Int("header", len(pc.Header)), slog.Int("body", len(pc.Body)), slog.Int("footer", len(pc.Footer)))
	return nil
}

// UnloadPage detaches and frees the page's render sub-tree. Calling it for
// a page that was never loaded is a no-op.
func (s *Session) UnloadPage(pageID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok || !p.loaded {
		return
	}
	s.unloadLocked(pageID, p)
}

func (s *Session) unloadLocked(pageID string, p *pageState) {
	p.loaded = false
	p.content = domain.PageContent{}
	p.regions = layout.RegionTree{}
	p.mask = clipMask{}
	s.index.Drop(pageID)
	s.layout.Forget(pageID)
}

// LastError reports the page's sticky fetch error, if any. The UI uses it
// to scope the retry affordance to the single failed page.
func (s *Session) LastError(pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.pages[pageID]; ok {
		return p.lastErr
	}
	return ErrUnknownPage
}

// SetMargins applies a margin edit: the region tree is recomputed, changed
// regions are returned so dependent content reflows without a page reload,
// and the content provider is notified so persisted state stays consistent.
// The edit is recorded in the page's history for UndoMargins/RedoMargins.
func (s *Session) SetMargins(ctx context.Context, pageID string, m domain.Margins) ([]layout.RegionKind, error) {
	s.mu.Lock()
	p, ok := s.pages[pageID]
	if ok {
		s.pushMarginEditLocked(pageID, p.page.Margins, m)
	}
	s.mu.Unlock()
	return s.applyMargins(ctx, pageID, m)
}

// applyMargins performs the recompute/notify work without touching history.
func (s *Session) applyMargins(ctx context.Context, pageID string, m domain.Margins) ([]layout.RegionKind, error) {
	s.mu.Lock()
	p, ok := s.pages[pageID]
	if !ok {
		s.mu.Unlock()
		return nil, ErrUnknownPage
	}
	p.page.Margins = m
	page := p.page
	loaded := p.loaded
	s.mu.Unlock()

	var changed []layout.RegionKind
	if loaded {
		var tree layout.RegionTree
		tree, changed = s.layout.Recompute(pageID, page.Width, page.Height, m)
		s.mu.Lock()
		p.regions = tree
		s.mu.Unlock()
	}
	if err := s.provider.OnMarginsChanged(ctx, pageID, m); err != nil {
		applog.WithPage(s.log, pageID).Warn("margin change not persisted", slog.Any("err", err))
		return changed, err
	}
	return changed, nil
}

// indexContentLocked seeds the alignment index with the page's drawables.
func (s *Session) indexContentLocked(pageID string, p *pageState) {
	s.index.Drop(pageID)
	s.index.Track(pageID, vector.R(0, 0, p.page.Width, p.page.Height))
	for _, items := range [][]domain.Drawable{p.content.Header, p.content.Body, p.content.Footer} {
		for _, d := range items {
			s.index.Insert(&spatial.Entry{PageID: pageID, Bounds: toVec(d.Rect), Ref: d.ID})
		}
	}
}

func toVec(r domain.Rect) vector.Rect {
	return vector.R(r.X, r.Y, r.Width, r.Height)
}
