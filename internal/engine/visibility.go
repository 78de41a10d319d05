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
	"sort"

	applog "golessonwriter/internal/log"
	"golessonwriter/internal/vector"
)

// UpdateVisibility intersects the buffered viewport against every page and
// transitions runtime state accordingly: pages entering become visible and
// are queued for load, pages leaving become invisible, and if the residency
// bound is exceeded the least-recently-visible eligible pages are evicted.
// viewportRect is in screen space. Calls are applied in order; callers that
// batch scroll events pass only the most recent rectangle.
func (s *Session) UpdateVisibility(viewportRect vector.Rect) {
	world := s.vp.ScreenToWorldRect(viewportRect)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.visSeq++

	for _, id := range s.order {
		p := s.pages[id]
		buffered := world.Inset(0, -float64(s.opts.BufferPages)*p.page.Height)
		vis := s.worldRectLocked(p).Intersects(buffered)
		if !vis {
			p.visible = false
			continue
		}
		entered := !p.visible
		p.visible = true
		p.lastVisible = s.visSeq
		// A failed page is retried only when it re-enters the viewport,
		// never in a tight loop while it stays visible.
		if entered && p.loadErr {
			p.loadErr = false
			p.lastErr = nil
		}
		if !p.loaded && p.inflight == nil && !p.loadErr {
			s.queueLoadLocked(id)
		}
	}
	s.evictLocked()
}

func (s *Session) queueLoadLocked(pageID string) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.LoadPage(context.Background(), pageID)
	}()
}

// evictLocked frees resources of the least-recently-visible pages until the
// loaded count is back within the bound. Pages still visible or mid-edit are
// never evicted.
func (s *Session) evictLocked() {
	loaded := 0
	var victims []string
	for _, id := range s.order {
		p := s.pages[id]
		if !p.loaded {
			continue
		}
		loaded++
		if !p.visible && !p.editing {
			victims = append(victims, id)
		}
	}
	if loaded <= s.opts.MaxLoadedPages {
		return
	}
	sort.Slice(victims, func(i, j int) bool {
		return s.pages[victims[i]].lastVisible < s.pages[victims[j]].lastVisible
	})
	for _, id := range victims {
		if loaded <= s.opts.MaxLoadedPages {
			break
		}
		p := s.pages[id]
		s.unloadLocked(id, p)
		loaded--
		applog.WithPage(s.log, id).Debug("page evicted", slog.Uint64("last_visible", p.lastVisible))
	}
}
