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
	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/vector"
)

// Frame receives one frame's draw operations. All rectangles are in screen
// space. Everything drawn between BeginPage and EndPage must stay inside the
// clip rectangle passed to BeginPage; the engine guarantees the region rects
// it emits satisfy that.
type Frame interface {
	BeginPage(pageID string, clip vector.Rect)
	DrawRegion(pageID string, kind layout.RegionKind, rect vector.Rect, items []domain.Drawable)
	EndPage(pageID string)
}

// Render draws every loaded page at the screen position implied by the
// shared transform, clipped to its own rectangle. A loaded page whose clip
// mask is found disabled or invisible would bleed into its neighbors; that
// is fatal to the page — it is unloaded and a diagnostic emitted — while all
// other pages render normally.
func (s *Session) Render(frame Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.order {
		p := s.pages[id]
		if !p.loaded {
			continue
		}
		if !p.mask.enabled || !p.mask.visible {
			applog.WithPage(s.log, id).Error("clip mask inactive on loaded page, unloading")
			s.unloadLocked(id, p)
			continue
		}
		wr := s.worldRectLocked(p)
		clip := s.vp.WorldToScreenRect(wr)
		frame.BeginPage(id, clip)
		for _, kind := range []layout.RegionKind{layout.RegionHeader, layout.RegionBody, layout.RegionFooter} {
			local := p.regions.Region(kind)
			world := local.Offset(wr.X, wr.Y)
			frame.DrawRegion(id, kind, s.vp.WorldToScreenRect(world), s.regionItems(p, kind))
		}
		frame.EndPage(id)
	}
}

func (s *Session) regionItems(p *pageState, kind layout.RegionKind) []domain.Drawable {
	switch kind {
	case layout.RegionHeader:
		return p.content.Header
	case layout.RegionBody:
		return p.content.Body
	default:
		return p.content.Footer
	}
}
