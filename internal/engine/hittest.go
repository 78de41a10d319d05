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
	"golessonwriter/internal/vector"
)

// HitTest returns the ID of the topmost drawable under the given world-space
// point on a loaded page. Later-drawn content wins ties: footer over body over
// header, and within a region the later item. Unloaded pages report no hit.
func (s *Session) HitTest(pageID string, world vector.Pt) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[pageID]
	if !ok || !p.loaded {
		return "", false
	}
	wr := s.worldRectLocked(p)
	local := vector.Pt{X: world.X - wr.X, Y: world.Y - wr.Y}

	lists := [][]domain.Drawable{p.content.Footer, p.content.Body, p.content.Header}
	for _, items := range lists {
		for i := len(items) - 1; i >= 0; i-- {
			if sceneObject(items[i]).Hit(local) {
				return items[i].ID, true
			}
		}
	}
	return "", false
}

// sceneObject lifts one persisted drawable into the vector scene union so
// picking shares the same geometry rules as grouping and transforms.
func sceneObject(d domain.Drawable) vector.Object {
	r := vector.R(d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height)
	fill := vector.Fill{Color: sceneColor(d.Fill), Enabled: d.Fill.A > 0}
	stroke := vector.Stroke{Color: sceneColor(d.Line.Color), Width: d.Line.Width, Enabled: d.Line.Width > 0}

	switch d.Kind {
	case domain.KindText:
		t := vector.NewText(r, d.Text)
		t.Font = d.Font
		t.Size = d.Size
		if d.Align != "" {
			t.Align = d.Align
		}
		return t
	case domain.KindImage:
		return vector.NewImage(r, d.AssetPath)
	case domain.KindStroke:
		pts := make([]vector.Pt, len(d.Points))
		for i, p := range d.Points {
			pts[i] = vector.Pt{X: p.X, Y: p.Y}
		}
		return vector.NewFreehand(pts, stroke)
	case domain.KindGroup:
		children := make([]vector.Object, 0, len(d.Children))
		for _, c := range d.Children {
			children = append(children, sceneObject(c))
		}
		return vector.NewGroup(children...)
	default:
		kind := vector.ShapeRect
		switch d.Shape {
		case "ellipse":
			kind = vector.ShapeEllipse
		case "line":
			kind = vector.ShapeLine
		}
		sh := vector.NewShape(kind, r, fill, stroke)
		sh.Radius = d.Round
		return sh
	}
}

func sceneColor(c domain.Color) vector.Color {
	return vector.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
