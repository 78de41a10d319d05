/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package viewport owns the single world-to-screen transform shared by all
// pages: a scale from a fixed zoom ladder plus a pan offset. Zooming is a
// global operation; the world layout of pages never changes with zoom, only
// the rendered scale, so inter-page spacing on screen stays proportional to
// the scale.
package viewport

import (
	"math"
	"sync"

	"golessonwriter/internal/vector"
)

// Ladder is the fixed set of allowed zoom scales, ascending.
var Ladder = []float64{0.25, 0.50, 0.75, 1.00, 1.25, 1.50, 1.75, 2.00, 2.25, 2.50, 2.75, 3.00, 3.25, 3.50, 3.75, 4.00, 4.25, 4.50, 4.75, 5.00}

// PanMinScale is the smallest scale at which panning is allowed. Below it the
// offset is pinned to the default top-aligned layout.
const PanMinScale = 1.00

// Controller is the single authority for the document transform.
// Safe for concurrent reads; mutations happen on the interaction thread.
type Controller struct {
	mu     sync.RWMutex
	scale  float64
	offset vector.Pt
}

// New returns a controller at 100% zoom with the default offset.
func New() *Controller {
	return &Controller{scale: 1.00}
}

// Zoom returns the current scale.
func (c *Controller) Zoom() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale
}

// PanEnabled reports whether panning is allowed at the current scale.
func (c *Controller) PanEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.scale >= PanMinScale
}

// Offset returns the current pan offset in screen pixels.
func (c *Controller) Offset() vector.Pt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// SetZoom snaps the requested scale to the nearest ladder rung and applies
// it, returning the applied value. Dropping below the pan threshold resets
// the offset to the default top-aligned position.
func (c *Controller) SetZoom(requested float64) float64 {
	applied := snap(requested)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scale = applied
	if applied < PanMinScale {
		c.offset = vector.Pt{}
	}
	return applied
}

// ZoomIn steps one rung up the ladder; no-op at the top.
func (c *Controller) ZoomIn() float64 { return c.step(+1) }

// ZoomOut steps one rung down the ladder; no-op at the bottom.
func (c *Controller) ZoomOut() float64 { return c.step(-1) }

func (c *Controller) step(dir int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := ladderIndex(c.scale) + dir
	if i < 0 || i >= len(Ladder) {
		return c.scale
	}
	c.scale = Ladder[i]
	if c.scale < PanMinScale {
		c.offset = vector.Pt{}
	}
	return c.scale
}

// Pan integrates the delta into the offset. It is a strict no-op (no state
// mutation) while panning is disabled.
func (c *Controller) Pan(dx, dy float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.scale < PanMinScale {
		return
	}
	c.offset.X += dx
	c.offset.Y += dy
}

// WorldToScreen converts a world point to screen pixels.
func (c *Controller) WorldToScreen(p vector.Pt) vector.Pt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vector.Pt{X: p.X*c.scale + c.offset.X, Y: p.Y*c.scale + c.offset.Y}
}

// ScreenToWorld converts a screen point back into world coordinates.
func (c *Controller) ScreenToWorld(p vector.Pt) vector.Pt {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vector.Pt{X: (p.X - c.offset.X) / c.scale, Y: (p.Y - c.offset.Y) / c.scale}
}

// WorldToScreenRect converts a world rect to screen pixels.
func (c *Controller) WorldToScreenRect(r vector.Rect) vector.Rect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vector.Rect{
		X: r.X*c.scale + c.offset.X,
		Y: r.Y*c.scale + c.offset.Y,
		W: r.W * c.scale,
		H: r.H * c.scale,
	}
}

// ScreenToWorldRect converts a screen rect into world coordinates.
func (c *Controller) ScreenToWorldRect(r vector.Rect) vector.Rect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vector.Rect{
		X: (r.X - c.offset.X) / c.scale,
		Y: (r.Y - c.offset.Y) / c.scale,
		W: r.W / c.scale,
		H: r.H / c.scale,
	}
}

// ScreenToWorldDistance converts a screen-pixel distance into world units.
// Used by tools so snap thresholds stay scale-invariant.
func (c *Controller) ScreenToWorldDistance(d float64) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return d / c.scale
}

// Matrix returns the transform as an affine matrix.
func (c *Controller) Matrix() vector.Affine2D {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return vector.Translate(c.offset.X, c.offset.Y).Mul(vector.Scale(c.scale, c.scale))
}

// snap returns the ladder rung nearest to the requested scale; the lower rung
// wins an exact tie.
func snap(requested float64) float64 {
	best := Ladder[0]
	bestDist := math.Abs(requested - best)
	for _, s := range Ladder[1:] {
		if d := math.Abs(requested - s); d < bestDist {
			best = s
			bestDist = d
		}
	}
	return best
}

// ladderIndex finds the rung of a scale already on the ladder; scales that
// are not rungs resolve to the nearest one.
func ladderIndex(scale float64) int {
	bi := 0
	bd := math.Abs(scale - Ladder[0])
	for i, s := range Ladder[1:] {
		if d := math.Abs(scale - s); d < bd {
			bi = i + 1
			bd = d
		}
	}
	return bi
}
