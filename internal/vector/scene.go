/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

// Scene objects form a small tagged union (Shape | Text | Image | Freehand |
// Group) instead of ad hoc property bags. Every object knows its parent group
// so reparenting can be validated against cycles before any mutation.

import "errors"

var (
	// ErrWouldCycle is returned when a reparent would make a group its own
	// ancestor. The scene is left untouched.
	ErrWouldCycle = errors.New("vector: reparent would create a cycle")
	// ErrNilParent is returned when reparenting into a nil group.
	ErrNilParent = errors.New("vector: nil target group")
)

// Object is one drawable scene item.
type Object interface {
	Bounds() Rect
	Transform() Affine2D
	SetTransform(Affine2D)
	Fill() Fill
	Stroke() Stroke
	SetFill(Fill)
	SetStroke(Stroke)
	Hit(p Pt) bool
	Parent() *Group

	setParent(*Group)
}

type baseObject struct {
	xf     Affine2D
	fill   Fill
	stroke Stroke
	parent *Group
}

func (b *baseObject) Transform() Affine2D     { return b.xf }
func (b *baseObject) SetTransform(m Affine2D) { b.xf = m }
func (b *baseObject) Fill() Fill              { return b.fill }
func (b *baseObject) Stroke() Stroke          { return b.stroke }
func (b *baseObject) SetFill(f Fill)          { b.fill = f }
func (b *baseObject) SetStroke(s Stroke)      { b.stroke = s }
func (b *baseObject) Parent() *Group          { return b.parent }
func (b *baseObject) setParent(g *Group)      { b.parent = g }

// ShapeKind selects the geometry of a Shape.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota
	ShapeEllipse
	ShapeLine
)

// Shape draws a primitive inside rect (before transform).
type Shape struct {
	baseObject
	Kind   ShapeKind
	rect   Rect
	Radius float64 // corner radius, rect only
}

func NewShape(kind ShapeKind, r Rect, f Fill, s Stroke) *Shape {
	return &Shape{baseObject: baseObject{xf: Identity, fill: f, stroke: s}, Kind: kind, rect: r}
}

func (n *Shape) Rect() Rect     { return n.rect }
func (n *Shape) SetRect(r Rect) { n.rect = r }
func (n *Shape) Bounds() Rect   { return n.xf.ApplyRect(n.rect) }

func (n *Shape) Hit(p Pt) bool {
	q := n.xf.Invert().Apply(p)
	switch n.Kind {
	case ShapeEllipse:
		rx := n.rect.W / 2
		ry := n.rect.H / 2
		if rx == 0 || ry == 0 {
			return false
		}
		dx := (q.X - n.rect.CenterX()) / rx
		dy := (q.Y - n.rect.CenterY()) / ry
		return dx*dx+dy*dy <= 1
	default:
		return n.rect.Contains(q)
	}
}

// Text is a positioned text run; the rect is its layout box.
type Text struct {
	baseObject
	rect    Rect
	Content string
	Font    string
	Size    float64
	Align   string // left, center, right
}

func NewText(r Rect, content string) *Text {
	return &Text{baseObject: baseObject{xf: Identity}, rect: r, Content: content, Align: "left"}
}

func (n *Text) Rect() Rect     { return n.rect }
func (n *Text) SetRect(r Rect) { n.rect = r }
func (n *Text) Bounds() Rect   { return n.xf.ApplyRect(n.rect) }
func (n *Text) Hit(p Pt) bool  { return n.rect.Contains(n.xf.Invert().Apply(p)) }

// Image is a placed raster asset referenced by path.
type Image struct {
	baseObject
	rect      Rect
	AssetPath string
}

func NewImage(r Rect, assetPath string) *Image {
	return &Image{baseObject: baseObject{xf: Identity}, rect: r, AssetPath: assetPath}
}

func (n *Image) Rect() Rect     { return n.rect }
func (n *Image) SetRect(r Rect) { n.rect = r }
func (n *Image) Bounds() Rect   { return n.xf.ApplyRect(n.rect) }
func (n *Image) Hit(p Pt) bool  { return n.rect.Contains(n.xf.Invert().Apply(p)) }

// Freehand is a free-hand stroke as a polyline of page-local points.
type Freehand struct {
	baseObject
	Points []Pt
}

func NewFreehand(points []Pt, s Stroke) *Freehand {
	return &Freehand{baseObject: baseObject{xf: Identity, stroke: s}, Points: points}
}

func (n *Freehand) Bounds() Rect {
	if len(n.Points) == 0 {
		return Rect{}
	}
	minX, minY := n.Points[0].X, n.Points[0].Y
	maxX, maxY := minX, minY
	for _, p := range n.Points[1:] {
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxX = max(maxX, p.X)
		maxY = max(maxY, p.Y)
	}
	return n.xf.ApplyRect(Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY})
}

// Hit uses the stroke bounding box; tools that need segment-accurate picking
// can refine on top.
func (n *Freehand) Hit(p Pt) bool {
	b := n.Bounds()
	return b.Contains(p)
}

// Group is a container for child objects with its own transform.
type Group struct {
	baseObject
	children []Object
}

func NewGroup(children ...Object) *Group {
	g := &Group{baseObject: baseObject{xf: Identity}}
	for _, c := range children {
		g.children = append(g.children, c)
		c.setParent(g)
	}
	return g
}

func (g *Group) Children() []Object { return g.children }

func (g *Group) Bounds() Rect {
	var b Rect
	first := true
	for _, c := range g.children {
		cb := c.Bounds()
		if first {
			b = cb
			first = false
		} else {
			b = b.Union(cb)
		}
	}
	return g.xf.ApplyRect(b)
}

func (g *Group) Hit(p Pt) bool {
	q := g.xf.Invert().Apply(p)
	for i := len(g.children) - 1; i >= 0; i-- { // top-most first
		if g.children[i].Hit(q) {
			return true
		}
	}
	return false
}

// indexOf returns the child slot of obj, or -1.
func (g *Group) indexOf(obj Object) int {
	for i, c := range g.children {
		if c == obj {
			return i
		}
	}
	return -1
}

func (g *Group) removeChild(obj Object) int {
	i := g.indexOf(obj)
	if i < 0 {
		return -1
	}
	g.children = append(g.children[:i], g.children[i+1:]...)
	obj.setParent(nil)
	return i
}

func (g *Group) insertChild(i int, obj Object) {
	if i < 0 || i > len(g.children) {
		i = len(g.children)
	}
	g.children = append(g.children, nil)
	copy(g.children[i+1:], g.children[i:])
	g.children[i] = obj
	obj.setParent(g)
}

// isAncestorOf reports whether g appears on obj's ancestor chain (or is obj).
func isAncestorOf(g *Group, obj Object) bool {
	if o, ok := obj.(*Group); ok && o == g {
		return true
	}
	for p := obj.Parent(); p != nil; p = p.Parent() {
		if p == g {
			return true
		}
	}
	return false
}

// Reparent moves obj into newParent at index (clamped to the child count).
// The proposed parent's ancestor chain is walked first: if obj appears on it
// the operation is rejected with ErrWouldCycle and nothing is mutated. After
// the move the post-condition is verified and the saved parent/index pair is
// restored on any failure, so callers always observe either the full move or
// the untouched pre-move state.
func Reparent(obj Object, newParent *Group, index int) error {
	if newParent == nil {
		return ErrNilParent
	}
	if og, ok := obj.(*Group); ok && isAncestorOf(og, newParent) {
		return ErrWouldCycle
	}

	prevParent := obj.Parent()
	prevIndex := -1
	if prevParent != nil {
		prevIndex = prevParent.indexOf(obj)
	}

	if prevParent != nil {
		prevParent.removeChild(obj)
	}
	newParent.insertChild(index, obj)

	// Verify: exactly one membership, correct parent pointer.
	if obj.Parent() != newParent || newParent.indexOf(obj) < 0 ||
		(prevParent != nil && prevParent != newParent && prevParent.indexOf(obj) >= 0) {
		// Roll back to the saved parent/index pair.
		newParent.removeChild(obj)
		if prevParent != nil {
			prevParent.insertChild(prevIndex, obj)
		}
		return errors.New("vector: reparent post-condition failed, state restored")
	}
	return nil
}
