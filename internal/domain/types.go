/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany..
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

// This file defines the core data model for lesson-sheet documents.
// A document is an ordered sequence of fixed-size pages; each page carries a
// margin spec and region content (header/body/footer). The region rectangles
// themselves are computed at runtime and never persisted.

// Document represents one lesson-sheet document and its metadata.
// It serializes to a human-readable JSON manifest (lesson.json).
type Document struct {
	Name     string   `json:"name"`
	Metadata Metadata `json:"metadata,omitempty"`
	Pages    []Page   `json:"pages"`
}

// Metadata contains optional descriptive metadata for a document.
type Metadata struct {
	Course  string `json:"course,omitempty"`
	Subject string `json:"subject,omitempty"`
	Author  string `json:"author,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

// Page is one logical editable sheet. Width/Height are pixels at 100% zoom;
// the aspect ratio is fixed per document (typically 2:3).
type Page struct {
	ID      string      `json:"id"`
	Index   int         `json:"index"`
	Width   float64     `json:"width"`
	Height  float64     `json:"height"`
	Margins Margins     `json:"margins"`
	Content PageContent `json:"content,omitempty"`
}

// Margins is the per-page margin spec driving the header/body/footer split:
// header height = Top, footer height = Bottom, body takes the rest.
type Margins struct {
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
	Left   float64 `json:"left"`
}

// PageContent holds the drawables of each region. The engine populates the
// computed region rectangles from these lists; it never writes them back.
type PageContent struct {
	Header []Drawable `json:"header,omitempty"`
	Body   []Drawable `json:"body,omitempty"`
	Footer []Drawable `json:"footer,omitempty"`
}

// Drawable kinds. A Drawable is a tagged union: exactly the fields matching
// Kind are meaningful, everything else stays at its zero value.
const (
	KindShape  = "shape"
	KindText   = "text"
	KindImage  = "image"
	KindStroke = "stroke"
	KindGroup  = "group"
)

// Drawable is one persisted object on a page, in page-local coordinates.
type Drawable struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Rect Rect   `json:"rect"`
	Z    int    `json:"z,omitempty"`

	// Kind == shape
	Shape string  `json:"shape,omitempty"` // rect, ellipse, line
	Fill  Color   `json:"fill,omitempty"`
	Line  Stroke  `json:"line,omitempty"`
	Round float64 `json:"round,omitempty"` // corner radius for rect

	// Kind == text
	Text  string  `json:"text,omitempty"`
	Font  string  `json:"font,omitempty"`
	Size  float64 `json:"size,omitempty"`
	Align string  `json:"align,omitempty"` // left, center, right

	// Kind == image
	AssetPath string `json:"assetPath,omitempty"`

	// Kind == stroke (free-hand)
	Points []Point `json:"points,omitempty"`

	// Kind == group
	Children []Drawable `json:"children,omitempty"`
}

// Point is a 2D point in page-local coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect is an axis-aligned rectangle in page-local coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type Color struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
	A uint8 `json:"a"`
}

type Stroke struct {
	Color Color   `json:"color"`
	Width float64 `json:"width"`
}
