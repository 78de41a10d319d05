/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package textlayout measures and line-breaks text for region content.
// All measurement sits behind deterministic interfaces so rendering and
// export can share the same line breaks regardless of backend.
package textlayout

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// FontSpec describes a requested font.
type FontSpec struct {
	Family string
	SizePt float64
	Weight int // 100..900
	Italic bool
}

// Metrics provides font metrics in pixels for the resolved face.
type Metrics struct {
	Ascent, Descent, LineGap float64
}

// Span is a run of text with one font/style.
type Span struct {
	Text string
	Font FontSpec
}

// Line is a single laid-out line.
type Line struct {
	Spans   []Span
	Width   float64
	Ascent  float64
	Descent float64
}

// TextBox is the result of laying text into a box width.
type TextBox struct {
	Lines   []Line
	Width   float64
	Height  float64
	Metrics Metrics
}

// Provider maps a FontSpec to a concrete font.Face.
type Provider interface {
	Resolve(FontSpec) (font.Face, Metrics)
}

// Layouter performs line breaking and measurement.
type Layouter interface {
	Layout(spans []Span, maxWidth float64) (TextBox, error)
}

// BasicProvider uses x/image basicfont Face7x13 for deterministic tests.
type BasicProvider struct{}

func (BasicProvider) Resolve(FontSpec) (font.Face, Metrics) {
	f := basicfont.Face7x13
	m := f.Metrics()
	return f, Metrics{
		Ascent:  float64(m.Ascent.Round()),
		Descent: float64(m.Descent.Round()),
		LineGap: float64(m.Height.Round() - m.Ascent.Round() - m.Descent.Round()),
	}
}

// WordWrapLayouter breaks on spaces; no shaping or hyphenation. Exact
// enough for worksheet headers and captions.
type WordWrapLayouter struct{ Provider Provider }

func NewWordWrap(provider Provider) *WordWrapLayouter { return &WordWrapLayouter{Provider: provider} }

func (l *WordWrapLayouter) Layout(spans []Span, maxWidth float64) (TextBox, error) {
	if l.Provider == nil {
		l.Provider = BasicProvider{}
	}
	// One font per box for metrics aggregation.
	face, met := l.Provider.Resolve(FontSpec{})
	drawer := &font.Drawer{Face: face}
	cur := Line{Ascent: met.Ascent, Descent: met.Descent}
	box := TextBox{Metrics: met}
	addLine := func() {
		box.Lines = append(box.Lines, cur)
		if cur.Width > box.Width {
			box.Width = cur.Width
		}
		box.Height += met.Ascent + met.Descent + met.LineGap
		cur = Line{Ascent: met.Ascent, Descent: met.Descent}
	}
	for _, sp := range spans {
		if sp.Text == "" {
			continue
		}
		start := 0
		for i := 0; i <= len(sp.Text); i++ {
			if i == len(sp.Text) || sp.Text[i] == ' ' || sp.Text[i] == '\n' {
				word := sp.Text[start:i]
				sep := byte(0)
				if i < len(sp.Text) {
					sep = sp.Text[i]
				}
				w := advance(drawer, word)
				if cur.Width > 0 && cur.Width+w > maxWidth && maxWidth > 0 {
					addLine()
				}
				if word != "" {
					cur.Spans = append(cur.Spans, Span{Text: word, Font: sp.Font})
					cur.Width += w
				}
				if sep == ' ' {
					cur.Spans = append(cur.Spans, Span{Text: " ", Font: sp.Font})
					cur.Width += advance(drawer, " ")
				} else if sep == '\n' {
					addLine()
				}
				start = i + 1
			}
		}
	}
	if len(cur.Spans) > 0 || len(box.Lines) == 0 {
		addLine()
	}
	return box, nil
}

func advance(d *font.Drawer, s string) float64 {
	return float64(d.MeasureString(s) >> 6) // fixed.Int26_6 to px
}

// Measure returns the unwrapped width and single-line height of the spans.
func Measure(provider Provider, spans []Span) (w, h float64) {
	if provider == nil {
		provider = BasicProvider{}
	}
	_, met := provider.Resolve(FontSpec{})
	var width float64
	for _, sp := range spans {
		face, _ := provider.Resolve(sp.Font)
		d := &font.Drawer{Face: face}
		width += advance(d, sp.Text)
	}
	return width, met.Ascent + met.Descent
}
