/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package outline

import (
	"fmt"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
)

// PageSpec carries the geometry applied to every built page.
type PageSpec struct {
	Width   float64
	Height  float64
	Margins domain.Margins
}

// DefaultPageSpec matches the editor's default 2:3 sheet.
func DefaultPageSpec() PageSpec {
	return PageSpec{
		Width:   1200,
		Height:  1800,
		Margins: domain.Margins{Top: 120, Right: 80, Bottom: 100, Left: 80},
	}
}

// BuildDocument converts a parsed outline into a lesson document, one page
// per sheet. Sheet titles land in the header, content flows down the body.
// Notes are dropped; unknown lines keep their text so nothing is lost.
func BuildDocument(o Outline, name string, spec PageSpec) domain.Document {
	doc := domain.Document{Name: name}
	for i, sh := range o.Sheets {
		regions := layout.ComputeRegions(spec.Width, spec.Height, spec.Margins)
		header := regions.Region(layout.RegionHeader)
		body := regions.Region(layout.RegionBody)

		pg := domain.Page{
			ID:      fmt.Sprintf("p%d", i+1),
			Index:   i,
			Width:   spec.Width,
			Height:  spec.Height,
			Margins: spec.Margins,
		}
		if sh.Title != "" {
			pg.Content.Header = append(pg.Content.Header, domain.Drawable{
				ID:   fmt.Sprintf("p%d-title", i+1),
				Kind: domain.KindText,
				Rect: domain.Rect{X: spec.Margins.Left, Y: header.Y + 24, Width: header.W - spec.Margins.Left - spec.Margins.Right, Height: 40},
				Text: sh.Title,
				Size: 24,
			})
		}

		y := body.Y + 16
		seq := 0
		for _, ln := range sh.Lines {
			if ln.Type == LineNote {
				continue
			}
			seq++
			text := ln.Text
			size := 14.0
			switch ln.Type {
			case LineExercise:
				text = ln.Label
				if ln.Text != "" {
					text += " — " + ln.Text
				}
				size = 16
			case LineCaption:
				size = 11
			case LineLabeled:
				if ln.Label != "" {
					text = ln.Label + ": " + ln.Text
				}
			}
			h := size * 1.6
			pg.Content.Body = append(pg.Content.Body, domain.Drawable{
				ID:   fmt.Sprintf("p%d-l%d", i+1, seq),
				Kind: domain.KindText,
				Rect: domain.Rect{X: spec.Margins.Left, Y: y, Width: body.W - spec.Margins.Left - spec.Margins.Right, Height: h},
				Text: text,
				Size: size,
			})
			y += h + 8
		}
		doc.Pages = append(doc.Pages, pg)
	}
	return doc
}
