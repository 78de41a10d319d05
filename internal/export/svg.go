/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	"golessonwriter/internal/storage"
)

// SVGOptions controls SVG export behavior.
//   - DPI defines the physical pixel size; width/height attributes use pixels
//     derived from DPI. The viewBox stays in page units so coordinates map 1:1.
//
//nolint:revive // clarity is preferred
type SVGOptions struct {
	IncludeGuides bool
	DPI           int
	GuideColor    domain.Color
	DefaultStroke domain.Stroke
	Pages         []int
}

// ExportDocumentSVGPages exports each page of the document as a separate SVG
// file named page-<index+1>.svg under outDir or the document's exports folder.
func ExportDocumentSVGPages(dh *storage.DocumentHandle, outDir string, opt SVGOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	doc := dh.Document

	guideCol := opt.GuideColor
	if guideCol == (domain.Color{}) {
		guideCol = domain.Color{R: 255, G: 0, B: 0, A: 255}
	}
	defStroke := opt.DefaultStroke
	if defStroke.Width == 0 {
		defStroke = domain.Stroke{Color: domain.Color{A: 255}, Width: 1}
	}
	dpi := opt.DPI
	if dpi <= 0 {
		dpi = 72
	}
	scale := float64(dpi) / 72.0

	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(dh.Root, "exports", outDir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}

	pages := pageIndexes(len(doc.Pages), opt.Pages)
	for _, pidx := range pages {
		if pidx < 0 || pidx >= len(doc.Pages) {
			continue
		}
		pg := doc.Pages[pidx]

		var buf bytes.Buffer
		var werr error
		wf := func(format string, args ...any) {
			if werr != nil {
				return
			}
			_, werr = fmt.Fprintf(&buf, format, args...)
		}

		pxW := int(math.Round(pg.Width * scale))
		pxH := int(math.Round(pg.Height * scale))
		wf("<?xml version=\"1.0\" encoding=\"UTF-8\"?>\n")
		wf("<svg xmlns=\"http://www.w3.org/2000/svg\" version=\"1.1\" width=\"%dpx\" height=\"%dpx\" viewBox=\"0 0 %g %g\">\n", pxW, pxH, pg.Width, pg.Height)
		wf("  <rect x=\"0\" y=\"0\" width=\"%g\" height=\"%g\" fill=\"#ffffff\"/>\n", pg.Width, pg.Height)

		if opt.IncludeGuides {
			gc := svgColor(guideCol)
			regions := layout.ComputeRegions(pg.Width, pg.Height, pg.Margins)
			for _, kind := range []layout.RegionKind{layout.RegionHeader, layout.RegionBody, layout.RegionFooter} {
				r := regions.Region(kind)
				wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" fill=\"none\" stroke=\"%s\" stroke-width=\"0.2\"/>\n", r.X, r.Y, r.W, r.H, gc)
			}
		}

		for _, items := range [][]domain.Drawable{pg.Content.Header, pg.Content.Body, pg.Content.Footer} {
			for _, d := range items {
				drawSVG(wf, d, defStroke)
			}
		}

		wf("</svg>\n")
		if werr != nil {
			return fmt.Errorf("build svg: %w", werr)
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.svg", pg.Index+1))
		if err := os.WriteFile(name, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write svg: %w", err)
		}
	}
	return nil
}

func drawSVG(wf func(string, ...any), d domain.Drawable, defStroke domain.Stroke) {
	stroke := d.Line
	if stroke.Width == 0 {
		stroke = defStroke
	}
	sc := svgColor(stroke.Color)
	r := d.Rect
	switch d.Kind {
	case domain.KindShape:
		fill := "none"
		if d.Fill.A > 0 {
			fill = svgColor(d.Fill)
		}
		switch d.Shape {
		case "ellipse":
			wf("  <ellipse cx=\"%g\" cy=\"%g\" rx=\"%g\" ry=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2, fill, sc, stroke.Width)
		case "line":
			wf("  <line x1=\"%g\" y1=\"%g\" x2=\"%g\" y2=\"%g\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				r.X, r.Y, r.X+r.Width, r.Y+r.Height, sc, stroke.Width)
		default:
			wf("  <rect x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" rx=\"%g\" fill=\"%s\" stroke=\"%s\" stroke-width=\"%g\"/>\n",
				r.X, r.Y, r.Width, r.Height, d.Round, fill, sc, stroke.Width)
		}
	case domain.KindText:
		fsz := d.Size
		if fsz <= 0 {
			fsz = 12
		}
		font := d.Font
		if font == "" {
			font = "Helvetica, Arial, sans-serif"
		}
		x := r.X
		anchor := ""
		switch d.Align {
		case "center":
			x += r.Width / 2
			anchor = " text-anchor=\"middle\""
		case "right":
			x += r.Width
			anchor = " text-anchor=\"end\""
		}
		wf("  <text x=\"%g\" y=\"%g\" font-family=\"%s\" font-size=\"%g\"%s fill=\"#000\">%s</text>\n",
			x, r.Y+fsz, escAttr(font), fsz, anchor, escText(d.Text))
	case domain.KindStroke:
		if len(d.Points) < 2 {
			return
		}
		wf("  <polyline points=\"")
		for i, p := range d.Points {
			if i > 0 {
				wf(" ")
			}
			wf("%g,%g", p.X, p.Y)
		}
		wf("\" fill=\"none\" stroke=\"%s\" stroke-width=\"%g\"/>\n", sc, stroke.Width)
	case domain.KindImage:
		wf("  <image x=\"%g\" y=\"%g\" width=\"%g\" height=\"%g\" href=\"%s\"/>\n",
			r.X, r.Y, r.Width, r.Height, escAttr(d.AssetPath))
	case domain.KindGroup:
		for _, c := range d.Children {
			drawSVG(wf, c, defStroke)
		}
	}
}

func svgColor(c domain.Color) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

func escAttr(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '"':
			out = append(out, '&', 'q', 'u', 'o', 't', ';')
		case '\n':
			out = append(out, ' ')
		case '\r':
			// skip
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}

func escText(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch ch {
		case '&':
			out = append(out, '&', 'a', 'm', 'p', ';')
		case '<':
			out = append(out, '&', 'l', 't', ';')
		case '>':
			out = append(out, '&', 'g', 't', ';')
		default:
			out = append(out, ch)
		}
	}
	return string(out)
}
