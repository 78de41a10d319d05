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
	"fmt"
	"os"
	"path/filepath"

	"github.com/jung-kurt/gofpdf"
	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	"golessonwriter/internal/storage"
)

// PDFOptions controls PDF export behavior. Units are points (pt); page pixels
// map 1:1 to points. Vector text uses built-in Helvetica for portability;
// font embedding can be added later with TTFs.
//
// Coordinates: page origin is top-left, all Rect values are page-local.
// Guides draw the header/body/footer boundaries computed from the page
// margins as hairlines.
//
//nolint:revive // keep options grouped and explicit for clarity
type PDFOptions struct {
	IncludeGuides bool
	EmbedFonts    bool // reserved; not used yet
	GuideColor    domain.Color
	DefaultStroke domain.Stroke
	Pages         []int // if empty, export all pages
}

// ExportDocumentPDF exports the document to a single multi-page PDF at outPath.
func ExportDocumentPDF(dh *storage.DocumentHandle, outPath string, opt PDFOptions) error {
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

	if len(doc.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}
	first := doc.Pages[0]
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: first.Width, Ht: first.Height},
		OrientationStr: "",
	})
	pdf.SetTitle(fmt.Sprintf("%s — Lesson PDF", doc.Name), true)
	pdf.SetAuthor("Go Lesson Writer", true)
	pdf.SetFont("Helvetica", "", 12)

	pages := pageIndexes(len(doc.Pages), opt.Pages)
	for _, pidx := range pages {
		if pidx < 0 || pidx >= len(doc.Pages) {
			continue
		}
		pg := doc.Pages[pidx]
		pdf.AddPageFormat("", gofpdf.SizeType{Wd: pg.Width, Ht: pg.Height})

		if opt.IncludeGuides {
			setDrawColor(pdf, guideCol)
			pdf.SetLineWidth(0.2)
			regions := layout.ComputeRegions(pg.Width, pg.Height, pg.Margins)
			for _, kind := range []layout.RegionKind{layout.RegionHeader, layout.RegionBody, layout.RegionFooter} {
				r := regions.Region(kind)
				pdf.Rect(r.X, r.Y, r.W, r.H, "D")
			}
		}

		for _, items := range [][]domain.Drawable{pg.Content.Header, pg.Content.Body, pg.Content.Footer} {
			for _, d := range items {
				drawPDF(pdf, dh.Root, d, defStroke)
			}
		}
	}

	// Relative output paths land under the document's exports folder.
	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(dh.Root, "exports", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func drawPDF(pdf *gofpdf.Fpdf, root string, d domain.Drawable, defStroke domain.Stroke) {
	stroke := d.Line
	if stroke.Width == 0 {
		stroke = defStroke
	}
	switch d.Kind {
	case domain.KindShape:
		setDrawColor(pdf, stroke.Color)
		pdf.SetLineWidth(stroke.Width)
		style := "D"
		if d.Fill.A > 0 {
			setFillColor(pdf, d.Fill)
			style = "FD"
		}
		r := d.Rect
		switch d.Shape {
		case "ellipse":
			pdf.Ellipse(r.X+r.Width/2, r.Y+r.Height/2, r.Width/2, r.Height/2, 0, style)
		case "line":
			pdf.Line(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
		default:
			pdf.Rect(r.X, r.Y, r.Width, r.Height, style)
		}
	case domain.KindText:
		fsz := d.Size
		if fsz <= 0 {
			fsz = 12
		}
		pdf.SetFont("Helvetica", "", fsz)
		pdf.SetTextColor(0, 0, 0)
		// Baseline sits one em below the rect top.
		x := d.Rect.X
		switch d.Align {
		case "center":
			x += (d.Rect.Width - pdf.GetStringWidth(d.Text)) / 2
		case "right":
			x += d.Rect.Width - pdf.GetStringWidth(d.Text)
		}
		pdf.Text(x, d.Rect.Y+fsz, d.Text)
	case domain.KindStroke:
		setDrawColor(pdf, stroke.Color)
		pdf.SetLineWidth(stroke.Width)
		for i := 1; i < len(d.Points); i++ {
			a, b := d.Points[i-1], d.Points[i]
			pdf.Line(a.X, a.Y, b.X, b.Y)
		}
	case domain.KindImage:
		path := d.AssetPath
		if path != "" && !filepath.IsAbs(path) {
			path = filepath.Join(root, "assets", path)
		}
		if _, err := os.Stat(path); err == nil {
			pdf.ImageOptions(path, d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height, false,
				gofpdf.ImageOptions{ReadDpi: true}, 0, "")
		} else {
			// Missing asset renders as an outlined placeholder.
			setDrawColor(pdf, defStroke.Color)
			pdf.SetLineWidth(0.5)
			pdf.Rect(d.Rect.X, d.Rect.Y, d.Rect.Width, d.Rect.Height, "D")
		}
	case domain.KindGroup:
		for _, c := range d.Children {
			drawPDF(pdf, root, c, defStroke)
		}
	}
}

func pageIndexes(total int, specific []int) []int {
	if len(specific) == 0 {
		out := make([]int, total)
		for i := range out {
			out[i] = i
		}
		return out
	}
	return specific
}

func setDrawColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetDrawColor(int(c.R), int(c.G), int(c.B))
}

func setFillColor(pdf *gofpdf.Fpdf, c domain.Color) {
	pdf.SetFillColor(int(c.R), int(c.G), int(c.B))
}
