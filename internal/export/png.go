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
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	"golessonwriter/internal/storage"
	"golessonwriter/internal/textlayout"
)

// PNGOptions controls PNG export behavior.
//   - DPI: when > 0 overrides the default 72 for output pixel size
//   - IncludeGuides: draw the header/body/footer hairlines like PDF
//   - Pages: if empty, export all
//
//nolint:revive // clarity is preferred
type PNGOptions struct {
	IncludeGuides bool
	DPI           int
	GuideColor    domain.Color
	DefaultStroke domain.Stroke
	Pages         []int
}

// ExportDocumentPNGPages exports each page of the document as a separate PNG
// file. Output files are named page-<index+1>.png under the document's
// exports folder unless outDir is absolute.
func ExportDocumentPNGPages(dh *storage.DocumentHandle, outDir string, opt PNGOptions) error {
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

		pixW := int(math.Round(pg.Width * scale))
		pixH := int(math.Round(pg.Height * scale))
		img := image.NewRGBA(image.Rect(0, 0, pixW, pixH))
		draw.Draw(img, img.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

		if opt.IncludeGuides {
			gc := toRGBA(guideCol)
			regions := layout.ComputeRegions(pg.Width, pg.Height, pg.Margins)
			for _, kind := range []layout.RegionKind{layout.RegionHeader, layout.RegionBody, layout.RegionFooter} {
				r := regions.Region(kind)
				strokeRect(img,
					int(math.Round(r.X*scale)), int(math.Round(r.Y*scale)),
					int(math.Round((r.X+r.W)*scale))-1, int(math.Round((r.Y+r.H)*scale))-1, gc)
			}
		}

		for _, items := range [][]domain.Drawable{pg.Content.Header, pg.Content.Body, pg.Content.Footer} {
			for _, d := range items {
				drawPNG(img, d, defStroke, scale)
			}
		}

		name := filepath.Join(outDir, fmt.Sprintf("page-%d.png", pg.Index+1))
		f, err := os.Create(name)
		if err != nil {
			return fmt.Errorf("create png: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			_ = f.Close()
			return fmt.Errorf("encode png: %w", err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close png: %w", err)
		}
	}
	return nil
}

func drawPNG(img *image.RGBA, d domain.Drawable, defStroke domain.Stroke, scale float64) {
	stroke := d.Line
	if stroke.Width == 0 {
		stroke = defStroke
	}
	sc := toRGBA(stroke.Color)
	x0 := int(math.Round(d.Rect.X * scale))
	y0 := int(math.Round(d.Rect.Y * scale))
	x1 := int(math.Round((d.Rect.X+d.Rect.Width)*scale)) - 1
	y1 := int(math.Round((d.Rect.Y+d.Rect.Height)*scale)) - 1
	switch d.Kind {
	case domain.KindShape:
		if d.Shape == "line" {
			strokeLine(img, x0, y0, x1+1, y1+1, sc)
			return
		}
		// Ellipses rasterize as their bounding boxes at this stage.
		if d.Fill.A > 0 {
			fillRect(img, x0, y0, x1, y1, toRGBA(d.Fill))
		}
		strokeRect(img, x0, y0, x1, y1, sc)
	case domain.KindText:
		// Line breaks come from the shared layouter so raster output wraps
		// the same way interactive rendering does.
		box, err := textlayout.NewWordWrap(textlayout.BasicProvider{}).
			Layout([]textlayout.Span{{Text: d.Text}}, float64(x1-x0))
		if err != nil {
			return
		}
		dr := &font.Drawer{
			Dst:  img,
			Src:  image.NewUniform(color.Black),
			Face: basicfont.Face7x13,
		}
		baseline := y0 + int(box.Metrics.Ascent)
		lineH := int(box.Metrics.Ascent + box.Metrics.Descent + box.Metrics.LineGap)
		for _, ln := range box.Lines {
			var line string
			for _, sp := range ln.Spans {
				line += sp.Text
			}
			tx := x0
			switch d.Align {
			case "center":
				tx += (x1 - x0 - int(ln.Width)) / 2
			case "right":
				tx = x1 - int(ln.Width)
			}
			dr.Dot = fixed.P(tx, baseline)
			dr.DrawString(line)
			baseline += lineH
		}
	case domain.KindImage:
		// No image decoding yet; keep placement visible.
		strokeRect(img, x0, y0, x1, y1, sc)
	case domain.KindStroke:
		for i := 1; i < len(d.Points); i++ {
			a, b := d.Points[i-1], d.Points[i]
			strokeLine(img,
				int(math.Round(a.X*scale)), int(math.Round(a.Y*scale)),
				int(math.Round(b.X*scale)), int(math.Round(b.Y*scale)), sc)
		}
	case domain.KindGroup:
		for _, c := range d.Children {
			drawPNG(img, c, defStroke, scale)
		}
	}
}

func toRGBA(c domain.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// strokeRect draws a 1px axis-aligned rectangle border inclusive of endpoints.
func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, col)
		img.SetRGBA(x, y1, col)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, col)
		img.SetRGBA(x1, y, col)
	}
}

func fillRect(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

// strokeLine draws a 1px line using integer Bresenham stepping.
func strokeLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := x1 - x0
	if dx < 0 {
		dx = -dx
	}
	dy := y1 - y0
	if dy < 0 {
		dy = -dy
	}
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx - dy
	for {
		img.SetRGBA(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}
