//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"golessonwriter/internal/config"
	"golessonwriter/internal/content"
	"golessonwriter/internal/crash"
	"golessonwriter/internal/domain"
	"golessonwriter/internal/engine"
	"golessonwriter/internal/export"
	"golessonwriter/internal/layout"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/storage"
	"golessonwriter/internal/vector"
	"golessonwriter/internal/version"
	"golessonwriter/internal/viewport"
)

// sheetFrame builds Fyne canvas objects from one engine render pass. All
// coordinates arriving here are already in screen space; drawable rects are
// page-local and get placed against the current page clip.
type sheetFrame struct {
	scale   float64
	clip    vector.Rect
	objects []fyne.CanvasObject
}

func (f *sheetFrame) BeginPage(_ string, clip vector.Rect) {
	f.clip = clip
	bg := canvas.NewRectangle(color.White)
	bg.StrokeColor = color.NRGBA{R: 120, G: 120, B: 120, A: 255}
	bg.StrokeWidth = 1
	bg.Move(fyne.NewPos(float32(clip.X), float32(clip.Y)))
	bg.Resize(fyne.NewSize(float32(clip.W), float32(clip.H)))
	f.objects = append(f.objects, bg)
}

func (f *sheetFrame) DrawRegion(_ string, _ layout.RegionKind, rect vector.Rect, items []domain.Drawable) {
	outline := canvas.NewRectangle(color.Transparent)
	outline.StrokeColor = color.NRGBA{R: 66, G: 133, B: 244, A: 90}
	outline.StrokeWidth = 1
	outline.Move(fyne.NewPos(float32(rect.X), float32(rect.Y)))
	outline.Resize(fyne.NewSize(float32(rect.W), float32(rect.H)))
	f.objects = append(f.objects, outline)
	for _, d := range items {
		f.drawItem(d)
	}
}

func (f *sheetFrame) EndPage(_ string) {}

func (f *sheetFrame) drawItem(d domain.Drawable) {
	x := float32(f.clip.X + d.Rect.X*f.scale)
	y := float32(f.clip.Y + d.Rect.Y*f.scale)
	w := float32(d.Rect.Width * f.scale)
	h := float32(d.Rect.Height * f.scale)
	switch d.Kind {
	case domain.KindText:
		txt := canvas.NewText(d.Text, color.Black)
		if d.Size > 0 {
			txt.TextSize = float32(d.Size * f.scale)
		}
		txt.Move(fyne.NewPos(x, y))
		f.objects = append(f.objects, txt)
	case domain.KindStroke:
		for i := 1; i < len(d.Points); i++ {
			a, b := d.Points[i-1], d.Points[i]
			ln := canvas.NewLine(color.Black)
			ln.Position1 = fyne.NewPos(float32(f.clip.X+a.X*f.scale), float32(f.clip.Y+a.Y*f.scale))
			ln.Position2 = fyne.NewPos(float32(f.clip.X+b.X*f.scale), float32(f.clip.Y+b.Y*f.scale))
			f.objects = append(f.objects, ln)
		}
	case domain.KindGroup:
		for _, c := range d.Children {
			f.drawItem(c)
		}
	default: // shape, image placeholder
		var obj fyne.CanvasObject
		if d.Shape == "ellipse" {
			c := canvas.NewCircle(toNRGBA(d.Fill))
			c.StrokeColor = toNRGBA(d.Line.Color)
			c.StrokeWidth = float32(maxf(d.Line.Width, 1))
			obj = c
		} else {
			r := canvas.NewRectangle(toNRGBA(d.Fill))
			r.StrokeColor = toNRGBA(d.Line.Color)
			r.StrokeWidth = float32(maxf(d.Line.Width, 1))
			obj = r
		}
		obj.Move(fyne.NewPos(x, y))
		obj.Resize(fyne.NewSize(w, h))
		f.objects = append(f.objects, obj)
	}
}

func toNRGBA(c domain.Color) color.NRGBA {
	if c == (domain.Color{}) {
		return color.NRGBA{A: 0}
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

// newProvider builds the page-content provider selected by configuration:
// a direct Postgres connection when a DSN is set, the HTTP backend when a
// token is present, the local manifest otherwise. Remote providers get the
// SQLite offline cache wrapped around them when enabled.
func newProvider(cfg config.AppConfig, token string, dh *storage.DocumentHandle) (content.Provider, func(), error) {
	switch {
	case cfg.Content.PGDSN != "":
		pg, err := content.OpenPG(context.Background(), cfg.Content.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		if cfg.Canvas.OfflineCache {
			cached, err := content.OpenCache(dh.Root, pg)
			if err != nil {
				_ = pg.Close()
				return nil, nil, err
			}
			return cached, func() { _ = cached.Close(); _ = pg.Close() }, nil
		}
		return pg, func() { _ = pg.Close() }, nil
	case token != "":
		hp := content.NewHTTPProvider(cfg.Content.BaseURL, token, time.Duration(cfg.Content.TimeoutMs)*time.Millisecond, cfg.Content.TLSInsecure)
		if cfg.Canvas.OfflineCache {
			cached, err := content.OpenCache(dh.Root, hp)
			if err != nil {
				return nil, nil, err
			}
			return cached, func() { _ = cached.Close() }, nil
		}
		return hp, func() {}, nil
	default:
		return content.NewLocalProvider(dh), func() {}, nil
	}
}

// Run starts the Fyne-based desktop UI with the multi-page lesson canvas.
func Run(docDir string) error {
	cfg, token, err := config.Load()
	if err != nil {
		cfg = config.Defaults()
	}
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	l := applog.WithComponent("ui")
	l.Info("starting UI")

	var dh *storage.DocumentHandle
	defer func() { crash.Recover(dh) }()

	fyneApp := app.NewWithID("golessonwriter")
	w := fyneApp.NewWindow("Go Lesson Writer")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 1200)
	winH := prefs.IntWithFallback("window.height", 800)
	if winW < 800 {
		winW = 800
	}
	if winH < 600 {
		winH = 600
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	status := widget.NewLabel("Ready")
	zoomLabel := widget.NewLabel("100%")
	sheet := container.NewWithoutLayout()
	var sess *engine.Session

	viewRect := func() vector.Rect {
		sz := sheet.Size()
		if sz.Width <= 0 || sz.Height <= 0 {
			return vector.R(0, 0, float64(winW), float64(winH))
		}
		return vector.R(0, 0, float64(sz.Width), float64(sz.Height))
	}

	refresh := func() {
		sheet.Objects = nil
		if sess != nil {
			frame := &sheetFrame{scale: sess.Viewport().Zoom()}
			sess.Render(frame)
			sheet.Objects = frame.objects
		}
		sheet.Refresh()
	}

	sync := func() {
		if sess == nil {
			return
		}
		sess.UpdateVisibility(viewRect())
		sess.WaitIdle()
		refresh()
		zoomLabel.SetText(fmt.Sprintf("%.0f%%", sess.Viewport().Zoom()*100))
	}

	pagesDisplay := []string{}
	pagesList := widget.NewList(
		func() int { return len(pagesDisplay) },
		func() fyne.CanvasObject { return widget.NewLabel("") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i >= 0 && int(i) < len(pagesDisplay) {
				o.(*widget.Label).SetText(pagesDisplay[i])
			}
		},
	)
	refreshPagesList := func() {
		pagesDisplay = pagesDisplay[:0]
		if dh != nil {
			for _, pg := range dh.Document.Pages {
				pagesDisplay = append(pagesDisplay, fmt.Sprintf("Page %d", pg.Index+1))
			}
		}
		pagesList.Refresh()
	}
	pagesList.OnSelected = func(id widget.ListItemID) {
		if sess == nil || dh == nil || int(id) >= len(dh.Document.Pages) {
			return
		}
		pg := dh.Document.Pages[id]
		if b, ok := sess.GetPageBounds(pg.ID); ok {
			vp := sess.Viewport()
			// Scroll so the selected page's top lands at the viewport top.
			vp.Pan(0, -b.Y)
			l.Info("page selected", slog.String("page_id", pg.ID))
			sync()
		}
	}

	var closeProvider func()
	openDoc := func(root string) {
		h, err := storage.Open(root)
		if err != nil {
			dialog.ShowError(err, w)
			return
		}
		if sess != nil {
			sess.Close()
		}
		if closeProvider != nil {
			closeProvider()
		}
		dh = h
		provider, closeFn, err := newProvider(cfg, token, dh)
		if err != nil {
			l.Error("provider init failed, falling back to local", slog.Any("err", err))
			provider, closeFn = content.NewLocalProvider(dh), func() {}
		}
		closeProvider = closeFn
		vp := viewport.New()
		sess = engine.Open(&dh.Document, provider, vp, engine.Options{
			MaxLoadedPages: cfg.Canvas.MaxLoadedPages,
			BufferPages:    cfg.Canvas.BufferPages,
		})
		w.SetTitle(fmt.Sprintf("Go Lesson Writer — %s", dh.Document.Name))
		status.SetText(fmt.Sprintf("Opened %s (%d pages)", dh.Document.Name, len(dh.Document.Pages)))
		refreshPagesList()
		sync()
	}

	zoomIn := widget.NewButton("+", func() {
		if sess != nil {
			sess.Viewport().ZoomIn()
			sync()
		}
	})
	zoomOut := widget.NewButton("-", func() {
		if sess != nil {
			sess.Viewport().ZoomOut()
			sync()
		}
	})
	panStep := 120.0
	panBtn := func(label string, dx, dy float64) *widget.Button {
		return widget.NewButton(label, func() {
			if sess == nil {
				return
			}
			vp := sess.Viewport()
			if !vp.PanEnabled() {
				status.SetText("Pan available at 100% zoom and above")
				return
			}
			vp.Pan(dx, dy)
			sync()
		})
	}
	toolbar := container.NewHBox(
		zoomOut, zoomLabel, zoomIn,
		widget.NewSeparator(),
		panBtn("◀", panStep, 0), panBtn("▲", 0, panStep), panBtn("▼", 0, -panStep), panBtn("▶", -panStep, 0),
	)

	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open…", func() {
			dialog.ShowFolderOpen(func(u fyne.ListableURI, err error) {
				if err != nil || u == nil {
					return
				}
				openDoc(u.Path())
			}, w)
		}),
		fyne.NewMenuItem("Save", func() {
			if dh == nil {
				return
			}
			if err := storage.Save(dh); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Saved")
		}),
		fyne.NewMenuItem("Export PDF", func() {
			if dh == nil {
				return
			}
			if err := export.ExportDocumentPDF(dh, "lesson.pdf", export.PDFOptions{}); err != nil {
				dialog.ShowError(err, w)
				return
			}
			status.SetText("Exported exports/lesson.pdf")
		}),
	)
	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("Go Lesson Writer", "Version "+version.String(), w)
		}),
	)
	w.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))

	left := container.NewBorder(widget.NewLabel("Pages"), nil, nil, nil, pagesList)
	center := container.NewBorder(toolbar, status, nil, nil, sheet)
	w.SetContent(container.NewBorder(nil, nil, left, nil, center))

	w.SetOnClosed(func() {
		prefs.SetInt("window.width", int(w.Canvas().Size().Width))
		prefs.SetInt("window.height", int(w.Canvas().Size().Height))
		if sess != nil {
			sess.Close()
		}
		if closeProvider != nil {
			closeProvider()
		}
	})

	if docDir != "" {
		openDoc(docDir)
	}
	w.ShowAndRun()
	return nil
}
