/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golessonwriter/internal/crash"
	"golessonwriter/internal/domain"
	"golessonwriter/internal/export"
	applog "golessonwriter/internal/log"
	"golessonwriter/internal/outline"
	"golessonwriter/internal/storage"
	"golessonwriter/internal/templatepack"
	"golessonwriter/internal/ui"
	"golessonwriter/internal/version"
)

func usage() {
	fmt.Println("Go Lesson Writer — paginated lesson sheet editor")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  golessonwriter version|-v|--version        Show version")
	fmt.Println("  golessonwriter init <dir> <name> [pages]    Create a new document at <dir> with name <name>")
	fmt.Println("  golessonwriter open <dir>                   Open document at <dir> and print summary")
	fmt.Println("  golessonwriter save <dir>                   Save document at <dir> (creates backup)")
	fmt.Println("  golessonwriter export <dir> [web|print]     Batch export to PDF/PNG/SVG")
	fmt.Println("  golessonwriter import <dir> <outline.txt>   Build a document from a plain-text outline")
	fmt.Println("  golessonwriter templates export <dir> <zip>  Zip the document's /templates directory")
	fmt.Println("  golessonwriter templates install <dir> <zip> Install a template pack into a document")
	fmt.Println("  golessonwriter ui [<dir>]                   Launch desktop UI (build with -tags fyne for full UI)")
}

// Default page geometry: 1200x1800 px at 100% zoom, a 2:3 sheet.
const (
	defaultPageWidth  = 1200.0
	defaultPageHeight = 1800.0
)

func newDocument(name string, pages int) domain.Document {
	if pages <= 0 {
		pages = 1
	}
	doc := domain.Document{Name: name}
	for i := 0; i < pages; i++ {
		doc.Pages = append(doc.Pages, domain.Page{
			ID:      fmt.Sprintf("p%d", i+1),
			Index:   i,
			Width:   defaultPageWidth,
			Height:  defaultPageHeight,
			Margins: domain.Margins{Top: 120, Right: 80, Bottom: 100, Left: 80},
		})
	}
	return doc
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var dh *storage.DocumentHandle
	defer func() { crash.Recover(dh) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("Go Lesson Writer")
			fmt.Println(version.String())
			return
		case "init":
			if len(args) < 4 {
				fmt.Println("init requires <dir> and <name>")
				usage()
				os.Exit(2)
			}
			dir := args[2]
			name := args[3]
			pages := 1
			if len(args) > 4 {
				if _, err := fmt.Sscanf(args[4], "%d", &pages); err != nil {
					fmt.Println("pages must be a number")
					os.Exit(2)
				}
			}
			abs, _ := filepath.Abs(dir)
			l.Info("init document", slog.String("root", abs), slog.String("name", name), slog.Int("pages", pages))
			h, err := storage.InitDocument(abs, newDocument(name, pages))
			if err != nil {
				l.Error("init failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Println("Created document at", abs)
			return
		case "open":
			if len(args) < 3 {
				fmt.Println("open requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("open document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Printf("Opened document: %s\n", h.Document.Name)
			fmt.Printf("Pages: %d\n", len(h.Document.Pages))
			fmt.Println("Root:", h.Root)
			return
		case "save":
			if len(args) < 3 {
				fmt.Println("save requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			l.Info("save document", slog.String("root", abs))
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			h.Document.Metadata.Notes = fmt.Sprintf("Saved at %s", time.Now().Format(time.RFC3339))
			if err := storage.Save(h); err != nil {
				l.Error("save failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Println("Saved document and created a backup of previous manifest (if any).")
			return
		case "export":
			if len(args) < 3 {
				fmt.Println("export requires <dir>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			preset := export.PresetPrint
			if len(args) > 3 {
				preset = export.PresetName(args[3])
			}
			h, err := storage.Open(abs)
			if err != nil {
				l.Error("open before export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			l.Info("batch export", slog.String("root", abs), slog.String("preset", string(preset)))
			if err := export.BatchExport(h, export.BatchOptions{Preset: preset}); err != nil {
				l.Error("export failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			fmt.Printf("Exported preset %q under %s\n", preset, filepath.Join(abs, "exports"))
			return
		case "import":
			if len(args) < 4 {
				fmt.Println("import requires <dir> and <outline.txt>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[2])
			src := args[3]
			data, err := os.ReadFile(src)
			if err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			parsed, perrs := outline.Parse(string(data))
			for _, pe := range perrs {
				fmt.Printf("outline %s:%d: %s\n", src, pe.Line, pe.Message)
			}
			if len(parsed.Sheets) == 0 {
				fmt.Println("Error: outline has no sheets")
				os.Exit(1)
			}
			name := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			doc := outline.BuildDocument(parsed, name, outline.DefaultPageSpec())
			l.Info("import outline", slog.String("root", abs), slog.Int("pages", len(doc.Pages)))
			h, err := storage.InitDocument(abs, doc)
			if err != nil {
				l.Error("import failed", slog.Any("err", err))
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			dh = h
			fmt.Printf("Imported %d pages into %s\n", len(doc.Pages), abs)
			return
		case "templates":
			if len(args) < 5 {
				fmt.Println("templates requires export|install <dir> <zip>")
				usage()
				os.Exit(2)
			}
			abs, _ := filepath.Abs(args[3])
			zipPath := args[4]
			switch args[2] {
			case "export":
				if err := templatepack.ExportDocumentTemplates(abs, zipPath); err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Println("Exported template pack to", zipPath)
			case "install":
				n, err := templatepack.InstallPack(abs, zipPath)
				if err != nil {
					fmt.Println("Error:", err)
					os.Exit(1)
				}
				fmt.Printf("Installed %d template files\n", n)
			default:
				fmt.Println("templates requires export|install")
				os.Exit(2)
			}
			return
		case "ui":
			var dir string
			if len(args) >= 3 {
				dir = args[2]
			}
			if err := ui.Run(dir); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}
