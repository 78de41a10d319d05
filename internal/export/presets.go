/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0
 */

package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"golessonwriter/internal/storage"
)

// PresetName represents a named export preset.
type PresetName string

const (
	PresetWeb   PresetName = "web"
	PresetPrint PresetName = "print"
)

// BatchOptions controls batch export across multiple formats and pages.
//
// Path semantics:
//   - If OutDir is empty or relative, it is created under
//     <document>/exports/<preset>/.
//   - The PDF single-file output is named lesson.pdf in OutDir.
//   - PNG/SVG per-page outputs go to png/ or svg/ subfolders inside OutDir,
//     named page-<n>.(png|svg).
//
// Pages applies to per-page exporters; PDF exports all pages.
//
//nolint:revive // keep fields explicit for clarity
type BatchOptions struct {
	Preset        PresetName
	Formats       []string // allowed: pdf, png, svg; empty means preset defaults
	Pages         []int    // zero-based indices; empty means all pages
	DPIOverride   int      // when > 0 overrides raster/vector DPI where applicable
	IncludeGuides *bool    // when set, overrides the preset's default for guides
	OutDir        string   // base directory for outputs (created per preset if relative)
}

// BatchExport runs exports according to the given preset.
func BatchExport(dh *storage.DocumentHandle, opt BatchOptions) error {
	if dh == nil {
		return fmt.Errorf("document handle is nil")
	}
	if len(dh.Document.Pages) == 0 {
		return fmt.Errorf("document has no pages")
	}

	formats := opt.Formats
	if len(formats) == 0 {
		formats = presetDefaultFormats(opt.Preset)
	}
	for i := range formats {
		formats[i] = strings.ToLower(strings.TrimSpace(formats[i]))
	}

	baseOut := opt.OutDir
	if baseOut == "" {
		baseOut = string(opt.Preset)
	}
	if !filepath.IsAbs(baseOut) {
		baseOut = filepath.Join(dh.Root, "exports", baseOut)
	}

	guides := presetIncludeGuides(opt.Preset)
	if opt.IncludeGuides != nil {
		guides = *opt.IncludeGuides
	}

	for _, f := range formats {
		switch f {
		case "pdf":
			out := filepath.Join(baseOut, "pdf", "lesson.pdf")
			if err := ExportDocumentPDF(dh, out, PDFOptions{IncludeGuides: guides}); err != nil {
				return fmt.Errorf("pdf: %w", err)
			}
		case "png":
			po := PNGOptions{IncludeGuides: guides, Pages: opt.Pages}
			if opt.DPIOverride > 0 {
				po.DPI = opt.DPIOverride
			}
			if err := ExportDocumentPNGPages(dh, filepath.Join(baseOut, "png"), po); err != nil {
				return fmt.Errorf("png: %w", err)
			}
		case "svg":
			so := SVGOptions{IncludeGuides: guides, Pages: opt.Pages}
			if opt.DPIOverride > 0 {
				so.DPI = opt.DPIOverride
			}
			if err := ExportDocumentSVGPages(dh, filepath.Join(baseOut, "svg"), so); err != nil {
				return fmt.Errorf("svg: %w", err)
			}
		default:
			return fmt.Errorf("unknown format: %s", f)
		}
	}
	return nil
}

func presetDefaultFormats(p PresetName) []string {
	switch p {
	case PresetWeb:
		return []string{"png", "svg"}
	case PresetPrint:
		return []string{"pdf", "png"}
	default:
		return []string{"pdf"}
	}
}

func presetIncludeGuides(p PresetName) bool {
	switch p {
	case PresetWeb:
		return false
	case PresetPrint:
		return true
	default:
		return true
	}
}
