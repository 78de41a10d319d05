/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * Licensed under the Apache License, Version 2.0.
 */

// Package templatepack shares page templates between documents as zip
// archives. A template is any file under the document's /templates directory
// (margin presets, region layouts, reusable sheet skeletons).
package templatepack

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	applog "golessonwriter/internal/log"
)

const (
	templatesDirName = "templates"
	manifestName     = "templatepack.manifest.txt"
)

// ExportDocumentTemplates zips the document's templates directory
// (<document>/templates) into a single .zip file. The produced archive
// preserves the directory structure and adds a small manifest file at the
// root for quick human inspection. If the templates directory does not exist
// or is empty, it still creates the archive with only the manifest.
func ExportDocumentTemplates(docRoot string, destZipPath string) error {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "export").With(slog.String("document", docRoot))
	if strings.TrimSpace(docRoot) == "" {
		return errors.New("docRoot is required")
	}
	if strings.TrimSpace(destZipPath) == "" {
		return errors.New("destZipPath is required")
	}
	tplDir := filepath.Join(docRoot, templatesDirName)
	if _, err := os.Stat(tplDir); os.IsNotExist(err) {
		if err := os.MkdirAll(tplDir, 0o755); err != nil {
			return fmt.Errorf("ensure templates dir: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(destZipPath), 0o755); err != nil {
		return fmt.Errorf("ensure zip dir: %w", err)
	}
	// On Windows, remove destination if present before create
	_ = os.Remove(destZipPath)

	zf, err := os.Create(destZipPath)
	if err != nil {
		return fmt.Errorf("create zip: %w", err)
	}
	defer func() { _ = zf.Close() }()
	zw := zip.NewWriter(zf)
	defer func() { _ = zw.Close() }()

	manifest := fmt.Sprintf("Go Lesson Writer Template Pack\nCreated: %s\nDocument: %s\n\nContents mirror the document's /templates directory.\n",
		time.Now().Format(time.RFC3339), docRoot)
	w, err := zw.Create(manifestName)
	if err != nil {
		return fmt.Errorf("add manifest: %w", err)
	}
	if _, err := w.Write([]byte(manifest)); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	added := 0
	err = filepath.Walk(tplDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(docRoot, path)
		if err != nil {
			return err
		}
		// Forward slashes inside the archive.
		fw, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		if _, err := io.Copy(fw, f); err != nil {
			return err
		}
		added++
		return nil
	})
	if err != nil {
		l.Error("zip build failed", slog.Any("err", err))
		return fmt.Errorf("build zip: %w", err)
	}
	l.Info("template pack exported", slog.Int("files", added), slog.String("zip", destZipPath))
	return nil
}

// InstallPack extracts the given .zip pack into the document's templates
// directory. Existing files are not overwritten; if a file already exists, it
// is skipped. Returns the count of files installed (skipped files are not
// counted).
func InstallPack(docRoot string, packZipPath string) (int, error) {
	l := applog.WithOperation(applog.WithComponent("templatepack"), "install").With(slog.String("document", docRoot))
	if strings.TrimSpace(docRoot) == "" {
		return 0, errors.New("docRoot is required")
	}
	if strings.TrimSpace(packZipPath) == "" {
		return 0, errors.New("packZipPath is required")
	}
	tplDir := filepath.Join(docRoot, templatesDirName)
	if err := os.MkdirAll(tplDir, 0o755); err != nil {
		return 0, fmt.Errorf("ensure templates dir: %w", err)
	}

	r, err := zip.OpenReader(packZipPath)
	if err != nil {
		return 0, fmt.Errorf("open pack: %w", err)
	}
	defer func() { _ = r.Close() }()

	installed := 0
	for _, f := range r.File {
		name := f.Name
		if name == manifestName {
			continue
		}
		// Place entries under templates/ whether or not the archive already
		// prefixes them that way.
		targetRel := name
		if !strings.HasPrefix(targetRel, templatesDirName+"/") {
			targetRel = filepath.ToSlash(filepath.Join(templatesDirName, targetRel))
		}
		targetPath := filepath.Join(docRoot, filepath.FromSlash(targetRel))
		if _, err := os.Stat(targetPath); err == nil {
			l.Warn("skip existing file", slog.String("path", targetPath))
			continue
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(targetPath, 0o755); err != nil {
				return installed, err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return installed, err
		}
		rc, err := f.Open()
		if err != nil {
			return installed, err
		}
		out, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			_ = rc.Close()
			return installed, err
		}
		if _, err := io.Copy(out, rc); err != nil {
			_ = out.Close()
			_ = rc.Close()
			return installed, err
		}
		_ = out.Close()
		_ = rc.Close()
		installed++
	}
	l.Info("template pack installed", slog.Int("files", installed))
	return installed, nil
}
