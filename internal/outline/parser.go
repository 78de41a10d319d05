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
	"bufio"
	"regexp"
	"strings"
)

// Parse parses a lesson outline text into a structured Outline.
// Supported syntax (minimal):
// - Sheet headings:
//   - Lines starting with "#" or "Sheet:" open a new sheet. The rest of the
//     line is the title.
//
//   - Labeled content: LABEL: text (LABEL is upper-cased; CAPTION/NARRATION
//     lines are classified LineCaption).
//   - Continuation lines indented by 2+ spaces are appended to the previous
//     labeled/caption line.
//
//   - Exercise markers: lines starting with "Exercise"/"EXERCISE" or "Task"
//     are classified as LineExercise.
//   - Notes: lines starting with ';' are LineNote.
//
// Blank lines are preserved as separators but not represented as lines.
func Parse(input string) (Outline, []Error) {
	o := Outline{Sheets: []Sheet{}}
	var errs []Error

	scanner := bufio.NewScanner(strings.NewReader(input))
	lineNo := 0
	currentSheet := Sheet{}
	var lastLine *Line

	// Patterns
	reSheet := regexp.MustCompile(`^(#+)\s*(.*)$`)
	reSheetAlt := regexp.MustCompile(`^(?i)\s*Sheet:\s*(.+)$`)
	reLabel := regexp.MustCompile(`^([A-Za-z0-9_\- ]{1,64})\s*:\s*(.*)$`)
	reExercise := regexp.MustCompile(`^(?i)\s*(Exercise\s*\d+|Task)\b\s*(.*)$`)
	reTag := regexp.MustCompile(`(?i)@([a-z0-9_\-]+)`) // tags like @fractions

	extractTags := func(s string) []string {
		found := reTag.FindAllStringSubmatch(s, -1)
		if len(found) == 0 {
			return nil
		}
		m := map[string]struct{}{}
		for _, f := range found {
			if len(f) > 1 {
				t := strings.ToLower(strings.TrimSpace(f[1]))
				if t != "" {
					m[t] = struct{}{}
				}
			}
		}
		if len(m) == 0 {
			return nil
		}
		out := make([]string, 0, len(m))
		for k := range m {
			out = append(out, k)
		}
		return out
	}

	flushSheet := func() {
		if strings.TrimSpace(currentSheet.Title) != "" || len(currentSheet.Lines) > 0 {
			o.Sheets = append(o.Sheets, currentSheet)
		}
	}

	for scanner.Scan() {
		lineNo++
		raw := scanner.Text()
		line := strings.TrimRight(raw, "\r\n")

		// Continuation line (indented) -> append to last labeled/caption line
		if strings.HasPrefix(line, "  ") && lastLine != nil && (lastLine.Type == LineLabeled || lastLine.Type == LineCaption) {
			cont := strings.TrimSpace(line)
			if cont != "" {
				lastLine.Text += "\n" + cont
				if tags := extractTags(cont); len(tags) > 0 {
					m := map[string]struct{}{}
					for _, t := range lastLine.Tags {
						m[t] = struct{}{}
					}
					for _, t := range tags {
						m[t] = struct{}{}
					}
					merged := make([]string, 0, len(m))
					for k := range m {
						merged = append(merged, k)
					}
					lastLine.Tags = merged
				}
			}
			continue
		}

		trim := strings.TrimSpace(line)
		if trim == "" {
			lastLine = nil
			continue
		}

		// Sheet heading
		if m := reSheet.FindStringSubmatch(trim); m != nil {
			flushSheet()
			currentSheet = Sheet{Title: strings.TrimSpace(m[2])}
			lastLine = nil
			continue
		}
		if m := reSheetAlt.FindStringSubmatch(trim); m != nil {
			flushSheet()
			currentSheet = Sheet{Title: strings.TrimSpace(m[1])}
			lastLine = nil
			continue
		}

		// Content before any heading opens an implicit sheet.
		if len(o.Sheets) == 0 && strings.TrimSpace(currentSheet.Title) == "" && len(currentSheet.Lines) == 0 {
			currentSheet.Title = "Untitled"
		}

		// Note line
		if strings.HasPrefix(trim, ";") {
			currentSheet.Lines = append(currentSheet.Lines, Line{Type: LineNote, Text: strings.TrimSpace(strings.TrimPrefix(trim, ";")), LineNo: lineNo})
			lastLine = nil
			continue
		}

		// Exercise marker
		if m := reExercise.FindStringSubmatch(trim); m != nil {
			text := strings.TrimSpace(m[2])
			tags := extractTags(text)
			currentSheet.Lines = append(currentSheet.Lines, Line{Type: LineExercise, Label: strings.ToUpper(strings.TrimSpace(m[1])), Text: text, Tags: tags, LineNo: lineNo})
			lastLine = nil
			continue
		}

		// LABEL: text, with CAPTION/NARRATION treated specially
		if m := reLabel.FindStringSubmatch(trim); m != nil {
			label := strings.ToUpper(strings.TrimSpace(m[1]))
			text := strings.TrimSpace(m[2])
			lt := LineLabeled
			if label == "CAPTION" || label == "NARRATION" {
				lt = LineCaption
			}
			tags := extractTags(text)
			ln := Line{Type: lt, Label: label, Text: text, Tags: tags, LineNo: lineNo}
			currentSheet.Lines = append(currentSheet.Lines, ln)
			lastLine = &currentSheet.Lines[len(currentSheet.Lines)-1]
			continue
		}

		// Unclassified line: keep the text so nothing is lost.
		currentSheet.Lines = append(currentSheet.Lines, Line{Type: LineUnknown, Text: trim, LineNo: lineNo})
		lastLine = &currentSheet.Lines[len(currentSheet.Lines)-1]
	}
	flushSheet()

	if err := scanner.Err(); err != nil {
		errs = append(errs, Error{Line: lineNo, Column: 1, Message: err.Error()})
	}
	return o, errs
}
