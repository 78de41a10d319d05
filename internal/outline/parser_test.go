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
	"strings"
	"testing"
)

const sampleOutline = `# Fractions — Warmup
INSTRUCTIONS: Fill in the missing numerators.
  Show your work in the space below.
Exercise 1 Compare 1/2 and 3/4 @fractions
CAPTION: Remember to find a common denominator.
; grading note, not shown to students

Sheet: Fractions — Practice
Task Shade half of each shape
Just a plain line
`

func TestParseSheetsAndLines(t *testing.T) {
	o, errs := Parse(sampleOutline)
	if len(errs) != 0 {
		t.Fatalf("errors: %v", errs)
	}
	if len(o.Sheets) != 2 {
		t.Fatalf("sheets = %d, want 2", len(o.Sheets))
	}
	if o.Sheets[0].Title != "Fractions — Warmup" || o.Sheets[1].Title != "Fractions — Practice" {
		t.Fatalf("titles = %q / %q", o.Sheets[0].Title, o.Sheets[1].Title)
	}
	if len(o.Sheets[0].Lines) != 4 {
		t.Fatalf("sheet 1 lines = %d, want 4", len(o.Sheets[0].Lines))
	}
}

func TestParseContinuationAppends(t *testing.T) {
	o, _ := Parse(sampleOutline)
	instr := o.Sheets[0].Lines[0]
	if instr.Type != LineLabeled || instr.Label != "INSTRUCTIONS" {
		t.Fatalf("first line = %+v", instr)
	}
	if !strings.Contains(instr.Text, "\nShow your work") {
		t.Fatalf("continuation not merged: %q", instr.Text)
	}
}

func TestParseExerciseAndTags(t *testing.T) {
	o, _ := Parse(sampleOutline)
	ex := o.Sheets[0].Lines[1]
	if ex.Type != LineExercise || ex.Label != "EXERCISE 1" {
		t.Fatalf("exercise line = %+v", ex)
	}
	if len(ex.Tags) != 1 || ex.Tags[0] != "fractions" {
		t.Fatalf("tags = %v", ex.Tags)
	}
}

func TestParseNoteAndCaption(t *testing.T) {
	o, _ := Parse(sampleOutline)
	if o.Sheets[0].Lines[2].Type != LineCaption {
		t.Fatalf("caption line = %+v", o.Sheets[0].Lines[2])
	}
	note := o.Sheets[0].Lines[3]
	if note.Type != LineNote || note.Text != "grading note, not shown to students" {
		t.Fatalf("note line = %+v", note)
	}
}

func TestParseImplicitSheet(t *testing.T) {
	o, _ := Parse("PROMPT: hello\n")
	if len(o.Sheets) != 1 || o.Sheets[0].Title != "Untitled" {
		t.Fatalf("implicit sheet = %+v", o.Sheets)
	}
}

func TestParseUnknownLinePreserved(t *testing.T) {
	o, _ := Parse(sampleOutline)
	lines := o.Sheets[1].Lines
	last := lines[len(lines)-1]
	if last.Type != LineUnknown || last.Text != "Just a plain line" {
		t.Fatalf("unknown line = %+v", last)
	}
}
