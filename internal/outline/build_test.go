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

	"golessonwriter/internal/domain"
)

func TestBuildDocumentOnePagePerSheet(t *testing.T) {
	o, _ := Parse(sampleOutline)
	doc := BuildDocument(o, "Fractions", DefaultPageSpec())
	if doc.Name != "Fractions" {
		t.Fatalf("name = %q", doc.Name)
	}
	if len(doc.Pages) != 2 {
		t.Fatalf("pages = %d, want 2", len(doc.Pages))
	}
	for i, pg := range doc.Pages {
		if pg.Index != i || pg.Width != 1200 || pg.Height != 1800 {
			t.Fatalf("page %d geometry = %+v", i, pg)
		}
	}
}

func TestBuildDocumentPlacesTitleInHeader(t *testing.T) {
	o, _ := Parse(sampleOutline)
	doc := BuildDocument(o, "Fractions", DefaultPageSpec())
	hdr := doc.Pages[0].Content.Header
	if len(hdr) != 1 || hdr[0].Kind != domain.KindText {
		t.Fatalf("header = %+v", hdr)
	}
	if hdr[0].Text != "Fractions — Warmup" {
		t.Fatalf("header text = %q", hdr[0].Text)
	}
	spec := DefaultPageSpec()
	if hdr[0].Rect.Y+hdr[0].Rect.Height > spec.Margins.Top+40 {
		t.Fatalf("title outside header band: %+v", hdr[0].Rect)
	}
}

func TestBuildDocumentDropsNotes(t *testing.T) {
	o, _ := Parse(sampleOutline)
	doc := BuildDocument(o, "Fractions", DefaultPageSpec())
	for _, d := range doc.Pages[0].Content.Body {
		if strings.Contains(d.Text, "grading note") {
			t.Fatalf("note leaked into body: %+v", d)
		}
	}
	// instructions + exercise + caption survive
	if got := len(doc.Pages[0].Content.Body); got != 3 {
		t.Fatalf("body items = %d, want 3", got)
	}
}

func TestBuildDocumentBodyFlowsDownward(t *testing.T) {
	o, _ := Parse(sampleOutline)
	doc := BuildDocument(o, "Fractions", DefaultPageSpec())
	body := doc.Pages[0].Content.Body
	for i := 1; i < len(body); i++ {
		if body[i].Rect.Y <= body[i-1].Rect.Y {
			t.Fatalf("items not stacked: %v then %v", body[i-1].Rect, body[i].Rect)
		}
	}
	spec := DefaultPageSpec()
	if body[0].Rect.Y < spec.Margins.Top {
		t.Fatalf("body item inside header band: %+v", body[0].Rect)
	}
}

func TestBuildDocumentExerciseLabelInText(t *testing.T) {
	o, _ := Parse(sampleOutline)
	doc := BuildDocument(o, "Fractions", DefaultPageSpec())
	var found bool
	for _, d := range doc.Pages[0].Content.Body {
		if strings.HasPrefix(d.Text, "EXERCISE 1") {
			found = true
		}
	}
	if !found {
		t.Fatalf("exercise label missing from body text")
	}
}
