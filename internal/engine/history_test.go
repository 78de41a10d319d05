/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package engine

import (
	"context"
	"testing"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/vector"
)

func TestUndoRedoMarginEdit(t *testing.T) {
	s, fp := openSession(t, 1)
	s.UpdateVisibility(vector.R(0, 0, 1280, 1800))
	s.WaitIdle()
	ctx := context.Background()

	edited := domain.Margins{Top: 200, Bottom: 100}
	if _, err := s.SetMargins(ctx, "p1", edited); err != nil {
		t.Fatalf("SetMargins: %v", err)
	}
	if fp.margins["p1"] != edited {
		t.Fatalf("provider saw %+v", fp.margins["p1"])
	}

	changed, ok, err := s.UndoMargins(ctx, "p1")
	if err != nil || !ok {
		t.Fatalf("UndoMargins: ok=%v err=%v", ok, err)
	}
	if len(changed) == 0 {
		t.Fatalf("undo on a loaded page must report changed regions")
	}
	if got := fp.margins["p1"]; got != (domain.Margins{Top: 100, Bottom: 100}) {
		t.Fatalf("margins after undo = %+v", got)
	}

	if _, ok, err := s.RedoMargins(ctx, "p1"); err != nil || !ok {
		t.Fatalf("RedoMargins: ok=%v err=%v", ok, err)
	}
	if fp.margins["p1"] != edited {
		t.Fatalf("margins after redo = %+v", fp.margins["p1"])
	}
}

func TestUndoMarginsEmptyHistory(t *testing.T) {
	s, _ := openSession(t, 1)
	if _, ok, err := s.UndoMargins(context.Background(), "p1"); ok || err != nil {
		t.Fatalf("empty history: ok=%v err=%v", ok, err)
	}
	if _, ok, _ := s.RedoMargins(context.Background(), "p1"); ok {
		t.Fatalf("redo with no undone edit must be a no-op")
	}
}

func TestNoOpMarginEditRecordsNothing(t *testing.T) {
	s, _ := openSession(t, 1)
	ctx := context.Background()
	same := domain.Margins{Top: 100, Bottom: 100}
	if _, err := s.SetMargins(ctx, "p1", same); err != nil {
		t.Fatalf("SetMargins: %v", err)
	}
	if _, ok, _ := s.UndoMargins(ctx, "p1"); ok {
		t.Fatalf("identical margins must not create a history entry")
	}
}
