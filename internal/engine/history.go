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
	"encoding/json"
	"time"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/layout"
	"golessonwriter/internal/undo"
)

// marginEdit is the history blob for one margin change. Both sides are
// stored so the same snapshot serves undo (apply Before) and redo (apply
// After) as the manager moves it between stacks.
type marginEdit struct {
	Before domain.Margins `json:"before"`
	After  domain.Margins `json:"after"`
}

func (s *Session) pushMarginEditLocked(pageID string, before, after domain.Margins) {
	if before == after {
		return
	}
	blob, err := json.Marshal(marginEdit{Before: before, After: after})
	if err != nil {
		return
	}
	s.history.PushSnapshot(undo.Snapshot{PageID: pageID, Blob: blob, TS: time.Now()})
}

// UndoMargins reverts the page's most recent margin edit. It reports false
// when the page has no recorded edits.
func (s *Session) UndoMargins(ctx context.Context, pageID string) ([]layout.RegionKind, bool, error) {
	snap, ok := s.history.Undo(pageID)
	if !ok {
		return nil, false, nil
	}
	var edit marginEdit
	if err := json.Unmarshal(snap.Blob, &edit); err != nil {
		return nil, false, err
	}
	changed, err := s.applyMargins(ctx, pageID, edit.Before)
	return changed, true, err
}

// RedoMargins re-applies the last undone margin edit.
func (s *Session) RedoMargins(ctx context.Context, pageID string) ([]layout.RegionKind, bool, error) {
	snap, ok := s.history.Redo(pageID)
	if !ok {
		return nil, false, nil
	}
	var edit marginEdit
	if err := json.Unmarshal(snap.Blob, &edit); err != nil {
		return nil, false, err
	}
	changed, err := s.applyMargins(ctx, pageID, edit.After)
	return changed, true, err
}
