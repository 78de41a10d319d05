/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package content

import (
	"context"
	"errors"
	"testing"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/storage"
)

func localHandle(t *testing.T) *storage.DocumentHandle {
	t.Helper()
	doc := domain.Document{
		Name: "Local",
		Pages: []domain.Page{{
			ID: "p1", Index: 0, Width: 1200, Height: 1800,
			Margins: domain.Margins{Top: 100, Bottom: 100},
			Content: domain.PageContent{
				Body: []domain.Drawable{{ID: "d1", Kind: domain.KindShape, Shape: "rect", Rect: domain.Rect{X: 10, Y: 10, Width: 50, Height: 50}}},
			},
		}},
	}
	dh, err := storage.InitDocument(t.TempDir(), doc)
	if err != nil {
		t.Fatalf("InitDocument: %v", err)
	}
	return dh
}

func TestLocalProviderFetchPage(t *testing.T) {
	p := NewLocalProvider(localHandle(t))
	got, err := p.FetchPage(context.Background(), "p1")
	if err != nil {
		t.Fatalf("FetchPage: %v", err)
	}
	if len(got.Body) != 1 || got.Body[0].ID != "d1" {
		t.Fatalf("content = %+v", got)
	}
	if _, err := p.FetchPage(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown page err = %v", err)
	}
}

func TestLocalProviderPersistsMargins(t *testing.T) {
	dh := localHandle(t)
	p := NewLocalProvider(dh)
	m := domain.Margins{Top: 150, Bottom: 80, Left: 20, Right: 20}
	if err := p.OnMarginsChanged(context.Background(), "p1", m); err != nil {
		t.Fatalf("OnMarginsChanged: %v", err)
	}
	reopened, err := storage.Open(dh.Root)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if reopened.Document.Pages[0].Margins != m {
		t.Fatalf("persisted margins = %+v", reopened.Document.Pages[0].Margins)
	}
	if err := p.OnMarginsChanged(context.Background(), "nope", m); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown page err = %v", err)
	}
}
