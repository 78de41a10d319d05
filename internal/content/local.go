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
	"sync"

	"golessonwriter/internal/domain"
	"golessonwriter/internal/storage"
)

// LocalProvider serves page content straight from an opened document on disk.
// Margin changes are written back into the manifest transactionally. It is
// the provider used when no remote backend is configured.
type LocalProvider struct {
	mu sync.Mutex
	dh *storage.DocumentHandle
}

func NewLocalProvider(dh *storage.DocumentHandle) *LocalProvider {
	return &LocalProvider{dh: dh}
}

func (p *LocalProvider) FetchPage(ctx context.Context, pageID string) (domain.PageContent, error) {
	if err := ctx.Err(); err != nil {
		return domain.PageContent{}, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.dh.Document.Pages {
		if p.dh.Document.Pages[i].ID == pageID {
			return p.dh.Document.Pages[i].Content, nil
		}
	}
	return domain.PageContent{}, ErrNotFound
}

func (p *LocalProvider) OnMarginsChanged(ctx context.Context, pageID string, m domain.Margins) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.dh.Document.Pages {
		if p.dh.Document.Pages[i].ID == pageID {
			p.dh.Document.Pages[i].Margins = m
			return storage.Save(p.dh)
		}
	}
	return ErrNotFound
}
