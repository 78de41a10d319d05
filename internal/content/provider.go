/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package content supplies page payloads to the canvas engine. The engine
// only sees the Provider interface; implementations cover the hosted HTTP
// service, a direct Postgres connection, and a local SQLite cache that
// wraps either of them for offline work.
package content

import (
	"context"
	"errors"

	"golessonwriter/internal/domain"
)

// ErrNotFound reports that the backing store has no content for the page.
var ErrNotFound = errors.New("content: page not found")

// Provider is the source of truth for page content. FetchPage may block on
// I/O; the engine calls it off the interaction path and discards results for
// pages that scrolled away in the meantime. OnMarginsChanged keeps persisted
// state consistent with interactive margin edits.
type Provider interface {
	FetchPage(ctx context.Context, pageID string) (domain.PageContent, error)
	OnMarginsChanged(ctx context.Context, pageID string, m domain.Margins) error
}
