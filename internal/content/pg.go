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
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golessonwriter/internal/domain"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PGProvider reads page content straight from the service's Postgres
// database. Used by self-hosted deployments that skip the HTTP tier.
type PGProvider struct {
	db *sql.DB
}

// OpenPG connects and verifies the database is reachable.
func OpenPG(ctx context.Context, dsn string) (*PGProvider, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("content: open db: %w", err)
	}
	pctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("content: ping db: %w", err)
	}
	if err := ensureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &PGProvider{db: db}, nil
}

func ensureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS lesson_pages (
    page_id    TEXT PRIMARY KEY,
    margins    JSONB NOT NULL DEFAULT '{}',
    content    JSONB NOT NULL DEFAULT '{}',
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("content: ensure schema: %w", err)
	}
	return nil
}

// FetchPage loads the page's content column.
func (p *PGProvider) FetchPage(ctx context.Context, pageID string) (domain.PageContent, error) {
	var raw []byte
	err := p.db.QueryRowContext(ctx,
		`SELECT content FROM lesson_pages WHERE page_id = $1`, pageID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.PageContent{}, ErrNotFound
	}
	if err != nil {
		return domain.PageContent{}, fmt.Errorf("content: fetch page %s: %w", pageID, err)
	}
	var pc domain.PageContent
	if err := json.Unmarshal(raw, &pc); err != nil {
		return domain.PageContent{}, fmt.Errorf("content: decode page %s: %w", pageID, err)
	}
	return pc, nil
}

// OnMarginsChanged persists the new margin spec.
func (p *PGProvider) OnMarginsChanged(ctx context.Context, pageID string, m domain.Margins) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	res, err := p.db.ExecContext(ctx,
		`UPDATE lesson_pages SET margins = $2, updated_at = now() WHERE page_id = $1`, pageID, raw)
	if err != nil {
		return fmt.Errorf("content: update margins %s: %w", pageID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SavePage upserts a full page payload, used by the save path when a
// document backed by Postgres is written.
func (p *PGProvider) SavePage(ctx context.Context, pageID string, m domain.Margins, pc domain.PageContent) error {
	mraw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	craw, err := json.Marshal(pc)
	if err != nil {
		return err
	}
	_, err = p.db.ExecContext(ctx, `
INSERT INTO lesson_pages (page_id, margins, content, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (page_id) DO UPDATE SET margins = EXCLUDED.margins, content = EXCLUDED.content, updated_at = now()`,
		pageID, mraw, craw)
	if err != nil {
		return fmt.Errorf("content: save page %s: %w", pageID, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PGProvider) Close() error { return p.db.Close() }
