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
	"log/slog"
	"path/filepath"
	"time"

	"golessonwriter/internal/domain"
	applog "golessonwriter/internal/log"

	_ "modernc.org/sqlite"
)

const cacheSchemaVersion = 1

// CachedProvider wraps another provider with a local SQLite cache so pages
// fetched once keep working offline. Fetches go to the source first; the
// cache only answers when the source fails and serves whatever it saw last.
type CachedProvider struct {
	src Provider
	db  *sql.DB
	log *slog.Logger
}

// OpenCache opens (or creates) the cache database at dir/pagecache.db.
func OpenCache(dir string, src Provider) (*CachedProvider, error) {
	path := filepath.Join(dir, "pagecache.db")
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("content: open cache: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("content: enable WAL: %w", err)
	}
	if err := ensureCacheSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &CachedProvider{src: src, db: db, log: applog.WithComponent("content.cache")}, nil
}

func ensureCacheSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
            key   TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS page_cache (
            page_id    TEXT PRIMARY KEY,
            payload    BLOB NOT NULL,
            fetched_at TEXT NOT NULL
        );`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("content: cache schema: %w", err)
		}
	}
	_, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES ('schema_version', ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", cacheSchemaVersion))
	return err
}

// FetchPage fetches from the source and refreshes the cache; if the source
// fails the last cached payload is served instead. Only when both fail is
// the source's error returned, so transient-offline behavior degrades
// gracefully without masking a page that truly does not exist.
func (c *CachedProvider) FetchPage(ctx context.Context, pageID string) (domain.PageContent, error) {
	pc, srcErr := c.src.FetchPage(ctx, pageID)
	if srcErr == nil {
		c.store(ctx, pageID, pc)
		return pc, nil
	}
	if errors.Is(srcErr, ErrNotFound) {
		return domain.PageContent{}, srcErr
	}
	cached, ok := c.lookup(ctx, pageID)
	if !ok {
		return domain.PageContent{}, srcErr
	}
	applog.WithPage(c.log, pageID).Info("serving cached page, source unavailable", slog.Any("err", srcErr))
	return cached, nil
}

// OnMarginsChanged forwards to the source; margin specs live in the
// document, not in the payload cache.
func (c *CachedProvider) OnMarginsChanged(ctx context.Context, pageID string, m domain.Margins) error {
	return c.src.OnMarginsChanged(ctx, pageID, m)
}

// Close closes the cache database.
func (c *CachedProvider) Close() error { return c.db.Close() }

func (c *CachedProvider) store(ctx context.Context, pageID string, pc domain.PageContent) {
	raw, err := json.Marshal(pc)
	if err != nil {
		return
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO page_cache(page_id, payload, fetched_at) VALUES (?, ?, ?)
         ON CONFLICT(page_id) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		pageID, raw, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		applog.WithPage(c.log, pageID).Warn("cache write failed", slog.Any("err", err))
	}
}

func (c *CachedProvider) lookup(ctx context.Context, pageID string) (domain.PageContent, bool) {
	var raw []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT payload FROM page_cache WHERE page_id = ?`, pageID).Scan(&raw)
	if err != nil {
		return domain.PageContent{}, false
	}
	var pc domain.PageContent
	if err := json.Unmarshal(raw, &pc); err != nil {
		return domain.PageContent{}, false
	}
	return pc, true
}
