/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// AutosaveFileName is the per-document SQLite database holding page
// snapshots written by the crash-recovery autosaver.
const AutosaveFileName = "autosave.db"

const autosaveSchemaVersion = 1

// language=SQL
// dialect=SQLite
const insertSnapshotSQL = `INSERT INTO snapshots(page_id, ts, payload) VALUES (?, ?, ?)`

// language=SQL
// dialect=SQLite
const selectLatestSnapshotSQL = `SELECT ts, payload FROM snapshots WHERE page_id = ? ORDER BY ts DESC LIMIT 1`

// language=SQL
// dialect=SQLite
const listSnapshotsSQL = `SELECT ts, payload FROM snapshots WHERE page_id = ? ORDER BY ts DESC LIMIT ?`

// language=SQL
// dialect=SQLite
const pruneOldSnapshotsSQL = `DELETE FROM snapshots WHERE page_id = ? AND id NOT IN (
	SELECT id FROM snapshots WHERE page_id = ? ORDER BY ts DESC LIMIT ?
)`

// Snapshot is one autosaved page payload.
type Snapshot struct {
	TS      time.Time
	Payload []byte
}

// openAutosave opens (or creates) the document's autosave database.
func openAutosave(root string) (*sql.DB, error) {
	path := filepath.Join(root, AutosaveFileName)
	dsn := fmt.Sprintf("file:%s?cache=shared&_pragma=busy_timeout(5000)", filepath.ToSlash(path))
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open autosave db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL;"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
            key   TEXT PRIMARY KEY,
            value TEXT NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS snapshots (
            id      INTEGER PRIMARY KEY AUTOINCREMENT,
            page_id TEXT NOT NULL,
            ts      TEXT NOT NULL,
            payload BLOB NOT NULL
        );`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_page_ts ON snapshots(page_id, ts);`,
	}
	for _, q := range stmts {
		if _, err := db.ExecContext(ctx, q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("autosave schema: %w", err)
		}
	}
	if _, err := db.ExecContext(ctx,
		`INSERT INTO meta(key, value) VALUES ('schema_version', ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		fmt.Sprintf("%d", autosaveSchemaVersion)); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// SaveSnapshot persists a page payload with a timestamp.
func SaveSnapshot(ctx context.Context, dh *DocumentHandle, pageID string, payload []byte, ts time.Time) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	db, err := openAutosave(dh.Root)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	_, err = db.ExecContext(ctx, insertSnapshotSQL, pageID, ts.UTC().Format(time.RFC3339Nano), payload)
	return err
}

// AutosavePageSnapshots writes every page's region content into the autosave
// database under one timestamp, pruning each page to keepLast entries. Used
// by crash recovery alongside the manifest autosave.
func AutosavePageSnapshots(ctx context.Context, dh *DocumentHandle, keepLast int) error {
	if dh == nil {
		return errors.New("nil DocumentHandle")
	}
	if keepLast <= 0 {
		keepLast = 5
	}
	ts := time.Now()
	for _, pg := range dh.Document.Pages {
		payload, err := json.Marshal(pg.Content)
		if err != nil {
			return fmt.Errorf("marshal page %s: %w", pg.ID, err)
		}
		if err := SaveSnapshot(ctx, dh, pg.ID, payload, ts); err != nil {
			return err
		}
		if _, err := PruneOldSnapshots(ctx, dh, pg.ID, keepLast); err != nil {
			return err
		}
	}
	return nil
}

// GetLatestSnapshot returns the newest snapshot for a page, or a nil payload
// if none exists.
func GetLatestSnapshot(ctx context.Context, dh *DocumentHandle, pageID string) ([]byte, time.Time, error) {
	if dh == nil {
		return nil, time.Time{}, errors.New("nil DocumentHandle")
	}
	db, err := openAutosave(dh.Root)
	if err != nil {
		return nil, time.Time{}, err
	}
	defer func() { _ = db.Close() }()
	var tsStr string
	var payload []byte
	err = db.QueryRowContext(ctx, selectLatestSnapshotSQL, pageID).Scan(&tsStr, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, tsStr)
	if err != nil {
		return payload, time.Time{}, nil
	}
	return payload, ts, nil
}

// ListSnapshots returns up to limit most recent snapshots for a page.
func ListSnapshots(ctx context.Context, dh *DocumentHandle, pageID string, limit int) ([]Snapshot, error) {
	if dh == nil {
		return nil, errors.New("nil DocumentHandle")
	}
	if limit <= 0 {
		limit = 50
	}
	db, err := openAutosave(dh.Root)
	if err != nil {
		return nil, err
	}
	defer func() { _ = db.Close() }()
	rows, err := db.QueryContext(ctx, listSnapshotsSQL, pageID, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []Snapshot
	for rows.Next() {
		var tsStr string
		var payload []byte
		if err := rows.Scan(&tsStr, &payload); err != nil {
			return nil, err
		}
		ts, _ := time.Parse(time.RFC3339Nano, tsStr)
		out = append(out, Snapshot{TS: ts, Payload: payload})
	}
	return out, rows.Err()
}

// PruneOldSnapshots keeps at most keepLast snapshots per page.
func PruneOldSnapshots(ctx context.Context, dh *DocumentHandle, pageID string, keepLast int) (int64, error) {
	if dh == nil {
		return 0, errors.New("nil DocumentHandle")
	}
	if keepLast <= 0 {
		return 0, nil
	}
	db, err := openAutosave(dh.Root)
	if err != nil {
		return 0, err
	}
	defer func() { _ = db.Close() }()
	res, err := db.ExecContext(ctx, pruneOldSnapshotsSQL, pageID, pageID, keepLast)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
