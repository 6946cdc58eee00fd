// Copyright ©2024 The hexframes Authors. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package hexframes

import (
	"context"
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

// TileCache stores web map tiles in an SQLite database laid out like an
// MBTiles file. Rows are stored in the TMS scheme.
type TileCache struct {
	db *sql.DB
}

// OpenTileCache opens or creates the tile cache at path.
func OpenTileCache(path string) (*TileCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	c := &TileCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

// Close closes the underlying database.
func (c *TileCache) Close() error { return c.db.Close() }

func (c *TileCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS metadata (
			name TEXT PRIMARY KEY,
			value TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS tiles (
			zoom_level INTEGER,
			tile_column INTEGER,
			tile_row INTEGER,
			tile_data BLOB,
			PRIMARY KEY (zoom_level, tile_column, tile_row)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := c.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// tmsRow converts an XYZ row to a TMS row.
func tmsRow(z, y int) int { return 1<<uint(z) - 1 - y }

// Get returns the cached tile at the XYZ address, and whether it was
// found.
func (c *TileCache) Get(ctx context.Context, z, x, y int) ([]byte, bool, error) {
	var data []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT tile_data FROM tiles WHERE zoom_level = ? AND tile_column = ? AND tile_row = ?`,
		z, x, tmsRow(z, y)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Put stores a tile at the XYZ address, replacing any existing one.
func (c *TileCache) Put(ctx context.Context, z, x, y int, data []byte) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO tiles (zoom_level, tile_column, tile_row, tile_data) VALUES (?, ?, ?, ?)`,
		z, x, tmsRow(z, y), data)
	return err
}

// SetMetadata records a metadata value such as the tile source URL.
func (c *TileCache) SetMetadata(ctx context.Context, name, value string) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO metadata (name, value) VALUES (?, ?)`, name, value)
	return err
}

// Metadata returns a metadata value, or "" if it is not set.
func (c *TileCache) Metadata(ctx context.Context, name string) (string, error) {
	var v string
	err := c.db.QueryRowContext(ctx, `SELECT value FROM metadata WHERE name = ?`, name).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return v, err
}

// CachedTiles is a TileSource that reads through a TileCache.
type CachedTiles struct {
	Source TileSource
	Cache  *TileCache
}

// TileData implements TileSource.
func (c *CachedTiles) TileData(ctx context.Context, z, x, y int) ([]byte, error) {
	data, ok, err := c.Cache.Get(ctx, z, x, y)
	if err != nil {
		return nil, err
	}
	if ok {
		return data, nil
	}
	data, err = c.Source.TileData(ctx, z, x, y)
	if err != nil {
		return nil, err
	}
	if err := c.Cache.Put(ctx, z, x, y, data); err != nil {
		return nil, err
	}
	return data, nil
}
