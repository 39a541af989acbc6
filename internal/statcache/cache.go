// Package statcache persists resolved players and game logs in sqlite
// so repeat questions inside the TTL skip the rate-limited upstream.
package statcache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"courtside/internal/logging"
	"courtside/internal/nba"
)

// Cache implements nba.GameLogCache on a sqlite file.
type Cache struct {
	db  *sql.DB
	ttl time.Duration

	// now is swapped out in tests to exercise expiry.
	now func() time.Time
}

// Open creates or opens the cache database at path. Use ":memory:" for
// an ephemeral cache.
func Open(path string, ttl time.Duration) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	// Single connection; sqlite handles one writer and WAL keeps
	// readers from blocking it.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %s: %w", p, err)
		}
	}

	schema := `
CREATE TABLE IF NOT EXISTS players (
	name       TEXT PRIMARY KEY,
	player_id  INTEGER NOT NULL,
	display    TEXT NOT NULL,
	cached_at  INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS gamelogs (
	player_id  INTEGER NOT NULL,
	season     TEXT NOT NULL,
	payload    TEXT NOT NULL,
	cached_at  INTEGER NOT NULL,
	PRIMARY KEY (player_id, season)
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = time.Hour
	}

	logging.Store("cache opened at %s ttl=%v", path, ttl)
	return &Cache{db: db, ttl: ttl, now: time.Now}, nil
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) fresh(cachedAt int64) bool {
	return c.now().Unix()-cachedAt < int64(c.ttl.Seconds())
}

// GetPlayer returns a cached identity for a lookup name.
func (c *Cache) GetPlayer(name string) (nba.Player, bool) {
	var (
		id       int64
		display  string
		cachedAt int64
	)
	err := c.db.QueryRow(
		"SELECT player_id, display, cached_at FROM players WHERE name = ?",
		strings.ToLower(name),
	).Scan(&id, &display, &cachedAt)
	if err != nil || !c.fresh(cachedAt) {
		return nba.Player{}, false
	}
	logging.StoreDebug("player cache hit for %q", name)
	return nba.Player{ID: id, Name: display}, true
}

// PutPlayer stores an identity under a lookup name.
func (c *Cache) PutPlayer(name string, p nba.Player) {
	_, err := c.db.Exec(
		"INSERT OR REPLACE INTO players (name, player_id, display, cached_at) VALUES (?, ?, ?, ?)",
		strings.ToLower(name), p.ID, p.Name, c.now().Unix(),
	)
	if err != nil {
		logging.Store("failed to cache player %q: %v", name, err)
	}
}

// GetGameLog returns cached entries for a player and season.
func (c *Cache) GetGameLog(playerID int64, season string) ([]nba.GameEntry, bool) {
	var (
		payload  string
		cachedAt int64
	)
	err := c.db.QueryRow(
		"SELECT payload, cached_at FROM gamelogs WHERE player_id = ? AND season = ?",
		playerID, season,
	).Scan(&payload, &cachedAt)
	if err != nil || !c.fresh(cachedAt) {
		return nil, false
	}

	var entries []nba.GameEntry
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		logging.Store("corrupt game log payload for player %d: %v", playerID, err)
		return nil, false
	}
	logging.StoreDebug("game log cache hit for player %d season %s", playerID, season)
	return entries, true
}

// PutGameLog stores entries for a player and season. An empty log is
// cached too; "no games yet" is a real answer worth remembering.
func (c *Cache) PutGameLog(playerID int64, season string, entries []nba.GameEntry) {
	if entries == nil {
		entries = []nba.GameEntry{}
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO gamelogs (player_id, season, payload, cached_at) VALUES (?, ?, ?, ?)",
		playerID, season, string(payload), c.now().Unix(),
	)
	if err != nil {
		logging.Store("failed to cache game log for player %d: %v", playerID, err)
	}
}
