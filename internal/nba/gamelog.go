package nba

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"courtside/internal/logging"
)

// GameLog returns the player's most recent games for the configured
// season, newest first, truncated to the window. The upstream rate
// limits aggressively, so each attempt is preceded by a linear backoff
// sleep and failures retry up to the ceiling. An empty log is a
// success, distinct from exhausting retries.
func (c *Client) GameLog(ctx context.Context, playerID int64) ([]GameEntry, error) {
	if c.cache != nil {
		if entries, ok := c.cache.GetGameLog(playerID, c.season); ok {
			logging.StatsDebug("game log cache hit for player %d", playerID)
			return entries, nil
		}
	}

	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("Season", c.season)
	params.Set("SeasonType", c.seasonType)

	var lastErr error
	for attempt := 0; attempt < c.retries; attempt++ {
		c.sleep(time.Duration(attempt)*c.backoffUnit + time.Second)

		resp, err := c.get(ctx, "playergamelog", params)
		if err != nil {
			lastErr = err
			logging.StatsWarn("game log attempt %d/%d failed: %v", attempt+1, c.retries, err)
			continue
		}

		rs, ok := resp.resultSet("PlayerGameLog")
		if !ok {
			lastErr = fmt.Errorf("missing PlayerGameLog result set")
			continue
		}

		entries := decodeGameLog(rs, c.window)
		if c.cache != nil {
			c.cache.PutGameLog(playerID, c.season, entries)
		}
		logging.Stats("game log for player %d: %d entries", playerID, len(entries))
		return entries, nil
	}

	logging.StatsError("game log for player %d exhausted %d attempts: %v", playerID, c.retries, lastErr)
	return nil, fmt.Errorf("game log retrieval: %w: %v", ErrUpstream, lastErr)
}

// decodeGameLog maps the tabular rows into entries. The endpoint
// already returns rows newest first; we keep that order and truncate.
func decodeGameLog(rs resultSet, window int) []GameEntry {
	dateCol := rs.columnIndex("GAME_DATE")
	matchCol := rs.columnIndex("MATCHUP")
	wlCol := rs.columnIndex("WL")
	ptsCol := rs.columnIndex("PTS")
	rebCol := rs.columnIndex("REB")
	astCol := rs.columnIndex("AST")
	fg3mCol := rs.columnIndex("FG3M")
	minCol := rs.columnIndex("MIN")

	entries := make([]GameEntry, 0, window)
	for _, row := range rs.RowSet {
		if len(entries) == window {
			break
		}
		entries = append(entries, GameEntry{
			Date:    asString(cell(row, dateCol)),
			Matchup: asString(cell(row, matchCol)),
			WL:      asString(cell(row, wlCol)),
			Pts:     asFloat(cell(row, ptsCol)),
			Reb:     asFloat(cell(row, rebCol)),
			Ast:     asFloat(cell(row, astCol)),
			Fg3m:    asFloat(cell(row, fg3mCol)),
			Min:     asFloat(cell(row, minCol)),
		})
	}
	return entries
}
