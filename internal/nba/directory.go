package nba

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"courtside/internal/logging"
)

// ResolvePlayer matches free-text subject text against the league
// player directory. Matching is case-insensitive substring match on
// the display name; the first candidate wins and ambiguous names are
// not disambiguated.
func (c *Client) ResolvePlayer(ctx context.Context, subject string) (Player, error) {
	name := strings.TrimSpace(subject)
	if name == "" {
		return Player{}, fmt.Errorf("%w: empty subject", ErrPlayerNotFound)
	}

	if c.cache != nil {
		if p, ok := c.cache.GetPlayer(strings.ToLower(name)); ok {
			logging.StatsDebug("directory cache hit for %q", name)
			return p, nil
		}
	}

	params := url.Values{}
	params.Set("LeagueID", "00")
	params.Set("Season", c.season)
	params.Set("IsOnlyCurrentSeason", "0")

	resp, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return Player{}, fmt.Errorf("directory lookup: %w: %v", ErrUpstream, err)
	}

	rs, ok := resp.resultSet("CommonAllPlayers")
	if !ok {
		return Player{}, fmt.Errorf("directory lookup: %w: missing result set", ErrUpstream)
	}

	idCol := rs.columnIndex("PERSON_ID")
	nameCol := rs.columnIndex("DISPLAY_FIRST_LAST")
	if idCol < 0 || nameCol < 0 {
		return Player{}, fmt.Errorf("directory lookup: %w: missing columns", ErrUpstream)
	}

	needle := strings.ToLower(name)
	for _, row := range rs.RowSet {
		display := asString(cell(row, nameCol))
		if strings.Contains(strings.ToLower(display), needle) {
			p := Player{ID: asInt64(cell(row, idCol)), Name: display}
			if c.cache != nil {
				c.cache.PutPlayer(strings.ToLower(name), p)
			}
			logging.Stats("resolved %q to %s (id=%d)", name, p.Name, p.ID)
			return p, nil
		}
	}

	logging.Stats("no directory match for %q", name)
	return Player{}, fmt.Errorf("%w: %s", ErrPlayerNotFound, name)
}
