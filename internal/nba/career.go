package nba

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CareerStats returns per-season regular-season totals for the report
// exporter. No retry loop here; export is an interactive one-off and
// the caller can simply re-run it.
func (c *Client) CareerStats(ctx context.Context, playerID int64) ([]CareerSeason, error) {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("PerMode", "Totals")

	resp, err := c.get(ctx, "playercareerstats", params)
	if err != nil {
		return nil, fmt.Errorf("career lookup: %w: %v", ErrUpstream, err)
	}

	rs, ok := resp.resultSet("SeasonTotalsRegularSeason")
	if !ok {
		return nil, fmt.Errorf("career lookup: %w: missing result set", ErrUpstream)
	}

	seasonCol := rs.columnIndex("SEASON_ID")
	teamCol := rs.columnIndex("TEAM_ABBREVIATION")
	ageCol := rs.columnIndex("PLAYER_AGE")
	gpCol := rs.columnIndex("GP")
	gsCol := rs.columnIndex("GS")
	minCol := rs.columnIndex("MIN")
	fgmCol := rs.columnIndex("FGM")
	fg3mCol := rs.columnIndex("FG3M")
	ftmCol := rs.columnIndex("FTM")
	rebCol := rs.columnIndex("REB")
	astCol := rs.columnIndex("AST")
	stlCol := rs.columnIndex("STL")
	blkCol := rs.columnIndex("BLK")
	ptsCol := rs.columnIndex("PTS")

	seasons := make([]CareerSeason, 0, len(rs.RowSet))
	for _, row := range rs.RowSet {
		seasons = append(seasons, CareerSeason{
			Season: asString(cell(row, seasonCol)),
			Team:   asString(cell(row, teamCol)),
			Age:    asFloat(cell(row, ageCol)),
			GP:     asFloat(cell(row, gpCol)),
			GS:     asFloat(cell(row, gsCol)),
			Min:    asFloat(cell(row, minCol)),
			FGM:    asFloat(cell(row, fgmCol)),
			FG3M:   asFloat(cell(row, fg3mCol)),
			FTM:    asFloat(cell(row, ftmCol)),
			Reb:    asFloat(cell(row, rebCol)),
			Ast:    asFloat(cell(row, astCol)),
			Stl:    asFloat(cell(row, stlCol)),
			Blk:    asFloat(cell(row, blkCol)),
			Pts:    asFloat(cell(row, ptsCol)),
		})
	}
	return seasons, nil
}
