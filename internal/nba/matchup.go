package nba

import (
	"context"
	"net/url"
	"strconv"

	"courtside/internal/logging"
)

// Matchup looks up the player's next scheduled opponent and their
// career numbers against that opponent. Every failure degrades to an
// incomplete MatchupContext; this lookup never returns an error.
func (c *Client) Matchup(ctx context.Context, playerID int64, entries []GameEntry) MatchupContext {
	if len(entries) == 0 {
		return MatchupContext{}
	}
	team := entries[0].Team()
	if team == "" {
		return MatchupContext{}
	}

	opponent := c.nextOpponent(ctx, playerID, team)
	if opponent == "" {
		return MatchupContext{}
	}

	return MatchupContext{
		Opponent: opponent,
		VsStats:  c.vsOpponent(ctx, playerID, opponent),
	}
}

// nextOpponent resolves the other team in the player's next scheduled
// game. Returns "" when the schedule is unavailable.
func (c *Client) nextOpponent(ctx context.Context, playerID int64, team string) string {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("NumberOfGames", "1")

	resp, err := c.get(ctx, "playernextngames", params)
	if err != nil {
		logging.StatsDebug("next-game lookup failed for player %d: %v", playerID, err)
		return ""
	}

	for _, rs := range resp.ResultSets {
		homeCol := rs.columnIndex("HOME_TEAM_ABBREVIATION")
		visitorCol := rs.columnIndex("VISITOR_TEAM_ABBREVIATION")
		if homeCol < 0 || visitorCol < 0 || len(rs.RowSet) == 0 {
			continue
		}
		home := asString(cell(rs.RowSet[0], homeCol))
		visitor := asString(cell(rs.RowSet[0], visitorCol))
		if home == team {
			return visitor
		}
		return home
	}
	return ""
}

// vsOpponent scans the opponent-splits dashboard for the row matching
// the opponent abbreviation. The dashboard's result set names vary, so
// we look for any set carrying GROUP_VALUE and GP columns whose group
// values are team abbreviations.
func (c *Client) vsOpponent(ctx context.Context, playerID int64, opponent string) *VsOpponentStats {
	params := url.Values{}
	params.Set("PlayerID", strconv.FormatInt(playerID, 10))
	params.Set("MeasureType", "Base")
	params.Set("PerMode", "PerGame")
	params.Set("Season", c.season)
	params.Set("SeasonType", c.seasonType)

	resp, err := c.get(ctx, "playerdashboardbygeneralsplits", params)
	if err != nil {
		logging.StatsDebug("opponent-splits lookup failed for player %d: %v", playerID, err)
		return nil
	}

	for _, rs := range resp.ResultSets {
		groupCol := rs.columnIndex("GROUP_VALUE")
		gpCol := rs.columnIndex("GP")
		if groupCol < 0 || gpCol < 0 {
			continue
		}
		for _, row := range rs.RowSet {
			group := asString(cell(row, groupCol))
			if len(group) != 3 || group != opponent {
				continue
			}
			return &VsOpponentStats{
				GamesPlayed:  asFloat(cell(row, gpCol)),
				Points:       asFloat(cell(row, rs.columnIndex("PTS"))),
				Rebounds:     asFloat(cell(row, rs.columnIndex("REB"))),
				Assists:      asFloat(cell(row, rs.columnIndex("AST"))),
				FieldGoalPct: asFloat(cell(row, rs.columnIndex("FG_PCT"))),
			}
		}
	}
	return nil
}
