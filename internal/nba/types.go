// Package nba retrieves player identities and game histories from the
// stats.nba.com JSON endpoints. The upstream is rate limited and flaky,
// so retrieval wraps retries and every lookup goes through a cache
// when one is configured.
package nba

import (
	"strconv"
	"strings"
)

// Player is a resolved identity from the league directory.
type Player struct {
	ID   int64
	Name string
}

// GameEntry is one row of a player's game log. Entries are ordered
// most-recent-first; index 0 is the latest game.
type GameEntry struct {
	Date    string
	Matchup string
	WL      string
	Pts     float64
	Reb     float64
	Ast     float64
	Fg3m    float64
	Min     float64
}

// Stat returns the value of the named statistic for this entry.
// Unrecognized names resolve to points.
func (g GameEntry) Stat(name string) float64 {
	t := strings.ToLower(strings.TrimSpace(name))
	switch {
	case strings.Contains(t, "3") || strings.Contains(t, "three"):
		return g.Fg3m
	case strings.Contains(t, "reb"):
		return g.Reb
	case strings.Contains(t, "ast") || strings.Contains(t, "assist"):
		return g.Ast
	case strings.Contains(t, "min"):
		return g.Min
	default:
		return g.Pts
	}
}

// Team returns the player's team abbreviation from the matchup string
// ("LAL vs. BOS" or "LAL @ BOS" both yield "LAL").
func (g GameEntry) Team() string {
	fields := strings.Fields(g.Matchup)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// VsOpponentStats aggregates a player's career numbers against one
// opponent.
type VsOpponentStats struct {
	GamesPlayed  float64
	Points       float64
	Rebounds     float64
	Assists      float64
	FieldGoalPct float64
}

// MatchupContext is the best-effort next-opponent lookup. Opponent may
// be empty and VsStats may be nil; callers degrade rather than error.
type MatchupContext struct {
	Opponent string
	VsStats  *VsOpponentStats
}

// CareerSeason is one season row from the career-totals endpoint, used
// by the report exporter.
type CareerSeason struct {
	Season string
	Team   string
	Age    float64
	GP     float64
	GS     float64
	Min    float64
	FGM    float64
	FG3M   float64
	FTM    float64
	Reb    float64
	Ast    float64
	Stl    float64
	Blk    float64
	Pts    float64
}

// statsResponse is the envelope every stats.nba.com endpoint returns:
// one or more named tabular result sets.
type statsResponse struct {
	ResultSets []resultSet `json:"resultSets"`
}

type resultSet struct {
	Name    string   `json:"name"`
	Headers []string `json:"headers"`
	RowSet  [][]any  `json:"rowSet"`
}

// columnIndex returns the position of a header, or -1.
func (rs resultSet) columnIndex(name string) int {
	for i, h := range rs.Headers {
		if h == name {
			return i
		}
	}
	return -1
}

func (r statsResponse) resultSet(name string) (resultSet, bool) {
	for _, rs := range r.ResultSets {
		if rs.Name == name {
			return rs, true
		}
	}
	return resultSet{}, false
}

// cell returns row[idx] or nil when the index is out of range. The
// upstream occasionally returns ragged rows.
func cell(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asFloat(v any) float64 {
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, _ := strconv.ParseFloat(t, 64)
		return f
	default:
		return 0
	}
}

func asInt64(v any) int64 {
	switch t := v.(type) {
	case float64:
		return int64(t)
	case string:
		n, _ := strconv.ParseInt(t, 10, 64)
		return n
	default:
		return 0
	}
}
