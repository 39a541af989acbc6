package nba

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"courtside/internal/logging"
)

// FetchResult is everything the pipeline needs from one subject lookup.
type FetchResult struct {
	Player  Player
	Entries []GameEntry
	Matchup MatchupContext
}

// Fetcher resolves a subject and retrieves its history. Concurrent
// turns asking about the same subject share one upstream flight.
type Fetcher struct {
	client *Client
	group  singleflight.Group
}

// NewFetcher wraps a client.
func NewFetcher(client *Client) *Fetcher {
	return &Fetcher{client: client}
}

// Fetch resolves subject to a player, pulls the recent game window,
// and attaches best-effort matchup context. Returns ErrPlayerNotFound
// when the directory has no match; the retrieval step is never
// attempted in that case. Returns ErrUpstream when retrieval exhausts
// its retries.
func (f *Fetcher) Fetch(ctx context.Context, subject string) (FetchResult, error) {
	key := strings.ToLower(strings.TrimSpace(subject))

	v, err, shared := f.group.Do(key, func() (any, error) {
		player, err := f.client.ResolvePlayer(ctx, subject)
		if err != nil {
			return nil, err
		}

		entries, err := f.client.GameLog(ctx, player.ID)
		if err != nil {
			return nil, err
		}

		return FetchResult{
			Player:  player,
			Entries: entries,
			Matchup: f.client.Matchup(ctx, player.ID, entries),
		}, nil
	})
	if shared {
		logging.StatsDebug("fetch for %q shared an in-flight lookup", subject)
	}
	if err != nil {
		return FetchResult{}, err
	}
	return v.(FetchResult), nil
}
