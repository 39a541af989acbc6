package nba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// fakeCache is an in-memory GameLogCache double.
type fakeCache struct {
	players map[string]Player
	logs    map[string][]GameEntry
	puts    int
}

func (f *fakeCache) GetPlayer(name string) (Player, bool) {
	p, ok := f.players[name]
	return p, ok
}

func (f *fakeCache) PutPlayer(name string, p Player) {}

func (f *fakeCache) GetGameLog(playerID int64, season string) ([]GameEntry, bool) {
	entries, ok := f.logs[fmt.Sprintf("%d/%s", playerID, season)]
	return entries, ok
}

func (f *fakeCache) PutGameLog(playerID int64, season string, entries []GameEntry) {
	f.puts++
}

func tableJSON(name string, headers []string, rows [][]any) string {
	b, _ := json.Marshal(map[string]any{
		"resultSets": []map[string]any{
			{"name": name, "headers": headers, "rowSet": rows},
		},
	})
	return string(b)
}

var gameLogHeaders = []string{"GAME_DATE", "MATCHUP", "WL", "PTS", "REB", "AST", "FG3M", "MIN"}

func directoryBody() string {
	return tableJSON("CommonAllPlayers",
		[]string{"PERSON_ID", "DISPLAY_FIRST_LAST"},
		[][]any{
			{float64(2544), "LeBron James"},
			{float64(201939), "Stephen Curry"},
		})
}

// testClient builds a client against the test server with sleeps
// captured instead of slept.
func testClient(t *testing.T, serverURL string, opts ...Option) (*Client, *[]time.Duration) {
	t.Helper()
	var slept []time.Duration
	base := []Option{
		WithBaseURL(serverURL),
		WithSleep(func(d time.Duration) { slept = append(slept, d) }),
	}
	return NewClient("2025-26", append(base, opts...)...), &slept
}

func TestResolvePlayerContainsMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryBody())
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	p, err := c.ResolvePlayer(context.Background(), "steph")
	if err != nil {
		t.Fatalf("ResolvePlayer: %v", err)
	}
	if p.ID != 201939 || p.Name != "Stephen Curry" {
		t.Errorf("got %+v", p)
	}
}

func TestResolvePlayerNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, directoryBody())
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	_, err := c.ResolvePlayer(context.Background(), "Zzyzx Nobody")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Errorf("err = %v, want ErrPlayerNotFound", err)
	}
}

func TestGameLogSucceedsOnLastAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 4 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, tableJSON("PlayerGameLog", gameLogHeaders, [][]any{
			{"2026-01-10", "LAL vs. BOS", "W", float64(30), float64(8), float64(9), float64(2), float64(36)},
		}))
	}))
	defer server.Close()

	c, slept := testClient(t, server.URL)
	entries, err := c.GameLog(context.Background(), 2544)
	if err != nil {
		t.Fatalf("GameLog: %v", err)
	}
	if len(entries) != 1 || entries[0].Pts != 30 {
		t.Errorf("entries = %+v", entries)
	}
	if calls.Load() != 4 {
		t.Errorf("expected 4 attempts, got %d", calls.Load())
	}
	wantSleeps := []time.Duration{
		1 * time.Second,
		3*time.Second + 1*time.Second,
		6*time.Second + 1*time.Second,
		9*time.Second + 1*time.Second,
	}
	if diff := cmp.Diff(wantSleeps, *slept); diff != "" {
		t.Errorf("backoff mismatch (-want +got):\n%s", diff)
	}
}

func TestGameLogExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	_, err := c.GameLog(context.Background(), 2544)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
	if calls.Load() != 4 {
		t.Errorf("expected 4 attempts, got %d", calls.Load())
	}
}

func TestGameLogTruncatesToWindow(t *testing.T) {
	rows := make([][]any, 9)
	for i := range rows {
		rows[i] = []any{
			fmt.Sprintf("2026-01-%02d", 20-i), "LAL vs. BOS", "W",
			float64(20 + i), float64(5), float64(5), float64(1), float64(30),
		}
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tableJSON("PlayerGameLog", gameLogHeaders, rows))
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	entries, err := c.GameLog(context.Background(), 2544)
	if err != nil {
		t.Fatalf("GameLog: %v", err)
	}
	if len(entries) != 5 {
		t.Fatalf("len = %d, want 5", len(entries))
	}
	// Newest first: index 0 carries the first row the upstream sent.
	if entries[0].Date != "2026-01-20" || entries[4].Date != "2026-01-16" {
		t.Errorf("ordering wrong: first=%s last=%s", entries[0].Date, entries[4].Date)
	}
}

func TestGameLogEmptyIsSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, tableJSON("PlayerGameLog", gameLogHeaders, nil))
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	entries, err := c.GameLog(context.Background(), 2544)
	if err != nil {
		t.Fatalf("GameLog: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("entries = %+v, want empty", entries)
	}
}

func TestMatchupDegradesOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	m := c.Matchup(context.Background(), 2544, []GameEntry{{Matchup: "LAL vs. BOS"}})
	if m.Opponent != "" || m.VsStats != nil {
		t.Errorf("matchup should degrade to empty, got %+v", m)
	}
}

func TestMatchupResolvesOpponentAndSplits(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/playernextngames":
			fmt.Fprint(w, tableJSON("NextNGames",
				[]string{"HOME_TEAM_ABBREVIATION", "VISITOR_TEAM_ABBREVIATION"},
				[][]any{{"LAL", "DEN"}}))
		case r.URL.Path == "/playerdashboardbygeneralsplits":
			fmt.Fprint(w, tableJSON("OpponentSplits",
				[]string{"GROUP_VALUE", "GP", "PTS", "REB", "AST", "FG_PCT"},
				[][]any{
					{"DEN", float64(12), float64(27.5), float64(7.2), float64(8.1), float64(0.51)},
				}))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	m := c.Matchup(context.Background(), 2544, []GameEntry{{Matchup: "LAL vs. BOS"}})
	if m.Opponent != "DEN" {
		t.Fatalf("opponent = %q", m.Opponent)
	}
	if m.VsStats == nil || m.VsStats.GamesPlayed != 12 || m.VsStats.Points != 27.5 {
		t.Errorf("vs stats = %+v", m.VsStats)
	}
}

func TestFetcherNotFoundSkipsGameLog(t *testing.T) {
	var gamelogCalls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/playergamelog" {
			gamelogCalls.Add(1)
		}
		fmt.Fprint(w, directoryBody())
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	f := NewFetcher(c)
	_, err := f.Fetch(context.Background(), "Zzyzx Nobody")
	if !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("err = %v, want ErrPlayerNotFound", err)
	}
	if gamelogCalls.Load() != 0 {
		t.Errorf("game log was requested %d times for an unresolved subject", gamelogCalls.Load())
	}
}

func TestGameLogCacheHitSkipsUpstream(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cached := []GameEntry{{Date: "2026-01-10", Matchup: "LAL vs. BOS", WL: "W", Pts: 30}}
	cache := &fakeCache{logs: map[string][]GameEntry{"2544/2025-26": cached}}

	c, slept := testClient(t, server.URL, WithCache(cache))
	entries, err := c.GameLog(context.Background(), 2544)
	if err != nil {
		t.Fatalf("GameLog: %v", err)
	}
	if diff := cmp.Diff(cached, entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}
	if calls.Load() != 0 {
		t.Errorf("upstream was hit %d times on a cache hit", calls.Load())
	}
	if len(*slept) != 0 {
		t.Errorf("backoff slept %v on a cache hit", *slept)
	}
}

func TestGameLogCacheMissDoesNotMaskUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cache := &fakeCache{logs: map[string][]GameEntry{}}
	c, _ := testClient(t, server.URL, WithCache(cache))

	_, err := c.GameLog(context.Background(), 2544)
	if !errors.Is(err, ErrUpstream) {
		t.Errorf("err = %v, want ErrUpstream", err)
	}
	if cache.puts != 0 {
		t.Errorf("failed retrieval was cached %d times", cache.puts)
	}
}

func TestFetcherCollapsesConcurrentLookups(t *testing.T) {
	var dirCalls, logCalls atomic.Int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/commonallplayers":
			dirCalls.Add(1)
			// Hold the first flight open until both callers have
			// joined it.
			<-release
			fmt.Fprint(w, directoryBody())
		case "/playergamelog":
			logCalls.Add(1)
			fmt.Fprint(w, tableJSON("PlayerGameLog", gameLogHeaders, nil))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c, _ := testClient(t, server.URL)
	f := NewFetcher(c)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.Fetch(context.Background(), "LeBron")
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("Fetch %d: %v", i, err)
		}
	}
	if dirCalls.Load() != 1 {
		t.Errorf("directory hit %d times for one in-flight subject", dirCalls.Load())
	}
	if logCalls.Load() != 1 {
		t.Errorf("game log hit %d times for one in-flight subject", logCalls.Load())
	}
}

func TestGameEntryStat(t *testing.T) {
	g := GameEntry{Pts: 25, Reb: 10, Ast: 7, Fg3m: 3, Min: 34}
	cases := []struct {
		name string
		want float64
	}{
		{"Points", 25},
		{"3PM", 3},
		{"three pointers", 3},
		{"Rebounds", 10},
		{"assists", 7},
		{"Minutes", 34},
		{"something else", 25},
	}
	for _, tc := range cases {
		if got := g.Stat(tc.name); got != tc.want {
			t.Errorf("Stat(%q) = %v, want %v", tc.name, got, tc.want)
		}
	}
}
