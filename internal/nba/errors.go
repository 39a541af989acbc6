package nba

import "errors"

var (
	// ErrPlayerNotFound means the subject matched nobody in the league
	// directory. Terminal for the turn.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrUpstream means the stats service kept failing past the retry
	// ceiling. Terminal for the turn.
	ErrUpstream = errors.New("stats service unavailable")
)
