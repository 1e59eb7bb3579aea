package backend

import "context"

// Result is the outcome of an asynchronous fetch. The zero value means the
// fetch is still in flight.
type Result[T any] struct {
	Value  T
	Err    error
	Loaded bool
}

// fetch runs fn once and delivers its outcome on the returned channel, which
// is closed afterwards. Cancelling ctx abandons the fetch.
func fetch[T any](ctx context.Context, fn func(context.Context) (T, error)) <-chan Result[T] {
	out := make(chan Result[T], 1)
	go func() {
		defer close(out)
		v, err := fn(ctx)
		if ctx.Err() != nil {
			return
		}
		out <- Result[T]{Value: v, Err: err, Loaded: true}
	}()
	return out
}

// Goals returns a stream provider fetching the goals for locale.
func (a *API) Goals(locale string) func(context.Context) <-chan Result[AllGoals] {
	return func(ctx context.Context) <-chan Result[AllGoals] {
		return fetch(ctx, func(ctx context.Context) (AllGoals, error) {
			return a.FetchGoals(ctx, locale)
		})
	}
}

// Leaderboard returns a stream provider fetching the kind leaderboard for
// locale.
func (a *API) Leaderboard(locale string, kind Kind) func(context.Context) <-chan Result[[]LeaderboardEntry] {
	return func(ctx context.Context) <-chan Result[[]LeaderboardEntry] {
		return fetch(ctx, func(ctx context.Context) ([]LeaderboardEntry, error) {
			return a.FetchLeaderboard(ctx, locale, kind)
		})
	}
}

// ContributionActivity returns a stream provider fetching the activity of
// from in locale.
func (a *API) ContributionActivity(from Audience, locale string) func(context.Context) <-chan Result[[]Activity] {
	return func(ctx context.Context) <-chan Result[[]Activity] {
		return fetch(ctx, func(ctx context.Context) ([]Activity, error) {
			return a.FetchContributionActivity(ctx, from, locale)
		})
	}
}
