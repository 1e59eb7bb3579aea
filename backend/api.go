package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"git.sr.ht/~whereswaldon/voicestats/l10n"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// StatusError reports a response the server refused to serve.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Temporary reports whether retrying the request might succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// maxErrorBody bounds how much of a failed response is kept in a StatusError.
const maxErrorBody = 512

// API fetches contribution statistics.
type API struct {
	base   *url.URL
	client *http.Client
	log    logrus.FieldLogger
	// newBackOff returns the retry policy of a single request.
	newBackOff func() backoff.BackOff
}

// NewAPI builds a client for the API rooted at baseURL. Transient failures
// are retried with exponential backoff for up to maxElapsed, or until the
// request context ends. A non-positive maxElapsed disables retries.
func NewAPI(baseURL string, client *http.Client, log logrus.FieldLogger, maxElapsed time.Duration) (*API, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid API base URL %q: must be absolute", baseURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &API{
		base:   base,
		client: client,
		log:    log,
		newBackOff: func() backoff.BackOff {
			if maxElapsed <= 0 {
				// A zero MaxElapsedTime would retry forever.
				return &backoff.StopBackOff{}
			}
			b := backoff.NewExponentialBackOff()
			b.MaxElapsedTime = maxElapsed
			return b
		},
	}, nil
}

// endpoint resolves path below the base URL, prefixed by locale unless it is
// empty or AllLocales.
func (a *API) endpoint(locale string, query url.Values, path ...string) string {
	elems := make([]string, 0, len(path)+1)
	if locale != "" && locale != l10n.AllLocales {
		elems = append(elems, url.PathEscape(locale))
	}
	elems = append(elems, path...)
	u := *a.base
	u.Path = strings.TrimSuffix(u.Path, "/") + "/" + strings.Join(elems, "/")
	u.RawQuery = query.Encode()
	return u.String()
}

// getJSON fetches target and decodes the JSON response into out.
func (a *API) getJSON(ctx context.Context, target string, out any) error {
	log := a.log.WithField("url", target)
	attempt := 0
	op := func() error {
		attempt++
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		resp, err := a.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
			statusErr := &StatusError{
				Method:     req.Method,
				URL:        target,
				StatusCode: resp.StatusCode,
				Body:       strings.TrimSpace(string(body)),
			}
			if statusErr.Temporary() {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return backoff.Permanent(fmt.Errorf("failed decoding response: %w", err))
		}
		return nil
	}
	notify := func(err error, wait time.Duration) {
		log.WithError(err).WithFields(logrus.Fields{
			"attempt": attempt,
			"wait":    wait,
		}).Warn("request failed, retrying")
	}
	err := backoff.RetryNotify(op, backoff.WithContext(a.newBackOff(), ctx), notify)
	if err != nil {
		return err
	}
	log.WithField("attempts", attempt).Debug("request succeeded")
	return nil
}

// FetchGoals returns the goal progress for locale. AllLocales fetches the
// progress across every locale.
func (a *API) FetchGoals(ctx context.Context, locale string) (AllGoals, error) {
	var goals AllGoals
	if err := a.getJSON(ctx, a.endpoint(locale, nil, "user_client", "goals"), &goals); err != nil {
		return AllGoals{}, fmt.Errorf("failed fetching goals: %w", err)
	}
	return goals, nil
}

// FetchLeaderboard returns the top contributors of kind in locale.
func (a *API) FetchLeaderboard(ctx context.Context, locale string, kind Kind) ([]LeaderboardEntry, error) {
	var path string
	switch kind {
	case KindClip:
		path = "clips"
	case KindVote:
		path = "votes"
	default:
		return nil, fmt.Errorf("unknown leaderboard kind %d", kind)
	}
	var entries []LeaderboardEntry
	if err := a.getJSON(ctx, a.endpoint(locale, nil, path, "leaderboard"), &entries); err != nil {
		return nil, fmt.Errorf("failed fetching %s leaderboard: %w", kind, err)
	}
	return entries, nil
}

// FetchContributionActivity returns daily contribution counts for the given
// audience in locale, oldest first.
func (a *API) FetchContributionActivity(ctx context.Context, from Audience, locale string) ([]Activity, error) {
	if from != AudienceYou && from != AudienceEveryone {
		return nil, fmt.Errorf("unknown audience %d", from)
	}
	query := url.Values{"from": {from.String()}}
	var activity []Activity
	if err := a.getJSON(ctx, a.endpoint(locale, query, "contribution_activity"), &activity); err != nil {
		return nil, fmt.Errorf("failed fetching contribution activity: %w", err)
	}
	return activity, nil
}

// IsStatus reports whether err carries a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == code
}
