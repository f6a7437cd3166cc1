// File: internal/resolver/resolver.go
package resolver

import (
	"errors"
	"sort"

	"go.uber.org/zap"
)

// ErrNoCandidate indicates that nothing on the page matched the target.
var ErrNoCandidate = errors.New("resolver: no matching candidate")

// Resolver ranks harvested candidates for a query.
type Resolver struct {
	logger *zap.Logger
	rules  []Rule
}

// New creates a resolver with the default rule set.
func New(logger *zap.Logger) *Resolver {
	return &Resolver{
		logger: logger.Named("resolver"),
		rules:  defaultRules,
	}
}

// Resolve scores, filters and ranks the candidates, returning the winner.
//
// The pipeline preserves the established ordering:
//  1. every candidate is scored by the pure rule set (ads veto to zero),
//  2. non-positive scores are dropped,
//  3. a stable sort ranks root-domain hosts first, then domain matches,
//     then score, keeping harvest order for ties,
//  4. account-area hosts (home., login., ...) are skipped at selection time
//     unless the instruction asked for one; if every survivor is skipped the
//     resolver reports not found rather than clicking an account page.
func (r *Resolver) Resolve(q Query, candidates []Candidate) (*Candidate, error) {
	survivors := make([]*Candidate, 0, len(candidates))
	for i := range candidates {
		c := &candidates[i]
		c.Score = scoreCandidate(c, q, r.rules)
		if c.Score <= 0 {
			continue
		}
		host := c.host()
		c.MatchedDomain = domainMatches(host, q.expected)
		c.RootDomain = c.MatchedDomain && isRootHost(host)
		survivors = append(survivors, c)
	}
	if len(survivors) == 0 {
		return nil, ErrNoCandidate
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		if a.RootDomain != b.RootDomain {
			return a.RootDomain
		}
		if a.MatchedDomain != b.MatchedDomain {
			return a.MatchedDomain
		}
		return a.Score > b.Score
	})

	winner := pickWinner(survivors, q)
	if winner == nil {
		r.logger.Debug("All survivors sit on account-area hosts.",
			zap.String("target", q.Target),
			zap.Int("survivors", len(survivors)))
		return nil, ErrNoCandidate
	}

	r.logger.Debug("Resolved candidate.",
		zap.String("target", q.Target),
		zap.String("text", winner.Text),
		zap.String("href", winner.Href),
		zap.Float64("score", winner.Score),
		zap.Int("survivors", len(survivors)))
	return winner, nil
}

// pickWinner walks the ranked list, skipping account-area hosts unless the
// user asked for one. When everything is skipped it returns nil: an
// account page must never be auto-clicked, so the caller falls back to
// vision instead.
func pickWinner(ranked []*Candidate, q Query) *Candidate {
	if q.personal {
		return ranked[0]
	}
	for _, c := range ranked {
		if !hasBadSubdomainPrefix(c.host()) {
			return c
		}
	}
	return nil
}

// host returns the candidate's effective host, preferring the citation text
// over the href.
func (c *Candidate) host() string {
	if c.Cite != "" {
		if h := hostOf(c.Cite); h != "" {
			return h
		}
	}
	return hostOf(c.Href)
}
