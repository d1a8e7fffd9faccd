// Package launcher fuzzy-matches queries against window ids and titles.
package launcher

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/1broseidon/deskfolio/internal/desktop"
)

// ErrNoMatch is returned by Resolve when nothing matches the query.
var ErrNoMatch = errors.New("no matching window")

// Item is a searchable window.
type Item struct {
	ID    string
	Title string
}

// Result is one ranked match.
type Result struct {
	Item
	Score int
	// MatchedIndexes index into Label().
	MatchedIndexes []int
}

// Label is the string matched against: the title followed by the id.
func (i Item) Label() string {
	if i.Title == "" || strings.EqualFold(i.Title, i.ID) {
		return i.ID
	}
	return i.Title + " " + i.ID
}

// ItemsFromSnapshot lists every registered window in registration order.
func ItemsFromSnapshot(s desktop.Snapshot) []Item {
	items := make([]Item, 0, len(s.Windows))
	for _, w := range s.Windows {
		items = append(items, Item{ID: w.ID, Title: w.Title})
	}
	return items
}

type source []Item

func (s source) String(i int) string { return s[i].Label() }
func (s source) Len() int            { return len(s) }

// Search ranks items against query. Prefix matches on the title or id come
// first, then higher fuzzy scores. An empty query returns every item in its
// original order. max <= 0 means no limit.
func Search(query string, items []Item, max int) []Result {
	query = strings.TrimSpace(query)
	var results []Result

	if query == "" {
		results = make([]Result, 0, len(items))
		for _, it := range items {
			results = append(results, Result{Item: it})
		}
	} else {
		matches := fuzzy.FindFrom(query, source(items))
		results = make([]Result, 0, len(matches))
		for _, m := range matches {
			results = append(results, Result{
				Item:           items[m.Index],
				Score:          m.Score,
				MatchedIndexes: m.MatchedIndexes,
			})
		}

		lower := strings.ToLower(query)
		prefix := func(r Result) bool {
			return strings.HasPrefix(strings.ToLower(r.Title), lower) ||
				strings.HasPrefix(strings.ToLower(r.ID), lower)
		}
		sort.SliceStable(results, func(i, j int) bool {
			pi, pj := prefix(results[i]), prefix(results[j])
			if pi != pj {
				return pi
			}
			return results[i].Score > results[j].Score
		})
	}

	if max > 0 && len(results) > max {
		results = results[:max]
	}
	return results
}

// Resolve picks the window a query most likely names. An exact id wins
// outright; otherwise the best fuzzy match is used.
func Resolve(query string, items []Item) (Item, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return Item{}, fmt.Errorf("%w: empty query", ErrNoMatch)
	}
	for _, it := range items {
		if strings.EqualFold(it.ID, q) {
			return it, nil
		}
	}
	results := Search(q, items, 1)
	if len(results) == 0 {
		return Item{}, fmt.Errorf("%w: %q", ErrNoMatch, query)
	}
	return results[0].Item, nil
}
