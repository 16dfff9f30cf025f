// Package search turns one shopper query into a ranked, deduplicated product list.
package search

import (
	"strings"

	"matcha-storefront/internal/domain"
)

// MaxTerms bounds how many remote searches one query fans out to.
const MaxTerms = 6

// ExpandTerms returns the query, its tokens and each token's naive singular or
// plural, in that order, without repeats. A blank query expands to nothing.
func ExpandTerms(query string) []string {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	tokens := strings.Fields(q)

	terms := make([]string, 0, MaxTerms)
	seen := make(map[string]struct{}, MaxTerms)
	add := func(term string) bool {
		if term == "" {
			return true
		}
		if _, ok := seen[term]; ok {
			return true
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
		return len(terms) < MaxTerms
	}

	if !add(strings.Join(tokens, " ")) {
		return terms
	}
	for _, tok := range tokens {
		if !add(tok) {
			return terms
		}
	}
	for _, tok := range tokens {
		if !add(inflect(tok)) {
			return terms
		}
	}
	return terms
}

// inflect strips a trailing "s" or appends one.
func inflect(tok string) string {
	if strings.HasSuffix(tok, "s") {
		return strings.TrimSuffix(tok, "s")
	}
	return tok + "s"
}

// DedupKey identifies a product across term results: the handle, else the id,
// else the title, lower-cased.
func DedupKey(p domain.Product) string {
	switch {
	case p.Handle != "":
		return strings.ToLower(p.Handle)
	case p.ID != "":
		return strings.ToLower(p.ID)
	default:
		return strings.ToLower(p.Title)
	}
}
