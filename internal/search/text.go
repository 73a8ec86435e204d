// Package search holds the text matching, suggestion extraction and
// pagination arithmetic shared by the search service and its store queries.
package search

import (
	"strings"
	"unicode"

	"storefront/internal/domain"
	"storefront/internal/policy"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ContainsFold reports whether substr is within s, ignoring case. Both sides
// are lower-cased rune by rune, as ILIKE does; "ß" does not match "ss".
func ContainsFold(s, substr string) bool {
	// Caser keeps state between calls, so each call lowers with its own.
	lower := cases.Lower(language.Und)
	return strings.Contains(lower.String(s), lower.String(substr))
}

// Matches reports whether a product is a search hit for text under the scope.
// The visibility check applies to both the title and the description branch.
func Matches(p *domain.Product, text string, scope policy.Scope) bool {
	if !scope.Allows(p) {
		return false
	}
	if ContainsFold(p.Title, text) {
		return true
	}
	return p.Description != nil && ContainsFold(*p.Description, text)
}

// Words splits a description on whitespace and trims leading and trailing
// punctuation from each word. Punctuation-only tokens are dropped.
func Words(description string) []string {
	fields := strings.Fields(description)
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, unicode.IsPunct)
		if w == "" {
			continue
		}
		words = append(words, w)
	}
	return words
}

// Suggestions collects, in scan order, every product title containing text and
// every description word containing text. Duplicates are dropped by exact match.
func Suggestions(products []*domain.Product, text string) []string {
	result := []string{}
	if strings.TrimSpace(text) == "" {
		return result
	}

	seen := make(map[string]struct{})
	add := func(s string) {
		if strings.TrimFunc(s, unicode.IsPunct) == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		result = append(result, s)
	}

	for _, p := range products {
		if ContainsFold(p.Title, text) {
			add(p.Title)
		}
		if p.Description == nil {
			continue
		}
		for _, w := range Words(*p.Description) {
			if ContainsFold(w, text) {
				add(w)
			}
		}
	}

	return result
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern builds a substring ILIKE pattern with wildcards in text escaped
func LikePattern(text string) string {
	return "%" + likeEscaper.Replace(text) + "%"
}
