package query

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// unsafeChars are the tsquery operators and quoting characters. They are
// removed from tokens rather than escaped so a token can never change the
// shape of the generated query.
const unsafeChars = `&|!():*<>'"\`

// Tokenize splits free text on whitespace, strips characters that are unsafe
// for the search syntax and drops tokens that end up empty. An empty result
// means "no search".
func Tokenize(s string) []string {
	fields := strings.Fields(norm.NFC.String(s))
	var tokens []string
	for _, f := range fields {
		t := strings.Map(func(r rune) rune {
			if unicode.IsControl(r) || strings.ContainsRune(unsafeChars, r) {
				return -1
			}
			return r
		}, f)
		if t != "" {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// PrefixQuery joins tokens into an OR of prefix matches: "flood:* | relief:*".
func PrefixQuery(tokens []string) string {
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t + ":*"
	}
	return strings.Join(parts, " | ")
}

// Searching reports whether s contains at least one usable token.
func Searching(s string) bool {
	return len(Tokenize(s)) > 0
}
