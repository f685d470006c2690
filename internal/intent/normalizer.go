package intent

import (
	"regexp"
	"strings"
	"unicode"
)

var multiSpacePattern = regexp.MustCompile(`\s+`)

// stopWords are dropped by Tokenize. Besides common English filler this covers
// request phrasing ("show me", "i will take") and the price vocabulary, which
// the extractors handle separately.
var stopWords = map[string]bool{
	"show": true, "me": true, "i": true, "want": true, "please": true,
	"the": true, "a": true, "an": true, "for": true, "under": true,
	"less": true, "than": true, "dollars": true, "dollar": true, "in": true,
	"on": true, "with": true, "and": true, "or": true, "of": true,
	"to": true, "is": true, "are": true, "any": true, "some": true,
	"something": true, "anything": true, "do": true, "you": true, "have": true,
	"got": true, "get": true, "give": true, "can": true, "could": true,
	"would": true, "will": true, "ll": true, "like": true, "take": true,
	"need": true, "looking": true, "what": true, "whats": true, "there": true,
	"recommend": true, "suggest": true, "my": true, "it": true, "that": true,
	"this": true, "order": true, "add": true, "cart": true, "maybe": true,
	// contraction remnants once apostrophes become spaces ("i'm" -> "i m")
	"m": true, "s": true, "re": true, "ve": true, "d": true, "im": true,
}

// Normalize lowercases message, replaces punctuation, symbols and control
// characters with spaces and collapses whitespace.
func Normalize(message string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) || unicode.IsControl(r) {
			return ' '
		}
		return unicode.ToLower(r)
	}, message)

	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(mapped, " "))
}

// Fold lowercases message and collapses whitespace but keeps punctuation, so
// "$", "?" and apostrophes survive for the extractors and the scorer.
func Fold(message string) string {
	folded := strings.ToLower(message)
	folded = strings.NewReplacer("’", "'", "‘", "'").Replace(folded)
	return strings.TrimSpace(multiSpacePattern.ReplaceAllString(folded, " "))
}

// Tokenize splits a normalized message into content tokens: stop-words are
// dropped and a trailing "s" is stripped from tokens longer than three
// characters. The depluralization is deliberately naive and turns "fries"
// into "frie"; irregular plurals are left alone.
func Tokenize(normalized string) []string {
	fields := strings.Fields(normalized)
	tokens := make([]string, 0, len(fields))

	for _, field := range fields {
		if stopWords[field] {
			continue
		}
		tokens = append(tokens, depluralize(field))
	}

	return tokens
}

func depluralize(token string) string {
	if len(token) > 3 && strings.HasSuffix(token, "s") {
		return token[:len(token)-1]
	}
	return token
}
