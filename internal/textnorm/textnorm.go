package textnorm

import (
	"regexp"
	"strings"

	"github.com/kljensen/snowball/english"
)

// punctuation is the ASCII punctuation set stripped from tokens.
const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// tokenPattern keeps contractions together ("it's"), then plain
// alphanumeric runs, then lone punctuation marks.
var tokenPattern = regexp.MustCompile(`\w+'\w+|\w+|[^\w\s]`)

var bracketPattern = regexp.MustCompile(`\[.*?\]`)
var nonTextPattern = regexp.MustCompile(`[^a-zA-Z0-9',?:!\s]`)

// Normalize tokenizes and cleans raw text into an ordered token sequence.
// Duplicates are preserved so callers can count per-document terms.
// The pipeline: tokenize, drop pure punctuation, drop stop words, drop
// tokens shorter than 3 characters, then strip remaining punctuation and
// lowercase what survives.
func Normalize(text string) []string {
	raw := tokenPattern.FindAllString(text, -1)

	tokens := make([]string, 0, len(raw))
	for _, tok := range raw {
		if isPunctuation(tok) {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if len(tok) <= 2 {
			continue
		}
		tok = strings.ToLower(stripPunctuation(tok))
		if tok == "" {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// CleanText is a lighter pass applied to raw feed bodies before indexing:
// bracketed segments go away, unusual symbols go away, whitespace collapses.
func CleanText(text string) string {
	text = bracketPattern.ReplaceAllString(text, "")
	text = nonTextPattern.ReplaceAllString(text, "")
	return strings.Join(strings.Fields(text), " ")
}

// StemTokens reduces every token to its Snowball stem. Used for the
// stem-grouped word statistics, never inside Normalize itself.
func StemTokens(tokens []string) []string {
	stems := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		stems = append(stems, english.Stem(tok, true))
	}
	return stems
}

// Stem returns the Snowball stem of a single word.
func Stem(word string) string {
	return english.Stem(word, true)
}

// IsStopWord reports membership in the English stop-word set.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

func isPunctuation(tok string) bool {
	for _, r := range tok {
		if !strings.ContainsRune(punctuation, r) {
			return false
		}
	}
	return len(tok) > 0
}

func stripPunctuation(tok string) string {
	var b strings.Builder
	b.Grow(len(tok))
	for _, r := range tok {
		if !strings.ContainsRune(punctuation, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
