package protocol

import (
	"errors"
	"unicode"
)

// ErrUnterminatedQuote is returned when a command line opens a quote and
// never closes it. The line is rejected rather than treated as literal text.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Tokenize splits a command line on whitespace. A single- or double-quoted
// run embeds whitespace in a token; the closing quote ends the token, so a
// quoted empty string is a valid (empty) token.
func Tokenize(line string) ([]string, error) {
	var (
		tokens   []string
		current  []rune
		inQuotes bool
		quote    rune
		open     bool // current holds a token under construction
	)

	for _, r := range line {
		switch {
		case !inQuotes && (r == '"' || r == '\''):
			inQuotes = true
			quote = r
			open = true
		case inQuotes && r == quote:
			inQuotes = false
			tokens = append(tokens, string(current))
			current = current[:0]
			open = false
		case !inQuotes && unicode.IsSpace(r):
			if open {
				tokens = append(tokens, string(current))
				current = current[:0]
				open = false
			}
		default:
			current = append(current, r)
			open = true
		}
	}

	if inQuotes {
		return nil, ErrUnterminatedQuote
	}
	if open {
		tokens = append(tokens, string(current))
	}
	return tokens, nil
}
