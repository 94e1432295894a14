package app

import (
	"strings"
	"unicode"
)

// splitArgs splits a command line on whitespace. Single or double quotes
// group words into one argument; quotes do not nest and have no escapes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inArg   bool
		quoteCh rune
	)

	for _, r := range line {
		switch {
		case quoteCh != 0:
			if r == quoteCh {
				quoteCh = 0
				continue
			}
			cur.WriteRune(r)
		case r == '"' || r == '\'':
			quoteCh = r
			inArg = true
		case unicode.IsSpace(r):
			if inArg {
				args = append(args, cur.String())
				cur.Reset()
				inArg = false
			}
		default:
			cur.WriteRune(r)
			inArg = true
		}
	}

	if quoteCh != 0 {
		return nil, ErrUnterminatedQuote
	}
	if inArg {
		args = append(args, cur.String())
	}
	return args, nil
}
