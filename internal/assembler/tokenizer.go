package assembler

import (
	"fmt"
	"strings"
)

// Line is one tokenized source line.
type Line struct {
	Number int
	Tokens []string
}

// separators always form standalone tokens, ';' starts a comment.
const separators = "():,+-*/"

// tokenize splits one source line into tokens. String literals are kept
// as single tokens including their quotes. A quote without a matching
// closing quote is treated as an ordinary character so that register
// names like af' tokenize as expected.
func tokenize(src string) []string {
	var tokens []string
	var cur strings.Builder

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == ';':
			flush()
			return tokens
		case c == '"' || c == '\'':
			end := findStringEnd(src, i)
			if end < 0 {
				cur.WriteByte(c)
				continue
			}
			flush()
			tokens = append(tokens, src[i:end+1])
			i = end
		case strings.IndexByte(separators, c) >= 0:
			flush()
			tokens = append(tokens, string(c))
		case c == ' ' || c == '\t' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}

// findStringEnd returns the index of the closing quote or -1.
func findStringEnd(src string, start int) int {
	quote := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i
		}
	}
	return -1
}

// splitSource tokenizes the source text, dropping blank and comment-only
// lines. Line numbers are 1-based.
func splitSource(source string) []Line {
	var lines []Line
	for i, raw := range strings.Split(source, "\n") {
		tokens := tokenize(raw)
		if len(tokens) == 0 {
			continue
		}
		lines = append(lines, Line{Number: i + 1, Tokens: tokens})
	}
	return lines
}

// isQuoted reports whether the token is a complete string literal.
func isQuoted(token string) bool {
	if len(token) < 2 {
		return false
	}
	return (token[0] == '"' || token[0] == '\'') && token[len(token)-1] == token[0]
}

// unquote decodes a string literal token including its surrounding quotes.
func unquote(token string) (string, error) {
	if !isQuoted(token) {
		return "", fmt.Errorf("invalid string literal %s", token)
	}
	body := token[1 : len(token)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", fmt.Errorf("truncated escape in %s", token)
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case '0':
			b.WriteByte(0)
		case '\\', '\'', '"':
			b.WriteByte(body[i])
		default:
			return "", fmt.Errorf("unknown escape \\%c in %s", body[i], token)
		}
	}
	return b.String(), nil
}
