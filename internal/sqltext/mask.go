// Package sqltext scans SQL text without parsing it.
package sqltext

import "strings"

// Mask returns stmt with the contents of string literals, quoted
// identifiers and comments replaced by spaces. Quote characters and
// newlines are kept, so byte offsets and line breaks match stmt. Keyword
// and delimiter searches run on the masked text only see real SQL.
func Mask(stmt string) string {
	b := []byte(stmt)
	var quote byte // closing quote while inside a quoted run

	for i := 0; i < len(b); i++ {
		c := b[i]
		switch {
		case quote != 0:
			if c == quote {
				// '' and "" escape the quote inside the run
				if quote != ']' && i+1 < len(b) && b[i+1] == quote {
					b[i], b[i+1] = ' ', ' '
					i++
					continue
				}
				quote = 0
				continue
			}
			if c != '\n' {
				b[i] = ' '
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '[':
			quote = ']'
		case c == '-' && i+1 < len(b) && b[i+1] == '-':
			for i < len(b) && b[i] != '\n' {
				b[i] = ' '
				i++
			}
		case c == '/' && i+1 < len(b) && b[i+1] == '*':
			end := strings.Index(stmt[i+2:], "*/")
			stop := len(b)
			if end >= 0 {
				stop = i + 2 + end + 2
			}
			for ; i < stop; i++ {
				if b[i] != '\n' {
					b[i] = ' '
				}
			}
			i--
		}
	}
	return string(b)
}
