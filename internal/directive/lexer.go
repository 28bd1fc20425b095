package directive

import (
	"strings"
	"unicode"
)

// argList is the raw result of lexing a call's parenthesised arguments.
type argList struct {
	named      map[string]string
	positional []string
}

// lexArgs reads arguments starting just after the opening parenthesis at
// text[pos:]. It returns the arguments and the offset just past the
// closing parenthesis, or ok=false if the call is malformed.
func lexArgs(text string, pos int) (args argList, end int, ok bool) {
	args.named = map[string]string{}
	i := skipSpace(text, pos)

	if i < len(text) && text[i] == ')' {
		return args, i + 1, true
	}

	for {
		i = skipSpace(text, i)
		name := ""
		if j := scanIdent(text, i); j > i {
			k := skipSpace(text, j)
			if k < len(text) && text[k] == '=' {
				name = text[i:j]
				i = skipSpace(text, k+1)
			}
		}

		value, next, found := scanLiteral(text, i)
		if !found {
			return argList{}, 0, false
		}
		if name != "" {
			if _, dup := args.named[name]; dup {
				return argList{}, 0, false
			}
			args.named[name] = value
		} else {
			if len(args.named) > 0 {
				// positional after keyword
				return argList{}, 0, false
			}
			args.positional = append(args.positional, value)
		}

		i = skipSpace(text, next)
		if i >= len(text) {
			return argList{}, 0, false
		}
		switch text[i] {
		case ')':
			return args, i + 1, true
		case ',':
			i = skipSpace(text, i+1)
			if i < len(text) && text[i] == ')' {
				return args, i + 1, true
			}
		default:
			return argList{}, 0, false
		}
	}
}

var quoteStyles = []string{`'''`, `"""`, `'`, `"`}

// scanLiteral reads a quoted string literal at text[i:]. Triple-quoted
// literals end at the next matching triple. Single-character quotes end at
// the first matching quote that is followed, after optional whitespace, by
// ',' or ')', so apostrophes inside prose survive. No escapes are
// processed.
func scanLiteral(text string, i int) (value string, next int, ok bool) {
	for _, q := range quoteStyles {
		if !strings.HasPrefix(text[i:], q) {
			continue
		}
		start := i + len(q)
		if len(q) == 3 {
			end := strings.Index(text[start:], q)
			if end < 0 {
				return "", 0, false
			}
			return text[start : start+end], start + end + len(q), true
		}
		for j := start; j < len(text); j++ {
			if text[j] != q[0] {
				continue
			}
			k := skipSpace(text, j+1)
			if k < len(text) && (text[k] == ',' || text[k] == ')') {
				return text[start:j], j + 1, true
			}
		}
		return "", 0, false
	}
	return "", 0, false
}

func scanIdent(text string, i int) int {
	j := i
	for j < len(text) {
		r := rune(text[j])
		if r == '_' || r < unicode.MaxASCII && (unicode.IsLetter(r) || (j > i && unicode.IsDigit(r))) {
			j++
			continue
		}
		break
	}
	return j
}

func skipSpace(text string, i int) int {
	for i < len(text) && (text[i] == ' ' || text[i] == '\t' || text[i] == '\n' || text[i] == '\r') {
		i++
	}
	return i
}
