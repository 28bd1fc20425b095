package shell

import (
	"strings"
	"unicode"
)

// SplitCommand turns one command fragment into an argv vector without a
// shell. A leading "..." or '...' is the executable path (so paths with
// spaces work); otherwise the executable is the first whitespace-delimited
// token. The remaining text is split on whitespace outside quotes. Quotes
// are removed but backslashes are kept literally so Windows paths survive.
func SplitCommand(command string) ([]string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return nil, ErrEmptyCommand
	}

	var exe, rest string
	if q := command[0]; q == '"' || q == '\'' {
		end := strings.IndexByte(command[1:], q)
		if end < 0 {
			return nil, ErrUnbalancedQuotes
		}
		exe = command[1 : end+1]
		rest = command[end+2:]
	} else {
		i := strings.IndexFunc(command, unicode.IsSpace)
		if i < 0 {
			return []string{command}, nil
		}
		exe, rest = command[:i], command[i:]
	}
	if exe == "" {
		return nil, ErrEmptyCommand
	}

	args, err := splitArgs(rest)
	if err != nil {
		return nil, err
	}
	return append([]string{exe}, args...), nil
}

func splitArgs(s string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inToken bool
		quote   rune
	)
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inToken = true
		case unicode.IsSpace(r):
			if inToken {
				args = append(args, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quote != 0 {
		return nil, ErrUnbalancedQuotes
	}
	if inToken {
		args = append(args, cur.String())
	}
	return args, nil
}
