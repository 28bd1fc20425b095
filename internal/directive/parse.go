package directive

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Call heads. Names are case-sensitive; they are part of the contract
// actors are instructed to follow.
var (
	headPattern   = regexp.MustCompile(`\b(file_system|shell|research)\.([A-Za-z]+)\s*\(`)
	detectPattern = regexp.MustCompile(`file_system\.(?:WriteFile|ReadFile|ListFiles)|shell\.RunShellCommand|research\.Search`)
)

type writeArgs struct {
	Path    string `mapstructure:"relativePath"`
	Content string `mapstructure:"content"`
}

type readArgs struct {
	Path string `mapstructure:"relativePath"`
}

type shellArgs struct {
	Command string `mapstructure:"command"`
}

type searchArgs struct {
	Query string `mapstructure:"query"`
	Count string `mapstructure:"count"`
	Start string `mapstructure:"startIndex"`
}

// callSpec describes one recognised call: its positional parameter order
// and how to build directives from the decoded map.
type callSpec struct {
	params []string
	build  func(kwargs map[string]any, src Origin) ([]Directive, error)
}

var calls = map[string]callSpec{
	"file_system.WriteFile": {
		params: []string{"relativePath", "content"},
		build: func(kwargs map[string]any, src Origin) ([]Directive, error) {
			a, err := decode[writeArgs](kwargs, "relativePath", "content")
			if err != nil {
				return nil, err
			}
			return []Directive{Write{Src: src, Path: a.Path, Content: a.Content}}, nil
		},
	},
	"file_system.ReadFile": {
		params: []string{"relativePath"},
		build: func(kwargs map[string]any, src Origin) ([]Directive, error) {
			a, err := decode[readArgs](kwargs, "relativePath")
			if err != nil {
				return nil, err
			}
			return []Directive{Read{Src: src, Path: a.Path}}, nil
		},
	},
	"file_system.ListFiles": {
		build: func(kwargs map[string]any, src Origin) ([]Directive, error) {
			if len(kwargs) > 0 {
				return nil, fmt.Errorf("ListFiles takes no arguments")
			}
			return []Directive{List{Src: src}}, nil
		},
	},
	"shell.RunShellCommand": {
		params: []string{"command"},
		build: func(kwargs map[string]any, src Origin) ([]Directive, error) {
			a, err := decode[shellArgs](kwargs, "command")
			if err != nil {
				return nil, err
			}
			var out []Directive
			for _, frag := range SplitFragments(a.Command) {
				out = append(out, Shell{Src: src, Command: frag, Forbidden: IsForbidden(frag)})
			}
			return out, nil
		},
	},
	"research.Search": {
		params: []string{"query", "count", "startIndex"},
		build: func(kwargs map[string]any, src Origin) ([]Directive, error) {
			a, err := decode[searchArgs](kwargs, "query")
			if err != nil {
				return nil, err
			}
			if strings.TrimSpace(a.Query) == "" {
				return nil, fmt.Errorf("empty query")
			}
			count, err := optionalInt(a.Count)
			if err != nil {
				return nil, fmt.Errorf("count: %w", err)
			}
			start, err := optionalInt(a.Start)
			if err != nil {
				return nil, fmt.Errorf("startIndex: %w", err)
			}
			return []Directive{Search{Src: src, Query: a.Query, Count: count, Start: start}}, nil
		},
	},
}

func optionalInt(s string) (int, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// decode maps raw keyword arguments onto T. Unknown keys and missing
// required keys are errors.
func decode[T any](kwargs map[string]any, required ...string) (T, error) {
	var out T
	for _, key := range required {
		if _, ok := kwargs[key]; !ok {
			return out, fmt.Errorf("missing argument %q", key)
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &out,
	})
	if err != nil {
		return out, err
	}
	if err := dec.Decode(kwargs); err != nil {
		return out, err
	}
	return out, nil
}

// Parse extracts every well-formed call from text in order of appearance.
// Malformed or unknown calls are skipped; Parse never fails.
func Parse(actor, text string) []Directive {
	var out []Directive
	pos := 0
	for pos < len(text) {
		loc := headPattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, headEnd := pos+loc[0], pos+loc[1]
		name := text[pos+loc[2]:pos+loc[3]] + "." + text[pos+loc[4]:pos+loc[5]]

		spec, known := calls[name]
		if !known {
			pos = headEnd
			continue
		}
		args, end, ok := lexArgs(text, headEnd)
		if !ok {
			pos = headEnd
			continue
		}
		kwargs, ok := bind(spec, args)
		if !ok {
			pos = headEnd
			continue
		}
		src := Origin{Actor: actor, Span: Span{Start: start, End: end}, Raw: text[start:end]}
		ds, err := spec.build(kwargs, src)
		if err != nil {
			pos = headEnd
			continue
		}
		out = append(out, ds...)
		pos = end
	}
	return out
}

// bind folds positional arguments into the keyword map using the call's
// parameter order.
func bind(spec callSpec, args argList) (map[string]any, bool) {
	if len(args.positional) > len(spec.params) {
		return nil, false
	}
	kwargs := make(map[string]any, len(args.named)+len(args.positional))
	for i, v := range args.positional {
		kwargs[spec.params[i]] = v
	}
	for k, v := range args.named {
		if _, clash := kwargs[k]; clash {
			return nil, false
		}
		kwargs[k] = v
	}
	return kwargs, true
}

// HasDirective reports whether text contains anything that looks like a
// tool call head. It matches more than Parse accepts.
func HasDirective(text string) bool {
	return detectPattern.MatchString(text)
}
