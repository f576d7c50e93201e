package protect

import (
	"fmt"
	"regexp"
	"strings"
)

// ParseMatcher reads a matcher from command-line text:
//
//	/expr/flags   Pattern (flags: i, m, s)
//	true, false   Flag
//	anything else Exact
func ParseMatcher(expr string) (Matcher, error) {
	if strings.HasPrefix(expr, "/") {
		if end := strings.LastIndex(expr, "/"); end > 0 {
			flags := expr[end+1:]
			for _, f := range flags {
				if !strings.ContainsRune("ims", f) {
					return nil, fmt.Errorf("invalid pattern flag %q in %s", f, expr)
				}
			}

			src := expr[1:end]
			if flags != "" {
				src = "(?" + flags + ")" + src
			}
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern %s: %w", expr, err)
			}
			return Re(re), nil
		}
	}

	switch expr {
	case "true":
		return Flag(true), nil
	case "false":
		return Flag(false), nil
	}
	return Exact(expr), nil
}

// ParseAttrs turns field=matcher pairs into Attrs. A dotted field such as
// featureFlags.hasSpeaker becomes a Nested matcher, and a field given more
// than once becomes AnyOf in the order given.
func ParseAttrs(pairs []string) (Attrs, error) {
	grouped := make(map[string][]Matcher)
	var order []string

	for _, pair := range pairs {
		field, expr, ok := strings.Cut(pair, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid match %q: want field=value", pair)
		}

		m, err := ParseMatcher(expr)
		if err != nil {
			return nil, err
		}

		if top, sub, nested := strings.Cut(field, "."); nested {
			if top == "" || sub == "" {
				return nil, fmt.Errorf("invalid match field %q", field)
			}
			field = top
			m = Nested{Field: sub, Matcher: m}
		}

		if _, seen := grouped[field]; !seen {
			order = append(order, field)
		}
		grouped[field] = append(grouped[field], m)
	}

	attrs := make(Attrs, len(order))
	for _, field := range order {
		ms := grouped[field]
		if len(ms) == 1 {
			attrs[field] = ms[0]
			continue
		}
		attrs[field] = AnyOf(ms)
	}
	return attrs, nil
}
