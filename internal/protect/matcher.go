package protect

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"unifi-protect-cli/pkg/models"
)

// Matcher is a predicate over one resolved attribute value. The implementations
// are Exact, Flag, Pattern, AnyOf and Nested.
type Matcher interface {
	matcher()
}

// Exact matches when the stringified value equals the string.
type Exact string

// Flag matches a boolean value.
type Flag bool

// Pattern matches when the stringified value satisfies the expression.
type Pattern struct {
	*regexp.Regexp
}

// AnyOf matches when any alternative matches.
type AnyOf []Matcher

// Nested resolves Field on the value (which must be an object) and applies
// Matcher to the result.
type Nested struct {
	Field   string
	Matcher Matcher
}

func (Exact) matcher()   {}
func (Flag) matcher()    {}
func (Pattern) matcher() {}
func (AnyOf) matcher()   {}
func (Nested) matcher()  {}

// Re wraps a compiled expression.
func Re(re *regexp.Regexp) Pattern {
	return Pattern{Regexp: re}
}

// MustRe compiles expr and panics on error, like regexp.MustCompile.
func MustRe(expr string) Pattern {
	return Pattern{Regexp: regexp.MustCompile(expr)}
}

// Any groups alternatives into an AnyOf.
func Any(alternatives ...Matcher) AnyOf {
	return AnyOf(alternatives)
}

// Match resolves field on e and applies m. Only an unknown top-level field is
// an error; every other mismatch in shape, including a value that cannot be
// converted, is simply no match.
func Match(e Resolver, field string, m Matcher) (bool, error) {
	v, err := e.Field(field)
	if err != nil {
		var fieldErr *models.FieldError
		if errors.As(err, &fieldErr) {
			return false, err
		}
		return false, nil
	}
	return matchValue(v, m), nil
}

func matchValue(v any, m Matcher) bool {
	switch m := m.(type) {
	case Exact:
		s, ok := stringify(v)
		return ok && s == string(m)
	case Flag:
		b, ok := v.(bool)
		return ok && b == bool(m)
	case Pattern:
		if m.Regexp == nil {
			return false
		}
		s, ok := stringify(v)
		return ok && m.MatchString(s)
	case AnyOf:
		for _, alt := range m {
			if matchValue(v, alt) {
				return true
			}
		}
		return false
	case Nested:
		rec, ok := models.AsRecord(v)
		if !ok {
			return false
		}
		sub, err := rec.Field(m.Field)
		if err != nil {
			return false
		}
		return matchValue(sub, m.Matcher)
	default:
		return false
	}
}

// stringify renders scalar values the way they appear in the bootstrap JSON.
// Objects, arrays and null have no string form.
func stringify(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	case time.Time:
		return t.Format(time.RFC3339), true
	case fmt.Stringer:
		return t.String(), true
	default:
		return "", false
	}
}
