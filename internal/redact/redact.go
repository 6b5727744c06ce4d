// Package redact masks sensitive field values in delimited log lines.
//
// A line such as
//
//	name=Bob;email=bob@example.com;ip=10.0.0.1;
//
// redacted for the fields name and email becomes
//
//	name=***; email=***; ip=10.0.0.1;
//
// Every separator in the output is followed by exactly one space, whether or
// not a redacted field sits next to it.
package redact

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/samber/lo"
)

// Default redaction settings.
const (
	DefaultToken     = "***"
	DefaultSeparator = ';'
)

// PIIFields lists the fields treated as personally identifiable information
// when no explicit field set is configured.
var PIIFields = []string{"name", "email", "phone", "ssn", "password"}

// Redactor masks the values of a fixed set of fields.
// A Redactor is immutable and safe for concurrent use.
type Redactor struct {
	pattern     *regexp.Regexp
	fields      map[string]struct{}
	replacement string
	token       string
	sep         rune
}

// New builds a Redactor for the given fields, token and separator.
// Empty and duplicate field names are ignored. With no usable field names the
// Redactor only normalizes separator spacing.
func New(fields []string, token string, sep rune) *Redactor {
	names := lo.Uniq(lo.Compact(fields))
	// Longest names first so the alternation never stops at a shorter
	// name that happens to prefix a longer one.
	slices.SortFunc(names, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})

	r := &Redactor{
		fields: lo.SliceToMap(names, func(name string) (string, struct{}) {
			return name, struct{}{}
		}),
		// "$" in the token must survive regexp template expansion.
		replacement: "${1}=" + strings.ReplaceAll(token, "$", "$$"),
		token:       token,
		sep:         sep,
	}

	if len(names) > 0 {
		quoted := lo.Map(names, func(name string, _ int) string {
			return regexp.QuoteMeta(name)
		})
		r.pattern = regexp.MustCompile(
			"(" + strings.Join(quoted, "|") + ")=[^" + regexp.QuoteMeta(string(sep)) + "]+",
		)
	}

	return r
}

// Redact is the one-shot form of New(fields, token, sep).Redact(line).
func Redact(fields []string, token, line string, sep rune) string {
	return New(fields, token, sep).Redact(line)
}

// Redact replaces the value of every configured field in line with the token
// and normalizes separator spacing.
func (r *Redactor) Redact(line string) string {
	if r.pattern != nil {
		line = r.pattern.ReplaceAllString(line, r.replacement)
	}
	return r.normalize(line)
}

// HasField reports whether name is one of the redacted fields.
func (r *Redactor) HasField(name string) bool {
	_, ok := r.fields[name]
	return ok
}

// Token returns the replacement token.
func (r *Redactor) Token() string {
	return r.token
}

// Separator returns the field separator.
func (r *Redactor) Separator() rune {
	return r.sep
}

// normalize renders every separator followed by exactly one space. Bytes
// other than the spaces after a separator are copied unchanged, valid UTF-8
// or not.
func (r *Redactor) normalize(line string) string {
	if r.sep == ' ' || !strings.ContainsRune(line, r.sep) {
		return line
	}

	if r.sep >= utf8.RuneSelf {
		parts := strings.Split(line, string(r.sep))
		for i := 1; i < len(parts); i++ {
			parts[i] = strings.TrimLeft(parts[i], " ")
		}
		return strings.Join(parts, string(r.sep)+" ")
	}

	sep := byte(r.sep)
	var b strings.Builder
	b.Grow(len(line) + strings.Count(line, string(r.sep)))

	skipSpaces := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		if skipSpaces && c == ' ' {
			continue
		}
		skipSpaces = false
		b.WriteByte(c)
		if c == sep {
			b.WriteByte(' ')
			skipSpaces = true
		}
	}

	return b.String()
}
