package privacy

import (
	"fmt"
	"regexp"
	"strings"
)

const redactedPlaceholder = "[REDACTED]"

// Redactor masks matches of its patterns before text is persisted. A nil
// Redactor returns text unchanged.
type Redactor struct {
	patterns []*regexp.Regexp
	userinfo bool
}

// New compiles patterns into a Redactor. URL credentials (user:pass@host)
// are always masked. Returns an error if any pattern is invalid.
func New(patterns []string) (*Redactor, error) {
	compiled, err := Compile(patterns)
	if err != nil {
		return nil, err
	}
	return &Redactor{patterns: compiled, userinfo: true}, nil
}

// Compile compiles a list of regex pattern strings into compiled regexps.
// Blank patterns are ignored.
func Compile(patterns []string) ([]*regexp.Regexp, error) {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		if strings.TrimSpace(p) == "" {
			continue
		}
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile redact pattern %q: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return compiled, nil
}

var userinfoPattern = regexp.MustCompile(`(://)[^/@\s]+@`)

// Apply replaces URL credentials and every pattern match in text with
// [REDACTED].
func (r *Redactor) Apply(text string) string {
	if r == nil || text == "" {
		return text
	}
	if r.userinfo {
		text = userinfoPattern.ReplaceAllString(text, "${1}"+redactedPlaceholder+"@")
	}
	for _, re := range r.patterns {
		text = re.ReplaceAllString(text, redactedPlaceholder)
	}
	return text
}
