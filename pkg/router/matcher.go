package router

import (
	"regexp"
	"strings"
)

// placeholderPattern finds ":name" placeholders in a route pattern.
var placeholderPattern = regexp.MustCompile(`:\w+`)

// paramCapture is substituted for every placeholder.
const paramCapture = `([\w-]+)`

// matcher is a compiled route pattern.
type matcher struct {
	names []string
	re    *regexp.Regexp
}

// compilePattern builds an anchored matcher for pattern.
// Text between placeholders is matched literally.
func compilePattern(pattern string) (*matcher, error) {
	locs := placeholderPattern.FindAllStringIndex(pattern, -1)

	var b strings.Builder
	b.WriteString("^")
	names := make([]string, 0, len(locs))
	last := 0
	for _, loc := range locs {
		b.WriteString(regexp.QuoteMeta(pattern[last:loc[0]]))
		b.WriteString(paramCapture)
		names = append(names, pattern[loc[0]+1:loc[1]])
		last = loc[1]
	}
	b.WriteString(regexp.QuoteMeta(pattern[last:]))
	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, err
	}
	return &matcher{names: names, re: re}, nil
}

// match returns the params bound by path, or false if path does not match.
func (m *matcher) match(path string) (Params, bool) {
	sub := m.re.FindStringSubmatch(path)
	if sub == nil {
		return nil, false
	}
	params := make(Params, len(m.names))
	for i, name := range m.names {
		params[name] = sub[i+1]
	}
	return params, true
}

// ParamNames returns the placeholder names of pattern in declaration order.
func ParamNames(pattern string) []string {
	found := placeholderPattern.FindAllString(pattern, -1)
	names := make([]string, len(found))
	for i, f := range found {
		names[i] = f[1:]
	}
	return names
}

// MatchPattern matches a single pattern against path.
func MatchPattern(pattern, path string) (Params, bool) {
	m, err := compilePattern(pattern)
	if err != nil {
		return nil, false
	}
	return m.match(path)
}
