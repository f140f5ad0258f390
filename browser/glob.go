package browser

import (
	"regexp"
	"strings"
	"sync"
)

var globCache sync.Map // pattern -> *regexp.Regexp

// MatchGlob reports whether url matches a URL glob as understood by the browser engine:
// "**" matches any characters, "*" matches any characters except "/", "?" matches a literal
// question mark and "{a,b}" matches either alternative.
func MatchGlob(pattern, url string) bool {
	return globRegexp(pattern).MatchString(url)
}

func globRegexp(pattern string) *regexp.Regexp {
	if re, ok := globCache.Load(pattern); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(globToRegexp(pattern))
	globCache.Store(pattern, re)
	return re
}

func globToRegexp(pattern string) string {
	var b strings.Builder
	b.WriteString("^")

	inGroup := false
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		switch {
		case c == '*' && i+1 < len(pattern) && pattern[i+1] == '*':
			b.WriteString(".*")
			i++
		case c == '*':
			b.WriteString("[^/]*")
		case c == '{' && !inGroup:
			inGroup = true
			b.WriteString("(?:")
		case c == '}' && inGroup:
			inGroup = false
			b.WriteString(")")
		case c == ',' && inGroup:
			b.WriteString("|")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	if inGroup {
		// Unterminated group, treat the brace literally.
		return "^" + regexp.QuoteMeta(pattern) + "$"
	}

	b.WriteString("$")
	return b.String()
}
