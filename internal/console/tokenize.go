package console

import (
	"regexp"
	"strings"
)

// tokenPattern matches runs of non-space characters where a quoted segment
// may contain spaces: reply 3 "on it" yields reply, 3, "on it".
var tokenPattern = regexp.MustCompile(`(?:[^\s"]+|"[^"]*")+`)

// Tokenize splits line into arguments and strips one leading and one
// trailing double quote from each.
func Tokenize(line string) []string {
	raw := tokenPattern.FindAllString(line, -1)
	out := make([]string, len(raw))
	for i, tok := range raw {
		out[i] = unquote(tok)
	}
	return out
}

func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	return strings.TrimSuffix(s, `"`)
}
