package rule

import (
	"regexp"
	"strings"
)

// matchGlob reports whether name matches a shell-style glob pattern with
// '*', '?', and '[...]' character classes. Unlike [path.Match], '*' also
// crosses path separators, so "image/*" matches "image/svg+xml" and
// "/tmp/*" matches nested paths. Matching is case-sensitive; callers
// normalize case beforehand.
func matchGlob(pattern, name string) (bool, error) {
	re, err := globRegexp(pattern)
	if err != nil {
		return false, err
	}

	return re.MatchString(name), nil
}

// globRegexp translates a glob pattern into an anchored regular expression.
func globRegexp(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString(`(?s)\A`)

	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]
		i++

		switch r {
		case '*':
			b.WriteString(`.*`)

		case '?':
			b.WriteString(`.`)

		case '[':
			j := i
			if j < len(runes) && runes[j] == '!' {
				j++
			}
			if j < len(runes) && runes[j] == ']' {
				j++
			}
			for j < len(runes) && runes[j] != ']' {
				j++
			}
			if j >= len(runes) {
				// No closing bracket; treat '[' literally.
				b.WriteString(`\[`)

				continue
			}

			class := strings.ReplaceAll(string(runes[i:j]), `\`, `\\`)
			switch {
			case strings.HasPrefix(class, "!"):
				class = "^" + class[1:]
			case strings.HasPrefix(class, "^"):
				// Only '!' negates; a leading '^' is a class member.
				class = `\` + class
			}
			b.WriteString("[" + class + "]")
			i = j + 1

		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}

	b.WriteString(`\z`)

	return regexp.Compile(b.String())
}
