package action

import (
	"os"
	"strings"
)

// Variable names that are resolved at expand time rather than parse time.
// Every other reference is substituted from the process environment while
// the argument is being parsed.
const (
	VarURL      = "URL"
	VarFilePath = "FILE_PATH"
	VarFile     = "FILE"
	VarFragment = "FRAGMENT"
)

func isDeferred(name string) bool {
	switch name {
	case VarURL, VarFilePath, VarFile, VarFragment:
		return true
	}

	return false
}

// segment is one piece of an argument template: either literal text, or a
// deferred variable reference. For references, text keeps the original
// source form ("${URL}") so unresolved references can be left as written.
type segment struct {
	text string
	name string
}

// Arg is a two-phase argument template. Parsing splits the source into
// literal segments and variable references ($NAME or ${NAME}); expanding
// joins them back together with references resolved against a context map.
// References whose name has no context entry render as their original
// source text.
type Arg struct {
	segments []segment
}

// NewArg parses src into an argument template. Non-deferred references are
// resolved from the OS environment immediately; names absent from the
// environment stay literal.
func NewArg(src string) Arg {
	var (
		segs []segment
		lit  strings.Builder
	)

	flushLit := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{text: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); {
		if src[i] != '$' {
			lit.WriteByte(src[i])
			i++

			continue
		}

		name, raw, n := scanRef(src[i:])
		if n == 0 {
			lit.WriteByte('$')
			i++

			continue
		}
		i += n

		if isDeferred(name) {
			flushLit()
			segs = append(segs, segment{text: raw, name: name})

			continue
		}

		// Immediate expansion from the process environment. Unset names
		// are left as written.
		if v, ok := os.LookupEnv(name); ok {
			lit.WriteString(v)
		} else {
			lit.WriteString(raw)
		}
	}

	flushLit()

	return Arg{segments: segs}
}

// scanRef reads a variable reference at the start of s (which begins with
// '$'). It returns the referenced name, the raw source form, and the number
// of bytes consumed; n is zero when s does not start a valid reference.
func scanRef(s string) (name, raw string, n int) {
	if len(s) < 2 {
		return "", "", 0
	}

	if s[1] == '{' {
		end := strings.IndexByte(s, '}')
		if end < 3 { // Needs at least one character inside the braces.
			return "", "", 0
		}

		return s[2:end], s[:end+1], end + 1
	}

	i := 1
	for i < len(s) && isNameByte(s[i]) {
		i++
	}
	if i == 1 {
		return "", "", 0
	}

	return s[1:i], s[:i], i
}

func isNameByte(c byte) bool {
	return c == '_' ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9')
}

// Expand renders the template with deferred references resolved against
// vars. References missing from vars are emitted as their source text.
func (a Arg) Expand(vars map[string]string) string {
	var b strings.Builder
	for _, seg := range a.segments {
		if seg.name == "" {
			b.WriteString(seg.text)

			continue
		}

		if v, ok := vars[seg.name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(seg.text)
		}
	}

	return b.String()
}

// String reconstructs the template's source form.
func (a Arg) String() string {
	var b strings.Builder
	for _, seg := range a.segments {
		b.WriteString(seg.text)
	}

	return b.String()
}
