package rule

import (
	"mime"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// Kind identifies the predicate a [Criterion] evaluates.
type Kind int

const (
	// KindMIME matches comma-separated glob patterns against the MIME type
	// guessed from the URL path's extension.
	KindMIME Kind = iota
	// KindExt matches the URL path suffix against comma-separated bare
	// extensions.
	KindExt
	// KindProtocol matches the URL scheme against comma-separated scheme
	// names, defaulting to "file" when the URL has no scheme.
	KindProtocol
	// KindFile glob-matches the final segment of the URL path.
	KindFile
	// KindPath glob-matches the full URL path.
	KindPath
	// KindURL searches the raw URL string with a regular expression.
	KindURL
	// KindFragment compares a boolean value against fragment presence.
	KindFragment
)

var kindKeys = map[string]Kind{
	"mime":         KindMIME,
	"ext":          KindExt,
	"protocol":     KindProtocol,
	"file":         KindFile,
	"path":         KindPath,
	"url":          KindURL,
	"has_fragment": KindFragment,
}

// KindFromKey maps a configuration key to its [Kind].
func KindFromKey(key string) (Kind, bool) {
	k, ok := kindKeys[key]

	return k, ok
}

func (k Kind) String() string {
	for key, kind := range kindKeys {
		if kind == k {
			return key
		}
	}

	return "unknown"
}

// Criterion is a single match predicate. Values are lower-cased at parse
// time for every kind except [KindURL], whose value is a case-sensitive
// regular expression.
type Criterion struct {
	Value string
	Kind  Kind
}

// Matches reports whether the criterion accepts the URL. Evaluation
// failures (invalid regexp, malformed glob, undeterminable MIME type) count
// as a non-match; they never surface as errors.
func (c Criterion) Matches(u *url.URL, rawURL string) bool {
	switch c.Kind {
	case KindURL:
		re, err := regexp.Compile(c.Value)
		if err != nil {
			return false
		}

		return re.MatchString(rawURL)

	case KindMIME:
		return matchesMIME(criterionPath(u), c.Value)

	case KindExt:
		return matchesExt(criterionPath(u), c.Value)

	case KindProtocol:
		return matchesProtocol(u.Scheme, c.Value)

	case KindFragment:
		return parseBool(c.Value) == (u.Fragment != "")

	case KindPath:
		ok, err := matchGlob(c.Value, strings.ToLower(criterionPath(u)))

		return err == nil && ok

	case KindFile:
		ok, err := matchGlob(c.Value, strings.ToLower(baseName(criterionPath(u))))

		return err == nil && ok
	}

	return false
}

// criterionPath is the path criteria evaluate against: the percent-encoded
// URL path, or the opaque part for non-hierarchical URLs like mailto.
func criterionPath(u *url.URL) string {
	if p := u.EscapedPath(); p != "" {
		return p
	}

	return u.Opaque
}

func matchesMIME(urlPath, patterns string) bool {
	mt := mimeTypeByPath(urlPath)
	if mt == "" {
		return false
	}

	for _, pat := range strings.Split(patterns, ",") {
		ok, err := matchGlob(strings.TrimSpace(pat), mt)
		if err == nil && ok {
			return true
		}
	}

	return false
}

func matchesExt(urlPath, extensions string) bool {
	if urlPath == "" {
		return false
	}

	p := strings.ToLower(urlPath)
	for _, ext := range strings.Split(extensions, ",") {
		if strings.HasSuffix(p, "."+strings.TrimSpace(ext)) {
			return true
		}
	}

	return false
}

func matchesProtocol(scheme, names string) bool {
	if scheme == "" {
		scheme = "file"
	}
	scheme = strings.ToLower(scheme)

	for _, name := range strings.Split(names, ",") {
		if strings.TrimSpace(name) == scheme {
			return true
		}
	}

	return false
}

// mimeTypeByPath guesses a MIME type from the path's extension using the
// system type table. Parameters (e.g. "; charset=utf-8") are stripped. An
// empty string means the type is undeterminable.
func mimeTypeByPath(p string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}

	mt := mime.TypeByExtension(ext)
	if mt == "" {
		return ""
	}
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}

	return strings.ToLower(strings.TrimSpace(mt))
}

// parseBool interprets boolean-ish configuration values. Affirmative values
// are "y", "yes", "true", and "1"; anything else is false.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "y", "yes", "true", "1":
		return true
	}

	return false
}

// baseName returns the final segment of a slash-separated path. Unlike
// [path.Base] it yields an empty string for paths ending in a slash.
func baseName(p string) string {
	return p[strings.LastIndexByte(p, '/')+1:]
}
