package rule

import (
	"net/url"

	"github.com/openact/openact/pkg/action"
)

// ActionsFor returns the expanded actions of the first block whose criteria
// all match rawURL. Blocks after the first match are never considered. It
// returns nil when the URL cannot be parsed or no block matches.
func (rs RuleSet) ActionsFor(rawURL string) []action.Invocation {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	// u.Path is the percent-decoded path; criteria match against the
	// escaped form, substitution uses the decoded one. The fragment is
	// substituted as written in the URL.
	path := u.Path
	if path == "" && u.Opaque != "" {
		// Non-hierarchical URLs (mailto:user@host) carry their target in
		// the opaque part.
		path = u.Opaque
		if dec, err := url.PathUnescape(path); err == nil {
			path = dec
		}
	}

	vars := map[string]string{
		action.VarURL:      rawURL,
		action.VarFilePath: path,
		action.VarFile:     baseName(path),
		action.VarFragment: u.EscapedFragment(),
	}

	for _, b := range rs {
		if !b.matches(u, rawURL) {
			continue
		}

		out := make([]action.Invocation, 0, len(b.Actions))
		for _, a := range b.Actions {
			out = append(out, a.Expand(vars))
		}

		return out
	}

	return nil
}
