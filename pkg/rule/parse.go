package rule

import (
	"bufio"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"unicode"

	"github.com/openact/openact/pkg/action"
)

// Block pairs match criteria with the actions to run when they all hold.
// The compiler only materializes blocks with at least one criterion and one
// action.
type Block struct {
	Criteria []Criterion
	Actions  []action.Action
}

func (b Block) matches(u *url.URL, rawURL string) bool {
	for _, c := range b.Criteria {
		if !c.Matches(u, rawURL) {
			return false
		}
	}

	return true
}

// RuleSet is an ordered sequence of blocks; source order decides dispatch
// (first full match wins). It is immutable once compiled.
type RuleSet []Block

// ParseString compiles rules from a literal configuration blob.
func ParseString(s string) RuleSet {
	return Parse(strings.NewReader(s))
}

// Parse compiles rule blocks from line-oriented configuration text. Parsing
// is best-effort: comment lines are ignored, malformed lines are logged and
// skipped, and a blank line terminates the current block (emitting it only
// when both criteria and actions were collected).
func Parse(r io.Reader) RuleSet {
	var (
		rs       RuleSet
		criteria []Criterion
		actions  []action.Action
	)

	flush := func() {
		if len(criteria) > 0 && len(actions) > 0 {
			rs = append(rs, Block{Criteria: criteria, Actions: actions})
		}
		criteria = nil
		actions = nil
	}

	scanner := bufio.NewScanner(r)
	// Action lines can exceed bufio's default 64K token limit.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			flush()

			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		key, rest, ok := splitDirective(line)
		if !ok {
			continue
		}

		switch key := strings.ToLower(key); key {
		case "action":
			a, err := action.Parse(rest)
			if err != nil {
				slog.Warn("ignoring unparsable action line",
					slog.String("line", line),
					slog.Any("error", err),
				)

				continue
			}
			if a != nil {
				actions = append(actions, *a)
			}

		default:
			kind, known := KindFromKey(key)
			if !known {
				slog.Warn("ignoring malformed open actions line", slog.String("line", line))

				continue
			}

			if kind != KindURL {
				rest = strings.ToLower(rest)
			}
			criteria = append(criteria, Criterion{Kind: kind, Value: rest})
		}
	}
	if err := scanner.Err(); err != nil {
		slog.Warn("reading open actions", slog.Any("error", err))
	}

	flush()

	return rs
}

// splitDirective separates the first whitespace-delimited word from the
// remainder of the line. Lines without a remainder are not directives.
func splitDirective(line string) (key, rest string, ok bool) {
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return "", "", false
	}

	rest = strings.TrimLeftFunc(line[i:], unicode.IsSpace)
	if rest == "" {
		return "", "", false
	}

	return line[:i], rest, true
}
