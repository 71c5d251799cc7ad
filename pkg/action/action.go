package action

import (
	"fmt"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Action is a named invocation template produced by parsing an action
// directive. Its arguments may contain deferred variable references;
// [Action.Expand] resolves them into a concrete [Invocation]. An Action is
// never mutated after parsing.
type Action struct {
	Name string
	Args []Arg
}

// Invocation is an [Action] with every argument resolved to a plain string.
type Invocation struct {
	Name string   `json:"name"`
	Args []string `json:"args,omitempty" yaml:"args,flow,omitempty"`
}

// Parse splits an action directive into a name and argument templates.
// The directive uses shell-like quoting. It returns a nil Action (and nil
// error) when the directive contains no words.
func Parse(line string) (*Action, error) {
	words, err := shellwords.Parse(line)
	if err != nil {
		return nil, fmt.Errorf("split action line: %w", err)
	}
	if len(words) == 0 {
		return nil, nil
	}

	a := &Action{Name: words[0]}
	for _, w := range words[1:] {
		a.Args = append(a.Args, NewArg(w))
	}

	return a, nil
}

// Expand resolves the action's argument templates against vars and returns
// the resulting invocation. The template itself is left untouched, so the
// same Action can be expanded any number of times.
func (a Action) Expand(vars map[string]string) Invocation {
	inv := Invocation{Name: a.Name}
	if len(a.Args) > 0 {
		inv.Args = make([]string, 0, len(a.Args))
		for _, arg := range a.Args {
			inv.Args = append(inv.Args, arg.Expand(vars))
		}
	}

	return inv
}

func (inv Invocation) String() string {
	if len(inv.Args) == 0 {
		return inv.Name
	}

	return inv.Name + " " + strings.Join(inv.Args, " ")
}
