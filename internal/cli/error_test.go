package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
)

func TestIsUsageError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unknown flag",
			err:  errors.New(`unknown flag: --bogus`),
			want: true,
		},
		{
			name: "unknown shorthand flag",
			err:  errors.New(`unknown shorthand flag: 'x' in -x`),
			want: true,
		},
		{
			name: "flag needs an argument",
			err:  errors.New(`flag needs an argument: --rules`),
			want: true,
		},
		{
			name: "invalid argument",
			err:  errors.New(`invalid argument "maybe" for "-w, --watch" flag`),
			want: true,
		},
		{
			name: "runtime failure",
			err:  errors.New("load config: permission denied"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, isUsageError(tt.err))
		})
	}
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ErrorHandler(&buf, fang.Styles{}, errors.New("unknown flag: --bogus"))

	out := buf.String()
	assert.Contains(t, out, "unknown flag: --bogus")
	assert.Contains(t, out, "--help")
}

func TestErrorHandlerNonUsageError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	ErrorHandler(&buf, fang.Styles{}, errors.New("load config: boom"))

	out := buf.String()
	assert.Contains(t, out, "load config: boom")
	assert.NotContains(t, out, "--help")
}
