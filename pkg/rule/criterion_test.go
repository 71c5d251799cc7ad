package rule_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openact/openact/pkg/rule"
)

func TestCriterionMatches(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		kind   rule.Kind
		value  string
		rawURL string
		want   bool
	}{
		{
			name:   "mime exact",
			kind:   rule.KindMIME,
			value:  "text/html",
			rawURL: "file:///tmp/page.html",
			want:   true,
		},
		{
			name:   "mime glob",
			kind:   rule.KindMIME,
			value:  "image/*",
			rawURL: "file:///tmp/photo.png",
			want:   true,
		},
		{
			name:   "mime comma separated list",
			kind:   rule.KindMIME,
			value:  "application/pdf, image/*",
			rawURL: "file:///tmp/doc.pdf",
			want:   true,
		},
		{
			name:   "mime undeterminable type",
			kind:   rule.KindMIME,
			value:  "*",
			rawURL: "file:///tmp/noextension",
			want:   false,
		},
		{
			name:   "mime mismatch",
			kind:   rule.KindMIME,
			value:  "image/*",
			rawURL: "file:///tmp/page.html",
			want:   false,
		},
		{
			name:   "ext suffix",
			kind:   rule.KindExt,
			value:  "html",
			rawURL: "file:///tmp/page.html",
			want:   true,
		},
		{
			name:   "ext is case-insensitive",
			kind:   rule.KindExt,
			value:  "html",
			rawURL: "file:///tmp/PAGE.HTML",
			want:   true,
		},
		{
			name:   "ext comma separated list",
			kind:   rule.KindExt,
			value:  "htm, html",
			rawURL: "file:///tmp/page.htm",
			want:   true,
		},
		{
			name:   "ext requires the dot boundary",
			kind:   rule.KindExt,
			value:  "html",
			rawURL: "file:///tmp/pagehtml",
			want:   false,
		},
		{
			name:   "protocol explicit scheme",
			kind:   rule.KindProtocol,
			value:  "http, https",
			rawURL: "https://example.com/",
			want:   true,
		},
		{
			name:   "protocol defaults to file",
			kind:   rule.KindProtocol,
			value:  "file",
			rawURL: "/tmp/some/file.txt",
			want:   true,
		},
		{
			name:   "protocol mismatch",
			kind:   rule.KindProtocol,
			value:  "http",
			rawURL: "ftp://example.com/",
			want:   false,
		},
		{
			name:   "ext on opaque url",
			kind:   rule.KindExt,
			value:  "com",
			rawURL: "mailto:someone@example.com",
			want:   true,
		},
		{
			name:   "file glob on opaque url",
			kind:   rule.KindFile,
			value:  "*@example.com",
			rawURL: "mailto:someone@example.com",
			want:   true,
		},
		{
			name:   "file glob on basename",
			kind:   rule.KindFile,
			value:  "*.conf",
			rawURL: "file:///etc/ssh/sshd.conf",
			want:   true,
		},
		{
			name:   "file glob never sees the directory",
			kind:   rule.KindFile,
			value:  "etc*",
			rawURL: "file:///etc/ssh/sshd.conf",
			want:   false,
		},
		{
			name:   "path glob crosses separators",
			kind:   rule.KindPath,
			value:  "/etc/*.conf",
			rawURL: "file:///etc/ssh/sshd.conf",
			want:   true,
		},
		{
			name:   "path glob is case-insensitive",
			kind:   rule.KindPath,
			value:  "/tmp/*.txt",
			rawURL: "file:///TMP/NOTES.TXT",
			want:   true,
		},
		{
			name:   "url regexp searches anywhere",
			kind:   rule.KindURL,
			value:  `example\.com`,
			rawURL: "https://www.example.com/index.html",
			want:   true,
		},
		{
			name:   "url regexp is case-sensitive",
			kind:   rule.KindURL,
			value:  "Example",
			rawURL: "https://www.example.com/",
			want:   false,
		},
		{
			name:   "url invalid regexp never matches",
			kind:   rule.KindURL,
			value:  "[unclosed",
			rawURL: "https://example.com/",
			want:   false,
		},
		{
			name:   "has_fragment yes with fragment",
			kind:   rule.KindFragment,
			value:  "yes",
			rawURL: "file:///doc.pdf#page=10",
			want:   true,
		},
		{
			name:   "has_fragment yes without fragment",
			kind:   rule.KindFragment,
			value:  "yes",
			rawURL: "file:///doc.pdf",
			want:   false,
		},
		{
			name:   "has_fragment no without fragment",
			kind:   rule.KindFragment,
			value:  "no",
			rawURL: "file:///doc.pdf",
			want:   true,
		},
		{
			name:   "has_fragment arbitrary value means false",
			kind:   rule.KindFragment,
			value:  "maybe",
			rawURL: "file:///doc.pdf",
			want:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			u, err := url.Parse(tt.rawURL)
			require.NoError(t, err)

			c := rule.Criterion{Kind: tt.kind, Value: tt.value}
			assert.Equal(t, tt.want, c.Matches(u, tt.rawURL))
		})
	}
}

func TestCriterionMatchesEscapedPath(t *testing.T) {
	t.Parallel()

	// Criteria see the percent-encoded path, matching the form the URL was
	// written in.
	rawURL := "file:///tmp/a%20b.txt"
	u, err := url.Parse(rawURL)
	require.NoError(t, err)

	encoded := rule.Criterion{Kind: rule.KindFile, Value: "a%20b.txt"}
	assert.True(t, encoded.Matches(u, rawURL))

	decoded := rule.Criterion{Kind: rule.KindFile, Value: "a b.txt"}
	assert.False(t, decoded.Matches(u, rawURL))
}

func TestKindFromKey(t *testing.T) {
	t.Parallel()

	for key, want := range map[string]rule.Kind{
		"mime":         rule.KindMIME,
		"ext":          rule.KindExt,
		"protocol":     rule.KindProtocol,
		"file":         rule.KindFile,
		"path":         rule.KindPath,
		"url":          rule.KindURL,
		"has_fragment": rule.KindFragment,
	} {
		got, ok := rule.KindFromKey(key)
		require.True(t, ok, key)
		assert.Equal(t, want, got, key)
		assert.Equal(t, key, got.String())
	}

	_, ok := rule.KindFromKey("frag")
	assert.False(t, ok)
}
