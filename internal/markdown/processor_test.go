package markdown

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/snipdocs-go/internal/domain"
	"github.com/quantmind-br/snipdocs-go/internal/grouping"
	"github.com/quantmind-br/snipdocs-go/internal/version"
)

func snippet(key, ver, lang, value string) domain.Snippet {
	s := domain.Snippet{Key: key, Language: lang, Value: value}
	if ver != "" {
		r := version.MustParseRange(ver)
		s.Version = &r
	}
	return s
}

func newProcessor(t *testing.T, snippets ...domain.Snippet) *Processor {
	t.Helper()
	groups, err := grouping.Group(snippets)
	require.NoError(t, err)
	return NewProcessor(groups)
}

func TestProcessor_VersionedGroup(t *testing.T) {
	p := newProcessor(t,
		snippet("foo", "2.0", "cs", "Two();"),
		snippet("foo", "1.0", "cs", "One();"),
	)

	res, err := p.ApplyToText("# Title\n<!-- import foo -->\nafter\n")
	require.NoError(t, err)

	want := "# Title\n" +
		"<!-- import foo -->\n" +
		"#### Version 1.0\n" +
		"```cs\nOne();\n```\n" +
		"#### Version 2.0\n" +
		"```cs\nTwo();\n```\n" +
		"after"
	assert.Equal(t, want, res.Text)
	assert.Empty(t, res.Missing)
	assert.Equal(t, []string{"foo"}, res.UsedKeys())
	assert.Equal(t, 2, strings.Count(res.Text, "#### Version"))
	assert.Less(t, strings.Index(res.Text, "1.0"), strings.Index(res.Text, "2.0"))
}

func TestProcessor_UnversionedHasNoHeader(t *testing.T) {
	p := newProcessor(t, snippet("foo", "", "go", "x := 1"))

	res, err := p.ApplyToText("<!-- import foo -->")
	require.NoError(t, err)
	assert.Equal(t, "<!-- import foo -->\n```go\nx := 1\n```", res.Text)
}

func TestProcessor_MissingKey(t *testing.T) {
	p := newProcessor(t, snippet("foo", "", "cs", "x"))

	res, err := p.ApplyToText("intro\n\n<!-- import bar -->\nend")
	require.NoError(t, err)
	require.Len(t, res.Missing, 1)
	assert.Equal(t, domain.MissingSnippet{Key: "bar", Line: 3}, res.Missing[0])
	assert.Contains(t, res.Text, "<!-- import bar -->\n** Could not find key 'bar' **\nend")
	assert.Empty(t, res.Used)
}

func TestProcessor_CaseInsensitiveKeyAndDedupedUsed(t *testing.T) {
	p := newProcessor(t, snippet("foo", "", "cs", "x"), snippet("baz", "", "cs", "y"))

	res, err := p.ApplyToText("<!-- import FOO -->\n<!-- IMPORT baz -->\n<!-- import foo -->\n")
	require.NoError(t, err)
	assert.Equal(t, []string{"foo", "baz"}, res.UsedKeys())
	assert.Equal(t, 2, strings.Count(res.Text, "```cs\nx\n```"))
}

func TestProcessor_TrimsOneTrailingNewline(t *testing.T) {
	p := newProcessor(t)

	tests := []struct {
		input string
		want  string
	}{
		{"a", "a"},
		{"a\n", "a"},
		{"a\n\n", "a\n"},
		{"", ""},
	}
	for _, tt := range tests {
		res, err := p.ApplyToText(tt.input)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Text, "input %q", tt.input)
	}
}

func TestProcessor_FencedContentNotRescanned(t *testing.T) {
	p := newProcessor(t, snippet("outer", "", "md", "<!-- import inner -->"))

	res, err := p.ApplyToText("<!-- import outer -->")
	require.NoError(t, err)
	assert.Empty(t, res.Missing)
	assert.Equal(t, []string{"outer"}, res.UsedKeys())
}

func TestProcessor_ApplyToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.source.md")
	require.NoError(t, os.WriteFile(path, []byte("<!-- import foo -->\n"), 0644))

	res, err := newProcessor(t, snippet("foo", "", "cs", "x")).ApplyToFile(path)
	require.NoError(t, err)
	assert.Contains(t, res.Text, "```cs")

	_, err = NewProcessor(nil).ApplyToFile(filepath.Join(t.TempDir(), "missing.md"))
	var readErr *domain.ReadError
	assert.ErrorAs(t, err, &readErr)
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		line string
		key  string
		ok   bool
	}{
		{"<!-- import foo -->", "foo", true},
		{"  <!--import   Foo-Bar-->  ", "foo-bar", true},
		{"<!-- Import key_1 -->", "key_1", true},
		{"<!-- startcode foo -->", "", false},
		{"text <!-- import foo -->", "", false},
		{"<!-- import -->", "", false},
		{"import foo", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d, ok := ParseDirective(tt.line, 7)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.key, d.Key)
			if ok {
				assert.Equal(t, 7, d.Line)
			}
		})
	}
}

