package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops image references",
			in:   "before ![logo](https://example.com/logo.png) after",
			want: "before after",
		},
		{
			name: "keeps link labels",
			in:   "see [the docs](https://example.com/docs) here",
			want: "see the docs here",
		},
		{
			name: "drops bare urls",
			in:   "visit https://example.com/page for info",
			want: "visit for info",
		},
		{
			name: "drops footnote markers",
			in:   "a claim[1] and another[^2]",
			want: "a claim and another",
		},
		{
			name: "drops footnote definitions",
			in:   "text\n[1]: the footnote body\nmore",
			want: "text\n\nmore",
		},
		{
			name: "strips blockquote markers",
			in:   "> quoted line\n>  another",
			want: "quoted line\n another",
		},
		{
			name: "unwraps bold and italic",
			in:   "**bold** and __also__ and *ital* and _unders_",
			want: "bold and also and ital and unders",
		},
		{
			name: "drops empty headings",
			in:   "## Title\n###\ntext",
			want: "## Title\n\ntext",
		},
		{
			name: "drops empty parens",
			in:   "call () now",
			want: "call now",
		},
		{
			name: "collapses blank lines",
			in:   "a\n\n\n\nb",
			want: "a\n\nb",
		},
		{
			name: "collapses horizontal whitespace",
			in:   "a  \t b",
			want: "a b",
		},
		{
			name: "trims edges",
			in:   "  \n body \n ",
			want: "body",
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

// TestCleanLinkLabelBeforeBareURL pins the rule ordering: the link rule must
// consume `[label](url)` before the bare-URL rule runs, otherwise the label
// would be corrupted.
func TestCleanLinkLabelBeforeBareURL(t *testing.T) {
	t.Parallel()

	got := Clean("![pic](https://example.com/p.png) and [label](https://example.com/x) and https://example.com/y end")
	assert.Equal(t, "and label and end", got)
}

func TestCleanIdempotent(t *testing.T) {
	t.Parallel()

	in := strings.Join([]string{
		"# Welcome",
		"",
		"![hero](https://example.com/hero.jpg)",
		"Intro with a [link](https://example.com/target) and bare https://example.com/bare.",
		"",
		"> A quote[1] with **bold** and *italics*.",
		"",
		"[1]: footnote text",
		"####",
		"",
		"",
		"Closing ().",
	}, "\n")

	once := Clean(in)
	twice := Clean(once)
	assert.Equal(t, once, twice)
}

func TestRenderArtifact(t *testing.T) {
	t.Parallel()

	got := string(RenderArtifact("http://example.com/a", "**hello**  world"))
	assert.Equal(t, "# http://example.com/a\n\nhello world\n", got)
}
