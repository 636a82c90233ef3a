package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{name: "root page", url: "http://example.com/", want: "example_com_index.md"},
		{name: "nested path", url: "http://example.com/docs/intro.html", want: "example_com_docs_intro_html.md"},
		{
			name: "query folded in",
			url:  "http://example.com/search?q=go&page=2",
			want: "example_com_search_q_go_page_2.md",
		},
		{name: "hostile characters", url: "http://example.com/a|b?x=<y>", want: "example_com_a_b_x_y.md"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, FileName(tt.url))
		})
	}
}

func TestFileNameDeterministic(t *testing.T) {
	t.Parallel()

	const raw = "http://example.com/some/page?id=42"
	assert.Equal(t, FileName(raw), FileName(raw))
}

func TestFileNameDistinctPaths(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, FileName("http://example.com/a"), FileName("http://example.com/b"))
	assert.NotEqual(t, FileName("http://example.com/a?x=1"), FileName("http://example.com/a?x=2"))
}

func TestFileNameTruncatesQuery(t *testing.T) {
	t.Parallel()

	long := "http://example.com/p?" + strings.Repeat("k=v&", 40)
	name := FileName(long)
	assert.LessOrEqual(t, len(name), 150)
	assert.True(t, strings.HasSuffix(name, ".md"))
}

func TestFileNameCapsLength(t *testing.T) {
	t.Parallel()

	long := "http://example.com/" + strings.Repeat("segment/", 50)
	name := FileName(long)
	require.LessOrEqual(t, len(name), 150)
	assert.True(t, strings.HasSuffix(name, ".md"))
}

func TestDirName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "example_com", DirName("http://example.com/deep/path?q=1"))
	assert.Equal(t, "docs_example_co_uk", DirName("https://docs.example.co.uk/"))
}

func TestDirNameDeterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DirName("http://example.com/x"), DirName("http://example.com/y"))
}

func TestMatchesExclusion(t *testing.T) {
	t.Parallel()

	tests := []struct {
		fileName string
		want     bool
	}{
		{fileName: "example_com_logo_png.md", want: true},
		{fileName: "example_com_photo_JPEG.md", want: true},
		{fileName: "example_com_manual_pdf.md", want: true},
		{fileName: "example_com_banner_webp.md", want: true},
		{fileName: "example_com_about.md", want: false},
		{fileName: "example_com_jpgish.md", want: true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, matchesExclusion(tt.fileName), tt.fileName)
	}
}
