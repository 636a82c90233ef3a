package crawler

import (
	"regexp"
	"strings"
)

// The cleaning pipeline is order-sensitive: later rules assume earlier ones
// already removed the markup they would otherwise corrupt. In particular the
// bare-URL rule can only run after image and link references are gone, since
// it would otherwise eat the URL half of `[label](url)` and leave `[label](`
// behind. Go's RE2 engine has no backreferences, so the emphasis unwrapping
// runs one pattern per marker pair instead of the `(\*\*|__)(.*?)\1` form.
var (
	imageRefRe     = regexp.MustCompile(`!\[[^\]]*\]\(https?://[^)]+\)`)
	linkRefRe      = regexp.MustCompile(`\[([^\]]+)\]\(https?://[^)]+\)`)
	bareURLRe      = regexp.MustCompile(`https?://\S+`)
	footnoteRefRe  = regexp.MustCompile(`\[\^?\d+\]`)
	footnoteDefRe  = regexp.MustCompile(`(?m)^\[\^?\d+\]:\s?.*$`)
	blockquoteRe   = regexp.MustCompile(`(?m)^\s{0,3}>\s?`)
	boldStarRe     = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnderRe    = regexp.MustCompile(`__(.*?)__`)
	italicStarRe   = regexp.MustCompile(`\*(.*?)\*`)
	italicUnderRe  = regexp.MustCompile(`_(.*?)_`)
	emptyHeadingRe = regexp.MustCompile(`(?m)^\s*#+\s*$`)
	emptyParensRe  = regexp.MustCompile(`\(\)`)
	blankLinesRe   = regexp.MustCompile(`\n\s*\n+`)
	horizontalWSRe = regexp.MustCompile(`[ \t]+`)
)

// Clean strips a markdown document down to plain prose: images, bare URLs,
// footnotes, blockquote markers, and emphasis markup are removed, link
// references are replaced by their visible label, empty headings and leftover
// empty parentheses are dropped, and whitespace is collapsed.
// Clean is idempotent: applying it to its own output is a no-op.
func Clean(md string) string {
	md = imageRefRe.ReplaceAllString(md, "")
	md = linkRefRe.ReplaceAllString(md, "$1")
	md = bareURLRe.ReplaceAllString(md, "")
	// Definition lines go first: once the inline rule strips their leading
	// [n] marker they are no longer recognizable as definitions.
	md = footnoteDefRe.ReplaceAllString(md, "")
	md = footnoteRefRe.ReplaceAllString(md, "")
	md = blockquoteRe.ReplaceAllString(md, "")
	md = boldStarRe.ReplaceAllString(md, "$1")
	md = boldUnderRe.ReplaceAllString(md, "$1")
	md = italicStarRe.ReplaceAllString(md, "$1")
	md = italicUnderRe.ReplaceAllString(md, "$1")
	md = emptyHeadingRe.ReplaceAllString(md, "")
	md = emptyParensRe.ReplaceAllString(md, "")
	md = blankLinesRe.ReplaceAllString(md, "\n\n")
	md = horizontalWSRe.ReplaceAllString(md, " ")
	return strings.TrimSpace(md)
}

// RenderArtifact produces the content written to the sink for one page:
// a title line with the source URL, a blank line, then the cleaned body.
func RenderArtifact(pageURL, body string) []byte {
	var sb strings.Builder
	sb.WriteString("# ")
	sb.WriteString(pageURL)
	sb.WriteString("\n\n")
	sb.WriteString(Clean(body))
	sb.WriteString("\n")
	return []byte(sb.String())
}
