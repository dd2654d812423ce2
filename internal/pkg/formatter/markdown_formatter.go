package formatter

import (
	"bytes"
	"fmt"
	"strings"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

func (mf *MarkdownFormatter) Format(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n\n", doc.Title)

	for _, line := range doc.Summary {
		fmt.Fprintf(&buf, "%s\n\n", line)
	}

	for _, s := range doc.Sections {
		fence := codeFence(s.Body)
		fmt.Fprintf(&buf, "## %s\n\n%s%s\n%s\n%s\n\n", s.Heading, fence, s.Language, strings.TrimRight(s.Body, "\n"), fence)
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}

// codeFence returns a backtick run longer than any run inside body
func codeFence(body string) string {
	longest, run := 0, 0
	for _, r := range body {
		if r == '`' {
			run++
			longest = max(longest, run)
			continue
		}
		run = 0
	}
	return strings.Repeat("`", max(3, longest+1))
}
