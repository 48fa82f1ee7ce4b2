package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/fintrack/market"
	md "github.com/nao1215/markdown"
)

// NewsMarkdown renders headlines as a list of links.
func NewsMarkdown(headlines []market.Headline) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Market News")
	if len(headlines) == 0 {
		doc.PlainText("No news available.")
		return doc.String()
	}
	items := make([]string, 0, len(headlines))
	for _, h := range headlines {
		items = append(items, fmt.Sprintf("%s (%s)", md.Link(h.Title, h.URL), h.Source))
	}
	doc.BulletList(items...)
	return doc.String()
}
