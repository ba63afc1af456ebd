package snapshot

import (
	"fmt"
	"strings"

	"github.com/fogleman/gg"
	"golang.org/x/net/html"
)

// captionLines extracts the visible text of a caption, one entry per
// paragraph, list item or hard line break
func captionLines(captionHTML string) ([]string, error) {
	if strings.TrimSpace(captionHTML) == "" {
		return nil, nil
	}

	nodes, err := html.ParseFragment(strings.NewReader(captionHTML), &html.Node{
		Type: html.ElementNode,
		Data: "div",
	})
	if err != nil {
		return nil, fmt.Errorf("parsing caption HTML: %w", err)
	}

	var lines []string
	var current strings.Builder
	flush := func() {
		if line := strings.Join(strings.Fields(current.String()), " "); line != "" {
			lines = append(lines, line)
		}
		current.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			current.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "br" {
				flush()
				return
			}
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}

		if n.Type == html.ElementNode && isBlock(n.Data) {
			flush()
		}
	}

	for _, n := range nodes {
		walk(n)
	}
	flush()

	return lines, nil
}

func isBlock(tag string) bool {
	switch tag {
	case "p", "li", "blockquote", "ul", "ol", "div":
		return true
	}
	return false
}

// wrapText wraps text to fit within maxWidth at the context's current font
func wrapText(dc *gg.Context, text string, maxWidth float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		candidate := line + " " + word
		if w, _ := dc.MeasureString(candidate); w > maxWidth {
			lines = append(lines, line)
			line = word
			continue
		}
		line = candidate
	}

	return append(lines, line)
}
