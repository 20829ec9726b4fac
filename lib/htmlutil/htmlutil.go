package htmlutil

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// GetText concatenates every text node under `node`, in document order.
func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// CellTexts returns the text of every node in `sel`, trimmed of surrounding
// whitespace (including non-breaking spaces).
func CellTexts(sel *goquery.Selection) []string {
	texts := make([]string, len(sel.Nodes))
	for i, n := range sel.Nodes {
		texts[i] = strings.TrimSpace(GetText(n))
	}
	return texts
}
