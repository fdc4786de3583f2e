package markdown

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// CleanedHTML holds cleaned page HTML with metadata.
type CleanedHTML struct {
	HTML      string
	Title     string
	Truncated bool
}

// CleanHTML strips script/style noise from raw page HTML while preserving
// semantic structure and the attributes useful for element targeting. The
// cleaned output is what gets converted to Markdown or handed back to the
// client for inspection.
func CleanHTML(rawHTML string, maxLength int) (*CleanedHTML, error) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	result := &CleanedHTML{Title: extractTitle(doc)}

	var builder strings.Builder
	var currentLength int
	result.Truncated = cleanNode(doc, &builder, &currentLength, maxLength)

	result.HTML = builder.String()
	return result, nil
}

// cleanNode recursively processes HTML nodes, removing unwanted elements.
// It returns true once output has been truncated at maxLength.
func cleanNode(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int) bool {
	if *currentLength >= maxLength {
		return true
	}

	if n.Type == html.CommentNode {
		return false
	}

	if n.Type == html.ElementNode && isSkippedElement(strings.ToLower(n.Data)) {
		return false
	}

	if n.Type == html.TextNode {
		return writeText(n.Data, builder, currentLength, maxLength)
	}

	if n.Type == html.ElementNode {
		return writeElement(n, builder, currentLength, maxLength)
	}

	return cleanChildren(n, builder, currentLength, maxLength)
}

func writeText(data string, builder *strings.Builder, currentLength *int, maxLength int) bool {
	text := strings.TrimSpace(data)
	if text == "" {
		return false
	}

	if *currentLength+len(text) > maxLength {
		remaining := maxLength - *currentLength
		builder.WriteString(text[:remaining])
		builder.WriteString("...")
		*currentLength = maxLength
		return true
	}

	builder.WriteString(text)
	*currentLength += len(text)
	return false
}

func writeElement(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int) bool {
	tagName := strings.ToLower(n.Data)

	if isBlockElement(tagName) {
		builder.WriteString("\n")
	}

	builder.WriteString("<")
	builder.WriteString(tagName)
	for _, attr := range n.Attr {
		if shouldPreserveAttribute(tagName, attr.Key) {
			fmt.Fprintf(builder, ` %s="%s"`, attr.Key, html.EscapeString(attr.Val))
		}
	}
	builder.WriteString(">")
	*currentLength += len(tagName) + 2

	truncated := cleanChildren(n, builder, currentLength, maxLength)

	if !isVoidElement(tagName) {
		builder.WriteString("</")
		builder.WriteString(tagName)
		builder.WriteString(">")
		*currentLength += len(tagName) + 3
	}

	return truncated
}

func cleanChildren(n *html.Node, builder *strings.Builder, currentLength *int, maxLength int) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if cleanNode(c, builder, currentLength, maxLength) {
			return true
		}
	}
	return false
}

// isSkippedElement returns true for elements that should be removed entirely
func isSkippedElement(tagName string) bool {
	switch tagName {
	case "script", "style", "noscript", "iframe", "embed", "object", "svg":
		return true
	}
	return false
}

// isBlockElement returns true for block-level elements (used for formatting)
func isBlockElement(tagName string) bool {
	switch tagName {
	case "div", "p", "section", "article", "header", "footer", "nav", "main",
		"aside", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "li",
		"table", "tr", "td", "th", "form", "fieldset", "blockquote", "pre":
		return true
	}
	return false
}

// isVoidElement returns true for self-closing elements
func isVoidElement(tagName string) bool {
	switch tagName {
	case "area", "base", "br", "col", "embed", "hr", "img", "input",
		"link", "meta", "param", "source", "track", "wbr":
		return true
	}
	return false
}

// shouldPreserveAttribute returns true for attributes useful for targeting
// elements: the subset matches what inspect_page exposes to clients.
func shouldPreserveAttribute(tagName, attrName string) bool {
	attrName = strings.ToLower(attrName)

	switch attrName {
	case "id", "class", "type", "role", "placeholder", "aria-label", "title", "name", "value":
		return true
	}

	if strings.HasPrefix(attrName, "data-") {
		return true
	}

	switch tagName {
	case "a":
		return attrName == "href"
	case "img":
		return attrName == "src" || attrName == "alt"
	case "form":
		return attrName == "action" || attrName == "method"
	}
	return false
}

// extractTitle extracts the page title from the document
func extractTitle(doc *html.Node) string {
	var title string
	var traverse func(*html.Node)
	traverse = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
				title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			traverse(c)
			if title != "" {
				return
			}
		}
	}
	traverse(doc)
	return title
}
