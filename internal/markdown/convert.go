// Package markdown converts page HTML into Markdown and plain-text snippets
// for tool responses.
package markdown

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
)

// Converter defines the interface for HTML-to-Markdown conversion.
type Converter interface {
	// Initialize prepares the converter for use.
	Initialize() error

	// Convert converts an HTML document to Markdown.
	Convert(html string) (string, error)
}

// HTMLConverter is the default Converter implementation.
type HTMLConverter struct {
	conv *md.Converter
}

// NewHTMLConverter creates a new HTMLConverter instance.
func NewHTMLConverter() *HTMLConverter {
	return &HTMLConverter{}
}

// Initialize prepares the underlying converter.
func (c *HTMLConverter) Initialize() error {
	c.conv = md.NewConverter("", true, nil)
	return nil
}

// Convert converts an HTML document to Markdown. The document is cleaned
// first so scripts, styles, and embedded noise never leak into the output.
func (c *HTMLConverter) Convert(html string) (string, error) {
	if c.conv == nil {
		c.conv = md.NewConverter("", true, nil)
	}

	cleaned, err := CleanHTML(html, maxCleanLength)
	if err != nil {
		// Fall back to converting the raw document
		return c.conv.ConvertString(html)
	}

	out, err := c.conv.ConvertString(cleaned.HTML)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// maxCleanLength bounds how much page text is retained before conversion.
const maxCleanLength = 100000

// Snippet truncates text to at most n runes, appending an ellipsis when
// content was cut. Matches the snippet shape of validate_page responses.
func Snippet(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}

// ContainsFold reports whether text contains needle, case-insensitively.
func ContainsFold(text, needle string) bool {
	return strings.Contains(strings.ToLower(text), strings.ToLower(needle))
}
