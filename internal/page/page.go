// Package page loads the content of a saved order page: its HTML, the URL
// it was captured from, its title and its domain.
package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ErrUnreadable is returned when no page content can be read.
var ErrUnreadable = errors.New("cannot read page content")

// Content is a captured page.
type Content struct {
	HTML   string `json:"html"`
	URL    string `json:"url"`
	Title  string `json:"title,omitempty"`
	Domain string `json:"domain,omitempty"`
}

// Load reads a saved page from path. pageURL may be empty, in which case the
// page's canonical link is used when it has one.
func Load(path, pageURL string) (*Content, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	return Parse(bytes.NewReader(b), pageURL)
}

// Parse reads page content from r.
func Parse(r io.Reader, pageURL string) (*Content, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrUnreadable)
	}

	doc, err := html.Parse(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadable, err)
	}

	c := &Content{HTML: string(b), URL: strings.TrimSpace(pageURL)}
	var canonical string
	walk(doc, func(n *html.Node) {
		switch n.DataAtom {
		case atom.Title:
			if c.Title == "" {
				c.Title = strings.Join(strings.Fields(text(n)), " ")
			}
		case atom.Link:
			if canonical == "" && strings.EqualFold(attr(n, "rel"), "canonical") {
				canonical = strings.TrimSpace(attr(n, "href"))
			}
		}
	})
	if c.URL == "" {
		c.URL = canonical
	}
	c.Domain = domain(c.URL)
	return c, nil
}

func walk(n *html.Node, visit func(*html.Node)) {
	if n.Type == html.ElementNode {
		visit(n)
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		walk(child, visit)
	}
}

func text(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// domain returns the host of rawURL without a "www." prefix.
func domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
