// Package extractors turns a parsed HTML document into commerce facts.
//
// Every extractor is a pure function of the document (and, where noted, the
// source URL or the clean text). None of them mutate the document, so they
// can run in any order.
package extractors

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// hasAncestor reports whether any ancestor element of n is one of kinds.
func hasAncestor(n *html.Node, kinds ...atom.Atom) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		for _, k := range kinds {
			if p.DataAtom == k {
				return true
			}
		}
	}
	return false
}

func selectionHasAncestor(s *goquery.Selection, kinds ...atom.Atom) bool {
	if s.Length() == 0 {
		return false
	}
	return hasAncestor(s.Get(0), kinds...)
}

// nodeText joins the trimmed text nodes under n with single spaces.
// Comments are skipped; script and style bodies are not (callers remove them).
func nodeText(n *html.Node) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return collapseSpace(strings.Join(parts, " "))
}

// selectionText is nodeText over every node of the selection.
func selectionText(s *goquery.Selection) string {
	parts := make([]string, 0, s.Length())
	for _, n := range s.Nodes {
		if t := nodeText(n); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// collapseSpace trims s and folds every whitespace run into one space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// removeElements detaches every element of the given kinds from the tree.
func removeElements(root *html.Node, kinds ...atom.Atom) {
	var doomed []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			for _, k := range kinds {
				if n.DataAtom == k {
					doomed = append(doomed, n)
					return
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	for _, n := range doomed {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
}
