package extractors

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ReadabilityRatio is the share of the raw text length the readability
// rendering must exceed to be chosen.
const ReadabilityRatio = 0.6

// Text strategies reported in CleanText.Strategy.
const (
	StrategyRaw         = "raw"
	StrategyReadability = "readability"
)

// CleanText is the chosen plain-text rendering of a page.
type CleanText struct {
	Text      string
	WordCount int
	Strategy  string

	// RawText is candidate (a), kept because trust detection reads it.
	RawText string
}

// RawText renders the document without script, style and noscript
// elements, whitespace-collapsed. It parses its own copy of the HTML.
func RawText(rawHTML string) string {
	root, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}
	removeElements(root, atom.Script, atom.Style, atom.Noscript)
	return nodeText(root)
}

// ReadableText renders the main content found by go-readability. An empty
// string means readability found nothing usable.
func ReadableText(rawHTML string, pageURL *url.URL) string {
	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(rawHTML), pageURL)
	if err != nil || article.Content == "" {
		return ""
	}
	root, err := html.Parse(strings.NewReader(article.Content))
	if err != nil {
		return ""
	}
	removeElements(root, atom.Script, atom.Style, atom.Noscript)
	return nodeText(root)
}

// SelectCleanText picks readable over raw only when readable is longer than
// ReadabilityRatio of raw, measured in characters.
func SelectCleanText(raw, readable string) (string, string) {
	if float64(utf8.RuneCountInString(readable)) > float64(utf8.RuneCountInString(raw))*ReadabilityRatio {
		return readable, StrategyReadability
	}
	return raw, StrategyRaw
}

// ExtractCleanText computes both candidates and returns the chosen one.
func ExtractCleanText(rawHTML string, pageURL *url.URL) CleanText {
	raw := RawText(rawHTML)
	text, strategy := SelectCleanText(raw, ReadableText(rawHTML, pageURL))
	text = collapseSpace(text)
	return CleanText{
		Text:      text,
		WordCount: len(strings.Fields(text)),
		Strategy:  strategy,
		RawText:   raw,
	}
}
