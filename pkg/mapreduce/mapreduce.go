// Package mapreduce aggregates keyword counts across a batch of snapshots.
package mapreduce

import (
	"fmt"
	"io"
	"strings"

	"github.com/dtnitsch/llm-product-parser/models"
	"github.com/dtnitsch/llm-product-parser/pkg/analytics"
)

// Map generates a word frequency map for a single snapshot. Product name and
// features are counted alongside the clean text.
func Map(snap *models.PageSnapshot) map[string]int {
	var b strings.Builder
	b.WriteString(snap.CleanText)
	b.WriteByte(' ')
	b.WriteString(snap.Product.Name)
	for _, f := range snap.Content.Features {
		b.WriteByte(' ')
		b.WriteString(f)
	}
	return analytics.WordFrequency(b.String())
}

// Reduce aggregates a slice of word frequency maps into a single map.
func Reduce(intermediate []map[string]int) map[string]int {
	finalResults := make(map[string]int)

	for _, counts := range intermediate {
		for word, count := range counts {
			finalResults[word] += count
		}
	}

	return finalResults
}

// isValidKeyword drops tokens with unbalanced delimiters or quotes.
func isValidKeyword(word string) bool {
	if strings.Contains(word, "(") != strings.Contains(word, ")") {
		return false
	}
	if strings.Contains(word, "[") != strings.Contains(word, "]") {
		return false
	}
	return strings.Count(word, "\"")%2 == 0
}

// TopKeywords returns the top n keywords formatted as "word:count".
func TopKeywords(wordCounts map[string]int, n int) []string {
	valid := make(map[string]int, len(wordCounts))
	for k, v := range wordCounts {
		if isValidKeyword(k) {
			valid[k] = v
		}
	}

	ranked := analytics.Rank(valid, n)
	keywords := make([]string, len(ranked))
	for i, wc := range ranked {
		keywords[i] = fmt.Sprintf("%s:%d", wc.Word, wc.Count)
	}
	return keywords
}

// PrintTopKeywords writes the top n keywords as a numbered list.
func PrintTopKeywords(w io.Writer, wordCounts map[string]int, n int) {
	for i, kw := range TopKeywords(wordCounts, n) {
		word, count, _ := strings.Cut(kw, ":")
		fmt.Fprintf(w, "%d. %s: %s\n", i+1, word, count)
	}
}
