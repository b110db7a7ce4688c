package common

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
)

func TestSanitizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace", "  https://shop.example.com/p/1 \n", "https://shop.example.com/p/1"},
		{"trailing punctuation", "https://shop.example.com/p/1,", "https://shop.example.com/p/1"},
		{"markdown link", "[Mouse](https://shop.example.com/p/1)", "https://shop.example.com/p/1"},
		{"angle brackets", "<https://shop.example.com/p/1>", "https://shop.example.com/p/1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeURL(tt.in); got != tt.want {
				t.Errorf("SanitizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSanitizeAndValidateURLs(t *testing.T) {
	good, bad := SanitizeAndValidateURLs([]string{
		"https://shop.example.com/p/1",
		" http://127.0.0.1:8080/p/2.",
		"https://example.com{}",
		"shop.example.com/p/3",
		"https://has space.com",
	})

	if !reflect.DeepEqual(good, []string{"https://shop.example.com/p/1", "http://127.0.0.1:8080/p/2"}) {
		t.Errorf("sanitized = %v", good)
	}
	if len(bad) != 3 {
		t.Errorf("invalid = %v, want 3 entries", bad)
	}
}

func TestSplitURLs(t *testing.T) {
	got := SplitURLs(" https://a.example.com, ,https://b.example.com ,")
	want := []string{"https://a.example.com", "https://b.example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SplitURLs() = %v, want %v", got, want)
	}
	if SplitURLs("") != nil {
		t.Error("empty input should give no URLs")
	}
}

func TestWriteOutput(t *testing.T) {
	v := map[string]any{"name": "Mouse <X200>", "price": 1999}

	var buf bytes.Buffer
	if err := WriteOutput(&buf, v, "json"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"name": "Mouse <X200>"`) {
		t.Errorf("json output = %s", buf.String())
	}

	buf.Reset()
	if err := WriteOutput(&buf, v, "YAML"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "price: 1999") {
		t.Errorf("yaml output = %s", buf.String())
	}

	if err := WriteOutput(&buf, v, "xml"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestContentHash(t *testing.T) {
	if got := ContentHash([]byte("abc")); got != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("ContentHash() = %s", got)
	}
}
