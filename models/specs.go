package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Spec is one specification key with every value seen for it, in order.
type Spec struct {
	Key    string
	Values []string
}

// Value renders the spec value: a single value as-is, repeats joined by ", ".
func (s Spec) Value() string {
	return strings.Join(s.Values, ", ")
}

// Specifications is an insertion-ordered key → value(s) mapping. It
// serializes as a JSON object whose values are strings, or lists of strings
// for keys that appeared more than once.
type Specifications []Spec

// Add records a key/value pair. A repeated key accumulates into a list.
func (s Specifications) Add(key, value string) Specifications {
	for i := range s {
		if s[i].Key == key {
			s[i].Values = append(s[i].Values, value)
			return s
		}
	}
	return append(s, Spec{Key: key, Values: []string{value}})
}

// Get returns the values recorded for key.
func (s Specifications) Get(key string) ([]string, bool) {
	for _, spec := range s {
		if spec.Key == key {
			return spec.Values, true
		}
	}
	return nil, false
}

func (s Specifications) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, spec := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(spec.Key)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		var val []byte
		if len(spec.Values) == 1 {
			val, err = json.Marshal(spec.Values[0])
		} else {
			val, err = json.Marshal(spec.Values)
		}
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *Specifications) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*s = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("specifications: expected object, got %v", tok)
	}

	out := Specifications{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var single string
		if err := json.Unmarshal(raw, &single); err == nil {
			out = append(out, Spec{Key: key, Values: []string{single}})
			continue
		}
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return fmt.Errorf("specifications: value for %q: %w", key, err)
		}
		out = append(out, Spec{Key: key, Values: many})
	}
	*s = out
	return nil
}

func (s Specifications) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, spec := range s {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: spec.Key}
		var valNode yaml.Node
		var err error
		if len(spec.Values) == 1 {
			err = valNode.Encode(spec.Values[0])
		} else {
			err = valNode.Encode(spec.Values)
		}
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, &valNode)
	}
	return node, nil
}
