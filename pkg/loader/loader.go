// Package loader parses JSON, YAML, NDJSON, TOML and JWT input into Go
// values. Mappings read from JSON and YAML keep their key order as an
// OrderedMap.
package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyInput is returned when there is nothing to parse.
var ErrEmptyInput = errors.New("empty input")

var (
	// TOML section headers: [server], [[items]], ["table name"], [database.credentials]
	tomlSectionPattern = regexp.MustCompile(`^\s*\[{1,2}(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\]{1,2}\s*$`)
	// TOML key = value (not key: value which is YAML)
	tomlKeyValuePattern = regexp.MustCompile(`^\s*(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+')+(?:\.(?:[a-zA-Z_][a-zA-Z0-9_-]*|"[^"]+"|'[^']+'))*\s*=\s*.+$`)
)

// LoadData parses input, auto-detecting its format, and returns one element
// per document. Detection order: JWT, multi-document YAML, NDJSON, TOML,
// JSON, YAML.
func LoadData(input string) ([]any, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, ErrEmptyInput
	}

	if IsJWT(input) {
		return loadJWT(input)
	}

	if strings.Contains(input, "\n---") || strings.HasPrefix(input, "---") {
		return loadMultiDocYAML(input)
	}

	lines := strings.Split(input, "\n")
	if len(lines) > 1 && isLikelyNDJSON(lines) {
		return loadNDJSON(lines)
	}

	// TOML [section] headers look like JSON arrays, so check TOML first.
	if isLikelyTOML(lines) {
		return loadTOML(input)
	}

	if strings.HasPrefix(input, "{") || strings.HasPrefix(input, "[") {
		if doc, err := decodeJSON(input); err == nil {
			return []any{doc}, nil
		}
	}

	return loadYAML(input)
}

// LoadRoot parses input into a single root node. Multi-document inputs are
// returned as a slice.
func LoadRoot(input string) (any, error) {
	docs, err := LoadData(input)
	if err != nil {
		return nil, err
	}
	if len(docs) == 1 {
		return docs[0], nil
	}
	return docs, nil
}

// LoadReader reads r to the end and parses it with LoadRoot.
func LoadReader(r io.Reader) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return LoadRoot(string(data))
}

// LoadFile reads a file and parses it with LoadRoot.
func LoadFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadRoot(string(data))
}

// decodeJSON parses exactly one JSON value, keeping object key order.
func decodeJSON(input string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(input))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid JSON: trailing data after value")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			m := OrderedMap{}
			for dec.More() {
				kt, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := kt.(string)
				if !ok {
					return nil, fmt.Errorf("object key %v is not a string", kt)
				}
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				m.Set(key, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		case '[':
			arr := []any{}
			for dec.More() {
				v, err := decodeJSONValue(dec)
				if err != nil {
					return nil, err
				}
				arr = append(arr, v)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return arr, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i, nil
		}
		return t.Float64()
	default:
		// string, bool or nil
		return t, nil
	}
}

// loadYAML parses a single YAML document.
func loadYAML(input string) ([]any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(input), &doc); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	v, err := nodeToValue(&doc)
	if err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	return []any{v}, nil
}

// loadMultiDocYAML parses YAML with multiple documents separated by ---.
// Empty documents are skipped.
func loadMultiDocYAML(input string) ([]any, error) {
	var results []any
	decoder := yaml.NewDecoder(strings.NewReader(input))

	for {
		var doc yaml.Node
		if err := decoder.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		v, err := nodeToValue(&doc)
		if err != nil {
			return nil, fmt.Errorf("invalid multi-document YAML: %w", err)
		}
		if v != nil {
			results = append(results, v)
		}
	}

	if len(results) == 0 {
		return nil, errors.New("no documents found in multi-document YAML")
	}
	return results, nil
}

// nodeToValue converts a YAML node tree into Go values, building
// OrderedMaps for mappings. Duplicate keys keep their first position and
// last value.
func nodeToValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case 0:
		// comment-only or empty document
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return nodeToValue(n.Content[0])
	case yaml.MappingNode:
		m := make(OrderedMap, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			keyNode, valNode := n.Content[i], n.Content[i+1]
			if keyNode.Kind == yaml.ScalarNode && keyNode.ShortTag() == "!!merge" {
				if err := mergeInto(&m, valNode); err != nil {
					return nil, err
				}
				continue
			}
			key := keyNode.Value
			if keyNode.Kind != yaml.ScalarNode {
				k, err := nodeToValue(keyNode)
				if err != nil {
					return nil, err
				}
				key = fmt.Sprint(k)
			}
			val, err := nodeToValue(valNode)
			if err != nil {
				return nil, err
			}
			m.Set(key, val)
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := nodeToValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var val any
		if err := n.Decode(&val); err != nil {
			return n.Value, nil
		}
		return val, nil
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil, nil
		}
		return nodeToValue(n.Alias)
	default:
		return nil, fmt.Errorf("unsupported YAML node kind %d", n.Kind)
	}
}

// mergeInto applies a "<<" merge key. Keys already present win.
func mergeInto(m *OrderedMap, n *yaml.Node) error {
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, src := range sources {
		v, err := nodeToValue(src)
		if err != nil {
			return err
		}
		om, ok := v.(OrderedMap)
		if !ok {
			return errors.New("merge key value is not a mapping")
		}
		for _, item := range om {
			if _, exists := m.Get(item.Key); !exists {
				m.Set(item.Key, item.Value)
			}
		}
	}
	return nil
}

// loadNDJSON parses newline-delimited JSON. Lines that are not valid JSON
// are kept as plain strings.
func loadNDJSON(lines []string) ([]any, error) {
	results := make([]any, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		obj, err := decodeJSON(line)
		if err != nil {
			results = append(results, line)
			continue
		}
		results = append(results, obj)
	}
	if len(results) == 0 {
		return nil, errors.New("no data found in input")
	}
	return results, nil
}

// isLikelyNDJSON reports whether a majority of the non-empty lines start
// with '{' or '['. YAML with many bare list items stays YAML.
func isLikelyNDJSON(lines []string) bool {
	jsonCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		nonEmptyCount++
		if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
			jsonCount++
		}
	}
	return nonEmptyCount > 1 && jsonCount > nonEmptyCount/2
}

// isLikelyTOML reports whether the input has TOML section headers or is
// mostly key = value lines.
func isLikelyTOML(lines []string) bool {
	sectionCount := 0
	keyValueCount := 0
	nonEmptyCount := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		nonEmptyCount++
		if tomlSectionPattern.MatchString(line) {
			sectionCount++
		}
		if tomlKeyValuePattern.MatchString(line) {
			keyValueCount++
		}
	}
	if sectionCount > 0 {
		return true
	}
	return nonEmptyCount > 0 && keyValueCount > nonEmptyCount/2
}

// loadTOML parses TOML content. go-toml does not expose key order, so
// tables come back as plain maps.
func loadTOML(input string) ([]any, error) {
	var data map[string]any
	if err := toml.Unmarshal([]byte(input), &data); err != nil {
		return nil, fmt.Errorf("invalid TOML: %w", err)
	}
	return []any{data}, nil
}
