package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// TomlSource implements Source over a decoded TOML document, the node
// bootstrap config format (spec.md's ambient config layer).
type TomlSource struct {
	data map[string]interface{}
}

// NewTomlSource decodes the TOML file at path into a TomlSource.
func NewTomlSource(path string) (*TomlSource, error) {
	var data map[string]interface{}
	if _, err := toml.DecodeFile(path, &data); err != nil {
		return nil, err
	}
	return &TomlSource{data: data}, nil
}

// EmptySource returns a Source with no keys defined, for callers that
// have no TOML file to merge in (e.g. an optional --config flag).
func EmptySource() Source {
	return &TomlSource{}
}

// Defined reports whether key (dot notation) resolves to a scalar value.
func (t *TomlSource) Defined(key string) bool {
	v, ok := lookup(t.data, key)
	if !ok {
		return false
	}
	_, isTable := v.(map[string]interface{})
	return !isTable
}

// String returns key's value formatted as a string, or "" if undefined.
func (t *TomlSource) String(key string) string {
	v, ok := lookup(t.data, key)
	if !ok {
		return ""
	}
	return fmt.Sprint(v)
}

// Sub returns a TomlSource scoped to the table under key.
func (t *TomlSource) Sub(key string) Source {
	v, ok := lookup(t.data, key)
	if !ok {
		return &TomlSource{data: map[string]interface{}{}}
	}
	sub, ok := v.(map[string]interface{})
	if !ok {
		return &TomlSource{data: map[string]interface{}{}}
	}
	return &TomlSource{data: sub}
}

func lookup(data map[string]interface{}, key string) (interface{}, bool) {
	parts := strings.Split(key, ".")
	cur := interface{}(data)
	for _, p := range parts {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		v, ok := m[p]
		if !ok {
			return nil, false
		}
		cur = v
	}
	if _, isTable := cur.(map[string]interface{}); isTable {
		return cur, true
	}
	return cur, true
}
