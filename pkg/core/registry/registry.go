// Package registry holds the metric -> tag alias mapping used by the XBRL value extractor.
//
// The registry is loaded once at startup and is read-only afterwards. It is passed explicitly
// into the extractors; there is no package-level registry state.
package registry

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v2"
)

//go:embed builtin.hjson
var builtinConfig []byte

// Registry is an immutable mapping from canonical metric name to an ordered list of tag aliases.
// Alias order encodes priority. Aliases of different metrics may overlap.
type Registry struct {
	metrics []string
	aliases map[string][]string
}

// New builds a registry from a metric -> aliases map. A map carries no order, so metrics
// iterate in name order; files loaded through Load keep the order they are written in.
func New(mapping map[string][]string) *Registry {
	metrics := make([]string, 0, len(mapping))
	for metric := range mapping {
		metrics = append(metrics, metric)
	}
	sort.Strings(metrics)
	return newOrdered(metrics, mapping)
}

// newOrdered builds a registry whose metrics iterate in the given order.
// Aliases are trimmed, empty entries dropped and duplicates removed while keeping first-seen order.
func newOrdered(metrics []string, mapping map[string][]string) *Registry {
	r := &Registry{aliases: make(map[string][]string, len(mapping))}
	for _, key := range metrics {
		metric := strings.TrimSpace(key)
		if metric == "" {
			continue
		}
		list := mapping[key]
		seen := make(map[string]bool, len(list))
		clean := make([]string, 0, len(list))
		for _, a := range list {
			a = strings.TrimSpace(a)
			if a == "" || seen[a] {
				continue
			}
			seen[a] = true
			clean = append(clean, a)
		}
		if _, dup := r.aliases[metric]; !dup {
			r.metrics = append(r.metrics, metric)
		}
		r.aliases[metric] = clean
	}
	return r
}

// Empty returns a registry with no metrics; every extraction against it yields an empty record.
func Empty() *Registry {
	return New(nil)
}

// Builtin returns the registry compiled into the binary.
func Builtin() *Registry {
	r, err := Parse(builtinConfig, ".hjson")
	if err != nil {
		// The embedded file is part of the build; failing here is a programming error.
		panic(fmt.Sprintf("registry: invalid builtin config: %v", err))
	}
	return r
}

// Metrics returns the metric names in iteration order.
func (r *Registry) Metrics() []string {
	if r == nil {
		return nil
	}
	return append([]string(nil), r.metrics...)
}

// Aliases returns a copy of the alias list for a metric (nil if unknown).
func (r *Registry) Aliases(metric string) []string {
	if r == nil {
		return nil
	}
	list, ok := r.aliases[metric]
	if !ok {
		return nil
	}
	return append([]string(nil), list...)
}

// Len returns the number of registered metrics.
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.metrics)
}

// =============================================================================
// LOADING
// =============================================================================

// Load reads a registry file. The format follows the extension:
// .yaml/.yml (YAML), .hjson (Hjson), anything else JSON with repair and Hjson fallbacks.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tag registry %s: %w", path, err)
	}
	return Parse(data, strings.ToLower(filepath.Ext(path)))
}

// LoadOrEmpty loads a registry and degrades to an empty one when the file is missing or malformed.
// An empty path selects the builtin registry.
func LoadOrEmpty(path string) *Registry {
	if path == "" {
		return Builtin()
	}
	r, err := Load(path)
	if err != nil {
		log.Warn().Err(err).Str("Path", path).Msg("tag registry unavailable, every metric will resolve to 0")
		return Empty()
	}
	log.Debug().Str("Path", path).Int("Metrics", r.Len()).Msg("loaded tag registry")
	return r
}

// Parse decodes registry content according to the given file extension.
// Metrics keep the order in which the file lists them.
func Parse(data []byte, ext string) (*Registry, error) {
	switch ext {
	case ".yaml", ".yml":
		return parseYAML(data)
	case ".hjson":
		return parseHJSON(data)
	default:
		return parseJSON(data)
	}
}

// parseJSON tries strict JSON, then json-repair, then Hjson as the most lenient reader.
func parseJSON(data []byte) (*Registry, error) {
	if keys, raw, err := decodeJSON(data); err == nil {
		return fromRaw(keys, raw)
	}

	if repaired, err := jsonrepair.RepairJSON(string(data)); err == nil {
		if keys, raw, err := decodeJSON([]byte(repaired)); err == nil {
			log.Warn().Msg("tag registry was malformed JSON and has been repaired")
			return fromRaw(keys, raw)
		}
	}

	return parseHJSON(data)
}

// decodeJSON decodes a JSON object and lists its top-level keys in document order.
func decodeJSON(data []byte) ([]string, map[string]interface{}, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, nil, err
	}
	if raw == nil {
		return nil, nil, fmt.Errorf("tag registry is not an object")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if _, err := dec.Token(); err != nil {
		return nil, nil, err
	}
	keys := make([]string, 0, len(raw))
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		key, _ := tok.(string)
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, nil, err
		}
	}
	return keys, raw, nil
}

func parseHJSON(data []byte) (*Registry, error) {
	var om hjson.OrderedMap
	if err := hjson.Unmarshal(data, &om); err != nil {
		return nil, fmt.Errorf("failed to parse tag registry: %w", err)
	}
	if om.Map == nil {
		return nil, fmt.Errorf("tag registry is empty or not an object")
	}
	return fromRaw(om.Keys, om.Map)
}

func parseYAML(data []byte) (*Registry, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse YAML tag registry: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("tag registry is empty or not an object")
	}
	keys := make([]string, 0, len(doc))
	raw := make(map[string]interface{}, len(doc))
	for _, item := range doc {
		key := fmt.Sprint(item.Key)
		if _, dup := raw[key]; !dup {
			keys = append(keys, key)
		}
		raw[key] = item.Value
	}
	return fromRaw(keys, raw)
}

// fromRaw converts a decoded document into a registry with metrics in keys order.
// A metric may map to a list of aliases or a single alias string.
func fromRaw(keys []string, raw map[string]interface{}) (*Registry, error) {
	if raw == nil {
		return nil, fmt.Errorf("tag registry is empty or not an object")
	}
	mapping := make(map[string][]string, len(raw))
	for _, metric := range keys {
		v, ok := raw[metric]
		if !ok {
			continue
		}
		switch val := v.(type) {
		case string:
			mapping[metric] = []string{val}
		case []interface{}:
			list := make([]string, 0, len(val))
			for i, item := range val {
				s, ok := item.(string)
				if !ok {
					return nil, fmt.Errorf("metric %q: alias %d is %T, want string", metric, i, item)
				}
				list = append(list, s)
			}
			mapping[metric] = list
		case nil:
			mapping[metric] = nil
		default:
			return nil, fmt.Errorf("metric %q: aliases must be a list, got %T", metric, v)
		}
	}
	return newOrdered(keys, mapping), nil
}
