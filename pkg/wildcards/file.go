package wildcards

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extensions lists the file types the manager reads, in lookup order.
var Extensions = []string{".txt", ".yaml", ".yml", ".json"}

// File is one named wildcard backed by a file on disk. Structured files that
// hold a mapping contribute one File per key, named "<file>/<key>".
type File struct {
	Name   string
	Path   string
	Values []string
}

func supportedExt(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range Extensions {
		if ext == candidate {
			return true
		}
	}
	return false
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// parseFile reads a wildcard file and returns its values keyed by wildcard
// name. base is the slash separated name of the file without its extension.
func parseFile(path, base string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt":
		return map[string][]string{base: parseText(data)}, nil
	default:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("wildcards: parse %s: %w", path, err)
		}
		out := map[string][]string{}
		flatten(base, doc, out)
		return out, nil
	}
}

// parseText returns the trimmed non-blank lines that are not # comments.
func parseText(data []byte) []string {
	var values []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		values = append(values, line)
	}
	return values
}

func flatten(name string, node any, out map[string][]string) {
	switch v := node.(type) {
	case nil:
	case []any:
		for _, item := range v {
			if s, ok := scalar(item); ok {
				out[name] = append(out[name], s)
			}
		}
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			flatten(name+"/"+strings.TrimSpace(key), v[key], out)
		}
	default:
		if s, ok := scalar(v); ok {
			out[name] = append(out[name], s)
		}
	}
}

func scalar(v any) (string, bool) {
	switch s := v.(type) {
	case nil, []any, map[string]any:
		return "", false
	case string:
		s = strings.TrimSpace(s)
		return s, s != ""
	default:
		return fmt.Sprint(s), true
	}
}
