package config

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/template"
)

// BuildTargets resolves the full URL list: inline targets first, then the
// target file, then every grid expansion in declaration order.
//
// Duplicates are kept; each occurrence is probed and reported separately.
func BuildTargets(cfg *Config) ([]string, error) {
	targets := append([]string(nil), cfg.Targets...)

	if path := cfg.TargetFilePath(); path != "" {
		fromFile, err := LoadTargetFile(path)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}

	for i, gc := range cfg.Grids {
		urls, err := expandGrid(gc)
		if err != nil {
			return nil, fmt.Errorf("grids[%d]: %w", i, err)
		}
		targets = append(targets, urls...)
	}

	return targets, nil
}

// LoadTargetFile reads one URL per line from path.
func LoadTargetFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open target file: %w", err)
	}
	defer func() { _ = f.Close() }()

	targets, err := ReadTargets(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read target file %s: %w", path, err)
	}
	return targets, nil
}

// ReadTargets parses a URL list: one entry per line, surrounding whitespace
// trimmed, blank lines and lines starting with # skipped. Entries are not
// validated; a malformed URL surfaces as a failed probe.
func ReadTargets(r io.Reader) ([]string, error) {
	var targets []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return targets, nil
}

// expandGrid renders the URL template once per dimension combination.
func expandGrid(gc GridConfig) ([]string, error) {
	// use missingkey=error to fail fast on missing template variables
	tmpl, err := template.New("url").Option("missingkey=error").Parse(gc.URLTemplate)
	if err != nil {
		return nil, err
	}

	combinations := cartesianProduct(gc.Dimensions)

	urls := make([]string, 0, len(combinations))
	for _, combo := range combinations {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, combo); err != nil {
			return nil, fmt.Errorf("dimensions %v: template execution failed: %w", combo, err)
		}
		url := buf.String()
		if err := validateURL(url); err != nil {
			return nil, fmt.Errorf("dimensions %v: %w", combo, err)
		}
		urls = append(urls, url)
	}

	return urls, nil
}

// cartesianProduct generates all combinations of dimension values.
// Keys are visited in sorted order, values in declaration order.
func cartesianProduct(dimensions map[string][]string) []map[string]string {
	if len(dimensions) == 0 {
		return nil
	}

	keys := make([]string, 0, len(dimensions))
	for k := range dimensions {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// start with single empty combination
	result := []map[string]string{{}}

	for _, key := range keys {
		var next []map[string]string
		for _, combo := range result {
			for _, val := range dimensions[key] {
				newCombo := make(map[string]string, len(combo)+1)
				for k, v := range combo {
					newCombo[k] = v
				}
				newCombo[key] = val
				next = append(next, newCombo)
			}
		}
		result = next
	}

	return result
}
