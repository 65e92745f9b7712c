package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, tmpDir, "urls.txt", "# staging\nhttps://a.example.com\n\nhttps://b.example.com\n")
	configPath := writeFile(t, tmpDir, "config.yaml", `
workers: 20
timeout: 3s
retries: 2
period: 30s
targets:
  - https://example.com
target_file: urls.txt
grids:
  - url_template: "https://{{.env}}.example.com/health"
    dimensions:
      env: [prod, staging]
`)

	output, _, err := execute(t, nil, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Workers: 20",
		"Timeout: 3s",
		"Retries: 2",
		"Period:  30s",
		"1 inline + 2 from file + 2 from grids = 5 total",
	}
	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_DefaultsWithoutPeriod(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", "targets:\n  - https://example.com\n")

	output, _, err := execute(t, nil, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}
	for _, phrase := range []string{"Workers: 50", "Period:  off", "= 1 total"} {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "invalid.yaml", `
targets:
  - ftp://example.com
`)

	_, _, err := execute(t, nil, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("expected error for non-http target")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error should mention invalid config, got: %v", err)
	}
}

func TestRunValidate_MissingTargetFile(t *testing.T) {
	configPath := writeFile(t, t.TempDir(), "config.yaml", "target_file: missing.txt\n")

	_, _, err := execute(t, nil, "validate", "-c", configPath)
	if err == nil {
		t.Fatal("expected error for missing target file")
	}
}

func TestRunValidate_FileNotFound(t *testing.T) {
	_, _, err := execute(t, nil, "validate", "-c", "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestRunValidate_RequiresConfigFlag(t *testing.T) {
	_, _, err := execute(t, nil, "validate")
	if err == nil {
		t.Fatal("expected error without --config")
	}
}
