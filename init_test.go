package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitWritesDefaultConfig(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "apigen.yaml")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", path}, &stdout, &stderr); err != nil {
		t.Fatalf("run init: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"include_builtins", "include_deprecated", "include_internal", "max_file_size"} {
		if !strings.Contains(string(data), key) {
			t.Errorf("missing %s in:\n%s", key, data)
		}
	}
	if !strings.Contains(stderr.String(), "wrote default configuration") {
		t.Errorf("stderr: %q", stderr.String())
	}
}

func TestInitRefusesOverwrite(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "apigen.yaml")
	if err := os.WriteFile(path, []byte("main: Keep\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", path}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for existing file")
	}
	data, _ := os.ReadFile(path)
	if string(data) != "main: Keep\n" {
		t.Errorf("file was modified: %q", data)
	}

	if err := run([]string{"init", "--force", path}, &stdout, &stderr); err != nil {
		t.Fatalf("run init --force: %v", err)
	}
	data, _ = os.ReadFile(path)
	if strings.Contains(string(data), "Keep") {
		t.Errorf("--force did not overwrite: %q", data)
	}
}

func TestInitConfigIsLoadable(t *testing.T) {
	t.Parallel()
	dir := createSampleProject(t)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"init", filepath.Join(dir, "apigen.yaml")}, &stdout, &stderr); err != nil {
		t.Fatalf("run init: %v", err)
	}

	out := runOK(t, dir)
	if !strings.Contains(out, `"Acme\\Widget"`) {
		t.Errorf("generation with written config failed:\n%s", out)
	}
}
