package discover

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDiscoverPHPFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.php", "<?php echo 'hello';")
	writeFile(t, dir, "lib/util.php", "<?php function helper() {}")
	// Non-PHP file should be ignored
	writeFile(t, dir, "readme.txt", "hello")
	// Hidden file should be ignored
	writeFile(t, dir, ".hidden.php", "<?php")

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}

	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(entries), paths)
	}

	// Should be sorted
	if entries[0].Path != filepath.Join("lib", "util.php") {
		t.Errorf("entry 0: got %q", entries[0].Path)
	}
	if entries[1].Path != "main.php" {
		t.Errorf("entry 1: got %q", entries[1].Path)
	}
}

func TestDiscoverSkipDirs(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "main.php", "<?php")
	writeFile(t, dir, "node_modules/pkg.php", "<?php")
	writeFile(t, dir, "cache/cached.php", "<?php")
	writeFile(t, dir, ".hidden/secret.php", "<?php")

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Path != "main.php" {
		t.Errorf("expected main.php, got %q", entries[0].Path)
	}
}

func TestDiscoverExcludePatterns(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	writeFile(t, dir, "src/Widget.php", "<?php")
	writeFile(t, dir, "tests/WidgetTest.php", "<?php")
	writeFile(t, dir, "src/legacy.inc", "<?php")

	entries, err := Files(dir, []string{"tests/", "*.inc"})
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d: %v", len(entries), entries)
	}
	if entries[0].Path != filepath.Join("src", "Widget.php") {
		t.Errorf("expected src/Widget.php, got %q", entries[0].Path)
	}
}

func TestDiscoverSymlinksSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "real.php", "<?php")

	// Create symlink
	err := os.Symlink(filepath.Join(dir, "real.php"), filepath.Join(dir, "link.php"))
	if err != nil {
		t.Skip("symlinks not supported")
	}

	entries, err := Files(dir, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 entry (no symlink), got %d", len(entries))
	}
	if entries[0].Path != "real.php" {
		t.Errorf("expected real.py, got %q", entries[0].Path)
	}
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
