package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".php", "php"},
		{".PHP", "php"},
		{".inc", "php"},
		{".py", ""},
		{".go", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguageRegistered(t *testing.T) {
	t.Parallel()

	if PHP.NewParser() == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestLookupBuiltin(t *testing.T) {
	t.Parallel()

	b, ok := LookupBuiltin(`\invalidargumentexception`)
	if !ok {
		t.Fatal("InvalidArgumentException not found")
	}
	if b.Name != "InvalidArgumentException" || b.Extension != "SPL" || b.Parent != "LogicException" {
		t.Errorf("unexpected builtin: %+v", b)
	}

	if _, ok := LookupBuiltin("Acme\\Widget"); ok {
		t.Error("user class reported as builtin")
	}
}
