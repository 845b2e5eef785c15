package group

import (
	"testing"

	"github.com/thinkbox/apigen/internal/config"
	"github.com/thinkbox/apigen/internal/element"
	"github.com/thinkbox/apigen/internal/model"
	"github.com/thinkbox/apigen/internal/names"
)

func makeElements(cfg config.Config) []*element.Element {
	file := &model.File{Path: "a.php", Annotations: model.Annotations{"package": {"Acme"}}}
	widget := &model.Symbol{Name: `Acme\Widget`, Kind: model.Class, Namespace: "Acme", Tokenized: true, File: file}
	count := &model.Symbol{Name: `Acme\Widget::count`, Kind: model.Method, Namespace: "Acme", Tokenized: true,
		File: file, DeclaringClass: widget}
	hidden := &model.Symbol{Name: `Acme\Hidden`, Kind: model.Class, Namespace: "Acme", Tokenized: true, File: file,
		Annotations: model.Annotations{"ignore": {""}}}
	hiddenMember := &model.Symbol{Name: `Acme\Hidden::run`, Kind: model.Method, Namespace: "Acme", Tokenized: true,
		File: file, DeclaringClass: hidden}
	helper := &model.Symbol{Name: "helper", Kind: model.Function, Tokenized: true,
		File: &model.File{Path: "b.php", Annotations: model.Annotations{}}}
	vendor := &model.Symbol{Name: `Vendor\Lib`, Kind: model.Class, Namespace: "Vendor", Tokenized: true,
		File: &model.File{Path: "c.php", Annotations: model.Annotations{"package": {"acme"}}}}
	ext := &model.Symbol{Name: "SPL", Kind: model.Extension, Internal: true}

	reg := element.NewRegistry(cfg, names.New())
	return reg.Elements([]*model.Symbol{vendor, widget, count, hidden, hiddenMember, helper, ext})
}

func elementNames(elems []*element.Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.Name()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDocumented(t *testing.T) {
	t.Parallel()

	got := elementNames(Documented(makeElements(config.Default()), false))
	want := []string{`Acme\Widget`, `Acme\Widget::count`, `Vendor\Lib`, "helper"}
	if !equal(got, want) {
		t.Errorf("Documented = %v, want %v", got, want)
	}
}

func TestDocumentedMainOnly(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Main = "Acme"
	got := elementNames(Documented(makeElements(cfg), true))
	want := []string{`Acme\Widget`, `Acme\Widget::count`}
	if !equal(got, want) {
		t.Errorf("Documented = %v, want %v", got, want)
	}
}

func TestBuildByPackage(t *testing.T) {
	t.Parallel()

	groups := Build(Documented(makeElements(config.Default()), false), ByPackage)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d: %+v", len(groups), groups)
	}
	// Acme\Widget is grouped first, so its spelling wins over Vendor\Lib's "acme".
	if groups[0].Name != "Acme" || groups[1].Name != "None" {
		t.Errorf("group names = %q, %q", groups[0].Name, groups[1].Name)
	}
	if got := elementNames(groups[0].Elements); !equal(got, []string{`Acme\Widget`, `Acme\Widget::count`, `Vendor\Lib`}) {
		t.Errorf("Acme elements = %v", got)
	}
	if got := elementNames(groups[1].Elements); !equal(got, []string{"helper"}) {
		t.Errorf("None elements = %v", got)
	}
}

func TestBuildByNamespace(t *testing.T) {
	t.Parallel()

	groups := Build(Documented(makeElements(config.Default()), false), ByNamespace)
	var got []string
	for _, g := range groups {
		got = append(got, g.Name)
	}
	if !equal(got, []string{"Acme", "None", "Vendor"}) {
		t.Errorf("group names = %v", got)
	}
}

func TestFilterByName(t *testing.T) {
	t.Parallel()

	elems := Documented(makeElements(config.Default()), false)
	got := elementNames(FilterByName(elems, "widget"))
	if !equal(got, []string{`Acme\Widget`, `Acme\Widget::count`}) {
		t.Errorf("FilterByName = %v", got)
	}
}

func TestParseBy(t *testing.T) {
	t.Parallel()

	if by, err := ParseBy("namespace"); err != nil || by != ByNamespace {
		t.Errorf("ParseBy(namespace) = %q, %v", by, err)
	}
	if _, err := ParseBy("file"); err == nil {
		t.Error("ParseBy(file) should fail")
	}
}
