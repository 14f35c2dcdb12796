package router

import (
	"testing"

	"github.com/patmux/patmux/pkg/common"
)

// TestAutoNameLiteral tests that purely literal routes are named after
// their path.
func TestAutoNameLiteral(t *testing.T) {
	r := newTestRouter()
	r.GET("/about/team", func(ctx *common.Context) any { return nil })

	uri, ok := r.Resolve("about.team", nil)
	if !ok {
		t.Fatal("Expected about.team to resolve")
	}
	if uri != "/about/team" {
		t.Errorf("Expected URI %q, got %q", "/about/team", uri)
	}
}

// TestAutoNameSkipsParameterized tests that any parameter syntax
// disables auto-naming.
func TestAutoNameSkipsParameterized(t *testing.T) {
	r := newTestRouter()
	r.GET("/user/{id}", func(ctx *common.Context) any { return nil })
	r.GET("/page/?", func(ctx *common.Context) any { return nil })
	r.GET("/files/*", func(ctx *common.Context) any { return nil })

	for _, rt := range r.Routes() {
		if rt.Name != "" {
			t.Errorf("Expected %q to stay unnamed, got %q", rt.Pattern, rt.Name)
		}
	}
}

// TestExplicitName tests naming a route and substituting arguments.
func TestExplicitName(t *testing.T) {
	r := newTestRouter()
	r.GET("/user/{id}", func(ctx *common.Context) any { return nil }).Name("user.show")

	uri, ok := r.Resolve("user.show", map[string]string{"id": "42"})
	if !ok {
		t.Fatal("Expected user.show to resolve")
	}
	if uri != "/user/42" {
		t.Errorf("Expected URI %q, got %q", "/user/42", uri)
	}

	// Without arguments the placeholder stays
	uri, _ = r.Resolve("user.show", nil)
	if uri != "/user/:id" {
		t.Errorf("Expected URI %q, got %q", "/user/:id", uri)
	}
}

// TestRootName tests that the root route resolves to a bare slash.
func TestRootName(t *testing.T) {
	r := newTestRouter()
	r.GET("/", func(ctx *common.Context) any { return nil }).Name("home")

	uri, ok := r.Resolve("home", nil)
	if !ok {
		t.Fatal("Expected home to resolve")
	}
	if uri != "/" {
		t.Errorf("Expected URI %q, got %q", "/", uri)
	}
}

// TestNameLastWriteWins tests that re-registering a name replaces its
// template.
func TestNameLastWriteWins(t *testing.T) {
	r := newTestRouter()
	r.GET("/old", func(ctx *common.Context) any { return nil }).Name("page")
	r.GET("/new", func(ctx *common.Context) any { return nil }).Name("page")

	uri, _ := r.Resolve("page", nil)
	if uri != "/new" {
		t.Errorf("Expected URI %q, got %q", "/new", uri)
	}
}

// TestNameCaseInsensitive tests that names store and resolve
// case-insensitively.
func TestNameCaseInsensitive(t *testing.T) {
	r := newTestRouter()
	r.GET("/profile", func(ctx *common.Context) any { return nil }).Name("User.Profile")

	if _, ok := r.Resolve("USER.PROFILE", nil); !ok {
		t.Error("Expected an upper-cased lookup to resolve")
	}
	if _, ok := r.Resolve("user.profile", nil); !ok {
		t.Error("Expected a lower-cased lookup to resolve")
	}
}

// TestResolveLongerKeysFirst tests that substitution never lets one
// placeholder clobber a longer one sharing its prefix.
func TestResolveLongerKeysFirst(t *testing.T) {
	r := newTestRouter()
	r.GET("/grid/{id}/{idx}", func(ctx *common.Context) any { return nil }).Name("grid.cell")

	uri, ok := r.Resolve("grid.cell", map[string]string{"id": "3", "idx": "9"})
	if !ok {
		t.Fatal("Expected grid.cell to resolve")
	}
	if uri != "/grid/3/9" {
		t.Errorf("Expected URI %q, got %q", "/grid/3/9", uri)
	}
}

// TestResolveUnknownName tests the miss case.
func TestResolveUnknownName(t *testing.T) {
	r := newTestRouter()
	if uri, ok := r.Resolve("nowhere", nil); ok {
		t.Errorf("Expected a miss, got %q", uri)
	}
}

// TestURLForBaseURL tests that URLFor joins the base URL without a
// doubled slash.
func TestURLForBaseURL(t *testing.T) {
	r := New(Config{BaseURL: "https://example.com/"})
	r.GET("/about", func(ctx *common.Context) any { return nil })

	url, ok := r.URLFor("about", nil)
	if !ok {
		t.Fatal("Expected about to resolve")
	}
	if url != "https://example.com/about" {
		t.Errorf("Expected URL %q, got %q", "https://example.com/about", url)
	}
}

// TestSlashNamesBecomeDots tests that explicit names given as paths are
// normalized to dotted form.
func TestSlashNamesBecomeDots(t *testing.T) {
	r := newTestRouter()
	r.GET("/x/{n}", func(ctx *common.Context) any { return nil }).Name("/x/show/")

	if _, ok := r.Resolve("x.show", nil); !ok {
		t.Error("Expected x.show to resolve")
	}
}
